package common

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/pelletier/go-toml/v2"
)

// Config represents the application configuration
type Config struct {
	Environment string           `toml:"environment"` // "development" or "production"
	Server      ServerConfig     `toml:"server"`
	Storage     StorageConfig    `toml:"storage"`
	Logging     LoggingConfig    `toml:"logging"`
	GitHub      GitHubConfig     `toml:"github"`
	Summarizer  SummarizerConfig `toml:"summarizer"`
	Document    DocumentConfig   `toml:"document"`
	PDF         PDFConfig        `toml:"pdf"`
	Gemini      GeminiConfig     `toml:"gemini"`
	Claude      ClaudeConfig     `toml:"claude"`
	LLM         LLMConfig        `toml:"llm"`
}

type ServerConfig struct {
	Port         int    `toml:"port" validate:"min=1,max=65535"`
	Host         string `toml:"host" validate:"required"`
	WriteTimeout string `toml:"write_timeout"` // Covers a full summarize step including retry waits (default: "15m")
}

type StorageConfig struct {
	Badger BadgerConfig `toml:"badger"`
}

// BadgerConfig represents BadgerDB-specific configuration
type BadgerConfig struct {
	Path           string `toml:"path" validate:"required"` // Database directory path
	ResetOnStartup bool   `toml:"reset_on_startup"`         // Delete database on startup for clean test runs
}

type LoggingConfig struct {
	Level  string   `toml:"level" validate:"oneof=trace debug info warn error"` // "debug", "info", "warn", "error"
	Output []string `toml:"output"`                                             // "stdout", "file"
}

// GitHubConfig controls repository discovery and raw content download
type GitHubConfig struct {
	Token      string  `toml:"token"`                              // Optional personal access token
	APIBaseURL string  `toml:"api_base_url" validate:"required"`   // REST API root (default: https://api.github.com/)
	RawBaseURL string  `toml:"raw_base_url" validate:"required"`   // Raw content host (default: https://raw.githubusercontent.com)
	WebBaseURL string  `toml:"web_base_url" validate:"required"`   // Browsable host used for links (default: https://github.com)
	RateLimit  float64 `toml:"rate_limit" validate:"gt=0"`         // Raw downloads per second
	Timeout    string  `toml:"timeout"`                            // Per-request timeout as duration string (default: "30s")
	DefaultRef string  `toml:"default_branch" validate:"required"` // Branch used when the repository reports none
}

// SummarizerConfig controls per-file summarization
type SummarizerConfig struct {
	Model            string  `toml:"model"`                                         // Overrides the provider's model when set
	MaxContentChars  int     `toml:"max_content_chars" validate:"gt=0"`             // Truncation budget in characters (default: 3000)
	MaxAttempts      int     `toml:"max_attempts" validate:"gt=0"`                  // Total attempts per file (default: 2)
	RetryDelay       string  `toml:"retry_delay"`                                   // Wait between attempts (default: "30s")
	MaxRetryDelay    string  `toml:"max_retry_delay"`                               // Upper bound on the wait (default: "2m")
	BackoffFactor    float64 `toml:"backoff_multiplier" validate:"gte=1"`           // Delay multiplier per attempt (default: 1.0)
	Temperature      float32 `toml:"temperature" validate:"gte=0,lte=2"`            // Sampling temperature (default: 0.2)
	MaxTokens        int     `toml:"max_tokens" validate:"gt=0"`                    // Response token cap (default: 200)
	ImageMatch       string  `toml:"image_match" validate:"oneof=segment prefix"`   // "segment" or "prefix"
	TemplatesDir     string  `toml:"templates_dir"`                                 // Directory with prompt template overrides
	PromptTemplate   string  `toml:"prompt_template" validate:"required"`           // Prompt template name (default: "summarize")
	TruncationMarker string  `toml:"truncation_marker"`                             // Appended after truncated content
}

// DocumentConfig controls onboarding document assembly
type DocumentConfig struct {
	DefaultAuthor     string              `toml:"default_author"`
	DefaultCompany    string              `toml:"default_company"`
	CategoryThreshold int                 `toml:"category_threshold" validate:"gte=0"` // Group by category above this many summaries (default: 20)
	Categories        []CategoryRule      `toml:"categories"`                          // Ordered; first match wins
	FallbackCategory  string              `toml:"fallback_category" validate:"required"`
	GalleryBuckets    []GalleryBucketRule `toml:"gallery_buckets"` // Ordered; first match wins
	GalleryFallback   string              `toml:"gallery_fallback" validate:"required"`
	OutputDir         string              `toml:"output_dir"` // Where the CLI writes generated packs
}

// CategoryRule assigns a markdown file to a TOC category by file name or directory keyword
type CategoryRule struct {
	Name        string   `toml:"name"`
	FileNames   []string `toml:"file_names"`   // Lowercased base names
	DirKeywords []string `toml:"dir_keywords"` // Substrings of the lowercased directory
}

// GalleryBucketRule assigns an image to a gallery bucket by path keyword
type GalleryBucketRule struct {
	Name     string   `toml:"name"`
	Keywords []string `toml:"keywords"`
}

// PDFConfig controls optional PDF rendering
type PDFConfig struct {
	Mode       string `toml:"mode" validate:"oneof=remote chrome basic disabled"` // "remote", "chrome", "basic", "disabled"
	ServiceURL string `toml:"service_url"`                                        // Remote rendering service root (default: http://localhost:5165)
	Endpoint   string `toml:"endpoint"`                                           // Remote rendering path (default: /api/pdf/generate)
	Timeout    string `toml:"timeout"`                                            // Render timeout (default: "120s")
	Validate   bool   `toml:"validate"`                                           // Validate rendered bytes with pdfcpu
	ChromePath string `toml:"chrome_path"`                                        // Browser binary for chrome mode (default: auto-detect)
}

// GeminiConfig contains Google Gemini API configuration
type GeminiConfig struct {
	APIKey      string  `toml:"api_key"`     // Google Gemini API key
	Model       string  `toml:"model"`       // Model for summaries (default: "gemini-2.5-flash")
	Timeout     string  `toml:"timeout"`     // Operation timeout as duration string (default: "2m")
	Temperature float32 `toml:"temperature"` // Completion temperature (default: 0.2)
}

// ClaudeConfig contains Anthropic Claude API configuration
type ClaudeConfig struct {
	APIKey      string  `toml:"api_key"`     // Anthropic API key
	Model       string  `toml:"model"`       // Model for summaries (default: "claude-haiku-4-5")
	MaxTokens   int     `toml:"max_tokens"`  // Maximum tokens in response (default: 1024)
	Timeout     string  `toml:"timeout"`     // Operation timeout as duration string (default: "2m")
	Temperature float32 `toml:"temperature"` // Completion temperature (default: 0.2)
}

// LLMProvider represents the AI provider type
type LLMProvider string

const (
	// LLMProviderGemini uses Google Gemini API
	LLMProviderGemini LLMProvider = "gemini"
	// LLMProviderClaude uses Anthropic Claude API
	LLMProviderClaude LLMProvider = "claude"
)

// LLMConfig contains unified configuration for all AI providers
type LLMConfig struct {
	DefaultProvider LLMProvider `toml:"default_provider" validate:"oneof=gemini claude"` // Default provider: "gemini" or "claude" (default: "claude")
}

// NewDefaultConfig creates a configuration with default values
func NewDefaultConfig() *Config {
	return &Config{
		Environment: "development",
		Server: ServerConfig{
			Port:         8085,
			Host:         "localhost",
			WriteTimeout: "15m",
		},
		Storage: StorageConfig{
			Badger: BadgerConfig{
				Path: "./data",
			},
		},
		Logging: LoggingConfig{
			Level:  "info",
			Output: []string{"stdout", "file"},
		},
		GitHub: GitHubConfig{
			APIBaseURL: "https://api.github.com/",
			RawBaseURL: "https://raw.githubusercontent.com",
			WebBaseURL: "https://github.com",
			RateLimit:  5,
			Timeout:    "30s",
			DefaultRef: "main",
		},
		Summarizer: SummarizerConfig{
			MaxContentChars:  3000,
			MaxAttempts:      2,
			RetryDelay:       "30s",
			MaxRetryDelay:    "2m",
			BackoffFactor:    1.0,
			Temperature:      0.2,
			MaxTokens:        200,
			ImageMatch:       "segment",
			TemplatesDir:     "./templates",
			PromptTemplate:   "summarize",
			TruncationMarker: "\n\n[... Content truncated for brevity ...]",
		},
		Document: DocumentConfig{
			DefaultAuthor:     "Riddhi Shah",
			DefaultCompany:    "Bazel Inc.",
			CategoryThreshold: 20,
			Categories: []CategoryRule{
				{Name: "README and Main Docs", FileNames: []string{"readme.md", "index.md"}},
				{Name: "Documentation", DirKeywords: []string{"doc", "guide"}},
				{Name: "Guides and Tutorials", DirKeywords: []string{"tutorial", "example"}},
				{Name: "API Reference", DirKeywords: []string{"api", "reference"}},
			},
			FallbackCategory: "Other Files",
			GalleryBuckets: []GalleryBucketRule{
				{Name: "Architecture & Diagrams", Keywords: []string{"architecture", "diagram", "flow", "design"}},
				{Name: "Screenshots & Demos", Keywords: []string{"screenshot", "screen", "demo"}},
			},
			GalleryFallback: "Other Images",
			OutputDir:       "./output",
		},
		PDF: PDFConfig{
			Mode:       "remote",
			ServiceURL: "http://localhost:5165",
			Endpoint:   "/api/pdf/generate",
			Timeout:    "120s",
			Validate:   true,
		},
		Gemini: GeminiConfig{
			Model:       "gemini-2.5-flash",
			Timeout:     "2m",
			Temperature: 0.2,
		},
		Claude: ClaudeConfig{
			Model:       "claude-haiku-4-5",
			MaxTokens:   1024,
			Timeout:     "2m",
			Temperature: 0.2,
		},
		LLM: LLMConfig{
			DefaultProvider: LLMProviderClaude,
		},
	}
}

// LoadFromFiles loads configuration from multiple files with priority: default -> file1 -> file2 -> ... -> env
// Later files override earlier files. CLI flags are applied afterwards by the caller.
func LoadFromFiles(paths ...string) (*Config, error) {
	config := NewDefaultConfig()

	for i, path := range paths {
		if path == "" {
			continue
		}

		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}

		if err := toml.Unmarshal(data, config); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s (file %d of %d): %w", path, i+1, len(paths), err)
		}
	}

	applyEnvOverrides(config)

	return config, nil
}

// applyEnvOverrides applies environment variable overrides to config
func applyEnvOverrides(config *Config) {
	if env := os.Getenv("ONBOARDER_ENV"); env != "" {
		config.Environment = env
	}

	// Server configuration
	if port := os.Getenv("ONBOARDER_SERVER_PORT"); port != "" {
		if p, err := strconv.Atoi(port); err == nil {
			config.Server.Port = p
		}
	}
	if host := os.Getenv("ONBOARDER_SERVER_HOST"); host != "" {
		config.Server.Host = host
	}

	// Storage configuration
	if badgerPath := os.Getenv("ONBOARDER_BADGER_PATH"); badgerPath != "" {
		config.Storage.Badger.Path = badgerPath
	}

	// Logging configuration
	if level := os.Getenv("ONBOARDER_LOG_LEVEL"); level != "" {
		config.Logging.Level = level
	}
	if output := os.Getenv("ONBOARDER_LOG_OUTPUT"); output != "" {
		outputs := []string{}
		for _, o := range strings.Split(output, ",") {
			if trimmed := strings.TrimSpace(o); trimmed != "" {
				outputs = append(outputs, trimmed)
			}
		}
		if len(outputs) > 0 {
			config.Logging.Output = outputs
		}
	}

	// GitHub configuration
	if token := os.Getenv("GITHUB_TOKEN"); token != "" {
		config.GitHub.Token = token
	}
	if token := os.Getenv("ONBOARDER_GITHUB_TOKEN"); token != "" {
		config.GitHub.Token = token // ONBOARDER_ prefix takes priority
	}
	if apiBase := os.Getenv("ONBOARDER_GITHUB_API_BASE_URL"); apiBase != "" {
		config.GitHub.APIBaseURL = apiBase
	}
	if rawBase := os.Getenv("ONBOARDER_GITHUB_RAW_BASE_URL"); rawBase != "" {
		config.GitHub.RawBaseURL = rawBase
	}

	// Summarizer configuration
	if model := os.Getenv("ONBOARDER_SUMMARIZER_MODEL"); model != "" {
		config.Summarizer.Model = model
	}
	if attempts := os.Getenv("ONBOARDER_SUMMARIZER_MAX_ATTEMPTS"); attempts != "" {
		if a, err := strconv.Atoi(attempts); err == nil {
			config.Summarizer.MaxAttempts = a
		}
	}
	if delay := os.Getenv("ONBOARDER_SUMMARIZER_RETRY_DELAY"); delay != "" {
		config.Summarizer.RetryDelay = delay
	}
	if match := os.Getenv("ONBOARDER_SUMMARIZER_IMAGE_MATCH"); match != "" {
		config.Summarizer.ImageMatch = match
	}

	// Document configuration
	if author := os.Getenv("ONBOARDER_DEFAULT_AUTHOR"); author != "" {
		config.Document.DefaultAuthor = author
	}
	if company := os.Getenv("ONBOARDER_DEFAULT_COMPANY"); company != "" {
		config.Document.DefaultCompany = company
	}

	// PDF configuration
	if mode := os.Getenv("ONBOARDER_PDF_MODE"); mode != "" {
		config.PDF.Mode = mode
	}
	if serviceURL := os.Getenv("ONBOARDER_PDF_SERVICE_URL"); serviceURL != "" {
		config.PDF.ServiceURL = serviceURL
	}

	// Gemini configuration
	if apiKey := os.Getenv("GEMINI_API_KEY"); apiKey != "" {
		config.Gemini.APIKey = apiKey
	}
	if apiKey := os.Getenv("ONBOARDER_GEMINI_API_KEY"); apiKey != "" {
		config.Gemini.APIKey = apiKey
	}
	if model := os.Getenv("ONBOARDER_GEMINI_MODEL"); model != "" {
		config.Gemini.Model = model
	}

	// Claude configuration
	if apiKey := os.Getenv("ANTHROPIC_API_KEY"); apiKey != "" {
		config.Claude.APIKey = apiKey
	}
	if apiKey := os.Getenv("ONBOARDER_CLAUDE_API_KEY"); apiKey != "" {
		config.Claude.APIKey = apiKey
	}
	if model := os.Getenv("ONBOARDER_CLAUDE_MODEL"); model != "" {
		config.Claude.Model = model
	}

	// LLM provider configuration
	if provider := os.Getenv("ONBOARDER_LLM_DEFAULT_PROVIDER"); provider != "" {
		config.LLM.DefaultProvider = LLMProvider(provider)
	}
}

// ApplyFlagOverrides applies command-line flag overrides to config
func ApplyFlagOverrides(config *Config, port int, host string) {
	if port > 0 {
		config.Server.Port = port
	}
	if host != "" {
		config.Server.Host = host
	}
}

// Validate checks the struct tags on the loaded configuration
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	for _, d := range []string{c.Server.WriteTimeout, c.GitHub.Timeout, c.Summarizer.RetryDelay, c.Summarizer.MaxRetryDelay, c.PDF.Timeout} {
		if d == "" {
			continue
		}
		if _, err := time.ParseDuration(d); err != nil {
			return fmt.Errorf("invalid configuration: duration %q: %w", d, err)
		}
	}
	return nil
}

// ResolveAPIKey returns the key for the configured default provider,
// or an empty string when none is available
func (c *Config) ResolveAPIKey() string {
	switch c.LLM.DefaultProvider {
	case LLMProviderGemini:
		return c.Gemini.APIKey
	default:
		return c.Claude.APIKey
	}
}

// IsProduction returns true if the environment is set to production
func (c *Config) IsProduction() bool {
	env := strings.ToLower(strings.TrimSpace(c.Environment))
	return env == "production" || env == "prod"
}

// ParseDurationOr parses a duration string, returning fallback when empty or invalid
func ParseDurationOr(s string, fallback time.Duration) time.Duration {
	if s == "" {
		return fallback
	}
	d, err := time.ParseDuration(s)
	if err != nil {
		return fallback
	}
	return d
}
