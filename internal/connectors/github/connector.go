package github

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/go-github/v57/github"
	"github.com/ternarybob/arbor"
	"golang.org/x/oauth2"
	"golang.org/x/time/rate"

	"github.com/ternarybob/onboarder/internal/common"
	"github.com/ternarybob/onboarder/internal/interfaces"
)

const (
	DefaultAPIBaseURL = "https://api.github.com/"
	DefaultRawBaseURL = "https://raw.githubusercontent.com"
	DefaultBranch     = "main"
	DefaultRateLimit  = 5.0
	DefaultTimeout    = 30 * time.Second
)

// Connector reads repository metadata, file trees and raw file content from GitHub.
// It implements interfaces.RepositoryFetcher.
type Connector struct {
	client        *github.Client
	httpClient    *http.Client
	apiBaseURL    string
	rawBaseURL    string
	defaultBranch string
	token         string
	limiter       *rate.Limiter
	logger        arbor.ILogger
}

// Option configures a Connector
type Option func(*Connector)

// WithAPIBaseURL sets the REST API root (used by tests and GitHub Enterprise)
func WithAPIBaseURL(baseURL string) Option {
	return func(c *Connector) {
		c.apiBaseURL = baseURL
	}
}

// WithRawBaseURL sets the raw content host
func WithRawBaseURL(baseURL string) Option {
	return func(c *Connector) {
		c.rawBaseURL = strings.TrimSuffix(baseURL, "/")
	}
}

// WithHTTPClient sets a custom HTTP client
func WithHTTPClient(client *http.Client) Option {
	return func(c *Connector) {
		c.httpClient = client
	}
}

// WithToken authenticates API and raw requests with a personal access token
func WithToken(token string) Option {
	return func(c *Connector) {
		c.token = token
	}
}

// WithRateLimit limits raw downloads to requestsPerSecond
func WithRateLimit(requestsPerSecond float64) Option {
	return func(c *Connector) {
		if requestsPerSecond > 0 {
			burst := int(requestsPerSecond)
			if burst < 1 {
				burst = 1
			}
			c.limiter = rate.NewLimiter(rate.Limit(requestsPerSecond), burst)
		}
	}
}

// WithDefaultBranch sets the branch used when the repository reports none
func WithDefaultBranch(branch string) Option {
	return func(c *Connector) {
		if branch != "" {
			c.defaultBranch = branch
		}
	}
}

// WithLogger sets the logger
func WithLogger(logger arbor.ILogger) Option {
	return func(c *Connector) {
		c.logger = logger
	}
}

// NewConnector creates a GitHub connector. Without a token, requests are anonymous
// and subject to GitHub's unauthenticated rate limits.
func NewConnector(opts ...Option) (*Connector, error) {
	c := &Connector{
		apiBaseURL:    DefaultAPIBaseURL,
		rawBaseURL:    DefaultRawBaseURL,
		defaultBranch: DefaultBranch,
		limiter:       rate.NewLimiter(rate.Limit(DefaultRateLimit), int(DefaultRateLimit)),
	}

	for _, opt := range opts {
		opt(c)
	}

	if c.logger == nil {
		c.logger = common.GetLogger()
	}

	if c.httpClient == nil {
		c.httpClient = &http.Client{Timeout: DefaultTimeout}
	}

	if c.token != "" {
		ts := oauth2.StaticTokenSource(
			&oauth2.Token{AccessToken: c.token},
		)
		ctx := context.WithValue(context.Background(), oauth2.HTTPClient, c.httpClient)
		authed := oauth2.NewClient(ctx, ts)
		authed.Timeout = c.httpClient.Timeout
		c.httpClient = authed
	}

	c.client = github.NewClient(c.httpClient)
	c.client.UserAgent = common.UserAgent()

	baseURL := c.apiBaseURL
	if !strings.HasSuffix(baseURL, "/") {
		baseURL += "/"
	}
	parsed, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid github api base url %q: %w", c.apiBaseURL, err)
	}
	c.client.BaseURL = parsed

	return c, nil
}

// NewConnectorFromConfig creates a connector from the [github] config section
func NewConnectorFromConfig(cfg common.GitHubConfig, logger arbor.ILogger) (*Connector, error) {
	return NewConnector(
		WithAPIBaseURL(cfg.APIBaseURL),
		WithRawBaseURL(cfg.RawBaseURL),
		WithToken(cfg.Token),
		WithRateLimit(cfg.RateLimit),
		WithDefaultBranch(cfg.DefaultRef),
		WithHTTPClient(&http.Client{Timeout: common.ParseDurationOr(cfg.Timeout, DefaultTimeout)}),
		WithLogger(logger),
	)
}

// Ensure interface compliance
var _ interfaces.RepositoryFetcher = (*Connector)(nil)
