// Package templates provides embedded TOML prompt templates with user override support.
// Templates are loaded with resolution order:
// 1. User override: templatesDir/{name}.toml
// 2. Embedded default: internal/templates/{name}.toml
package templates

import (
	"bytes"
	"embed"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"text/template"

	"github.com/pelletier/go-toml/v2"
)

//go:embed *.toml
var fs embed.FS

// TemplateType defines the type of template
type TemplateType string

const (
	// TemplateTypePrompt is a system + user prompt pair for one generation call
	TemplateTypePrompt TemplateType = "prompt"
)

// Template represents a loaded template
type Template struct {
	Type   TemplateType `toml:"type"`
	System string       `toml:"system"` // System instruction
	Prompt string       `toml:"prompt"` // text/template source for the user message

	compiled *template.Template
}

// GetTemplate loads a template by name with resolution order:
// 1. User override: templatesDir/{name}.toml
// 2. Embedded default: internal/templates/{name}.toml
func GetTemplate(name string, templatesDir string) (*Template, error) {
	if templatesDir != "" {
		userPath := filepath.Join(templatesDir, name+".toml")
		if data, err := os.ReadFile(userPath); err == nil {
			return parseTemplate(name, data)
		}
	}

	data, err := fs.ReadFile(name + ".toml")
	if err != nil {
		return nil, fmt.Errorf("template '%s' not found (checked user override and embedded)", name)
	}
	return parseTemplate(name, data)
}

// ListEmbeddedTemplates returns names of all embedded templates
func ListEmbeddedTemplates() ([]string, error) {
	entries, err := fs.ReadDir(".")
	if err != nil {
		return nil, err
	}

	var names []string
	for _, entry := range entries {
		if !entry.IsDir() && strings.HasSuffix(entry.Name(), ".toml") {
			names = append(names, strings.TrimSuffix(entry.Name(), ".toml"))
		}
	}
	return names, nil
}

// Execute renders the prompt with data
func (t *Template) Execute(data interface{}) (string, error) {
	var buf bytes.Buffer
	if err := t.compiled.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("failed to execute template: %w", err)
	}
	return buf.String(), nil
}

func parseTemplate(name string, data []byte) (*Template, error) {
	var t Template
	if err := toml.Unmarshal(data, &t); err != nil {
		return nil, fmt.Errorf("failed to parse template: %w", err)
	}
	if t.Type != TemplateTypePrompt {
		return nil, fmt.Errorf("template '%s' has unsupported type %q", name, t.Type)
	}
	if strings.TrimSpace(t.Prompt) == "" {
		return nil, fmt.Errorf("template '%s' has an empty prompt", name)
	}

	compiled, err := template.New(name).Option("missingkey=error").Parse(t.Prompt)
	if err != nil {
		return nil, fmt.Errorf("failed to compile template '%s': %w", name, err)
	}
	t.compiled = compiled
	return &t, nil
}
