package prompts

import (
	"embed"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

// Prompt templates ship inside the binary; one .yaml per mode.
//
//go:embed templates/*.yaml
var templateFS embed.FS

type Manager struct {
	prompts map[string]string // mode -> prompt template
}

type promptTemplate struct {
	Prompt string `yaml:"prompt"`
}

// NewManager loads every embedded template.
func NewManager() (*Manager, error) {
	m := &Manager{prompts: make(map[string]string)}
	if err := m.load(); err != nil {
		return nil, fmt.Errorf("failed to load prompt templates: %w", err)
	}
	return m, nil
}

// Build renders the template for a mode, substituting {{.Key}} placeholders.
func (m *Manager) Build(mode string, vars map[string]string) (string, error) {
	tpl, exists := m.prompts[mode]
	if !exists {
		return "", fmt.Errorf("template not found for mode: %s", mode)
	}
	result := tpl
	for key, value := range vars {
		result = strings.ReplaceAll(result, "{{."+key+"}}", value)
	}
	return result, nil
}

func (m *Manager) load() error {
	entries, err := templateFS.ReadDir("templates")
	if err != nil {
		return fmt.Errorf("failed to read templates directory: %w", err)
	}

	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".yaml") {
			continue
		}

		data, err := templateFS.ReadFile("templates/" + entry.Name())
		if err != nil {
			return fmt.Errorf("failed to read template file %s: %w", entry.Name(), err)
		}

		var tpl promptTemplate
		if err := yaml.Unmarshal(data, &tpl); err != nil {
			return fmt.Errorf("failed to parse template file %s: %w", entry.Name(), err)
		}
		if strings.TrimSpace(tpl.Prompt) == "" {
			return fmt.Errorf("template file %s has an empty prompt", entry.Name())
		}

		m.prompts[strings.TrimSuffix(entry.Name(), ".yaml")] = tpl.Prompt
	}

	return nil
}
