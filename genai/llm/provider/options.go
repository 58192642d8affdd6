package provider

import basecfg "github.com/JasonHongGG/TravelPlannerDashboard-sub000/genai/llm/provider/base"

// Options selects and parameterises one concrete backend.
type Options struct {
	Provider      string                `yaml:"provider,omitempty" json:"provider,omitempty"`
	Model         string                `yaml:"model,omitempty" json:"model,omitempty"`
	APIKeyURL     string                `yaml:"apiKeyURL,omitempty" json:"apiKeyURL,omitempty"`
	URL           string                `yaml:"url,omitempty" json:"url,omitempty"`
	UsageListener basecfg.UsageListener `yaml:"-" json:"-"`
}

// Config is a named model configuration.
type Config struct {
	ID          string  `yaml:"id" json:"id"`
	Description string  `yaml:"description,omitempty" json:"description,omitempty"`
	Options     Options `yaml:"options"`
}

// Configs is a slice of Config pointers.
type Configs []*Config

// Find searches for a model configuration by its ID.
func (m Configs) Find(id string) *Config {
	for _, model := range m {
		if model.ID == id {
			return model
		}
	}
	return nil
}
