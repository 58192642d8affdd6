package llm

// Options carries generation parameters shared by all providers.
type Options struct {
	// Model overrides the client's default model for this request.
	Model string `yaml:"model,omitempty" json:"model,omitempty"`

	// Temperature controls randomness of sampling (0 – deterministic).
	Temperature float64 `yaml:"temperature,omitempty" json:"temperature,omitempty"`

	// TopP nucleus sampling parameter.
	TopP float64 `yaml:"topP,omitempty" json:"topP,omitempty"`

	// MaxTokens caps the completion length; 0 means provider default.
	MaxTokens int `yaml:"maxTokens,omitempty" json:"maxTokens,omitempty"`

	// Stream requests incremental delivery when the provider supports it.
	Stream bool `yaml:"stream,omitempty" json:"stream,omitempty"`

	// StopWords terminate generation when produced by the model.
	StopWords []string `yaml:"stopWords,omitempty" json:"stopWords,omitempty"`
}
