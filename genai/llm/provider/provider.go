package provider

const (
	// ProviderGemini identifies the Google Gemini API.
	ProviderGemini = "gemini"

	// ProviderOllama identifies a local Ollama API.
	ProviderOllama = "ollama"

	// ProviderCopilot identifies an OpenAI-compatible Copilot backend.
	ProviderCopilot = "copilot"

	// ProviderLocalAPI identifies a self-hosted plain-text inference endpoint.
	ProviderLocalAPI = "localapi"
)
