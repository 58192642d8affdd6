package provider

import (
	"context"
	"fmt"

	"github.com/viant/scy/cred/secret"

	"github.com/JasonHongGG/TravelPlannerDashboard-sub000/genai/llm"
	"github.com/JasonHongGG/TravelPlannerDashboard-sub000/genai/llm/provider/copilot"
	"github.com/JasonHongGG/TravelPlannerDashboard-sub000/genai/llm/provider/gemini"
	"github.com/JasonHongGG/TravelPlannerDashboard-sub000/genai/llm/provider/localapi"
	"github.com/JasonHongGG/TravelPlannerDashboard-sub000/genai/llm/provider/ollama"
)

// Factory creates backend clients from Options, resolving API keys through
// the secret service when an apiKeyURL is configured.
type Factory struct {
	secrets *secret.Service
}

// CreateModel creates a streaming model client for the configured provider.
func (f *Factory) CreateModel(ctx context.Context, options *Options) (llm.StreamingModel, error) {
	if options.Provider == "" {
		return nil, fmt.Errorf("provider was empty")
	}
	switch options.Provider {
	case ProviderGemini:
		apiKey, err := f.apiKey(ctx, options.APIKeyURL)
		if err != nil {
			return nil, err
		}
		return gemini.NewClient(apiKey, options.Model,
			gemini.WithBaseURL(options.URL),
			gemini.WithUsageListener(options.UsageListener)), nil
	case ProviderOllama:
		return ollama.NewClient(ctx, options.Model,
			ollama.WithBaseURL(options.URL),
			ollama.WithUsageListener(options.UsageListener))
	case ProviderCopilot:
		apiKey, err := f.apiKey(ctx, options.APIKeyURL)
		if err != nil {
			return nil, err
		}
		return copilot.NewClient(apiKey, options.Model,
			copilot.WithBaseURL(options.URL),
			copilot.WithUsageListener(options.UsageListener)), nil
	case ProviderLocalAPI:
		return localapi.NewClient(ctx, options.Model,
			localapi.WithBaseURL(options.URL))
	default:
		return nil, fmt.Errorf("unsupported provider: %v", options.Provider)
	}
}

func (f *Factory) apiKey(ctx context.Context, APIKeyURL string) (string, error) {
	if APIKeyURL == "" {
		return "", nil
	}
	key, err := f.secrets.GeyKey(ctx, APIKeyURL)
	if err != nil {
		return "", err
	}
	return key.Secret, nil
}

// New creates a provider factory.
func New() *Factory {
	return &Factory{secrets: secret.New()}
}
