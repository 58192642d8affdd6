package copilot

import (
	"net/http"
	"os"
	"time"

	openai "github.com/openai/openai-go"
	"github.com/openai/openai-go/option"

	basecfg "github.com/JasonHongGG/TravelPlannerDashboard-sub000/genai/llm/provider/base"
)

// Client represents an OpenAI-compatible chat-completions backend, used for
// Copilot-style hosted deployments. Any endpoint speaking the chat
// completions protocol works by overriding the base URL.
type Client struct {
	basecfg.Config
	APIKey string

	api openai.Client
}

// NewClient creates a new client with the given API key and model.
func NewClient(apiKey, model string, options ...ClientOption) *Client {
	client := &Client{
		Config: basecfg.Config{
			HTTPClient: &http.Client{Timeout: 30 * time.Minute},
			Model:      model,
		},
		APIKey: apiKey,
	}

	for _, o := range options {
		o(client)
	}

	if client.APIKey == "" {
		client.APIKey = os.Getenv("COPILOT_API_KEY")
	}
	if client.APIKey == "" {
		client.APIKey = os.Getenv("OPENAI_API_KEY")
	}

	opts := []option.RequestOption{
		option.WithAPIKey(client.APIKey),
		option.WithHTTPClient(client.HTTPClient),
	}
	if client.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(client.BaseURL))
	}
	client.api = openai.NewClient(opts...)
	return client
}
