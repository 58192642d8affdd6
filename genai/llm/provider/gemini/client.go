package gemini

import (
	"fmt"
	"net/http"
	"os"
	"time"

	basecfg "github.com/JasonHongGG/TravelPlannerDashboard-sub000/genai/llm/provider/base"
)

const geminiEndpoint = "https://generativelanguage.googleapis.com/%v/models"

// Client represents a Gemini API client.
type Client struct {
	basecfg.Config
	APIKey  string
	Version string
}

// NewClient creates a new Gemini client with the given API key and model name,
// e.g. "gemini-2.5-flash".
func NewClient(apiKey, model string, options ...ClientOption) *Client {
	client := &Client{
		Config: basecfg.Config{
			HTTPClient: &http.Client{Timeout: 30 * time.Minute},
			Model:      model,
		},
		APIKey: apiKey,
	}

	for _, option := range options {
		option(client)
	}

	if client.APIKey == "" {
		client.APIKey = os.Getenv("GEMINI_API_KEY")
	}
	if client.Version == "" {
		client.Version = "v1beta"
	}
	if client.BaseURL == "" {
		client.BaseURL = fmt.Sprintf(geminiEndpoint, client.Version)
	}
	return client
}
