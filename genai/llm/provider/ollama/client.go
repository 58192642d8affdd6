package ollama

import (
	"context"
	"net/http"
	"time"

	basecfg "github.com/JasonHongGG/TravelPlannerDashboard-sub000/genai/llm/provider/base"
)

const (
	defaultBaseURL = "http://localhost:11434"
	defaultTimeout = 120 * time.Second
)

// Client represents an Ollama API client.
type Client struct {
	basecfg.Config
	Timeout time.Duration
}

// NewClient creates a new Ollama client.
func NewClient(ctx context.Context, model string, options ...ClientOption) (*Client, error) {
	client := &Client{
		Config: basecfg.Config{
			BaseURL: defaultBaseURL,
			Model:   model,
			HTTPClient: &http.Client{
				Transport: &http.Transport{
					TLSHandshakeTimeout:   10 * time.Second,
					IdleConnTimeout:       10 * time.Second,
					ResponseHeaderTimeout: defaultTimeout,
				},
				Timeout: 0,
			},
		},
		Timeout: defaultTimeout,
	}

	for _, option := range options {
		option(client)
	}

	return client, nil
}
