package localapi

import (
	"context"
	"net/http"
	"time"

	basecfg "github.com/JasonHongGG/TravelPlannerDashboard-sub000/genai/llm/provider/base"
)

const (
	defaultBaseURL = "http://localhost:8001"
	defaultTimeout = 120 * time.Second
)

// Client talks to a self-hosted inference endpoint that accepts a chat
// request and answers with plain text delivered via chunked transfer
// encoding. Chunk boundaries carry no meaning; the response is consumed as
// an ordered sequence of raw fragments.
type Client struct {
	basecfg.Config
	Timeout time.Duration
}

// NewClient creates a new local API client.
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
