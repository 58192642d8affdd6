package base

import (
	"net/http"
	"time"
)

// Config aggregates common client parameters shared by all AI providers.
// It is embedded into every concrete provider client so that option
// handling lives in one place.
type Config struct {
	BaseURL    string
	HTTPClient *http.Client
	Model      string
	Timeout    time.Duration

	// UsageListener, when set, receives token usage for each successful
	// model invocation. Callers use it to log or meter per-request token
	// cost.
	UsageListener UsageListener
}

// ClientOption mutates Config; providers expose it via a type alias so
// callers keep the provider-qualified name, e.g. ollama.WithBaseURL(...).
type ClientOption func(*Config)

// WithBaseURL overrides the default endpoint of the provider.
func WithBaseURL(baseURL string) ClientOption {
	return func(c *Config) {
		if baseURL != "" {
			c.BaseURL = baseURL
		}
	}
}

// WithHTTPClient injects a custom HTTP client.
func WithHTTPClient(client *http.Client) ClientOption {
	return func(c *Config) {
		if client != nil {
			c.HTTPClient = client
		}
	}
}

// WithModel selects the model name.
func WithModel(model string) ClientOption {
	return func(c *Config) {
		if model != "" {
			c.Model = model
		}
	}
}

// WithTimeout sets the request timeout (mainly used by local providers).
func WithTimeout(timeout time.Duration) ClientOption {
	return func(c *Config) {
		if timeout > 0 {
			c.Timeout = timeout
		}
	}
}

// WithUsageListener registers a callback to receive token usage metrics.
func WithUsageListener(l UsageListener) ClientOption {
	return func(c *Config) {
		c.UsageListener = l
	}
}
