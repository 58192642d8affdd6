package localapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/JasonHongGG/TravelPlannerDashboard-sub000/genai/llm"
)

// request is the wire shape accepted by the local inference endpoint.
type request struct {
	Model    string        `json:"model,omitempty"`
	Messages []llm.Message `json:"messages"`
	Stream   bool          `json:"stream"`
}

func (c *Client) newHTTPRequest(ctx context.Context, req *llm.GenerateRequest, stream bool) (*http.Request, error) {
	payload := &request{Model: c.Model, Messages: req.Messages, Stream: stream}
	if req.Options != nil && req.Options.Model != "" {
		payload.Model = req.Options.Model
	}
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}
	httpReq, err := http.NewRequestWithContext(ctx, "POST", fmt.Sprintf("%s/v1/generate", c.BaseURL), bytes.NewBuffer(data))
	if err != nil {
		return nil, fmt.Errorf("failed to create HTTP request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	return httpReq, nil
}

// Generate sends a chat request and reads the complete plain-text response.
func (c *Client) Generate(ctx context.Context, req *llm.GenerateRequest) (*llm.GenerateResponse, error) {
	httpReq, err := c.newHTTPRequest(ctx, req, false)
	if err != nil {
		return nil, err
	}
	resp, err := c.HTTPClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("API request failed with status %d: %s", resp.StatusCode, body)
	}
	return &llm.GenerateResponse{Content: strings.TrimRight(string(body), "\n"), Model: c.Model}, nil
}

// Stream sends a chat request and forwards each read of the chunked
// plain-text response body as one raw fragment.
func (c *Client) Stream(ctx context.Context, req *llm.GenerateRequest) (<-chan llm.StreamEvent, error) {
	httpReq, err := c.newHTTPRequest(ctx, req, true)
	if err != nil {
		return nil, err
	}
	resp, err := c.HTTPClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		resp.Body.Close()
		return nil, fmt.Errorf("API request failed with status %d: %s", resp.StatusCode, body)
	}

	events := make(chan llm.StreamEvent)
	go func() {
		defer resp.Body.Close()
		defer close(events)
		// emit returns false once the consumer cancelled and stopped reading.
		emit := func(event llm.StreamEvent) bool {
			select {
			case events <- event:
				return true
			case <-ctx.Done():
				return false
			}
		}
		buf := make([]byte, 4*1024)
		for {
			n, err := resp.Body.Read(buf)
			if n > 0 {
				if !emit(llm.StreamEvent{Chunk: string(buf[:n])}) {
					return
				}
			}
			if err != nil {
				if err != io.EOF {
					emit(llm.StreamEvent{Err: fmt.Errorf("stream read error: %w", err)})
				}
				return
			}
		}
	}()
	return events, nil
}
