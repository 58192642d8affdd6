package gemini

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/JasonHongGG/TravelPlannerDashboard-sub000/genai/llm"
)

// Generate generates a response using the Gemini API.
func (c *Client) Generate(ctx context.Context, request *llm.GenerateRequest) (*llm.GenerateResponse, error) {
	if c.APIKey == "" {
		return nil, fmt.Errorf("API key is required")
	}
	if c.Model == "" {
		return nil, fmt.Errorf("model is required")
	}

	req, err := ToRequest(ctx, request)
	if err != nil {
		return nil, err
	}

	data, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	apiURL := fmt.Sprintf("%s/%s:generateContent?key=%s", c.BaseURL, c.Model, c.APIKey)
	httpReq, err := http.NewRequestWithContext(ctx, "POST", apiURL, bytes.NewBuffer(data))
	if err != nil {
		return nil, fmt.Errorf("failed to create HTTP request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.HTTPClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	respBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("Gemini API error (status %d): %s", resp.StatusCode, respBytes)
	}

	var apiResp Response
	if err := json.Unmarshal(respBytes, &apiResp); err != nil {
		return nil, fmt.Errorf("failed to unmarshal response: %w", err)
	}

	out := ToGenerateResponse(&apiResp)
	if c.UsageListener != nil && out.Usage != nil && out.Usage.TotalTokens > 0 {
		c.UsageListener.OnUsage(c.Model, out.Usage)
	}
	return out, nil
}

// Stream generates a response using the Gemini streaming API
// (streamGenerateContent with SSE framing) and returns a channel of raw
// text fragments.
func (c *Client) Stream(ctx context.Context, request *llm.GenerateRequest) (<-chan llm.StreamEvent, error) {
	if c.APIKey == "" {
		return nil, fmt.Errorf("API key is required")
	}
	if c.Model == "" {
		return nil, fmt.Errorf("model is required")
	}

	req, err := ToRequest(ctx, request)
	if err != nil {
		return nil, err
	}
	data, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	apiURL := fmt.Sprintf("%s/%s:streamGenerateContent?alt=sse&key=%s", c.BaseURL, c.Model, c.APIKey)
	httpReq, err := http.NewRequestWithContext(ctx, "POST", apiURL, bytes.NewBuffer(data))
	if err != nil {
		return nil, fmt.Errorf("failed to create HTTP request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.HTTPClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		resp.Body.Close()
		return nil, fmt.Errorf("Gemini API error (status %d): %s", resp.StatusCode, body)
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
		usage := &llm.Usage{}
		scanner := bufio.NewScanner(resp.Body)
		scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
		for scanner.Scan() {
			line := scanner.Text()
			if !strings.HasPrefix(line, "data:") {
				continue
			}
			payload := strings.TrimSpace(strings.TrimPrefix(line, "data:"))
			if payload == "" {
				continue
			}
			var chunk Response
			if err := json.Unmarshal([]byte(payload), &chunk); err != nil {
				// Tolerate non-JSON SSE payloads rather than failing the stream.
				continue
			}
			for _, candidate := range chunk.Candidates {
				for _, part := range candidate.Content.Parts {
					if part.Text == "" {
						continue
					}
					if !emit(llm.StreamEvent{Chunk: part.Text}) {
						return
					}
				}
			}
			if chunk.UsageMetadata != nil {
				usage.PromptTokens = chunk.UsageMetadata.PromptTokenCount
				usage.CompletionTokens = chunk.UsageMetadata.CandidatesTokenCount
				usage.TotalTokens = chunk.UsageMetadata.TotalTokenCount
			}
		}
		if err := scanner.Err(); err != nil {
			emit(llm.StreamEvent{Err: fmt.Errorf("stream read error: %w", err)})
			return
		}
		if c.UsageListener != nil && usage.TotalTokens > 0 {
			c.UsageListener.OnUsage(c.Model, usage)
		}
	}()
	return events, nil
}
