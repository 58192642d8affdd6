package ollama

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/JasonHongGG/TravelPlannerDashboard-sub000/genai/llm"
)

// Generate sends a chat request to the Ollama API and returns the response.
func (c *Client) Generate(ctx context.Context, request *llm.GenerateRequest) (*llm.GenerateResponse, error) {
	if c.Model == "" {
		return nil, fmt.Errorf("model is required")
	}

	req, err := ToRequest(ctx, request, c.Model)
	if err != nil {
		return nil, err
	}
	req.Stream = true

	data, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, "POST", fmt.Sprintf("%s/api/generate", c.BaseURL), bytes.NewBuffer(data))
	if err != nil {
		return nil, fmt.Errorf("failed to create HTTP request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.HTTPClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("API request failed with status %d: %s", resp.StatusCode, string(body))
	}

	reader := bufio.NewReader(resp.Body)
	apiResp := &Response{}

	for {
		line, err := reader.ReadBytes('\n')
		if len(line) > 0 {
			var chunk Response
			if err := json.Unmarshal(line, &chunk); err != nil {
				continue
			}
			apiResp.Response += chunk.Response
			apiResp.Context = append(apiResp.Context, chunk.Context...)
			apiResp.PromptEvalCount += chunk.PromptEvalCount
			apiResp.EvalCount += chunk.EvalCount
			apiResp.Done = chunk.Done
			apiResp.Model = chunk.Model
			apiResp.CreatedAt = chunk.CreatedAt
			if chunk.Done {
				break
			}
		}

		if err != nil {
			if err == io.EOF {
				break
			}
			return nil, fmt.Errorf("failed to read response: %w", err)
		}
	}

	out := ToGenerateResponse(apiResp)
	if c.UsageListener != nil && out.Usage != nil && out.Usage.TotalTokens > 0 {
		c.UsageListener.OnUsage(req.Model, out.Usage)
	}
	return out, nil
}

// Stream sends a chat request to the Ollama API with streaming enabled and
// returns a channel of raw text fragments.
func (c *Client) Stream(ctx context.Context, request *llm.GenerateRequest) (<-chan llm.StreamEvent, error) {
	if c.Model == "" {
		return nil, fmt.Errorf("model is required")
	}
	req, err := ToRequest(ctx, request, c.Model)
	if err != nil {
		return nil, err
	}
	req.Stream = true

	data, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}
	httpReq, err := http.NewRequestWithContext(ctx, "POST", fmt.Sprintf("%s/api/generate", c.BaseURL), bytes.NewBuffer(data))
	if err != nil {
		return nil, fmt.Errorf("failed to create HTTP request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.HTTPClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
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
		reader := bufio.NewReader(resp.Body)
		for {
			line, err := reader.ReadBytes('\n')
			if len(line) > 0 {
				var chunk Response
				if err := json.Unmarshal(line, &chunk); err != nil {
					emit(llm.StreamEvent{Err: fmt.Errorf("failed to unmarshal stream chunk: %w", err)})
					return
				}
				if chunk.Response != "" {
					if !emit(llm.StreamEvent{Chunk: chunk.Response}) {
						return
					}
				}
				usage.PromptTokens += chunk.PromptEvalCount
				usage.CompletionTokens += chunk.EvalCount
				if chunk.Done {
					usage.TotalTokens = usage.PromptTokens + usage.CompletionTokens
					if c.UsageListener != nil && usage.TotalTokens > 0 {
						c.UsageListener.OnUsage(req.Model, usage)
					}
					return
				}
			}
			if err != nil {
				if err == io.EOF {
					return
				}
				emit(llm.StreamEvent{Err: fmt.Errorf("stream read error: %w", err)})
				return
			}
		}
	}()
	return events, nil
}
