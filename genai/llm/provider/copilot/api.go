package copilot

import (
	"context"
	"fmt"

	openai "github.com/openai/openai-go"

	"github.com/JasonHongGG/TravelPlannerDashboard-sub000/genai/llm"
)

// toParams converts an llm.GenerateRequest to chat-completion parameters.
func (c *Client) toParams(request *llm.GenerateRequest) (openai.ChatCompletionNewParams, error) {
	model := c.Model
	if request.Options != nil && request.Options.Model != "" {
		model = request.Options.Model
	}
	if model == "" {
		return openai.ChatCompletionNewParams{}, fmt.Errorf("model is required")
	}

	params := openai.ChatCompletionNewParams{Model: openai.ChatModel(model)}
	for _, msg := range request.Messages {
		switch msg.Role {
		case llm.RoleSystem:
			params.Messages = append(params.Messages, openai.SystemMessage(msg.Content))
		case llm.RoleUser:
			params.Messages = append(params.Messages, openai.UserMessage(msg.Content))
		case llm.RoleAssistant:
			params.Messages = append(params.Messages, openai.AssistantMessage(msg.Content))
		}
	}

	if opts := request.Options; opts != nil {
		if opts.Temperature > 0 {
			params.Temperature = openai.Float(opts.Temperature)
		}
		if opts.TopP > 0 {
			params.TopP = openai.Float(opts.TopP)
		}
		if opts.MaxTokens > 0 {
			params.MaxCompletionTokens = openai.Int(int64(opts.MaxTokens))
		}
	}
	return params, nil
}

// Generate sends a chat request and waits for the complete response.
func (c *Client) Generate(ctx context.Context, request *llm.GenerateRequest) (*llm.GenerateResponse, error) {
	params, err := c.toParams(request)
	if err != nil {
		return nil, err
	}

	completion, err := c.api.Chat.Completions.New(ctx, params)
	if err != nil {
		return nil, fmt.Errorf("chat completion failed: %w", err)
	}
	if len(completion.Choices) == 0 {
		return nil, fmt.Errorf("chat completion returned no choices")
	}

	out := &llm.GenerateResponse{
		Content: completion.Choices[0].Message.Content,
		Model:   completion.Model,
		Usage: &llm.Usage{
			PromptTokens:     int(completion.Usage.PromptTokens),
			CompletionTokens: int(completion.Usage.CompletionTokens),
			TotalTokens:      int(completion.Usage.TotalTokens),
		},
	}
	if c.UsageListener != nil && out.Usage.TotalTokens > 0 {
		c.UsageListener.OnUsage(out.Model, out.Usage)
	}
	return out, nil
}

// Stream sends a chat request with streaming enabled and returns a channel
// of raw text fragments.
func (c *Client) Stream(ctx context.Context, request *llm.GenerateRequest) (<-chan llm.StreamEvent, error) {
	params, err := c.toParams(request)
	if err != nil {
		return nil, err
	}
	params.StreamOptions = openai.ChatCompletionStreamOptionsParam{
		IncludeUsage: openai.Bool(true),
	}

	stream := c.api.Chat.Completions.NewStreaming(ctx, params)
	events := make(chan llm.StreamEvent)
	go func() {
		defer stream.Close()
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
		model := string(params.Model)
		for stream.Next() {
			chunk := stream.Current()
			if chunk.Model != "" {
				model = chunk.Model
			}
			if len(chunk.Choices) > 0 {
				if delta := chunk.Choices[0].Delta.Content; delta != "" {
					if !emit(llm.StreamEvent{Chunk: delta}) {
						return
					}
				}
			}
			if chunk.Usage.TotalTokens > 0 {
				usage.PromptTokens = int(chunk.Usage.PromptTokens)
				usage.CompletionTokens = int(chunk.Usage.CompletionTokens)
				usage.TotalTokens = int(chunk.Usage.TotalTokens)
			}
		}
		if err := stream.Err(); err != nil {
			emit(llm.StreamEvent{Err: fmt.Errorf("stream read error: %w", err)})
			return
		}
		if c.UsageListener != nil && usage.TotalTokens > 0 {
			c.UsageListener.OnUsage(model, usage)
		}
	}()
	return events, nil
}
