package ollama

import (
	"context"
	"strings"

	"github.com/JasonHongGG/TravelPlannerDashboard-sub000/genai/llm"
)

// ToRequest converts an llm.GenerateRequest to an Ollama API Request.
func ToRequest(ctx context.Context, request *llm.GenerateRequest, model string) (*Request, error) {
	req := &Request{
		Model:  model,
		Stream: false,
	}

	if request.Options != nil {
		if request.Options.Model != "" {
			req.Model = request.Options.Model
		}
		req.Stream = request.Options.Stream
		req.Options = &Options{
			Temperature:   request.Options.Temperature,
			TopP:          request.Options.TopP,
			NumPredict:    request.Options.MaxTokens,
			RepeatPenalty: 1.1,
		}
		if len(request.Options.StopWords) > 0 {
			req.Options.Stop = request.Options.StopWords
		}
	}

	// System message rides in its own field.
	for _, msg := range request.Messages {
		if msg.Role == llm.RoleSystem {
			req.System = msg.Content
			break
		}
	}

	// Construct the prompt from user and assistant messages.
	var prompt strings.Builder
	for _, msg := range request.Messages {
		switch msg.Role {
		case llm.RoleSystem:
			continue
		case llm.RoleUser:
			prompt.WriteString("Human: ")
		case llm.RoleAssistant:
			prompt.WriteString("Assistant: ")
		}
		prompt.WriteString(msg.Content)
		prompt.WriteString("\n")
	}
	prompt.WriteString("Assistant: ")
	req.Prompt = prompt.String()

	return req, nil
}

// ToGenerateResponse converts an accumulated Ollama Response to the
// provider-agnostic llm.GenerateResponse.
func ToGenerateResponse(resp *Response) *llm.GenerateResponse {
	out := &llm.GenerateResponse{
		Content: resp.Response,
		Model:   resp.Model,
	}
	if resp.PromptEvalCount > 0 || resp.EvalCount > 0 {
		out.Usage = &llm.Usage{
			PromptTokens:     resp.PromptEvalCount,
			CompletionTokens: resp.EvalCount,
			TotalTokens:      resp.PromptEvalCount + resp.EvalCount,
		}
	}
	return out
}
