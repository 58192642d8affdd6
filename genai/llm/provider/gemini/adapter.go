package gemini

import (
	"context"
	"strings"

	"github.com/JasonHongGG/TravelPlannerDashboard-sub000/genai/llm"
)

// ToRequest converts an llm.GenerateRequest to a Gemini API Request.
func ToRequest(ctx context.Context, request *llm.GenerateRequest) (*Request, error) {
	req := &Request{}

	for _, msg := range request.Messages {
		switch msg.Role {
		case llm.RoleSystem:
			req.SystemInstruction = &Content{Parts: []Part{{Text: msg.Content}}}
		case llm.RoleUser:
			req.Contents = append(req.Contents, Content{Role: "user", Parts: []Part{{Text: msg.Content}}})
		case llm.RoleAssistant:
			// Gemini names the assistant role "model".
			req.Contents = append(req.Contents, Content{Role: "model", Parts: []Part{{Text: msg.Content}}})
		}
	}

	if request.Options != nil {
		cfg := &GenerationConfig{MaxOutputTokens: request.Options.MaxTokens}
		if request.Options.Temperature > 0 {
			t := request.Options.Temperature
			cfg.Temperature = &t
		}
		if request.Options.TopP > 0 {
			p := request.Options.TopP
			cfg.TopP = &p
		}
		if len(request.Options.StopWords) > 0 {
			cfg.StopSequences = request.Options.StopWords
		}
		req.GenerationConfig = cfg
	}

	return req, nil
}

// ToGenerateResponse converts a Gemini API Response to the provider-agnostic
// llm.GenerateResponse. Parts of the first candidate are concatenated.
func ToGenerateResponse(resp *Response) *llm.GenerateResponse {
	out := &llm.GenerateResponse{Model: resp.ModelVersion}
	if len(resp.Candidates) > 0 {
		var text strings.Builder
		for _, part := range resp.Candidates[0].Content.Parts {
			text.WriteString(part.Text)
		}
		out.Content = text.String()
	}
	if usage := resp.UsageMetadata; usage != nil {
		out.Usage = &llm.Usage{
			PromptTokens:     usage.PromptTokenCount,
			CompletionTokens: usage.CandidatesTokenCount,
			TotalTokens:      usage.TotalTokenCount,
		}
	}
	return out
}
