package llm

import "context"

// Model is the minimal contract implemented by every AI backend client.
type Model interface {
	// Generate sends a chat request and waits for the complete response.
	Generate(ctx context.Context, request *GenerateRequest) (*GenerateResponse, error)
}
