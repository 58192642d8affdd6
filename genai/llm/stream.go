package llm

import (
	"context"
)

// StreamEvent represents one fragment of a streaming model response.
// Chunk holds a raw text fragment; ordering is the only guarantee a
// provider makes about fragment boundaries. Err reports a stream failure,
// after which no further events follow.
type StreamEvent struct {
	Chunk string
	Err   error
}

// StreamingModel is implemented by providers that support incremental
// response delivery. The returned channel is closed by the provider when
// the stream ends, normally or not.
type StreamingModel interface {
	Model

	// Stream sends a chat request with streaming enabled and returns a
	// channel of raw text fragments.
	Stream(ctx context.Context, request *GenerateRequest) (<-chan StreamEvent, error)
}
