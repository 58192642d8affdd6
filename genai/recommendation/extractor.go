package recommendation

import (
	"context"
	"encoding/json"

	"github.com/JasonHongGG/TravelPlannerDashboard-sub000/genai/llm"
)

// Extractor scans streamed text for complete top-level {...} objects and
// emits each one that parses into a valid Item. It tracks raw brace
// characters rather than JSON-aware nesting, so a brace inside a string
// literal can throw the count off; fragments that then fail to parse are
// dropped and scanning continues with the next opening brace. Text outside
// objects is ignored, so memory is bounded by the largest single object.
type Extractor struct {
	onItem func(Item)

	buf          []byte
	insideObject bool
	depth        int
}

// NewExtractor creates an Extractor that calls onItem for every valid item,
// in stream order.
func NewExtractor(onItem func(Item)) *Extractor {
	return &Extractor{onItem: onItem}
}

// Write feeds one fragment of streamed text into the extractor.
func (e *Extractor) Write(text string) {
	for i := 0; i < len(text); i++ {
		c := text[i]
		if !e.insideObject {
			if c == '{' {
				e.insideObject = true
				e.depth = 1
				e.buf = append(e.buf[:0], c)
			}
			continue
		}
		e.buf = append(e.buf, c)
		switch c {
		case '{':
			e.depth++
		case '}':
			e.depth--
			if e.depth == 0 {
				e.emit()
				e.insideObject = false
			}
		}
	}
}

// End signals stream termination. An object opened but never closed is
// discarded, never emitted.
func (e *Extractor) End() {
	e.buf = nil
	e.insideObject = false
	e.depth = 0
}

// emit parses the buffered candidate and forwards it when valid. A failed
// parse or an item missing required fields is silently dropped; it will not
// be revisited.
func (e *Extractor) emit() {
	var item Item
	if err := json.Unmarshal(e.buf, &item); err != nil {
		return
	}
	if !item.Valid() {
		return
	}
	if e.onItem != nil {
		e.onItem(item)
	}
}

// Extract consumes a provider stream until it closes, emitting valid items
// through onItem. A stream error ends extraction; items already emitted
// stand, and the error is returned for the caller to act on.
func Extract(ctx context.Context, events <-chan llm.StreamEvent, onItem func(Item)) error {
	e := NewExtractor(onItem)
	defer e.End()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case event, ok := <-events:
			if !ok {
				return nil
			}
			if event.Err != nil {
				return event.Err
			}
			e.Write(event.Chunk)
		}
	}
}
