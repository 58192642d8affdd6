// Package transduce splits a raw model output stream into live narration
// and a trailing structured payload separated by a sentinel delimiter.
package transduce

import (
	"context"
	"strings"

	"github.com/JasonHongGG/TravelPlannerDashboard-sub000/genai/llm"
)

// DefaultDelimiter separates human-readable narration from the structured
// JSON payload in a model response.
const DefaultDelimiter = "___UPDATE_JSON___"

// state tracks the position of the transducer in its lifecycle.
type state int

const (
	stateNarrating state = iota
	stateAccumulatingPayload
	stateComplete
)

// Result is the outcome of a fully consumed stream. Payload holds the raw
// text that followed the delimiter; PayloadSeen reports whether the
// delimiter occurred at all. An absent delimiter means the response was
// narration-only, which is a valid outcome rather than an error.
type Result struct {
	Payload     string
	PayloadSeen bool
}

// Transducer is a push-driven splitter fed one raw chunk at a time. Chunk
// boundaries carry no meaning: the delimiter may arrive split across any
// number of chunks, so narration is flushed conservatively and a tail of
// len(delimiter)-1 characters is withheld until it can no longer be the
// start of a delimiter occurrence. Only the first occurrence transitions
// the state; any later occurrence is ordinary payload text.
type Transducer struct {
	delimiter   string
	onNarration func(text string)

	state   state
	pending strings.Builder
	payload strings.Builder
}

// New creates a Transducer. onNarration receives narration fragments in
// order as they become safe to flush; it may be nil when the caller only
// wants the payload.
func New(delimiter string, onNarration func(text string)) *Transducer {
	if delimiter == "" {
		delimiter = DefaultDelimiter
	}
	return &Transducer{delimiter: delimiter, onNarration: onNarration}
}

// Write feeds one raw chunk into the transducer.
func (t *Transducer) Write(chunk string) {
	if chunk == "" || t.state == stateComplete {
		return
	}
	if t.state == stateAccumulatingPayload {
		t.payload.WriteString(chunk)
		return
	}

	t.pending.WriteString(chunk)
	accumulated := t.pending.String()

	if idx := strings.Index(accumulated, t.delimiter); idx >= 0 {
		t.flush(accumulated[:idx])
		t.pending.Reset()
		t.payload.WriteString(accumulated[idx+len(t.delimiter):])
		t.state = stateAccumulatingPayload
		return
	}

	// Flush everything that can no longer be the start of the delimiter.
	safe := len(accumulated) - (len(t.delimiter) - 1)
	if safe > 0 {
		t.flush(accumulated[:safe])
		t.pending.Reset()
		t.pending.WriteString(accumulated[safe:])
	}
}

// End signals normal stream termination and returns the final result.
// Narration still withheld in the tail buffer is flushed first.
func (t *Transducer) End() Result {
	if t.state == stateNarrating {
		t.flush(t.pending.String())
		t.pending.Reset()
	}
	seen := t.state == stateAccumulatingPayload
	t.state = stateComplete
	return Result{Payload: t.payload.String(), PayloadSeen: seen}
}

// Abort signals abnormal stream termination. Narration already flushed
// stands; the withheld tail and any partial payload are dropped so that no
// payload is ever produced from a broken stream.
func (t *Transducer) Abort() {
	t.pending.Reset()
	t.payload.Reset()
	t.state = stateComplete
}

func (t *Transducer) flush(text string) {
	if text == "" || t.onNarration == nil {
		return
	}
	t.onNarration(text)
}

// Transduce consumes a provider stream until it closes, pushing narration
// fragments to onNarration and returning the final payload. A stream error
// keeps the narration flushed so far but yields no payload; the error is
// returned for the caller to act on.
func Transduce(ctx context.Context, events <-chan llm.StreamEvent, delimiter string, onNarration func(text string)) (Result, error) {
	t := New(delimiter, onNarration)
	for {
		select {
		case <-ctx.Done():
			t.Abort()
			return Result{}, ctx.Err()
		case event, ok := <-events:
			if !ok {
				return t.End(), nil
			}
			if event.Err != nil {
				t.Abort()
				return Result{}, event.Err
			}
			t.Write(event.Chunk)
		}
	}
}
