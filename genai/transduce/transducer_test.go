package transduce

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/JasonHongGG/TravelPlannerDashboard-sub000/genai/llm"
)

func TestTransducer_Write(t *testing.T) {
	testCases := []struct {
		description string
		delimiter   string
		chunks      []string
		narration   string
		payload     string
		payloadSeen bool
	}{
		{
			description: "no delimiter yields narration only",
			chunks:      []string{"Planning your ", "trip to Kyoto", " now."},
			narration:   "Planning your trip to Kyoto now.",
			payload:     "",
			payloadSeen: false,
		},
		{
			description: "delimiter in one chunk",
			chunks:      []string{"Here is the plan. ___UPDATE_JSON___{\"days\":[]}"},
			narration:   "Here is the plan. ",
			payload:     "{\"days\":[]}",
			payloadSeen: true,
		},
		{
			description: "delimiter straddling two chunks",
			chunks:      []string{"Here is the plan. ___UPDATE", "_JSON___{\"days\":[]}"},
			narration:   "Here is the plan. ",
			payload:     "{\"days\":[]}",
			payloadSeen: true,
		},
		{
			description: "delimiter split one character per chunk",
			chunks:      splitChars("thinking___UPDATE_JSON___{\"a\":1}"),
			narration:   "thinking",
			payload:     "{\"a\":1}",
			payloadSeen: true,
		},
		{
			description: "second delimiter occurrence is plain payload",
			chunks:      []string{"a___UPDATE_JSON___x", "___UPDATE_JSON___y"},
			narration:   "a",
			payload:     "x___UPDATE_JSON___y",
			payloadSeen: true,
		},
		{
			description: "delimiter at stream start",
			chunks:      []string{"___UPDATE_JSON___", "{}"},
			narration:   "",
			payload:     "{}",
			payloadSeen: true,
		},
		{
			description: "delimiter at stream end with empty payload",
			chunks:      []string{"done ___UPDATE_JSON___"},
			narration:   "done ",
			payload:     "",
			payloadSeen: true,
		},
		{
			description: "custom delimiter",
			delimiter:   "@@END@@",
			chunks:      []string{"text@@", "END@@tail"},
			narration:   "text",
			payload:     "tail",
			payloadSeen: true,
		},
	}

	for _, tc := range testCases {
		var narration strings.Builder
		tr := New(tc.delimiter, func(text string) { narration.WriteString(text) })
		for _, chunk := range tc.chunks {
			tr.Write(chunk)
		}
		result := tr.End()
		assert.EqualValues(t, tc.narration, narration.String(), tc.description)
		assert.EqualValues(t, tc.payload, result.Payload, tc.description)
		assert.EqualValues(t, tc.payloadSeen, result.PayloadSeen, tc.description)
	}
}

func TestTransducer_ChunkingInvariance(t *testing.T) {
	// Any chunking of the same text must produce the same split.
	text := "Day one looks great! ___UPDATE_JSON___ {\"tripMeta\":{\"title\":\"Kyoto\"}}"
	var whole strings.Builder
	tr := New("", func(s string) { whole.WriteString(s) })
	tr.Write(text)
	want := tr.End()

	for size := 1; size < len(text); size++ {
		var narration strings.Builder
		tr := New("", func(s string) { narration.WriteString(s) })
		for start := 0; start < len(text); start += size {
			end := start + size
			if end > len(text) {
				end = len(text)
			}
			tr.Write(text[start:end])
		}
		got := tr.End()
		assert.EqualValues(t, whole.String(), narration.String(), "chunk size %d", size)
		assert.EqualValues(t, want, got, "chunk size %d", size)
	}
}

func TestTransducer_Abort(t *testing.T) {
	var narration strings.Builder
	tr := New("", func(s string) { narration.WriteString(s) })
	tr.Write("already visible ")
	tr.Write("___UPDATE_JSON___{\"partial\":")
	tr.Abort()
	result := tr.End()

	// Flushed narration stands, but no payload survives an abort.
	assert.EqualValues(t, "already visible ", narration.String())
	assert.EqualValues(t, "", result.Payload)
	assert.False(t, result.PayloadSeen)
}

func TestTransduce_Stream(t *testing.T) {
	events := make(chan llm.StreamEvent, 4)
	events <- llm.StreamEvent{Chunk: "hello "}
	events <- llm.StreamEvent{Chunk: "___UPDATE_JSON___{\"x\":1}"}
	close(events)

	var narration strings.Builder
	result, err := Transduce(context.Background(), events, "", func(s string) { narration.WriteString(s) })
	assert.NoError(t, err)
	assert.EqualValues(t, "hello ", narration.String())
	assert.EqualValues(t, "{\"x\":1}", result.Payload)
	assert.True(t, result.PayloadSeen)
}

func TestTransduce_StreamError(t *testing.T) {
	streamErr := errors.New("connection reset")
	events := make(chan llm.StreamEvent, 4)
	events <- llm.StreamEvent{Chunk: "partial narration that made it out"}
	events <- llm.StreamEvent{Err: streamErr}
	close(events)

	var narration strings.Builder
	result, err := Transduce(context.Background(), events, "", func(s string) { narration.WriteString(s) })
	assert.ErrorIs(t, err, streamErr)
	assert.EqualValues(t, "", result.Payload)
	assert.False(t, result.PayloadSeen)
	// The withheld tail never flushed, but everything safe already did.
	assert.True(t, strings.HasPrefix("partial narration that made it out", narration.String()))
}

func TestTransduce_ContextCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	events := make(chan llm.StreamEvent)
	_, err := Transduce(ctx, events, "", nil)
	assert.ErrorIs(t, err, context.Canceled)
}

func splitChars(s string) []string {
	out := make([]string, 0, len(s))
	for _, r := range s {
		out = append(out, string(r))
	}
	return out
}
