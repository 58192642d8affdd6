package recommendation

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/JasonHongGG/TravelPlannerDashboard-sub000/genai/llm"
)

func TestExtractor_Write(t *testing.T) {
	testCases := []struct {
		description string
		chunks      []string
		expected    []string // item names in emission order
	}{
		{
			description: "two objects with surrounding noise",
			chunks: []string{
				`noise {"name":"A","description":"d","category":"c"} noise ` +
					`{"name":"B","description":"d","category":"c"}`,
			},
			expected: []string{"A", "B"},
		},
		{
			description: "object straddling chunk boundaries",
			chunks: []string{
				`Try this one: {"name":"Fushimi`,
				` Inari","description":"shrine","cat`,
				`egory":"attraction"} enjoy!`,
			},
			expected: []string{"Fushimi Inari"},
		},
		{
			description: "missing description is parsed but never emitted",
			chunks:      []string{`{"name":"A","category":"c"}`},
			expected:    nil,
		},
		{
			description: "balanced braces inside a string literal",
			chunks: []string{
				`{"name":"A","description":"d","category":"c","reason":"r","openHours":"{9-17}"}`,
			},
			expected: []string{"A"},
		},
		{
			description: "unbalanced brace inside a string literal defeats the scan",
			chunks: []string{
				`{"name":"A","description":"open {daily","category":"c"}`,
			},
			// The stray { keeps the depth count above zero, so the object
			// never appears to close and is discarded at stream end.
			expected: nil,
		},
		{
			description: "nested object braces balance out",
			chunks: []string{
				`[{"name":"A","description":"d","category":"c"},{"name":"B","description":"d","category":"c"}]`,
			},
			expected: []string{"A", "B"},
		},
		{
			description: "unterminated object at stream end is discarded",
			chunks:      []string{`{"name":"A","description":"d","cat`},
			expected:    nil,
		},
		{
			description: "malformed fragment then valid object",
			chunks: []string{
				`{"name": broken}`,
				` {"name":"C","description":"d","category":"food"}`,
			},
			expected: []string{"C"},
		},
		{
			description: "no duplicate emission when braces re-balance",
			chunks:      []string{`{"name":"A","description":"d","category":"c"}}}`},
			expected:    []string{"A"},
		},
	}

	for _, tc := range testCases {
		var got []string
		e := NewExtractor(func(item Item) { got = append(got, item.Name) })
		for _, chunk := range tc.chunks {
			e.Write(chunk)
		}
		e.End()
		assert.EqualValues(t, tc.expected, got, tc.description)
	}
}

func TestExtract_Stream(t *testing.T) {
	events := make(chan llm.StreamEvent, 4)
	events <- llm.StreamEvent{Chunk: `Here are two spots: {"name":"A","descri`}
	events <- llm.StreamEvent{Chunk: `ption":"d","category":"food"} and {"name":"B",`}
	events <- llm.StreamEvent{Chunk: `"description":"d","category":"food"}`}
	close(events)

	var got []Item
	err := Extract(context.Background(), events, func(item Item) { got = append(got, item) })
	assert.NoError(t, err)
	assert.Len(t, got, 2)
	assert.EqualValues(t, "A", got[0].Name)
	assert.EqualValues(t, "B", got[1].Name)
}

func TestExtract_StreamError(t *testing.T) {
	streamErr := errors.New("stalled")
	events := make(chan llm.StreamEvent, 3)
	events <- llm.StreamEvent{Chunk: `{"name":"A","description":"d","category":"c"}`}
	events <- llm.StreamEvent{Err: streamErr}
	close(events)

	var got []Item
	err := Extract(context.Background(), events, func(item Item) { got = append(got, item) })
	assert.ErrorIs(t, err, streamErr)
	// Items emitted before the failure stand.
	assert.Len(t, got, 1)
}

func TestItem_Valid(t *testing.T) {
	assert.True(t, Item{Name: "a", Description: "b", Category: "c"}.Valid())
	assert.False(t, Item{Name: "a", Description: "b"}.Valid())
	assert.False(t, Item{Name: "a", Category: "c"}.Valid())
	assert.False(t, Item{Description: "b", Category: "c"}.Valid())
}
