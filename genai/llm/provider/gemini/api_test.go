package gemini

import (
	"context"
	"net/http"
	"net/http/httptest"
	"runtime"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/JasonHongGG/TravelPlannerDashboard-sub000/genai/llm"
)

func TestClient_Generate(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.True(t, strings.HasSuffix(r.URL.Path, "gemini-2.0-flash:generateContent"))
		assert.EqualValues(t, "test-key", r.URL.Query().Get("key"))
		_, _ = w.Write([]byte(`{
			"candidates":[{"content":{"role":"model","parts":[{"text":"Day 1: Kyoto."}]}}],
			"usageMetadata":{"promptTokenCount":10,"candidatesTokenCount":5,"totalTokenCount":15},
			"modelVersion":"gemini-2.0-flash"
		}`))
	}))
	defer server.Close()

	client := NewClient("test-key", "gemini-2.0-flash", WithBaseURL(server.URL))
	response, err := client.Generate(context.Background(), &llm.GenerateRequest{
		Messages: []llm.Message{llm.NewUserMessage("plan Kyoto")},
	})
	assert.NoError(t, err)
	assert.EqualValues(t, "Day 1: Kyoto.", response.Content)
	if assert.NotNil(t, response.Usage) {
		assert.EqualValues(t, 15, response.Usage.TotalTokens)
	}
}

func TestClient_Stream(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.True(t, strings.HasSuffix(r.URL.Path, "gemini-2.0-flash:streamGenerateContent"))
		assert.EqualValues(t, "sse", r.URL.Query().Get("alt"))
		w.Header().Set("Content-Type", "text/event-stream")
		_, _ = w.Write([]byte(
			"data: {\"candidates\":[{\"content\":{\"parts\":[{\"text\":\"Adding \"}]}}]}\n" +
				"\n" +
				"data: {\"candidates\":[{\"content\":{\"parts\":[{\"text\":\"Nara.\"}]}}],\"usageMetadata\":{\"promptTokenCount\":8,\"candidatesTokenCount\":2,\"totalTokenCount\":10}}\n" +
				"\n"))
	}))
	defer server.Close()

	var usageTotal int
	client := NewClient("test-key", "gemini-2.0-flash",
		WithBaseURL(server.URL),
		WithUsageListener(func(model string, usage *llm.Usage) {
			usageTotal = usage.TotalTokens
		}))
	events, err := client.Stream(context.Background(), &llm.GenerateRequest{
		Messages: []llm.Message{llm.NewUserMessage("plan Kyoto")},
	})
	assert.NoError(t, err)

	var chunks []string
	for event := range events {
		assert.NoError(t, event.Err)
		chunks = append(chunks, event.Chunk)
	}
	assert.EqualValues(t, []string{"Adding ", "Nara."}, chunks)
	assert.EqualValues(t, 10, usageTotal)
}

func TestClient_Stream_ConsumerCancel(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/event-stream")
		flusher := w.(http.Flusher)
		for {
			_, err := w.Write([]byte("data: {\"candidates\":[{\"content\":{\"parts\":[{\"text\":\"more \"}]}}]}\n\n"))
			if err != nil {
				return
			}
			flusher.Flush()
			select {
			case <-r.Context().Done():
				return
			case <-time.After(time.Millisecond):
			}
		}
	}))
	defer server.Close()

	client := NewClient("test-key", "gemini-2.0-flash", WithBaseURL(server.URL))

	before := runtime.NumGoroutine()
	ctx, cancel := context.WithCancel(context.Background())
	events, err := client.Stream(ctx, &llm.GenerateRequest{
		Messages: []llm.Message{llm.NewUserMessage("plan Kyoto")},
	})
	assert.NoError(t, err)

	<-events
	cancel()

	// The producer must not stay pinned on a channel nobody reads anymore.
	assert.Eventually(t, func() bool {
		return runtime.NumGoroutine() <= before
	}, 2*time.Second, 10*time.Millisecond)
}

func TestClient_Stream_APIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":{"message":"quota exceeded"}}`, http.StatusTooManyRequests)
	}))
	defer server.Close()

	client := NewClient("test-key", "gemini-2.0-flash", WithBaseURL(server.URL))
	_, err := client.Stream(context.Background(), &llm.GenerateRequest{
		Messages: []llm.Message{llm.NewUserMessage("hi")},
	})
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "quota exceeded")
}

func TestClient_RequiresCredentials(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", "")
	client := NewClient("", "gemini-2.0-flash")
	_, err := client.Generate(context.Background(), &llm.GenerateRequest{})
	assert.Error(t, err)

	client = NewClient("key", "")
	_, err = client.Generate(context.Background(), &llm.GenerateRequest{})
	assert.Error(t, err)
}
