package ai

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	openai "github.com/sashabaranov/go-openai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"geowatch/internal/config"
	"geowatch/internal/event"
)

type fakeProvider struct {
	t        *testing.T
	status   int
	reply    string
	last     openai.ChatCompletionRequest
	lastAuth string
}

func (f *fakeProvider) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if !strings.HasSuffix(r.URL.Path, "/chat/completions") {
		http.NotFound(w, r)
		return
	}
	f.lastAuth = r.Header.Get("Authorization")
	require.NoError(f.t, json.NewDecoder(r.Body).Decode(&f.last))

	w.Header().Set("Content-Type", "application/json")
	if f.status != 0 && f.status != http.StatusOK {
		w.WriteHeader(f.status)
		_, _ = w.Write([]byte(`{"error":{"message":"Incorrect API key provided: sk-bad.","type":"invalid_request_error","code":"invalid_api_key"}}`))
		return
	}
	resp := map[string]any{
		"id":      "chatcmpl-1",
		"object":  "chat.completion",
		"created": 1700000000,
		"model":   f.last.Model,
		"choices": []map[string]any{{
			"index":         0,
			"message":       map[string]string{"role": "assistant", "content": f.reply},
			"finish_reason": "stop",
		}},
		"usage": map[string]int{"prompt_tokens": 12, "completion_tokens": 3, "total_tokens": 15},
	}
	_ = json.NewEncoder(w).Encode(resp)
}

func newTestClient(t *testing.T, f *fakeProvider) *Client {
	t.Helper()
	f.t = t
	srv := httptest.NewServer(f)
	t.Cleanup(srv.Close)
	return New(config.AIConfig{BaseURL: srv.URL + "/v1"}, nil, nil)
}

func sampleEvent() event.Event {
	actor := "RUS"
	kind := "MIL"
	return event.Event{
		Source:           "https://example.com/story",
		GoldsteinScore:   -7.26,
		QuadClass:        event.MaterialConflict,
		FullName:         "Kharkiv, Ukraine",
		CountryCode:      "UA",
		ActorCountryCode: &actor,
		ActorFilter:      &kind,
		TimeAgo:          "3 hours ago",
	}
}

func TestChat(t *testing.T) {
	f := &fakeProvider{reply: "Here is my view."}
	c := newTestClient(t, f)

	reply, err := c.Chat(context.Background(), "sk-test", ChatRequest{
		Message: "What happens next?",
		PreviousMessages: []Message{
			{Role: "user", Content: "Hi"},
			{Role: "assistant", Content: "Hello"},
		},
		SourceContent: strings.Repeat("x", 2500),
	})
	require.NoError(t, err)
	assert.Equal(t, "Here is my view.", reply)

	assert.Equal(t, "Bearer sk-test", f.lastAuth)
	assert.Equal(t, openai.GPT4TurboPreview, f.last.Model)
	assert.InDelta(t, 0.7, f.last.Temperature, 0.0001)
	assert.Equal(t, 1000, f.last.MaxTokens)

	require.Len(t, f.last.Messages, 4)
	system := f.last.Messages[0].Content
	assert.Contains(t, system, "No specific context provided.")
	assert.Contains(t, system, strings.Repeat("x", 2000))
	assert.NotContains(t, system, strings.Repeat("x", 2001))
	assert.Equal(t, openai.ChatMessageRoleAssistant, f.last.Messages[2].Role)
	assert.Equal(t, "What happens next?", f.last.Messages[3].Content)
}

func TestChat_NoSource(t *testing.T) {
	f := &fakeProvider{reply: "ok"}
	c := newTestClient(t, f)

	_, err := c.Chat(context.Background(), "sk-test", ChatRequest{Message: "q", Context: "Event in Kharkiv"})
	require.NoError(t, err)
	assert.Contains(t, f.last.Messages[0].Content, "Event in Kharkiv")
	assert.Contains(t, f.last.Messages[0].Content, "No source content available.")
}

func TestMissingKey(t *testing.T) {
	c := New(config.AIConfig{}, nil, nil)

	_, err := c.Chat(context.Background(), " ", ChatRequest{Message: "q"})
	assert.ErrorIs(t, err, ErrMissingKey)
	_, err = c.Insights(context.Background(), "", InsightsRequest{Event: sampleEvent()})
	assert.ErrorIs(t, err, ErrMissingKey)
}

func TestInsightsPrompt(t *testing.T) {
	p := InsightsPrompt(InsightsRequest{Event: sampleEvent(), CountryLabel: "UA (Ukraine)"})

	assert.Contains(t, p, "EVENT TYPE: Material Conflict\n")
	assert.Contains(t, p, "LOCATION: Kharkiv, Ukraine\n")
	assert.Contains(t, p, "COUNTRY: UA (Ukraine)\n")
	assert.Contains(t, p, "ACTOR COUNTRY: RUS\n")
	assert.Contains(t, p, "ACTOR TYPE: MIL\n")
	assert.Contains(t, p, "GOLDSTEIN SCORE: -7.3\n")
	assert.Contains(t, p, "REPORTED: 3 hours ago\n")
	assert.Contains(t, p, "SOURCE URL: https://example.com/story\n")
	assert.Contains(t, p, "No content available from source")
	assert.Contains(t, p, "7. Recommendations for monitoring")
}

func TestInsightsPrompt_BlankActorLines(t *testing.T) {
	e := sampleEvent()
	e.ActorCountryCode = nil
	e.ActorFilter = nil
	e.GoldsteinScore = 3

	p := InsightsPrompt(InsightsRequest{Event: e, SourceContent: strings.Repeat("y", 3100)})
	assert.NotContains(t, p, "ACTOR COUNTRY")
	assert.NotContains(t, p, "ACTOR TYPE")
	assert.Contains(t, p, "COUNTRY: UA\n\n\nGOLDSTEIN SCORE: 3.0\n")
	assert.Contains(t, p, "GOLDSTEIN SCORE: 3.0\n")
	assert.Contains(t, p, strings.Repeat("y", 3000))
	assert.NotContains(t, p, strings.Repeat("y", 3001))
}

func TestInsights(t *testing.T) {
	f := &fakeProvider{reply: "## Executive summary"}
	c := newTestClient(t, f)

	out, err := c.Insights(context.Background(), "sk-test", InsightsRequest{Event: sampleEvent()})
	require.NoError(t, err)
	assert.Equal(t, "## Executive summary", out)
	assert.InDelta(t, 0.5, f.last.Temperature, 0.0001)
	assert.Equal(t, 1500, f.last.MaxTokens)
	require.Len(t, f.last.Messages, 2)
	assert.Contains(t, f.last.Messages[0].Content, "Free from political bias")
}

func TestInsights_Unauthorized(t *testing.T) {
	f := &fakeProvider{status: http.StatusUnauthorized}
	c := newTestClient(t, f)

	_, err := c.Insights(context.Background(), "sk-bad", InsightsRequest{Event: sampleEvent()})
	require.Error(t, err)
	assert.True(t, IsUnauthorized(err))
	assert.Equal(t, "Incorrect API key provided: sk-bad.", ProviderMessage(err))
}

func TestIsUnauthorized_OtherErrors(t *testing.T) {
	assert.False(t, IsUnauthorized(errors.New("boom")))
	assert.False(t, IsUnauthorized(&openai.APIError{HTTPStatusCode: http.StatusTooManyRequests}))
	assert.True(t, IsUnauthorized(&openai.RequestError{HTTPStatusCode: http.StatusUnauthorized, Err: errors.New("x")}))
	assert.Equal(t, "boom", ProviderMessage(errors.New("boom")))
}

func TestExtract(t *testing.T) {
	f := &fakeProvider{reply: `[{"name":"Kharkiv"}]`}
	c := newTestClient(t, f)

	out, err := c.Extract(context.Background(), "sk-test", "list city names", "<p>Kharkiv</p>")
	require.NoError(t, err)
	assert.JSONEq(t, `[{"name":"Kharkiv"}]`, out)
	assert.Equal(t, openai.GPT4oMini, f.last.Model)
	require.Len(t, f.last.Messages, 3)
	assert.Equal(t, "<p>Kharkiv</p>", f.last.Messages[1].Content)
	assert.Equal(t, "list city names", f.last.Messages[2].Content)
}

func TestExtract_Validation(t *testing.T) {
	c := New(config.AIConfig{}, nil, nil)
	_, err := c.Extract(context.Background(), "sk", "", "content")
	assert.ErrorIs(t, err, ErrMissingPrompt)
	_, err = c.Extract(context.Background(), "sk", "prompt", "")
	assert.ErrorIs(t, err, ErrMissingContent)
}

func TestEmptyCompletion(t *testing.T) {
	f := &fakeProvider{reply: "   "}
	c := newTestClient(t, f)

	_, err := c.Extract(context.Background(), "sk-test", "p", "c")
	assert.ErrorIs(t, err, ErrEmptyCompletion)
}
