package assistant

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/sipandsavor/cafe/pkg/errors"
	"github.com/sipandsavor/cafe/pkg/httpclient"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type stubGenerator struct {
	reply       string
	err         error
	instruction string
	query       string
	calls       int
}

func (s *stubGenerator) Generate(_ context.Context, instruction, query string) (string, error) {
	s.calls++
	s.instruction = instruction
	s.query = query
	return s.reply, s.err
}

func TestSystemInstruction(t *testing.T) {
	got := SystemInstruction("Signature Milk Tea (Milk Tea): $5.50. Description: Rich.")

	assert.Contains(t, got, `"SipBot"`)
	assert.Contains(t, got, `"Sip & Savor"`)
	assert.Contains(t, got, "Signature Milk Tea (Milk Tea): $5.50")
	assert.Contains(t, got, "3. Keep responses concise (under 60 words) and enthusiastic.")
	assert.Contains(t, got, "checking with staff")
	assert.Contains(t, got, "Do not invent menu items")
}

func TestProxy_Reply(t *testing.T) {
	tests := []struct {
		name    string
		gen     *stubGenerator
		text    string
		outcome Outcome
	}{
		{"answered", &stubGenerator{reply: "Try the Mango Tango! 🥭"}, "Try the Mango Tango! 🥭", OutcomeAnswered},
		{"empty text", &stubGenerator{reply: ""}, ReplyEmpty, OutcomeEmpty},
		{"empty reply error", &stubGenerator{err: ErrEmptyReply}, ReplyEmpty, OutcomeEmpty},
		{"transport failure", &stubGenerator{err: errors.New("connection reset")}, ReplyUnavailable, OutcomeFailed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := NewProxy(tt.gen, "menu", time.Second, discardLogger())

			got := p.Reply(context.Background(), "something refreshing?")

			assert.Equal(t, tt.text, got.Text)
			assert.Equal(t, tt.outcome, got.Outcome)
			assert.Equal(t, 1, tt.gen.calls)
			assert.Equal(t, "something refreshing?", tt.gen.query)
			assert.Contains(t, tt.gen.instruction, "menu")
		})
	}
}

func TestProxy_Unconfigured(t *testing.T) {
	p := NewProxy(nil, "menu", time.Second, discardLogger())

	assert.False(t, p.Configured())
	got := p.Reply(context.Background(), "hi")
	assert.Equal(t, ReplyUnconfigured, got.Text)
	assert.Equal(t, OutcomeUnconfigured, got.Outcome)
}

func newGemini(t *testing.T, handler http.HandlerFunc) *GeminiGenerator {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	cfg := httpclient.DefaultConfig()
	cfg.MaxRetries = 0
	client := httpclient.NewCircuitBreakerClient(httpclient.New(cfg),
		httpclient.DefaultCircuitBreakerConfig("gemini-test"), discardLogger())

	return NewGeminiGenerator(client, GeminiConfig{
		BaseURL: srv.URL + "/v1beta/",
		Model:   "gemini-2.5-flash",
		APIKey:  "test-key",
	})
}

func TestGeminiGenerator_Generate(t *testing.T) {
	var captured generateRequest
	gen := newGemini(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/v1beta/models/gemini-2.5-flash:generateContent", r.URL.Path)
		assert.Equal(t, "test-key", r.Header.Get("x-goog-api-key"))
		assert.Empty(t, r.URL.Query().Get("key"))
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&captured))

		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `{"candidates":[{"content":{"role":"model","parts":[{"text":"Try the "},{"text":"Jasmine Green Tea 🍵 "}]},"finishReason":"STOP"}]}`)
	})

	reply, err := gen.Generate(context.Background(), "be SipBot", "something light?")
	require.NoError(t, err)
	assert.Equal(t, "Try the Jasmine Green Tea 🍵", reply)

	require.NotNil(t, captured.SystemInstruction)
	assert.Equal(t, "be SipBot", captured.SystemInstruction.Parts[0].Text)
	require.Len(t, captured.Contents, 1)
	assert.Equal(t, "user", captured.Contents[0].Role)
	assert.Equal(t, "something light?", captured.Contents[0].Parts[0].Text)
}

func TestGeminiGenerator_EmptyCandidates(t *testing.T) {
	gen := newGemini(t, func(w http.ResponseWriter, _ *http.Request) {
		_, _ = io.WriteString(w, `{"candidates":[]}`)
	})

	_, err := gen.Generate(context.Background(), "sys", "q")
	assert.ErrorIs(t, err, ErrEmptyReply)
}

func TestGeminiGenerator_UpstreamError(t *testing.T) {
	gen := newGemini(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = io.WriteString(w, `{"error":{"code":400,"message":"API key not valid","status":"INVALID_ARGUMENT"}}`)
	})

	_, err := gen.Generate(context.Background(), "sys", "q")
	require.Error(t, err)
	assert.True(t, httpclient.IsUpstreamStatus(err, http.StatusBadRequest))
	assert.ErrorIs(t, err, apperrors.ErrInvalidInput)
	assert.Contains(t, err.Error(), "API key not valid")
	assert.NotContains(t, err.Error(), "test-key")
}

func TestGeminiGenerator_ServerErrorThroughProxy(t *testing.T) {
	gen := newGemini(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	})
	p := NewProxy(gen, "menu", time.Second, discardLogger())

	got := p.Reply(context.Background(), "hello")
	assert.Equal(t, ReplyUnavailable, got.Text)
	assert.Equal(t, OutcomeFailed, got.Outcome)
}
