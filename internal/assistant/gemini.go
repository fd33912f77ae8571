package assistant

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/sipandsavor/cafe/pkg/httpclient"
	"github.com/sipandsavor/cafe/pkg/tracing"
)

const apiKeyHeader = "x-goog-api-key"

// ErrEmptyReply is returned when the model answers without any text.
var ErrEmptyReply = errors.New("model returned no text")

// Doer sends an HTTP request. *httpclient.CircuitBreakerClient satisfies it.
type Doer interface {
	Do(ctx context.Context, req *http.Request) (*http.Response, error)
}

// GeminiConfig describes the generative language endpoint.
type GeminiConfig struct {
	BaseURL string
	Model   string
	APIKey  string
}

// GeminiGenerator calls the Gemini generateContent REST endpoint.
type GeminiGenerator struct {
	client Doer
	cfg    GeminiConfig
	tracer trace.Tracer
}

// NewGeminiGenerator creates a generator that sends requests through client.
func NewGeminiGenerator(client Doer, cfg GeminiConfig) *GeminiGenerator {
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	return &GeminiGenerator{
		client: client,
		cfg:    cfg,
		tracer: tracing.Tracer("cafe/assistant"),
	}
}

type part struct {
	Text string `json:"text"`
}

type content struct {
	Role  string `json:"role,omitempty"`
	Parts []part `json:"parts"`
}

type generateRequest struct {
	SystemInstruction *content  `json:"systemInstruction,omitempty"`
	Contents          []content `json:"contents"`
}

type generateResponse struct {
	Candidates []struct {
		Content      content `json:"content"`
		FinishReason string  `json:"finishReason"`
	} `json:"candidates"`
}

// Generate asks the model to answer query under systemInstruction. Only the
// current query is sent; earlier turns are not replayed.
func (g *GeminiGenerator) Generate(ctx context.Context, systemInstruction, query string) (reply string, err error) {
	ctx, span := g.tracer.Start(ctx, "gemini.generateContent",
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(attribute.String("gen_ai.request.model", g.cfg.Model)),
	)
	defer func() { tracing.End(span, err) }()

	body, err := json.Marshal(generateRequest{
		SystemInstruction: &content{Parts: []part{{Text: systemInstruction}}},
		Contents:          []content{{Role: "user", Parts: []part{{Text: query}}}},
	})
	if err != nil {
		return "", fmt.Errorf("marshal generate request: %w", err)
	}

	endpoint := fmt.Sprintf("%s/models/%s:generateContent", g.cfg.BaseURL, url.PathEscape(g.cfg.Model))
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("build generate request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	// Header rather than query string so the key never ends up in error messages.
	req.Header.Set(apiKeyHeader, g.cfg.APIKey)

	resp, err := g.client.Do(ctx, req)
	if err != nil {
		return "", fmt.Errorf("generate content: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", httpclient.ParseResponseError(resp, "gemini")
	}

	var out generateResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("decode generate response: %w", err)
	}

	var b strings.Builder
	if len(out.Candidates) > 0 {
		for _, p := range out.Candidates[0].Content.Parts {
			b.WriteString(p.Text)
		}
	}
	reply = strings.TrimSpace(b.String())
	if reply == "" {
		return "", ErrEmptyReply
	}
	span.SetAttributes(attribute.Int("gen_ai.response.length", len(reply)))
	return reply, nil
}
