package llm

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"

	"github.com/kart-io/campusgpt/pkg/infra/tracing"
	"github.com/kart-io/campusgpt/pkg/utils/json"
)

// maxErrorBody 错误响应体最多保留的字节数。
const maxErrorBody = 4 << 10

// Endpoint is the JSON over HTTP transport shared by the providers.
type Endpoint struct {
	Provider string
	Client   *http.Client
}

// NewEndpoint returns an Endpoint whose requests time out after timeout.
func NewEndpoint(provider string, timeout time.Duration) Endpoint {
	return Endpoint{Provider: provider, Client: &http.Client{Timeout: timeout}}
}

// PostJSON sends in to url and decodes a 200 reply into out. Other statuses
// become an *APIError carrying the start of the body. The call is traced as
// a client span whose context travels in the W3C traceparent header.
func (e Endpoint) PostJSON(ctx context.Context, url string, header http.Header, in, out any) (err error) {
	ctx, span := tracing.StartSpan(ctx, "campusgpt/llm", e.Provider+".generate",
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(attribute.String("llm.provider", e.Provider)))
	defer func() {
		tracing.RecordError(ctx, err)
		span.End()
	}()

	body, err := json.Marshal(in)
	if err != nil {
		return fmt.Errorf("%s: encode request: %w", e.Provider, err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("%s: build request: %w", e.Provider, err)
	}
	for k, v := range header {
		req.Header[k] = v
	}
	req.Header.Set("Content-Type", "application/json")
	// 注入 W3C Trace Context
	otel.GetTextMapPropagator().Inject(ctx, propagation.HeaderCarrier(req.Header))

	resp, err := e.Client.Do(req)
	if err != nil {
		return fmt.Errorf("%s: %w", e.Provider, err)
	}
	defer resp.Body.Close()

	span.SetAttributes(attribute.Int("http.status_code", resp.StatusCode))
	if resp.StatusCode != http.StatusOK {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return &APIError{Provider: e.Provider, StatusCode: resp.StatusCode, Body: string(msg)}
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%s: decode response: %w", e.Provider, err)
	}
	return nil
}

// Settings are the connection values every provider factory accepts.
type Settings struct {
	BaseURL   string
	APIKey    string
	ChatModel string
	Timeout   time.Duration
}

// Apply overlays the non-empty base_url, api_key, chat_model and timeout
// entries of a factory config map onto s.
func (s *Settings) Apply(config map[string]any) {
	for key, dst := range map[string]*string{"base_url": &s.BaseURL, "api_key": &s.APIKey, "chat_model": &s.ChatModel} {
		if v, ok := config[key].(string); ok && v != "" {
			*dst = v
		}
	}
	if v, ok := config["timeout"].(time.Duration); ok && v > 0 {
		s.Timeout = v
	}
}
