package metrics

import (
	"context"
	"net/http"
	"path/filepath"
	"strconv"
	"time"

	"github.com/getsentry/sentry-go"
)

// SentryMetrics records performance spans in Sentry. Each span is opened
// before the work it measures and finished once the outcome is known. Spans
// are dropped when Sentry has not been initialised.
type SentryMetrics struct{}

// NewSentryMetrics creates a span recorder
func NewSentryMetrics() *SentryMetrics {
	return &SentryMetrics{}
}

// StartAPIRequest opens a span for a request about to be handled
func (m *SentryMetrics) StartAPIRequest(ctx context.Context) *sentry.Span {
	return sentry.StartSpan(ctx, "api.request")
}

// FinishAPIRequest closes a request span with its route and status
func (m *SentryMetrics) FinishAPIRequest(span *sentry.Span, endpoint string, statusCode int) {
	span.Description = "API Request: " + endpoint
	span.SetTag("endpoint", endpoint)
	span.SetTag("status_code", strconv.Itoa(statusCode))
	span.SetData("status_code", statusCode)
	finish(span, statusCode < http.StatusBadRequest)
}

// StartGeneration opens a span around one composition
func (m *SentryMetrics) StartGeneration(ctx context.Context, mood string) *sentry.Span {
	span := sentry.StartSpan(ctx, "generation.compose", sentry.WithDescription("Compose "+mood))
	span.SetTag("mood", mood)
	return span
}

// FinishGeneration tags the enclosing transaction with the composition and
// closes its span
func (m *SentryMetrics) FinishGeneration(span *sentry.Span, mood string, seed uint64, notes int, success bool) {
	if tx := sentry.TransactionFromContext(span.Context()); tx != nil {
		tx.SetTag("preset.mood", mood)
		tx.SetData("preset.seed", seed)
	}
	span.SetData("seed", seed)
	span.SetData("notes", notes)
	finish(span, success)
}

// StartRender opens a span around a FluidSynth render
func (m *SentryMetrics) StartRender(ctx context.Context, soundFont string) *sentry.Span {
	span := sentry.StartSpan(ctx, "render.fluidsynth", sentry.WithDescription("Render with "+filepath.Base(soundFont)))
	span.SetData("soundfont", soundFont)
	return span
}

// FinishRender closes a render span
func (m *SentryMetrics) FinishRender(span *sentry.Span, success bool) {
	finish(span, success)
}

func finish(span *sentry.Span, ok bool) {
	span.SetTag("success", strconv.FormatBool(ok))
	span.SetData("duration_ms", time.Since(span.StartTime).Milliseconds())

	span.Status = sentry.SpanStatusOK
	if !ok {
		span.Status = sentry.SpanStatusInternalError
	}
	span.Finish()
}
