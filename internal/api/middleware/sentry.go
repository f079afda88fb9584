package middleware

import (
	"fmt"
	"net/http"
	"time"

	"github.com/getsentry/sentry-go"
	sentrygin "github.com/getsentry/sentry-go/gin"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/softwarewrighter/midi-cli/internal/logger"
	"github.com/softwarewrighter/midi-cli/internal/metrics"
)

const (
	requestIDKey       = "request_id"
	requestIDHeader    = "X-Request-ID"
	sentryFlushTimeout = 2 * time.Second
)

var spans = metrics.NewSentryMetrics()

// RequestTracking tags every request with an ID, logs its outcome and
// records it in Sentry and CloudWatch. cw may be nil.
func RequestTracking(cw *metrics.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := uuid.New().String()
		c.Set(requestIDKey, requestID)
		c.Header(requestIDHeader, requestID)

		start := time.Now()
		span := spans.StartAPIRequest(c.Request.Context())
		c.Next()
		duration := time.Since(start)
		status := c.Writer.Status()

		logOutcome(c, requestID, status, duration)

		// Metrics are keyed by route template
		endpoint := c.FullPath()
		if endpoint == "" {
			endpoint = "unmatched"
		}
		spans.FinishAPIRequest(span, endpoint, status)
		cw.RecordAPIRequest(endpoint, status, duration)
	}
}

func logOutcome(c *gin.Context, requestID string, status int, duration time.Duration) {
	if status < http.StatusBadRequest {
		logger.LogAPIRequest(c, duration, status, nil)
		return
	}

	fields := logger.Fields{
		requestIDKey:  requestID,
		"duration_ms": duration.Milliseconds(),
		"status_code": status,
		"method":      c.Request.Method,
		"path":        c.Request.URL.Path,
		"client_ip":   c.ClientIP(),
	}
	if len(c.Errors) > 0 {
		fields["errors"] = c.Errors.String()
	}
	if status >= http.StatusInternalServerError {
		logger.Error("Request failed with server error", fmt.Errorf("status %d", status), fields)
		return
	}
	logger.Warn("Request failed with client error", fields)
}

// SentryMiddleware attaches a Sentry hub to each request. Panics are
// re-raised for RecoverWithSentry.
func SentryMiddleware() gin.HandlerFunc {
	return sentrygin.New(sentrygin.Options{
		Repanic: true,
		Timeout: sentryFlushTimeout,
	})
}

// RecoverWithSentry turns panics into a 500 JSON response and reports them.
func RecoverWithSentry() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			rec := recover()
			if rec == nil {
				return
			}
			requestID := c.GetString(requestIDKey)

			if hub := sentrygin.GetHubFromContext(c); hub != nil {
				hub.WithScope(func(scope *sentry.Scope) {
					scope.SetRequest(c.Request)
					scope.SetTag(requestIDKey, requestID)
					hub.RecoverWithContext(c.Request.Context(), rec)
				})
			}

			logger.Error("Panic recovered", fmt.Errorf("panic: %v", rec), logger.Fields{
				requestIDKey: requestID,
				"path":       c.Request.URL.Path,
			})

			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
				"error":      "Internal server error",
				requestIDKey: requestID,
			})
		}()
		c.Next()
	}
}
