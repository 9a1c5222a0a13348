package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/yungbote/scholarlink/internal/platform/ctxutil"
)

// The engine client sends both headers on every call; responses echo them back.
const (
	RequestIDHeader = "X-Request-Id"
	TraceIDHeader   = "X-Trace-Id"

	maxCorrelationID = 128
)

// Correlate records the caller's request id in the request context, where the
// request log picks it up. A missing or malformed id is replaced with a fresh one.
// When otelgin has started a span its trace id wins over the header and the span is
// tagged with the request id.
func Correlate() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()
		reqID := correlationID(c.GetHeader(RequestIDHeader))

		var traceID string
		if sc := trace.SpanContextFromContext(ctx); sc.HasTraceID() {
			traceID = sc.TraceID().String()
			trace.SpanFromContext(ctx).SetAttributes(attribute.String("request.id", reqID))
		} else {
			traceID = correlationID(c.GetHeader(TraceIDHeader))
		}

		c.Request = c.Request.WithContext(ctxutil.WithTraceData(ctx, &ctxutil.TraceData{
			TraceID:   traceID,
			RequestID: reqID,
		}))
		h := c.Writer.Header()
		h.Set(RequestIDHeader, reqID)
		h.Set(TraceIDHeader, traceID)
		c.Next()
	}
}

// correlationID accepts a caller id only if it is short and log-safe.
func correlationID(v string) string {
	v = strings.TrimSpace(v)
	if v == "" || len(v) > maxCorrelationID || strings.IndexFunc(v, unsafeIDRune) >= 0 {
		return uuid.NewString()
	}
	return v
}

func unsafeIDRune(r rune) bool {
	switch {
	case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
		return false
	case r == '-', r == '_', r == '.', r == ':':
		return false
	}
	return true
}
