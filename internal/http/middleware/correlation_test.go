package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/yungbote/scholarlink/internal/platform/ctxutil"
)

func correlatedRouter(seen *ctxutil.TraceData) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(Correlate())
	r.GET("/api/matches", func(c *gin.Context) {
		if td := ctxutil.GetTraceData(c.Request.Context()); td != nil {
			*seen = *td
		}
		c.Status(http.StatusOK)
	})
	return r
}

func TestCorrelateKeepsCallerRequestID(t *testing.T) {
	var seen ctxutil.TraceData
	r := correlatedRouter(&seen)

	req := httptest.NewRequest(http.MethodGet, "/api/matches", nil)
	req.Header.Set(RequestIDHeader, " engine-req-42 ")
	req.Header.Set(TraceIDHeader, "trace-7")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	if seen.RequestID != "engine-req-42" || seen.TraceID != "trace-7" {
		t.Fatalf("context ids=%+v", seen)
	}
	if got := rec.Header().Get(RequestIDHeader); got != "engine-req-42" {
		t.Fatalf("echoed request id=%q", got)
	}
	if got := rec.Header().Get(TraceIDHeader); got != "trace-7" {
		t.Fatalf("echoed trace id=%q", got)
	}
}

func TestCorrelateReplacesMissingOrUnsafeIDs(t *testing.T) {
	cases := map[string]string{
		"missing":  "",
		"newline":  "abc\nlevel=error forged",
		"oversize": strings.Repeat("a", maxCorrelationID+1),
	}
	for name, header := range cases {
		t.Run(name, func(t *testing.T) {
			var seen ctxutil.TraceData
			r := correlatedRouter(&seen)

			req := httptest.NewRequest(http.MethodGet, "/api/matches", nil)
			if header != "" {
				req.Header.Set(RequestIDHeader, header)
			}
			rec := httptest.NewRecorder()
			r.ServeHTTP(rec, req)

			if _, err := uuid.Parse(seen.RequestID); err != nil {
				t.Fatalf("request id %q is not a generated uuid", seen.RequestID)
			}
			if got := rec.Header().Get(RequestIDHeader); got != seen.RequestID {
				t.Fatalf("echoed=%q context=%q", got, seen.RequestID)
			}
			if seen.TraceID == "" {
				t.Fatalf("trace id not set")
			}
		})
	}
}
