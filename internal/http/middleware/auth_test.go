package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/yungbote/scholarlink/internal/http/response"
	"github.com/yungbote/scholarlink/internal/platform/ctxutil"
	"github.com/yungbote/scholarlink/internal/services"
)

func TestRequireAuthAndRole(t *testing.T) {
	gin.SetMode(gin.TestMode)
	tokens := services.NewTokenService(nil, "test-secret")
	am := NewAuthMiddleware(nil, tokens)

	r := gin.New()
	g := r.Group("/api", am.RequireAuth())
	g.GET("/whoami", func(c *gin.Context) {
		rd := ctxutil.GetRequestData(c.Request.Context())
		c.String(http.StatusOK, rd.Role)
	})
	g.GET("/mentor-only", am.RequireRole("mentor"), func(c *gin.Context) {
		c.Status(http.StatusNoContent)
	})

	student, err := tokens.Issue(uuid.New(), "student", time.Hour)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	mentor, err := tokens.Issue(uuid.New(), "mentor", time.Hour)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	cases := []struct {
		name   string
		path   string
		token  string
		status int
		code   string
	}{
		{"missing", "/api/whoami", "", http.StatusUnauthorized, "unauthorized"},
		{"garbage", "/api/whoami", "not-a-jwt", http.StatusUnauthorized, "unauthorized"},
		{"student", "/api/whoami", student, http.StatusOK, ""},
		{"student on mentor route", "/api/mentor-only", student, http.StatusForbidden, "forbidden"},
		{"mentor", "/api/mentor-only", mentor, http.StatusNoContent, ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, tc.path, nil)
			if tc.token != "" {
				req.Header.Set("Authorization", "Bearer "+tc.token)
			}
			rec := httptest.NewRecorder()
			r.ServeHTTP(rec, req)
			if rec.Code != tc.status {
				t.Fatalf("status=%d want %d body=%s", rec.Code, tc.status, rec.Body.String())
			}
			if tc.code == "" {
				return
			}
			var env response.ErrorEnvelope
			if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
				t.Fatalf("decode: %v", err)
			}
			if env.Error.Code != tc.code {
				t.Fatalf("code=%q want %q", env.Error.Code, tc.code)
			}
		})
	}
}

func TestRequireAuthAcceptsQueryTokenOnGET(t *testing.T) {
	gin.SetMode(gin.TestMode)
	tokens := services.NewTokenService(nil, "test-secret")
	am := NewAuthMiddleware(nil, tokens)
	r := gin.New()
	r.Any("/api/events", am.RequireAuth(), func(c *gin.Context) { c.Status(http.StatusNoContent) })

	tok, err := tokens.Issue(uuid.New(), "student", time.Hour)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/events?token="+tok, nil))
	if w.Code != http.StatusNoContent {
		t.Fatalf("GET status=%d body=%s", w.Code, w.Body.String())
	}

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/events?token="+tok, nil))
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("POST status=%d body=%s", w.Code, w.Body.String())
	}
}
