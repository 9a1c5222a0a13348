package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/yungbote/scholarlink/internal/http/response"
	"github.com/yungbote/scholarlink/internal/platform/apierr"
	"github.com/yungbote/scholarlink/internal/platform/ctxutil"
	"github.com/yungbote/scholarlink/internal/platform/logger"
	"github.com/yungbote/scholarlink/internal/services"
)

type AuthMiddleware struct {
	log    *logger.Logger
	tokens services.TokenService
}

func NewAuthMiddleware(log *logger.Logger, tokens services.TokenService) *AuthMiddleware {
	middlewareLogger := logger.OrNop(log).With("Middleware", "AuthMiddleware")
	return &AuthMiddleware{log: middlewareLogger, tokens: tokens}
}

func (am *AuthMiddleware) RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString := extractBearer(c)
		if tokenString == "" {
			abort(c, http.StatusUnauthorized, apierr.CodeUnauthorized, "missing or invalid token")
			return
		}
		ctx, err := am.tokens.SetContextFromToken(c.Request.Context(), tokenString)
		if err != nil {
			am.log.Debug("Rejected token", "error", err)
			abort(c, http.StatusUnauthorized, apierr.CodeUnauthorized, "missing or invalid token")
			return
		}
		c.Request = c.Request.WithContext(ctx)
		rd := ctxutil.GetRequestData(ctx)
		if rd == nil || rd.UserID == uuid.Nil {
			abort(c, http.StatusForbidden, apierr.CodeForbidden, "forbidden")
			return
		}
		c.Next()
	}
}

// RequireRole lets through callers with one of roles. Admin always passes.
func (am *AuthMiddleware) RequireRole(roles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		rd := ctxutil.GetRequestData(c.Request.Context())
		if rd == nil {
			abort(c, http.StatusUnauthorized, apierr.CodeUnauthorized, "missing or invalid token")
			return
		}
		if rd.Role == "admin" {
			c.Next()
			return
		}
		for _, r := range roles {
			if rd.Role == r {
				c.Next()
				return
			}
		}
		abort(c, http.StatusForbidden, apierr.CodeForbidden, "this action requires the "+strings.Join(roles, " or ")+" role")
	}
}

func abort(c *gin.Context, status int, code, msg string) {
	c.AbortWithStatusJSON(status, response.ErrorEnvelope{Error: response.APIError{Message: msg, Code: code}})
}

// extractBearer reads the Authorization header, falling back to ?token= for
// EventSource clients, which cannot set headers.
func extractBearer(c *gin.Context) string {
	authHeader := c.GetHeader("Authorization")
	if len(authHeader) > 7 && strings.EqualFold(authHeader[:7], "Bearer ") {
		return strings.TrimSpace(authHeader[7:])
	}
	if c.Request.Method == http.MethodGet {
		return strings.TrimSpace(c.Query("token"))
	}
	return ""
}
