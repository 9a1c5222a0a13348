package app

import (
	"github.com/gin-gonic/gin"

	httpx "github.com/yungbote/scholarlink/internal/http"
	"github.com/yungbote/scholarlink/internal/platform/logger"
)

const serviceName = "scholarlink-backend"

func wireRouter(log *logger.Logger, cfg Config, clients Clients, handlers Handlers, middleware Middleware) *gin.Engine {
	log.Info("Wiring router...")
	return httpx.NewRouter(httpx.RouterConfig{
		Log:                log,
		ServiceName:        serviceName,
		CORSOrigins:        cfg.CORSOrigins,
		AuthMiddleware:     middleware.Auth,
		AILimiter:          clients.AILimiter,
		AILimit:            cfg.AIRateLimit,
		AIWindow:           cfg.AIRateWindow,
		HealthHandler:      handlers.Health,
		MatchHandler:       handlers.Match,
		ApplicationHandler: handlers.Application,
		PlanHandler:        handlers.Plan,
		ResearchHandler:    handlers.Research,
		RealtimeHandler:    handlers.Realtime,
	})
}
