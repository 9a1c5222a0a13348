package http

import (
	"time"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	httpH "github.com/yungbote/scholarlink/internal/http/handlers"
	httpMW "github.com/yungbote/scholarlink/internal/http/middleware"
	"github.com/yungbote/scholarlink/internal/platform/logger"
)

type RouterConfig struct {
	Log         *logger.Logger
	ServiceName string
	CORSOrigins []string

	AuthMiddleware *httpMW.AuthMiddleware

	// AILimiter throttles the scoring and generation endpoints; nil disables it.
	AILimiter httpMW.Limiter
	AILimit   int
	AIWindow  time.Duration

	HealthHandler      *httpH.HealthHandler
	MatchHandler       *httpH.MatchHandler
	ApplicationHandler *httpH.ApplicationHandler
	PlanHandler        *httpH.PlanHandler
	ResearchHandler    *httpH.ResearchHandler
	RealtimeHandler    *httpH.RealtimeHandler
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	if cfg.ServiceName != "" {
		r.Use(otelgin.Middleware(cfg.ServiceName))
	}
	r.Use(httpMW.Correlate())
	r.Use(httpMW.RequestLogger(cfg.Log))
	r.Use(httpMW.CORS(cfg.CORSOrigins...))

	// Health
	if cfg.HealthHandler != nil {
		r.GET("/healthcheck", cfg.HealthHandler.HealthCheck)
	}

	api := r.Group("/api")
	if cfg.AuthMiddleware != nil {
		api.Use(cfg.AuthMiddleware.RequireAuth())
	}
	ai := httpMW.RateLimit(cfg.AILimiter, "ai", cfg.AILimit, cfg.AIWindow)

	mentorOnly := func(c *gin.Context) { c.Next() }
	studentOnly := mentorOnly
	if cfg.AuthMiddleware != nil {
		mentorOnly = cfg.AuthMiddleware.RequireRole("mentor")
		studentOnly = cfg.AuthMiddleware.RequireRole("student")
	}

	// Matches
	if cfg.MatchHandler != nil {
		api.GET("/matches", cfg.MatchHandler.List)
		api.POST("/analyze-match/:id", ai, cfg.MatchHandler.Analyze)
		api.GET("/analyze-match/:id", ai, cfg.MatchHandler.Analyze)
	}

	// Applications
	if cfg.ApplicationHandler != nil {
		api.POST("/applications", studentOnly, cfg.ApplicationHandler.Submit)
		api.GET("/applications/mine", cfg.ApplicationHandler.ListMine)
		api.GET("/applications/mentor", mentorOnly, cfg.ApplicationHandler.ListForMentor)
		api.PATCH("/applications/:id/status", mentorOnly, cfg.ApplicationHandler.UpdateStatus)
		api.PUT("/applications/:id/status", mentorOnly, cfg.ApplicationHandler.UpdateStatus)
	}

	// Improvement plans
	if cfg.PlanHandler != nil {
		api.POST("/improvement-plans/:id", ai, cfg.PlanHandler.Generate)
		api.GET("/improvement-plans/mine", cfg.PlanHandler.ListMine)
		api.PATCH("/plan-items/:id", cfg.PlanHandler.UpdateItemStatus)
	}

	// Research gaps
	if cfg.ResearchHandler != nil {
		api.GET("/research-gaps/:mentorId/:studentId", ai, cfg.ResearchHandler.Discover)
		api.POST("/saved-research-gaps", cfg.ResearchHandler.Save)
		api.GET("/saved-research-gaps", cfg.ResearchHandler.ListSaved)
		api.DELETE("/saved-research-gaps/:id", cfg.ResearchHandler.DeleteSaved)
	}

	// Realtime
	if cfg.RealtimeHandler != nil {
		api.GET("/events", cfg.RealtimeHandler.Stream)
	}

	return r
}
