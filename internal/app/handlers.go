package app

import (
	"context"

	"gorm.io/gorm"

	httpH "github.com/yungbote/scholarlink/internal/http/handlers"
	"github.com/yungbote/scholarlink/internal/platform/logger"
)

type Handlers struct {
	Health      *httpH.HealthHandler
	Match       *httpH.MatchHandler
	Application *httpH.ApplicationHandler
	Plan        *httpH.PlanHandler
	Research    *httpH.ResearchHandler
	Realtime    *httpH.RealtimeHandler
}

func wireHandlers(log *logger.Logger, db *gorm.DB, services Services, clients Clients) Handlers {
	log.Info("Wiring handlers...")
	ping := func(ctx context.Context) error {
		sqlDB, err := db.DB()
		if err != nil {
			return err
		}
		return sqlDB.PingContext(ctx)
	}
	return Handlers{
		Health:      httpH.NewHealthHandler(ping),
		Match:       httpH.NewMatchHandler(services.Matches),
		Application: httpH.NewApplicationHandler(services.Applications),
		Plan:        httpH.NewPlanHandler(services.Plans),
		Research:    httpH.NewResearchHandler(services.Research),
		Realtime:    httpH.NewRealtimeHandler(log, clients.Hub),
	}
}
