package app

import (
	"gorm.io/gorm"

	"github.com/yungbote/scholarlink/internal/data/repos"
	"github.com/yungbote/scholarlink/internal/platform/logger"
	"github.com/yungbote/scholarlink/internal/services"
)

type Services struct {
	Tokens       services.TokenService
	Matches      services.MatchService
	Applications services.ApplicationService
	Plans        services.PlanService
	Research     services.ResearchService
}

func wireServices(db *gorm.DB, log *logger.Logger, cfg Config, r repos.Set, clients Clients) Services {
	log.Info("Wiring services...")
	notify := services.NewEngagementNotifier(clients.Emitter)
	return Services{
		Tokens:       services.NewTokenService(log, cfg.JWTSecretKey),
		Matches:      services.NewMatchService(db, log, r),
		Applications: services.NewApplicationService(db, log, r, notify),
		Plans:        services.NewPlanService(db, log, r, notify, nil),
		Research:     services.NewResearchService(db, log, r, notify),
	}
}
