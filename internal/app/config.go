package app

import (
	"strings"
	"time"

	"github.com/yungbote/scholarlink/internal/platform/envutil"
	"github.com/yungbote/scholarlink/internal/platform/logger"
)

const defaultJWTSecret = "defaultsecret"

type Config struct {
	LogMode     string
	HTTPAddr    string
	Environment string
	Version     string

	DBDriver string
	DBDSN    string

	JWTSecretKey   string
	AccessTokenTTL time.Duration

	RedisAddr     string
	RedisPassword string
	AIRateLimit   int
	AIRateWindow  time.Duration

	// RealtimeChannel is the Redis pub/sub channel events travel on between instances.
	RealtimeChannel string

	CORSOrigins []string
	SeedFile    string
}

func LoadConfig(log *logger.Logger) Config {
	cfg := Config{
		LogMode:        envutil.String("LOG_MODE", "development"),
		HTTPAddr:       envutil.String("HTTP_ADDR", ":8080"),
		Environment:    envutil.String("APP_ENV", "development"),
		Version:        envutil.String("APP_VERSION", "dev"),
		DBDriver:       envutil.String("DB_DRIVER", "sqlite"),
		DBDSN:          envutil.String("DB_DSN", ""),
		JWTSecretKey:   envutil.String("JWT_SECRET_KEY", defaultJWTSecret),
		AccessTokenTTL: envutil.Duration("ACCESS_TOKEN_TTL", time.Hour),
		RedisAddr:      envutil.String("REDIS_ADDR", ""),
		RedisPassword:  envutil.String("REDIS_PASSWORD", ""),
		AIRateLimit:    envutil.Int("AI_RATE_LIMIT", 20),
		AIRateWindow:   envutil.Duration("AI_RATE_WINDOW", time.Minute),
		SeedFile:       envutil.String("SEED_FILE", ""),
	}
	cfg.RealtimeChannel = envutil.String("REDIS_CHANNEL", "scholarlink:events")
	for _, o := range strings.Split(envutil.String("CORS_ORIGINS", ""), ",") {
		if o = strings.TrimSpace(o); o != "" {
			cfg.CORSOrigins = append(cfg.CORSOrigins, o)
		}
	}
	if cfg.JWTSecretKey == defaultJWTSecret {
		logger.OrNop(log).Warn("JWT_SECRET_KEY not set, using the development default")
	}
	return cfg
}
