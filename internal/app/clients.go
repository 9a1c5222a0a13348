package app

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"

	httpMW "github.com/yungbote/scholarlink/internal/http/middleware"
	"github.com/yungbote/scholarlink/internal/platform/logger"
	"github.com/yungbote/scholarlink/internal/realtime"
	"github.com/yungbote/scholarlink/internal/realtime/bus"
)

type Clients struct {
	Redis     *redis.Client
	AILimiter httpMW.Limiter

	// Hub holds this instance's event streams. Emitter reaches every instance's hub:
	// through the Redis bus when connected, directly otherwise.
	Hub     *realtime.Hub
	Bus     bus.Bus
	Emitter realtime.Emitter

	stopForwarder context.CancelFunc
}

// wireClients connects to Redis when REDIS_ADDR is set. Without it, or when the ping
// fails, rate limiting and realtime delivery stay in process.
func wireClients(ctx context.Context, log *logger.Logger, cfg Config) Clients {
	log.Info("Wiring clients...")
	hub := realtime.NewHub(log)
	local := Clients{
		AILimiter: httpMW.NewMemoryLimiter(),
		Hub:       hub,
		Emitter:   &realtime.HubEmitter{Hub: hub},
	}
	if cfg.RedisAddr == "" {
		return local
	}
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
	})
	pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	if err := rdb.Ping(pingCtx).Err(); err != nil {
		log.Warn("Redis unavailable, using in-process rate limiting and events", "addr", cfg.RedisAddr, "error", err)
		_ = rdb.Close()
		return local
	}
	log.Info("Redis connected", "addr", cfg.RedisAddr)

	out := local
	out.Redis = rdb
	out.AILimiter = httpMW.NewRedisLimiter(rdb)

	b, err := bus.NewRedisBus(log, rdb, cfg.RealtimeChannel)
	if err != nil {
		log.Warn("Realtime bus disabled", "error", err)
		return out
	}
	fwdCtx, stop := context.WithCancel(context.Background())
	if err := b.StartForwarder(fwdCtx, hub.Broadcast); err != nil {
		stop()
		log.Warn("Realtime forwarder failed, delivering events in process", "error", err)
		return out
	}
	out.Bus = b
	out.Emitter = &bus.Emitter{Bus: b, Log: log}
	out.stopForwarder = stop
	return out
}

func (c Clients) Close() {
	if c.stopForwarder != nil {
		c.stopForwarder()
	}
	if c.Bus != nil {
		_ = c.Bus.Close()
	}
	if c.Redis != nil {
		_ = c.Redis.Close()
	}
}
