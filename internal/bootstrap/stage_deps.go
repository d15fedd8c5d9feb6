// Package bootstrap opens the optional backends shared by the commands.
package bootstrap

import (
	"context"
	"fmt"
	"log/slog"
	"route-pipeline-adapter/internal/adapters/cache"
	"route-pipeline-adapter/internal/adapters/repositories"
	"route-pipeline-adapter/internal/adapters/stages"
	"route-pipeline-adapter/internal/config"
	"route-pipeline-adapter/internal/platform/db"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisPingTimeout bounds the connectivity check done on the Redis client.
const RedisPingTimeout = 5 * time.Second

// StageDeps connects the Postgres and Redis backends configured in env and
// returns them as built-in stage dependencies. A backend that is not
// configured is left nil. The returned func closes whatever was opened.
func StageDeps(ctx context.Context, env config.Env, logger *slog.Logger) (stages.Deps, func(), error) {
	if logger == nil {
		logger = slog.Default()
	}
	deps := stages.Deps{Logger: logger}
	var closers []func() error

	closeAll := func() {
		for i := len(closers) - 1; i >= 0; i-- {
			_ = closers[i]()
		}
	}

	if env.DatabaseURL != "" {
		conn, err := db.Open(ctx, env.DatabaseURL)
		if err != nil {
			return stages.Deps{}, func() {}, err
		}
		closers = append(closers, conn.Close)

		if err := repositories.InitSchema(conn); err != nil {
			closeAll()
			return stages.Deps{}, func() {}, err
		}
		deps.Plans = repositories.NewSQLRoutePlanRepository(conn)
	} else {
		logger.Info("DATABASE_URL not set, route plans will not be persisted")
	}

	if env.RedisAddr != "" {
		client, err := openRedis(ctx, env.RedisAddr)
		if err != nil {
			closeAll()
			return stages.Deps{}, func() {}, err
		}
		closers = append(closers, client.Close)

		deps.MetaStore = cache.NewRedisRunMetaStore(client, env.RunMetaTTL)
	} else {
		logger.Info("REDIS_ADDR not set, run meta will not be published")
	}

	return deps, closeAll, nil
}

func openRedis(ctx context.Context, addr string) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{Addr: addr})

	pingCtx, cancel := context.WithTimeout(ctx, RedisPingTimeout)
	defer cancel()

	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("open redis: ping %s: %w", addr, err)
	}
	return client, nil
}

