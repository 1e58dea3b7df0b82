// Package app 负责应用组件的装配与生命周期管理
package app

import (
	"context"
	"fmt"

	"github.com/gin-gonic/gin"

	"velours-story-api/internal/application/history"
	"velours-story-api/internal/application/story"
	"velours-story-api/internal/config"
	"velours-story-api/internal/infrastructure/llm"
	"velours-story-api/internal/infrastructure/persistence/file"
	"velours-story-api/internal/infrastructure/persistence/postgres"
	redisinfra "velours-story-api/internal/infrastructure/persistence/redis"
	"velours-story-api/internal/infrastructure/webhook"
	"velours-story-api/internal/interfaces/http/handler"
	"velours-story-api/internal/interfaces/http/middleware"
	"velours-story-api/internal/interfaces/http/router"
	"velours-story-api/pkg/logger"
)

// App 装配完成的应用
type App struct {
	cfg    *config.Config
	router *router.Router
	pg     *postgres.Client
	redis  *redisinfra.Client
}

// New 装配全部组件。Postgres 必需;Redis 可选,缺席时统计缓存与限流降级关闭。
// 返回的 cleanup 负责释放外部连接。
func New(ctx context.Context, cfg *config.Config) (*App, func(), error) {
	pg, err := postgres.NewClient(&cfg.Database.Postgres)
	if err != nil {
		return nil, nil, fmt.Errorf("init postgres: %w", err)
	}
	if err := pg.Migrate(); err != nil {
		_ = pg.Close()
		return nil, nil, fmt.Errorf("migrate schema: %w", err)
	}

	redisClient, err := redisinfra.NewClient(&cfg.Cache.Redis)
	if err != nil {
		logger.Warn(ctx, "redis unavailable, stats cache and rate limiting disabled", "error", err)
		redisClient = nil
	}

	logStore, err := file.NewLogStore(cfg.LogStore.Path, cfg.LogStore.MaxEntries)
	if err != nil {
		cleanupClients(pg, redisClient)
		return nil, nil, fmt.Errorf("init log store: %w", err)
	}

	gateway := llm.NewGrokGateway(&cfg.LLM)
	dispatcher := webhook.NewDispatcher(&cfg.Webhook)
	generator := story.NewGenerator(gateway, dispatcher, cfg.Story.ProfileDefaults)

	var statsCache history.StatsCache
	var limiter middleware.RateLimiter
	if redisClient != nil {
		statsCache = redisinfra.NewCache(redisClient)
		limiter = redisinfra.NewRateLimiter(redisClient)
	}

	historySvc := history.NewService(postgres.NewHistoryRepository(pg), statsCache)

	handlers := router.Handlers{
		Health:  handler.NewHealthHandler(pg, redisClient),
		Story:   handler.NewStoryHandler(generator, historySvc),
		History: handler.NewHistoryHandler(historySvc),
		Logs:    handler.NewLogsHandler(logStore),
	}

	a := &App{
		cfg:    cfg,
		router: router.New(cfg, handlers, limiter),
		pg:     pg,
		redis:  redisClient,
	}

	cleanup := func() {
		cleanupClients(a.pg, a.redis)
	}
	return a, cleanup, nil
}

// Engine 返回 HTTP 引擎
func (a *App) Engine() *gin.Engine {
	return a.router.Engine()
}

func cleanupClients(pg *postgres.Client, redisClient *redisinfra.Client) {
	if redisClient != nil {
		if err := redisClient.Close(); err != nil {
			logger.Warn(context.Background(), "failed to close redis", "error", err)
		}
	}
	if pg != nil {
		if err := pg.Close(); err != nil {
			logger.Warn(context.Background(), "failed to close postgres", "error", err)
		}
	}
}
