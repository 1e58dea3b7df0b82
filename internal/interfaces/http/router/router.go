// Package router 提供 HTTP 路由配置
package router

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"velours-story-api/internal/config"
	"velours-story-api/internal/infrastructure/persistence/redis"
	"velours-story-api/internal/interfaces/http/handler"
	"velours-story-api/internal/interfaces/http/middleware"
)

// Handlers 路由依赖的处理器集合
type Handlers struct {
	Health  *handler.HealthHandler
	Story   *handler.StoryHandler
	History *handler.HistoryHandler
	Logs    *handler.LogsHandler
}

// Router HTTP 路由器
type Router struct {
	engine   *gin.Engine
	cfg      *config.Config
	handlers Handlers
	limiter  middleware.RateLimiter
}

// New 创建新的路由器。limiter 可为 nil,此时不启用限流。
func New(cfg *config.Config, handlers Handlers, limiter middleware.RateLimiter) *Router {
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := &Router{
		engine:   gin.New(),
		cfg:      cfg,
		handlers: handlers,
		limiter:  limiter,
	}

	r.setupMiddleware()
	r.setupRoutes()

	return r
}

// Engine 返回 Gin Engine
func (r *Router) Engine() *gin.Engine {
	return r.engine
}

// setupMiddleware 配置中间件
func (r *Router) setupMiddleware() {
	r.engine.Use(middleware.Recovery())
	r.engine.Use(middleware.RequestID())

	r.engine.Use(middleware.CORS(middleware.CORSConfig{
		AllowedOrigins: r.cfg.Security.CORS.AllowedOrigins,
		AllowedMethods: r.cfg.Security.CORS.AllowedMethods,
		AllowedHeaders: r.cfg.Security.CORS.AllowedHeaders,
	}))

	if r.cfg.Observability.Tracing.Enabled {
		r.engine.Use(middleware.Trace(r.cfg.App.Name))
		r.engine.Use(middleware.TraceContext())
	}

	if r.cfg.Observability.Metrics.Enabled {
		r.engine.Use(middleware.Metrics())
	}
}

// setupRoutes 配置路由
func (r *Router) setupRoutes() {
	// 系统端点
	r.engine.GET("/health", r.handlers.Health.Health)
	r.engine.GET("/ready", r.handlers.Health.Ready)
	r.engine.GET("/live", r.handlers.Health.Live)

	if r.cfg.Observability.Metrics.Enabled {
		r.engine.GET(r.cfg.Observability.Metrics.Path, gin.WrapH(promhttp.Handler()))
	}

	v1 := r.engine.Group("/v1")

	// 生成端点单独限流,调用远贵于普通请求
	stories := v1.Group("/stories")
	stories.Use(r.rateLimit())
	{
		stories.POST("/generate", r.handlers.Story.Generate)
	}

	logs := v1.Group("/logs")
	{
		logs.GET("", r.handlers.Logs.List)
		logs.POST("", r.handlers.Logs.Append)
		logs.DELETE("", r.handlers.Logs.Clear)
		// 既有客户端在跨域预检外还会显式发送 OPTIONS
		logs.OPTIONS("", func(c *gin.Context) { c.Status(200) })
	}

	users := v1.Group("/users/:uid")
	{
		users.GET("/history", r.handlers.History.GetHistory)
		users.GET("/history/stories", r.handlers.History.ListStories)
		users.GET("/history/stats", r.handlers.History.GetStats)
		users.GET("/history/export", r.handlers.History.Export)
		users.DELETE("/history", r.handlers.History.DeleteHistory)
		users.POST("/questionnaires", r.handlers.History.SaveQuestionnaire)
		users.GET("/profile", r.handlers.History.GetDerivedProfile)
	}
}

// rateLimit 生成端点的限流中间件
func (r *Router) rateLimit() gin.HandlerFunc {
	return middleware.RateLimit(middleware.RateLimitConfig{
		Enabled:           r.cfg.Security.RateLimit.Enabled,
		RequestsPerSecond: r.cfg.Security.RateLimit.RequestsPerSecond,
		Burst:             r.cfg.Security.RateLimit.Burst,
	}, r.limiter, redis.BuildClientKey)
}
