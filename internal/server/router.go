// ABOUTME: Route table for the conversation API
// ABOUTME: Health endpoint is unthrottled; everything under /api is rate limited
package server

import (
	"github.com/gin-gonic/gin"

	"github.com/junwei/hometalk/internal/logger"
	"github.com/junwei/hometalk/internal/ratelimit"
)

// RouterConfig carries the wired dependencies for the route table.
type RouterConfig struct {
	Handler *Handler
	Limiter ratelimit.Limiter
	Log     *logger.Logger
}

// NewRouter builds the gin engine.
func NewRouter(cfg RouterConfig) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(CORS())

	r.GET("/healthcheck", cfg.Handler.HealthCheck)

	api := r.Group("/api")
	if cfg.Limiter != nil {
		api.Use(RateLimit(cfg.Limiter, cfg.Log))
	}
	{
		api.POST("/households", cfg.Handler.CreateHousehold)
		api.GET("/households/:id", cfg.Handler.GetHousehold)

		api.POST("/sessions", cfg.Handler.StartSession)
		api.POST("/sessions/:id/turns/first", cfg.Handler.SubmitFirstTurn)
		api.POST("/sessions/:id/turns/reply", cfg.Handler.SubmitReplyTurn)
		api.GET("/sessions/:id/turns", cfg.Handler.ListTurns)

		api.POST("/summaries", cfg.Handler.GenerateSummary)
		api.GET("/summaries", cfg.Handler.GetSummary)

		api.GET("/vocabulary", cfg.Handler.GetVocabulary)

		api.POST("/speech", cfg.Handler.Speak)
	}

	return r
}
