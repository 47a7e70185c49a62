// ABOUTME: Gin middleware: CORS for the browser bridge and per-client rate limiting
// ABOUTME: Rate limit decisions come from the ratelimit package; this only maps them to HTTP
package server

import (
	"net/http"
	"strconv"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/junwei/hometalk/internal/logger"
	"github.com/junwei/hometalk/internal/ratelimit"
)

// CORS allows the local browser bridge origins.
func CORS() gin.HandlerFunc {
	return cors.New(cors.Config{
		AllowOrigins: []string{
			"http://localhost:3000",
			"http://localhost:5173",
			"http://127.0.0.1:3000",
			"http://127.0.0.1:5173",
		},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Authorization", "Content-Type", "X-Requested-With"},
		AllowCredentials: true,
	})
}

// RateLimit throttles by client IP. A limiter backend error fails open:
// dropping live conversations over a redis hiccup is the worse outcome.
func RateLimit(limiter ratelimit.Limiter, log *logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		d, err := limiter.Check(c.Request.Context(), c.ClientIP())
		if err != nil {
			log.Warn("rate limiter unavailable, failing open", "error", err)
			c.Next()
			return
		}
		if !d.Allowed {
			c.Header("Retry-After", strconv.Itoa(int(d.RetryAfter.Seconds())+1))
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"error":   "rate_limited",
				"message": "Too many requests. Please slow down.",
			})
			return
		}
		c.Next()
	}
}
