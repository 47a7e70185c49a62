// ABOUTME: Serve command runs the HTTP API for the browser bridge
// ABOUTME: Graceful shutdown drains in-flight requests and background persistence
package commands

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"

	"github.com/junwei/hometalk/internal/ratelimit"
	"github.com/junwei/hometalk/internal/server"
)

// NewServeCmd creates the serve command.
func NewServeCmd() *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API server",
		Long: `Start the HTTP API server for the browser bridge.

Serves session, turn, summary, vocabulary, and speech endpoints
under /api, with a /healthcheck liveness probe.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(addr)
		},
		Example: `  # Serve on the default address
  hometalk serve

  # Serve on a specific port
  hometalk serve --addr :9090`,
	}

	cmd.Flags().StringVar(&addr, "addr", "", "Listen address (default from HOMETALK_HTTP_ADDR)")

	return cmd
}

func runServe(addr string) error {
	p, err := buildPipeline()
	if err != nil {
		return err
	}
	defer p.Close()

	if addr == "" {
		addr = p.cfg.HTTPAddr
	}
	if p.cfg.LogMode == "prod" || p.cfg.LogMode == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	limiter, err := buildLimiter(p)
	if err != nil {
		return err
	}

	handler := server.NewHandler(p.orch, p.agg, p.vocab, p.synth, p.store, p.log)
	router := server.NewRouter(server.RouterConfig{
		Handler: handler,
		Limiter: limiter,
		Log:     p.log,
	})

	srv := &http.Server{
		Addr:              addr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	serverErr := make(chan error, 1)
	go func() {
		serverErr <- srv.ListenAndServe()
	}()
	p.log.Info("http server started", "addr", addr)

	select {
	case <-ctx.Done():
		p.log.Info("shutdown signal received")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			p.log.Warn("http shutdown", "error", err)
		}
		// pipeline.Close (deferred) drains background persistence.
		return nil
	case err := <-serverErr:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	}
}

// buildLimiter picks the rate-limit backend: redis when configured,
// in-process otherwise.
func buildLimiter(p *pipeline) (ratelimit.Limiter, error) {
	if p.cfg.RedisURL != "" {
		lim, err := ratelimit.NewRedisLimiterURL(p.cfg.RedisURL, p.cfg.RateLimitPerMinute, time.Minute)
		if err != nil {
			return nil, fmt.Errorf("initializing redis limiter: %w", err)
		}
		p.log.Info("rate limiting via redis", "limit_per_minute", p.cfg.RateLimitPerMinute)
		return lim, nil
	}
	return ratelimit.NewMemoryLimiter(p.cfg.RateLimitPerMinute, time.Minute), nil
}
