package server

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/modelcontextprotocol/go-sdk/mcp"
	"golang.org/x/time/rate"
)

const shutdownTimeout = 5 * time.Second

// HealthResponse is the response body for GET /health.
type HealthResponse struct {
	Status string `json:"status"`
}

// HTTPHandler returns the HTTP surface of the server:
//
//	/mcp     MCP over server-sent events
//	/health  liveness probe
//	/metrics Prometheus metrics, when metrics are enabled
func (s *Server) HTTPHandler() *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.Use(middleware.Recover())
	e.Use(middleware.RequestID())
	e.Use(s.requestLogger)

	if s.httpOpts.RateLimit > 0 {
		e.Use(s.rateLimiter())
	}

	e.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, HealthResponse{Status: "ok"})
	})

	if s.metrics != nil {
		e.GET("/metrics", echo.WrapHandler(s.metrics.Handler()))
	}

	sse := mcp.NewSSEHandler(func(*http.Request) *mcp.Server {
		return s.mcpServer
	})
	e.Any("/mcp", echo.WrapHandler(sse))

	return e
}

// rateLimiter limits requests per client IP. /health is never limited.
func (s *Server) rateLimiter() echo.MiddlewareFunc {
	burst := s.httpOpts.RateBurst
	if burst <= 0 {
		burst = int(s.httpOpts.RateLimit) + 1
	}

	return middleware.RateLimiterWithConfig(middleware.RateLimiterConfig{
		Skipper: func(c echo.Context) bool {
			return c.Path() == "/health"
		},
		Store: middleware.NewRateLimiterMemoryStoreWithConfig(middleware.RateLimiterMemoryStoreConfig{
			Rate:      rate.Limit(s.httpOpts.RateLimit),
			Burst:     burst,
			ExpiresIn: 3 * time.Minute,
		}),
	})
}

func (s *Server) requestLogger(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		start := time.Now()
		err := next(c)

		s.logger.Debug("HTTP request",
			slog.String("method", c.Request().Method),
			slog.String("uri", c.Request().RequestURI),
			slog.Int("status", c.Response().Status),
			slog.Duration("duration", time.Since(start)),
			slog.String("request_id", c.Response().Header().Get(echo.HeaderXRequestID)),
		)

		return err
	}
}

// ServeHTTP serves HTTPHandler on addr until ctx is cancelled, then shuts
// the listener down gracefully.
func (s *Server) ServeHTTP(ctx context.Context, addr string) error {
	e := s.HTTPHandler()

	serveErr := make(chan error, 1)
	go func() {
		s.logger.Info("Starting HTTP transport", slog.String("addr", addr))
		serveErr <- e.Start(addr)
	}()

	select {
	case err := <-serveErr:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	s.logger.Info("Shutting down HTTP transport")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := e.Shutdown(shutdownCtx); err != nil {
		return err
	}
	return ctx.Err()
}
