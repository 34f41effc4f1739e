// Package api serves the administrative HTTP API for subscriptions.
package api

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/pfrederiksen/wca-notifier/internal/logger"
	"github.com/pfrederiksen/wca-notifier/internal/metrics"
	"github.com/pfrederiksen/wca-notifier/internal/subscription"
	"github.com/pkg/errors"
)

const shutdownTimeout = 10 * time.Second

// Server is the admin API.
type Server struct {
	echo  *echo.Echo
	store subscription.Store
	log   *logger.Logger
}

// New builds the router. A nil m leaves /metrics returning 404.
func New(store subscription.Store, m *metrics.Metrics, log *logger.Logger) *Server {
	if log == nil {
		log = logger.Default()
	}
	s := &Server{echo: echo.New(), store: store, log: log}

	e := s.echo
	e.HideBanner = true
	e.HidePort = true
	e.Validator = requestValidator{}
	e.HTTPErrorHandler = s.handleError
	e.Use(middleware.Recover())
	e.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogStatus:  true,
		LogURI:     true,
		LogMethod:  true,
		LogLatency: true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			s.log.Info("Request", logger.Fields{
				"method":     v.Method,
				"uri":        v.URI,
				"status":     v.Status,
				"latency_ms": v.Latency.Milliseconds(),
			})
			return nil
		},
	}))

	e.GET("/", s.hello)
	e.GET("/healthz", s.health)
	e.GET("/metrics", echo.WrapHandler(m.Handler()))

	v1 := e.Group("/api/v1")
	v1.GET("", s.hello)
	v1.GET("/", s.hello)
	v1.GET("/subscription", s.getSubscription)
	v1.POST("/subscription", s.addSubscription)
	v1.DELETE("/subscription", s.removeSubscription)

	return s
}

// ServeHTTP lets the server be used as an http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.echo.ServeHTTP(w, r)
}

// Serve listens on addr until ctx is canceled, then shuts down gracefully.
func (s *Server) Serve(ctx context.Context, addr string) error {
	errCh := make(chan error, 1)
	go func() {
		s.log.Info("Starting HTTP server", logger.Fields{"addr": addr})
		errCh <- s.echo.Start(addr)
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return errors.Wrap(err, "serving http")
	case <-ctx.Done():
	}

	s.log.Info("Shutting down HTTP server", nil)
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return errors.WithStack(s.echo.Shutdown(shutdownCtx))
}

// handleError maps router and handler errors onto the envelope.
func (s *Server) handleError(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	var he *echo.HTTPError
	if errors.As(err, &he) && (he.Code == http.StatusNotFound || he.Code == http.StatusMethodNotAllowed) {
		_ = sendError(c, http.StatusNotFound, CodeInvalidEndpoint, "Invalid endpoint: "+c.Request().URL.RequestURI())
		return
	}

	s.log.Error("Unhandled error", logger.Fields{"method": c.Request().Method, "path": c.Request().URL.Path}, err)
	_ = sendError(c, http.StatusInternalServerError, CodeServerError, "An unexpected error occurred. Please try again later.")
}
