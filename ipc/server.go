package ipc

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/lixenwraith/liquid-glass/command"
	"github.com/lixenwraith/liquid-glass/engine"
	"github.com/lixenwraith/liquid-glass/parameter"
)

var requestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "liquidglass_ipc_requests_total",
	Help: "Control server requests by route and status code.",
}, []string{"route", "code"})

// Server is the HTTP and websocket control surface of one engine
type Server struct {
	eng    *engine.Engine
	logger zerolog.Logger
	router *gin.Engine
}

// NewServer builds the route table; the caller picks the gin mode
func NewServer(eng *engine.Engine, logger zerolog.Logger) *Server {
	s := &Server{
		eng:    eng,
		logger: logger.With().Str("component", "ipc").Logger(),
		router: gin.New(),
	}
	s.router.Use(gin.Recovery(), s.observe())

	v1 := s.router.Group("/v1")
	v1.POST("/command", s.handleCommand)
	v1.POST("/script", s.handleScript)
	v1.GET("/config", s.handleConfig)
	v1.GET("/directives", s.handleDirectives)
	v1.GET("/status", s.handleStatus)
	v1.GET("/nodes", s.handleListNodes)
	v1.POST("/nodes", s.handleCreateNode)
	v1.DELETE("/nodes/:id", s.handleDestroyNode)
	v1.GET("/ws", s.handleWebsocket)

	s.router.GET("/metrics", gin.WrapH(promhttp.Handler()))
	return s
}

// Handler returns the router for embedding or tests
func (s *Server) Handler() http.Handler { return s.router }

// Serve listens on addr until ctx is cancelled, then shuts down gracefully
func (s *Server) Serve(ctx context.Context, addr string) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("listen %s: %w", addr, err)
	}
	return s.ServeListener(ctx, ln)
}

// ServeListener serves on ln until ctx is cancelled; ln is closed on return
func (s *Server) ServeListener(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:           s.router,
		ReadHeaderTimeout: parameter.ReadHeaderTimeout,
	}

	errCh := make(chan error, 1)
	go func() { errCh <- srv.Serve(ln) }()
	s.logger.Info().Str("addr", ln.Addr().String()).Msg("control server listening")

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), parameter.ShutdownTimeout)
		defer cancel()
		s.logger.Info().Msg("control server shutting down")
		return srv.Shutdown(shutdownCtx)
	}
}

// observe logs and counts every request
func (s *Server) observe() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		code := c.Writer.Status()
		requestsTotal.WithLabelValues(route, strconv.Itoa(code)).Inc()
		s.logger.Debug().
			Str("method", c.Request.Method).
			Str("route", route).
			Int("status", code).
			Dur("elapsed", time.Since(start)).
			Msg("request")
	}
}

// statusFor maps a submission error to an HTTP status
func statusFor(err error) int {
	switch {
	case err == nil:
		return http.StatusOK
	case errors.Is(err, engine.ErrStopped),
		errors.Is(err, context.Canceled),
		errors.Is(err, context.DeadlineExceeded):
		return http.StatusServiceUnavailable
	case errors.Is(err, command.ErrNodeNotFound):
		return http.StatusNotFound
	case errors.Is(err, command.ErrUnknownDirective):
		return http.StatusBadRequest
	default:
		return http.StatusUnprocessableEntity
	}
}
