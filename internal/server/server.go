// Package server exposes an engine over HTTP.
package server

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/tmplkit/interpolate"
)

const shutdownTimeout = 5 * time.Second

type Server struct {
	engine *interpolate.Engine
	logger *slog.Logger
	router *gin.Engine
}

// request is the body of every POST endpoint. This, when present, is bound
// to `this` in the data context.
type request struct {
	Input string         `json:"input"`
	Data  map[string]any `json:"data"`
	This  any            `json:"this"`
}

func New(engine *interpolate.Engine, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	s := &Server{engine: engine, logger: logger}
	s.router = s.newRouter()
	return s
}

// Handler returns the HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) newRouter() *gin.Engine {
	r := gin.New()
	r.Use(s.requestLogger())
	r.Use(gin.Recovery())

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})

	v1 := r.Group("/v1")
	v1.GET("/filters", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": true, "result": s.engine.Filters()})
	})
	v1.POST("/replace", s.handle(func(req request, opts []interpolate.CallOption) (any, error) {
		return s.engine.Replace(req.Input, dataOf(req), opts...)
	}))
	v1.POST("/value", s.handle(func(req request, opts []interpolate.CallOption) (any, error) {
		return s.engine.Value(req.Input, dataOf(req), opts...)
	}))
	v1.POST("/values", s.handle(func(req request, opts []interpolate.CallOption) (any, error) {
		return s.engine.Values(req.Input, dataOf(req), opts...)
	}))
	v1.POST("/props", s.handle(func(req request, _ []interpolate.CallOption) (any, error) {
		return s.engine.Props(req.Input)
	}))
	v1.POST("/has", s.handle(func(req request, _ []interpolate.CallOption) (any, error) {
		return s.engine.Has(req.Input), nil
	}))
	return r
}

type operation func(req request, opts []interpolate.CallOption) (any, error)

func (s *Server) handle(op operation) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req request
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": err.Error(), "kind": "bad request"})
			return
		}
		var opts []interpolate.CallOption
		if req.This != nil {
			opts = append(opts, interpolate.WithThis(req.This))
		}
		result, err := op(req, opts)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": err.Error(), "kind": errorKind(err)})
			return
		}
		c.JSON(http.StatusOK, gin.H{"ok": true, "result": result})
	}
}

// dataOf avoids handing a typed nil map to the engine.
func dataOf(req request) any {
	if req.Data == nil {
		return nil
	}
	return req.Data
}

func errorKind(err error) string {
	var ierr *interpolate.Error
	if errors.As(err, &ierr) {
		return ierr.Kind.String()
	}
	return "evaluation"
}

func (s *Server) requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		s.logger.Info("request",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"latency", time.Since(start),
		)
	}
}

// Run serves on addr until ctx is done, then shuts down gracefully.
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("listening", "addr", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	s.logger.Info("server stopped")
	return nil
}
