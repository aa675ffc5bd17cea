// Package server exposes the dashboard over HTTP and a websocket stream.
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	log "github.com/sirupsen/logrus"

	"CryptoPulse/internal/asset"
	"CryptoPulse/internal/dashboard"
	"CryptoPulse/internal/metrics"
	"CryptoPulse/internal/model"
)

// Dashboard is the state container the API drives.
type Dashboard interface {
	State() dashboard.State
	Select(assetID string) (<-chan struct{}, error)
	Refresh() (<-chan struct{}, error)
	SetUser(u model.User) error
	Subscribe() (<-chan *model.View, func())
}

// Server represents the API server.
type Server struct {
	router     *gin.Engine
	httpServer *http.Server
	upgrader   websocket.Upgrader

	dashboard Dashboard
	catalog   *asset.Catalog
	metrics   *metrics.Metrics
	started   time.Time
}

// New creates the server and registers all routes.
func New(addr string, d Dashboard, catalog *asset.Catalog, m *metrics.Metrics) *Server {
	router := gin.New()
	s := &Server{
		router:    router,
		dashboard: d,
		catalog:   catalog,
		metrics:   m,
		started:   time.Now(),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 4096,
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
		},
	}
	s.httpServer = &http.Server{
		Addr:              addr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	s.setupRoutes()
	return s
}

// Handler returns the root HTTP handler.
func (s *Server) Handler() http.Handler { return s.router }

func (s *Server) setupRoutes() {
	s.router.Use(gin.Recovery())
	s.router.Use(requestLogger())
	s.router.Use(s.metrics.Middleware())

	s.router.GET("/health", s.health)
	if s.metrics != nil {
		s.router.GET("/metrics", gin.WrapH(s.metrics.Handler()))
	}

	api := s.router.Group("/api")
	{
		api.GET("/assets", s.listAssets)
		api.GET("/dashboard", s.getDashboard)
		api.POST("/selection", s.selectAsset)
		api.POST("/refresh", s.refresh)
		api.POST("/user", s.setUser)
	}

	s.router.GET("/ws", s.stream)
}

// Start serves until Stop is called. It returns nil on a graceful stop.
func (s *Server) Start() error {
	log.Infof("starting API server on %s", s.httpServer.Addr)
	if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("listen: %w", err)
	}
	return nil
}

// Stop gracefully stops the server.
func (s *Server) Stop(ctx context.Context) error {
	log.Info("shutting down API server")
	if err := s.httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}
	return nil
}

func requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		entry := log.WithFields(log.Fields{
			"method":   c.Request.Method,
			"path":     c.Request.URL.Path,
			"status":   c.Writer.Status(),
			"duration": time.Since(start).Round(time.Microsecond).String(),
		})
		if len(c.Errors) > 0 {
			entry.Warn(c.Errors.String())
			return
		}
		entry.Debug("request served")
	}
}
