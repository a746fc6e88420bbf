// Package server exposes the engine over a stateless JSON HTTP API. Every
// request carries the data it needs; nothing is kept between requests.
package server

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"ontomap/internal/config"
	"ontomap/internal/engine"
)

// Server is the HTTP server.
type Server struct {
	router  *gin.Engine
	engine  *engine.Engine
	cfg     *config.AppConfig
	handler *Handler
}

// New creates a Server. Gin runs in release mode unless cfg enables dev mode.
func New(cfg *config.AppConfig, e *engine.Engine) *Server {
	if !cfg.Server.DevMode && gin.Mode() != gin.TestMode {
		gin.SetMode(gin.ReleaseMode)
	}

	s := &Server{
		router:  gin.Default(),
		engine:  e,
		cfg:     cfg,
		handler: NewHandler(e, cfg),
	}

	s.router.MaxMultipartMemory = int64(cfg.Server.MaxUploadMB) << 20

	s.setupRoutes()

	return s
}

func (s *Server) setupRoutes() {
	s.router.Use(func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Content-Type")

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)

			return
		}

		c.Next()
	})

	api := s.router.Group("/api/v1")
	s.handler.RegisterRoutes(api)
}

// Handler returns the router as an http.Handler.
func (s *Server) Handler() http.Handler { return s.router }

// Run listens on addr.
func (s *Server) Run(addr string) error {
	return s.router.Run(addr)
}
