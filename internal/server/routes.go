package server

import (
	"github.com/nfrund/genewar/internal/handlers"
	"github.com/nfrund/genewar/internal/middleware"
)

// RegisterRoutes sets up all the application routes.
func (s *Server) RegisterRoutes() {
	mm := handlers.NewMatchmakingHandler(s.queue, s.ratings)
	rateLimiter := middleware.RateLimiter()

	api := s.E.Group("/api")
	api.POST("/queue/join", mm.Join, rateLimiter)
	api.POST("/queue/leave", mm.Leave, rateLimiter)
	api.GET("/queue", mm.Status)

	s.E.GET("/ws", s.bridge.Handler())
	s.E.GET("/healthz", handlers.HealthCheck)
}
