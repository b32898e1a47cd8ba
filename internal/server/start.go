package server

import (
	"context"
	"net/http"
	"time"
)

// Start runs the HTTP server and the matchmaking loop, then blocks until a
// shutdown signal arrives.
func (s *Server) Start() {
	loopCtx, stopLoop := context.WithCancel(context.Background())
	go s.loop.Run(loopCtx)

	go func() {
		if err := s.E.Start(s.Cfg.HTTPAddr); err != nil && err != http.ErrServerClosed {
			s.E.Logger.Fatalf("shutting down the server: %v", err)
		}
	}()

	waitForShutdown()
	stopLoop()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := s.E.Shutdown(ctx); err != nil {
		s.E.Logger.Error(err)
	}
	_ = s.bus.Close()
	_ = s.Redis.Close()
	s.DB.Close(ctx)
}
