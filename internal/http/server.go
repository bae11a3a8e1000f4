package http

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// Server couples the gin engine with the net/http server that hosts it, so
// callers get one handle for both serving and graceful shutdown.
type Server struct {
	Engine *gin.Engine

	srv *http.Server
}

func NewServer(cfg RouterConfig, addr string) *Server {
	engine := NewRouter(cfg)
	return &Server{
		Engine: engine,
		srv:    &http.Server{Addr: addr, Handler: engine},
	}
}

// Run serves until Shutdown is called; a clean shutdown is not an error.
func (s *Server) Run() error {
	if err := s.srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown drains in-flight requests, giving up after timeout.
func (s *Server) Shutdown(timeout time.Duration) error {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	return s.srv.Shutdown(ctx)
}
