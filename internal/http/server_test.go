package http

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/novahq/taskhub-backend/internal/http/handlers"
	"github.com/novahq/taskhub-backend/internal/platform/logger"
)

func testServer(t *testing.T) *Server {
	t.Helper()
	gin.SetMode(gin.TestMode)
	log, err := logger.New("test")
	if err != nil {
		t.Fatalf("logger: %v", err)
	}
	return NewServer(RouterConfig{
		Log:           log,
		HealthHandler: handlers.NewHealthHandler(),
	}, ":0")
}

func TestServerServesHealthcheck(t *testing.T) {
	srv := testServer(t)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/healthcheck", nil)
	srv.Engine.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status: want=%d got=%d", http.StatusOK, rec.Code)
	}
	if rec.Body.String() != "ok" {
		t.Fatalf("body: want=ok got=%q", rec.Body.String())
	}
}

func TestServerUnknownRouteIs404(t *testing.T) {
	srv := testServer(t)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/nope", nil)
	srv.Engine.ServeHTTP(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("status: want=%d got=%d", http.StatusNotFound, rec.Code)
	}
}

func TestServerShutdownBeforeRun(t *testing.T) {
	srv := testServer(t)
	if err := srv.Shutdown(time.Second); err != nil {
		t.Fatalf("shutdown of an idle server: %v", err)
	}
}
