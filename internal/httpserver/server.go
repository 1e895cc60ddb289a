package httpserver

import (
	"context"
	"net/http"
	"os"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// Server wraps the HTTP server setup.
type Server struct {
	httpServer *http.Server
	logger     *logrus.Entry
}

// New builds a Server with the storefront and API routes.
func New(addr string, logger *logrus.Entry, deps Deps, opts Options) (*Server, error) {
	router, err := buildRouter(logger, deps, opts)
	if err != nil {
		return nil, err
	}

	httpSrv := &http.Server{
		Addr:              addr,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	return &Server{
		httpServer: httpSrv,
		logger:     logger,
	}, nil
}

// ListenAndServe starts the HTTP server.
func (s *Server) ListenAndServe() error {
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully stops the HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

func healthHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// readyHandler reports ready when both storage directories exist and the
// ledger, if configured, answers a ping.
func readyHandler(dirs []string, ledger Pinger) gin.HandlerFunc {
	return func(c *gin.Context) {
		for _, dir := range dirs {
			info, err := os.Stat(dir)
			if err != nil || !info.IsDir() {
				c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable", "reason": "storage directory missing"})
				return
			}
		}
		if ledger != nil {
			ctx, cancel := context.WithTimeout(c.Request.Context(), time.Second)
			defer cancel()
			if err := ledger.Ping(ctx); err != nil {
				c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable", "reason": "ledger not reachable"})
				return
			}
		}
		c.JSON(http.StatusOK, gin.H{"status": "ready"})
	}
}
