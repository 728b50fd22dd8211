package keepalive

import (
	"fmt"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/faceforge/faceforge/internal/logger"
)

// Server answers platform health checks so free-tier hosts keep the process
// alive, and exposes Prometheus metrics on the same port.
type Server struct {
	httpServer *http.Server
}

// NewServer builds the keep-alive server listening on the given port.
func NewServer(port string) *Server {
	mux := http.NewServeMux()
	mux.HandleFunc("/", handleAlive)
	mux.HandleFunc("/healthz", handleAlive)
	mux.Handle("/metrics", promhttp.Handler())

	return &Server{
		httpServer: &http.Server{
			Addr:         ":" + port,
			Handler:      mux,
			ReadTimeout:  5 * time.Second,
			WriteTimeout: 10 * time.Second,
		},
	}
}

// Start serves in a background goroutine and returns immediately.
func (s *Server) Start() {
	go func() {
		logger.Info("Keep-alive server listening", map[string]interface{}{
			"addr": s.httpServer.Addr,
		})
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("Keep-alive server failed", map[string]interface{}{
				"error": err.Error(),
			})
		}
	}()
}

// Close shuts the server down immediately.
func (s *Server) Close() error {
	return s.httpServer.Close()
}

func handleAlive(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	fmt.Fprint(w, "Bot is alive!")
}
