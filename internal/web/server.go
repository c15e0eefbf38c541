// Package web serves the worker's liveness endpoint.
package web

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
)

// QueueChecker reports whether the queue connection is usable.
type QueueChecker interface {
	Connected(ctx context.Context) bool
}

// Health is the body of GET /health.
type Health struct {
	Status    string `json:"status"`
	Worker    string `json:"worker"`
	Timestamp string `json:"timestamp"`
	Redis     string `json:"redis"`
}

// Server is the health HTTP surface.
type Server struct {
	queue  QueueChecker
	worker string
	port   int
	now    func() time.Time
}

// NewServer creates a Server for the named worker.
func NewServer(queue QueueChecker, worker string, port int) *Server {
	return &Server{queue: queue, worker: worker, port: port, now: time.Now}
}

// Handler returns the router. Paths other than /health are 404.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Get("/health", s.handleHealth)
	return r
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	redis := "disconnected"
	if s.queue != nil && s.queue.Connected(r.Context()) {
		redis = "connected"
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(Health{
		Status:    "healthy",
		Worker:    s.worker,
		Timestamp: s.now().UTC().Format(time.RFC3339),
		Redis:     redis,
	})
}

// Start listens until ctx is cancelled, then shuts down gracefully.
func (s *Server) Start(ctx context.Context) error {
	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", s.port),
		Handler:           s.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}
	errc := make(chan error, 1)
	go func() {
		log.Printf("Health check server listening on %s", srv.Addr)
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		return fmt.Errorf("health server: %w", err)
	case <-ctx.Done():
	}
	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown health server: %w", err)
	}
	if err := <-errc; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("health server: %w", err)
	}
	return nil
}
