package router

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/user/feed-ingest/internal/delivery/http/handler"
	"github.com/user/feed-ingest/internal/delivery/http/middleware"
)

func New(h *handler.Handler) http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /api/health", h.HandleHealthCheck)
	mux.HandleFunc("GET /api/posts", h.HandleListPosts)
	mux.HandleFunc("POST /api/subscriptions", h.HandleSubscribe)
	mux.HandleFunc("DELETE /api/subscriptions/{id}", h.HandleUnsubscribe)

	// Prometheus metrics endpoint
	mux.Handle("/metrics", promhttp.Handler())

	var chainedHandler http.Handler = mux
	chainedHandler = middleware.Metrics(chainedHandler)
	chainedHandler = middleware.Logging(chainedHandler)

	return chainedHandler
}
