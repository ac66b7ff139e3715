// Package server assembles the HTTP API and runs it next to the gRPC health
// endpoint.
package server

import (
	"context"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"gotwitter/internal/common"
	"gotwitter/internal/config"
	"gotwitter/internal/monitoring"
)

const APIPrefix = "/api/v1"

// Routes is implemented by every package handler.
type Routes interface {
	RegisterRoutes(r *mux.Router)
}

// Checker reports whether a dependency is usable.
type Checker func(ctx context.Context) error

func NewRouter(cfg *config.Config, auth *common.Authenticator, check Checker, routes ...Routes) http.Handler {
	r := mux.NewRouter()
	r.NotFoundHandler = http.HandlerFunc(notFound)
	r.MethodNotAllowedHandler = http.HandlerFunc(methodNotAllowed)
	r.Use(monitoring.Middleware)

	r.Handle("/metrics", promhttp.Handler()).Methods(http.MethodGet)
	r.HandleFunc("/health", healthHandler(check)).Methods(http.MethodGet)

	// subrouters do not inherit the root's fallback handlers
	api := r.PathPrefix(APIPrefix).Subrouter()
	api.NotFoundHandler = http.HandlerFunc(notFound)
	api.MethodNotAllowedHandler = http.HandlerFunc(methodNotAllowed)
	api.Use(auth.Middleware)
	api.Use(WriteLimit(cfg.Server.WriteRateLimit))
	for _, rt := range routes {
		rt.RegisterRoutes(api)
	}

	return RequestLogger(CORS(cfg.Server.AllowedOrigins)(r))
}

func notFound(w http.ResponseWriter, _ *http.Request) {
	common.WriteMessage(w, http.StatusNotFound, "not found")
}

func methodNotAllowed(w http.ResponseWriter, _ *http.Request) {
	common.WriteMessage(w, http.StatusMethodNotAllowed, "method not allowed")
}

func healthHandler(check Checker) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		if check != nil {
			if err := check(ctx); err != nil {
				common.WriteJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
				return
			}
		}
		common.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}
}
