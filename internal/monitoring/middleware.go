package monitoring

import (
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
)

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

type PrometheusMiddleware struct {
	handler http.Handler
}

func (m *PrometheusMiddleware) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	route := routeTemplate(r)
	if route == "/metrics" {
		// Skip collecting metrics from metrics endpoint itself
		m.handler.ServeHTTP(w, r)
		return
	}

	timer := prometheus.NewTimer(HttpRequestDuration.WithLabelValues(route, r.Method))
	ActiveConnections.Inc()

	rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
	m.handler.ServeHTTP(rec, r)

	timer.ObserveDuration()
	ActiveConnections.Dec()
	HttpRequestsTotal.WithLabelValues(route, r.Method, strconv.Itoa(rec.status)).Inc()
}

func NewPrometheusMiddleware(handlerToWrap http.Handler) *PrometheusMiddleware {
	return &PrometheusMiddleware{handlerToWrap}
}

// Middleware adapts PrometheusMiddleware to mux.Router.Use
func Middleware(next http.Handler) http.Handler {
	return NewPrometheusMiddleware(next)
}

// routeTemplate keeps label cardinality bounded: /tweet/{id} instead of /tweet/42
func routeTemplate(r *http.Request) string {
	if route := mux.CurrentRoute(r); route != nil {
		if tpl, err := route.GetPathTemplate(); err == nil {
			return tpl
		}
	}
	return r.URL.Path
}
