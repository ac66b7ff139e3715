package server

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"

	"gotwitter/internal/common"
	"gotwitter/internal/config"
)

// echoRoutes exposes the viewer id so tests can see what the auth layer did.
type echoRoutes struct{}

func (echoRoutes) RegisterRoutes(r *mux.Router) {
	whoami := func(w http.ResponseWriter, r *http.Request) {
		common.WriteJSON(w, http.StatusOK, map[string]string{"viewer": strconv.FormatUint(common.Viewer(r.Context()), 10)})
	}
	r.HandleFunc("/whoami", whoami).Methods(http.MethodGet)
	r.HandleFunc("/write", common.RequireAuth(whoami)).Methods(http.MethodPost)
}

func testConfig() *config.Config {
	return &config.Config{
		Server: config.ServerConfig{AllowedOrigins: []string{"https://app.example"}},
		Auth:   config.AuthConfig{JWTSecret: "test-secret", TokenTTLHours: 1, Issuer: "test"},
	}
}

func newHandler(cfg *config.Config, check Checker) (http.Handler, *common.TokenManager) {
	tokens := common.NewTokenManager(cfg)
	return NewRouter(cfg, common.NewAuthenticator(tokens), check, echoRoutes{}), tokens
}

func serve(h http.Handler, req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestRouter_Health(t *testing.T) {
	tests := []struct {
		name       string
		check      Checker
		wantStatus int
		wantBody   string
	}{
		{"no checker", nil, http.StatusOK, `"status":"ok"`},
		{"healthy", func(context.Context) error { return nil }, http.StatusOK, `"status":"ok"`},
		{"database down", func(context.Context) error { return errors.New("dial tcp: refused") }, http.StatusServiceUnavailable, `"status":"unavailable"`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h, _ := newHandler(testConfig(), tt.check)
			rec := serve(h, httptest.NewRequest(http.MethodGet, "/health", nil))
			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.Contains(t, rec.Body.String(), tt.wantBody)
		})
	}
}

func TestRouter_Auth(t *testing.T) {
	h, tokens := newHandler(testConfig(), nil)
	token, err := tokens.GenerateToken(42, "alice")
	require.NoError(t, err)

	tests := []struct {
		name       string
		method     string
		header     string
		wantStatus int
		wantBody   string
	}{
		{"anonymous read", http.MethodGet, "", http.StatusOK, `"viewer":"0"`},
		{"authenticated read", http.MethodGet, "Bearer " + token, http.StatusOK, `"viewer":"42"`},
		{"bad scheme", http.MethodGet, "Basic " + token, http.StatusUnauthorized, "invalid auth header"},
		{"bad token", http.MethodGet, "Bearer nope", http.StatusUnauthorized, "invalid or expired token"},
		{"anonymous write", http.MethodPost, "", http.StatusUnauthorized, "authentication required"},
		{"authenticated write", http.MethodPost, "Bearer " + token, http.StatusOK, `"viewer":"42"`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := APIPrefix + "/whoami"
			if tt.method == http.MethodPost {
				path = APIPrefix + "/write"
			}
			req := httptest.NewRequest(tt.method, path, nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := serve(h, req)
			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.Contains(t, rec.Body.String(), tt.wantBody)
		})
	}
}

func TestRouter_NotFoundAndMethod(t *testing.T) {
	h, _ := newHandler(testConfig(), nil)

	rec := serve(h, httptest.NewRequest(http.MethodGet, APIPrefix+"/nothing", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), "not found")

	rec = serve(h, httptest.NewRequest(http.MethodDelete, APIPrefix+"/whoami", nil))
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
	assert.Contains(t, rec.Body.String(), "method not allowed")

	rec = serve(h, httptest.NewRequest(http.MethodPost, "/health", nil))
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)

	rec = serve(h, httptest.NewRequest(http.MethodGet, "/nothing", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestRouter_Metrics(t *testing.T) {
	h, _ := newHandler(testConfig(), nil)
	serve(h, httptest.NewRequest(http.MethodGet, APIPrefix+"/whoami", nil))

	rec := serve(h, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "http_requests_total")
}

func TestRouter_RequestID(t *testing.T) {
	h, _ := newHandler(testConfig(), nil)

	rec := serve(h, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.NotEmpty(t, rec.Header().Get(RequestIDHeader))

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set(RequestIDHeader, "abc-123")
	rec = serve(h, req)
	assert.Equal(t, "abc-123", rec.Header().Get(RequestIDHeader))
}

func TestRouter_CORSPreflight(t *testing.T) {
	h, _ := newHandler(testConfig(), nil)

	req := httptest.NewRequest(http.MethodOptions, APIPrefix+"/write", nil)
	req.Header.Set("Origin", "https://app.example")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	rec := serve(h, req)

	assert.Equal(t, "https://app.example", rec.Header().Get("Access-Control-Allow-Origin"))

	req = httptest.NewRequest(http.MethodOptions, APIPrefix+"/write", nil)
	req.Header.Set("Origin", "https://evil.example")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	rec = serve(h, req)
	assert.Empty(t, rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestWriteLimit(t *testing.T) {
	cfg := testConfig()
	cfg.Server.WriteRateLimit = 2
	h, tokens := newHandler(cfg, nil)
	token, err := tokens.GenerateToken(1, "alice")
	require.NoError(t, err)

	write := func() int {
		req := httptest.NewRequest(http.MethodPost, APIPrefix+"/write", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		return serve(h, req).Code
	}

	assert.Equal(t, http.StatusOK, write())
	assert.Equal(t, http.StatusOK, write())
	assert.Equal(t, http.StatusTooManyRequests, write())

	for i := 0; i < 5; i++ {
		rec := serve(h, httptest.NewRequest(http.MethodGet, APIPrefix+"/whoami", nil))
		assert.Equal(t, http.StatusOK, rec.Code)
	}
}

func TestRefresh(t *testing.T) {
	tests := []struct {
		name     string
		check    Checker
		expected healthpb.HealthCheckResponse_ServingStatus
	}{
		{"no checker", nil, healthpb.HealthCheckResponse_SERVING},
		{"healthy", func(context.Context) error { return nil }, healthpb.HealthCheckResponse_SERVING},
		{"failing", func(context.Context) error { return errors.New("down") }, healthpb.HealthCheckResponse_NOT_SERVING},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			hs := health.NewServer()
			refresh(context.Background(), hs, tt.check)

			resp, err := hs.Check(context.Background(), &healthpb.HealthCheckRequest{})
			require.NoError(t, err)
			assert.Equal(t, tt.expected, resp.Status)
		})
	}
}
