package common

import (
	"context"
	"net/http"
	"strings"
)

type ctxKey int

const (
	viewerKey ctxKey = iota
	handleKey
)

// Authenticator resolves the bearer token on every request. A missing header
// leaves the request anonymous; a header that does not verify is rejected.
type Authenticator struct {
	tokens *TokenManager
}

func NewAuthenticator(tokens *TokenManager) *Authenticator {
	return &Authenticator{tokens: tokens}
}

func (a *Authenticator) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		if header == "" {
			next.ServeHTTP(w, r)
			return
		}

		// header = Bearer <token>
		parts := strings.Fields(header)
		if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
			WriteMessage(w, http.StatusUnauthorized, "invalid auth header")
			return
		}

		claims, err := a.tokens.ValidToken(parts[1])
		if err != nil {
			WriteMessage(w, http.StatusUnauthorized, "invalid or expired token")
			return
		}

		next.ServeHTTP(w, r.WithContext(WithViewer(r.Context(), claims.UserID, claims.Handle)))
	})
}

// RequireAuth wraps handlers that make no sense anonymously.
func RequireAuth(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if Viewer(r.Context()) == 0 {
			WriteMessage(w, http.StatusUnauthorized, "authentication required")
			return
		}
		next(w, r)
	}
}

func WithViewer(ctx context.Context, userID uint64, handle string) context.Context {
	ctx = context.WithValue(ctx, viewerKey, userID)
	return context.WithValue(ctx, handleKey, handle)
}

// Viewer returns the authenticated user id, 0 when anonymous.
func Viewer(ctx context.Context) uint64 {
	id, _ := ctx.Value(viewerKey).(uint64)
	return id
}

func ViewerHandle(ctx context.Context) string {
	h, _ := ctx.Value(handleKey).(string)
	return h
}
