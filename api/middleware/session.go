package middleware

import (
	"context"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/driveline-labs/storefront-api/pkg/config"
	"github.com/driveline-labs/storefront-api/pkg/logger"
)

type sessionIDKey struct{}

// Session assigns every visitor a stable cart session. The ID rides in a
// cookie; requests without one (or with a malformed one) get a fresh UUID.
func Session(cfg config.CartConfig, logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			sessionID := ""
			if cookie, err := r.Cookie(cfg.SessionCookie); err == nil {
				if _, parseErr := uuid.Parse(cookie.Value); parseErr == nil {
					sessionID = cookie.Value
				}
			}

			if sessionID == "" {
				sessionID = uuid.NewString()
			}

			// Refresh the cookie on every request so active sessions
			// keep sliding past the TTL.
			http.SetCookie(w, &http.Cookie{
				Name:     cfg.SessionCookie,
				Value:    sessionID,
				Path:     "/",
				MaxAge:   int(cfg.SessionTTL / time.Second),
				HttpOnly: true,
				SameSite: http.SameSiteLaxMode,
			})

			ctx := WithSessionID(r.Context(), sessionID)
			if logg != nil {
				ctx = logg.WithSessionID(ctx, sessionID)
			}

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// WithSessionID attaches a cart session ID to the context.
func WithSessionID(ctx context.Context, sessionID string) context.Context {
	return context.WithValue(ctx, sessionIDKey{}, sessionID)
}

// SessionIDFromContext returns the cart session ID attached by Session.
func SessionIDFromContext(ctx context.Context) string {
	if id, ok := ctx.Value(sessionIDKey{}).(string); ok {
		return id
	}
	return ""
}
