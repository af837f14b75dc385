package middleware

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	h "venuebooking/internal/delivery/http/helpers"
	"venuebooking/internal/domain"
)

type contextKey string

const (
	userIDKey contextKey = "userID"
	roleKey   contextKey = "role"
)

// SetUserID returns a context with the authenticated subject ID set. Used by auth middleware.
func SetUserID(ctx context.Context, userID string) context.Context {
	return context.WithValue(ctx, userIDKey, userID)
}

// UserIDFromContext returns the authenticated subject ID from the context, if present.
func UserIDFromContext(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(userIDKey).(string)
	return id, ok
}

// SetRole returns a context with the authenticated role set.
func SetRole(ctx context.Context, role string) context.Context {
	return context.WithValue(ctx, roleKey, role)
}

// RoleFromContext returns the authenticated role from the context, if present.
func RoleFromContext(ctx context.Context) (string, bool) {
	role, ok := ctx.Value(roleKey).(string)
	return role, ok
}

// bearerToken extracts the token from an Authorization header. The second
// return value is a client-facing reason when extraction fails.
func bearerToken(header string) (string, string) {
	if header == "" {
		return "", "missing authorization header"
	}
	const prefix = "Bearer "
	if !strings.HasPrefix(header, prefix) {
		return "", "authorization header must use the Bearer scheme"
	}
	token := strings.TrimSpace(header[len(prefix):])
	if token == "" {
		return "", "missing token"
	}
	return token, ""
}

// RequireAuth returns a wrapper that validates the Bearer token and sets the
// subject ID and role in the request context.
// If the token is missing or invalid, it responds with 401 and does not call next.
func RequireAuth(verifier domain.TokenVerifier, logger *slog.Logger) func(http.HandlerFunc) http.HandlerFunc {
	return func(next http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			token, reason := bearerToken(r.Header.Get("Authorization"))
			if reason != "" {
				h.WriteJSONError(w, http.StatusUnauthorized, h.ErrCodeUnauthorized, reason)
				return
			}
			subjectID, role, err := verifier.Verify(token)
			if err != nil {
				logger.DebugContext(r.Context(), "token rejected", "err", err)
				h.WriteJSONError(w, http.StatusUnauthorized, h.ErrCodeUnauthorized, "invalid or expired token")
				return
			}
			next(w, r.WithContext(SetRole(SetUserID(r.Context(), subjectID), role)))
		}
	}
}

// RequireOrganizer returns a wrapper that, on top of RequireAuth, rejects
// callers whose token does not carry the organizer role with 403.
func RequireOrganizer(verifier domain.TokenVerifier, logger *slog.Logger) func(http.HandlerFunc) http.HandlerFunc {
	requireAuth := RequireAuth(verifier, logger)
	return func(next http.HandlerFunc) http.HandlerFunc {
		return requireAuth(func(w http.ResponseWriter, r *http.Request) {
			role, ok := RoleFromContext(r.Context())
			if !ok || role != domain.RoleOrganizer {
				h.WriteJSONError(w, http.StatusForbidden, h.ErrCodeForbidden, "organizer access required")
				return
			}
			next(w, r)
		})
	}
}
