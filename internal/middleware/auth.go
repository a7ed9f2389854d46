package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/solacecare/solace-backend/internal/services"
)

type ctxKey string

const (
	// UserIDKey holds the authenticated account id in the request context.
	UserIDKey ctxKey = "uid"
	// RoleKey holds the authenticated account role in the request context.
	RoleKey ctxKey = "role"
)

// ExtractBearerToken pulls the token out of an "Authorization: Bearer <token>" header.
func ExtractBearerToken(header string) string {
	if header == "" {
		return ""
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}

// RequireAuth authenticates the bearer token and gates on role.
// Missing/invalid token → 401. Valid token with a role outside the allowed set → 403.
// An empty allowed set accepts any role.
func RequireAuth(secret string, roles ...string) func(http.Handler) http.Handler {
	allowed := make(map[string]bool, len(roles))
	for _, role := range roles {
		allowed[role] = true
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := ExtractBearerToken(r.Header.Get("Authorization"))
			if token == "" {
				// Fallback: token via query parameter for browser WebSocket clients
				token = r.URL.Query().Get("token")
			}
			if token == "" {
				writeAuthError(w, http.StatusUnauthorized, "Missing authentication token")
				return
			}

			claims, err := services.ParseToken(token, secret)
			if err != nil {
				writeAuthError(w, http.StatusUnauthorized, "Invalid or expired token")
				return
			}

			if len(allowed) > 0 && !allowed[claims.Role] {
				writeAuthError(w, http.StatusForbidden, "You do not have access to this resource")
				return
			}

			ctx := context.WithValue(r.Context(), UserIDKey, claims.UserID)
			ctx = context.WithValue(ctx, RoleKey, claims.Role)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// UserIDFrom returns the authenticated account id from the request context.
func UserIDFrom(ctx context.Context) string {
	uid, _ := ctx.Value(UserIDKey).(string)
	return uid
}

// RoleFrom returns the authenticated role from the request context.
func RoleFrom(ctx context.Context) string {
	role, _ := ctx.Value(RoleKey).(string)
	return role
}

func writeAuthError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	w.Write([]byte(`{"success":false,"message":"` + message + `"}`))
}
