package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/JamesCortejo/Tough-Athletics-Gym-sub000/internal/utils"
)

type contextKey string

const ContextUserID contextKey = "user_id"

func JWTAuthMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		auth := r.Header.Get("Authorization")
		if !strings.HasPrefix(auth, "Bearer ") {
			utils.JSONError(w, "Unauthorized", http.StatusUnauthorized)
			return
		}
		tokenStr := strings.TrimPrefix(auth, "Bearer ")

		claims, err := utils.ParseJWT(tokenStr)
		if err != nil {
			utils.JSONError(w, "Invalid token", http.StatusUnauthorized)
			return
		}

		ctx := context.WithValue(r.Context(), ContextUserID, claims.UserID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// UserIDFromContext returns the authenticated user's id, or "system" when
// the request did not pass through JWTAuthMiddleware (tests, daemon).
func UserIDFromContext(ctx context.Context) string {
	if id, ok := ctx.Value(ContextUserID).(string); ok && id != "" {
		return id
	}
	return "system"
}
