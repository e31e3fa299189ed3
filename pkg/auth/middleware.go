package auth

import (
	"context"
	"net/http"
	"strings"

	"github.com/lendlink/lendlink/pkg/utils"
)

type ContextKey string

// UserIDKey carries the authenticated user's id through the request context.
const UserIDKey ContextKey = "userID"

const bearerPrefix = "Bearer "

// AuthMiddleware rejects requests without a valid bearer token and puts
// the token's user id into the request context.
func AuthMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token, ok := strings.CutPrefix(r.Header.Get("Authorization"), bearerPrefix)
		if !ok || token == "" {
			utils.RespondWithError(w, http.StatusUnauthorized, "Unauthorized")
			return
		}

		jwtService := &JWTService{}
		claims, err := jwtService.ValidateToken(token)
		if err != nil {
			utils.RespondWithError(w, http.StatusUnauthorized, "Unauthorized")
			return
		}

		ctx := context.WithValue(r.Context(), UserIDKey, claims.UserID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
