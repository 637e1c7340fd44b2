package middleware

import (
	"errors"
	"net/http"

	"github.com/princekumarofficial/remix-service/internal/utils/response"
)

// RequireAdmin lets through only the listed user IDs. It must run after
// AuthMiddleware. An empty list locks the route for everyone.
func RequireAdmin(adminUserIDs []string) func(http.Handler) http.Handler {
	admins := make(map[string]struct{}, len(adminUserIDs))
	for _, id := range adminUserIDs {
		if id != "" {
			admins[id] = struct{}{}
		}
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			userID, ok := GetUserIDFromContext(r.Context())
			if !ok {
				response.WriteJSON(w, http.StatusUnauthorized, response.GeneralError(
					errors.New("user not authenticated")))
				return
			}

			if _, isAdmin := admins[userID]; !isAdmin {
				response.WriteJSON(w, http.StatusForbidden, response.GeneralError(
					errors.New("admin access required")))
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
