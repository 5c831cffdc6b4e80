package middlewarectx

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/render"

	"github.com/bookvahub/lms-backend/internal/http/response"
)

// ActiveUserMiddleware отклоняет запросы деактивированных учётных записей.
func ActiveUserMiddleware(log *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user, ok := UserFromContext(r.Context())
			if !ok {
				log.Error("user missing in context")
				render.Status(r, http.StatusUnauthorized)
				render.JSON(w, r, response.Error("unauthorized"))
				return
			}
			if user.IsDeleted {
				log.Error("deactivated account access attempt", slog.String("uid", user.UID))
				render.Status(r, http.StatusForbidden)
				render.JSON(w, r, response.Error("this user account has been deactivated"))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
