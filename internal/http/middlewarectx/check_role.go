package middlewarectx

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/render"

	"github.com/bookvahub/lms-backend/internal/http/response"
)

// RequireRole возвращает middleware, пропускающее запрос только если роль
// аутентифицированного пользователя входит в список разрешённых.
func RequireRole(log *slog.Logger, roles ...string) func(http.Handler) http.Handler {
	allowed := make(map[string]struct{}, len(roles))
	for _, role := range roles {
		allowed[role] = struct{}{}
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user, ok := UserFromContext(r.Context())
			if !ok {
				log.Error("user missing in context")
				render.Status(r, http.StatusUnauthorized)
				render.JSON(w, r, response.Error("unauthorized"))
				return
			}
			if _, ok := allowed[user.Role]; !ok {
				log.Error("role not permitted", slog.String("role", user.Role))
				render.Status(r, http.StatusForbidden)
				render.JSON(w, r, response.Error("you do not have permission to perform this action"))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
