// Package logout реализует HTTP-обработчик выхода: сбрасывает cookie с токеном.
package logout

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/bookvahub/lms-backend/internal/http/middlewarectx"
	"github.com/bookvahub/lms-backend/internal/http/response"
)

// Handler обрабатывает HTTP-запросы выхода.
type Handler struct {
	log *slog.Logger
}

// New создает новый Handler.
func New(log *slog.Logger) *Handler {
	return &Handler{log: log}
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.auth.logout"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	http.SetCookie(w, &http.Cookie{
		Name:     middlewarectx.TokenCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})

	log.Info("user logged out")
	render.JSON(w, r, response.OK("logged out successfully"))
}
