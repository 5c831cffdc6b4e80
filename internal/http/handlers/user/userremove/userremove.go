// Package userremove реализует HTTP-обработчик удаления учётной записи.
// Доступен только библиотекарю; история выдач пользователя сохраняется.
package userremove

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/bookvahub/lms-backend/internal/http/response"
	"github.com/bookvahub/lms-backend/internal/lib/sl"
	"github.com/bookvahub/lms-backend/internal/models"
)

// Service описывает интерфейс бизнес-логики удаления пользователя.
type Service interface {
	Remove(ctx context.Context, userUID string) error
}

// Handler обрабатывает HTTP-запросы удаления пользователя.
type Handler struct {
	log     *slog.Logger
	service Service
}

// New создает новый Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.user.userremove"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	targetUID := chi.URLParam(r, "uid")
	if targetUID == "" {
		log.Error("missing uid in url")
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, response.Error("missing uid in url"))
		return
	}

	if err := h.service.Remove(r.Context(), targetUID); err != nil {
		if errors.Is(err, models.ErrUserNotFound) {
			log.Error("user not found", slog.String("uid", targetUID))
			render.Status(r, http.StatusNotFound)
			render.JSON(w, r, response.Error("user not found"))
			return
		}
		log.Error("failed to delete user", sl.Err(err))
		render.Status(r, http.StatusInternalServerError)
		render.JSON(w, r, response.Error("failed to delete user"))
		return
	}

	log.Info("user deleted", slog.String("uid", targetUID))
	render.JSON(w, r, response.OK("user deleted successfully"))
}
