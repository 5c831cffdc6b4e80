// Package remove реализует HTTP-обработчик удаления книги из каталога.
// История выдач удалённой книги сохраняется.
package remove

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/bookvahub/lms-backend/internal/http/response"
	"github.com/bookvahub/lms-backend/internal/lib/sl"
	"github.com/bookvahub/lms-backend/internal/models"
)

// Service описывает интерфейс бизнес-логики каталога для удаления книги.
type Service interface {
	Remove(ctx context.Context, id int) error
}

// Handler обрабатывает HTTP-запросы на удаление книги.
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
	const op = "handlers.book.remove"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		log.Error("failed to decode id from url", sl.Err(err))
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, response.Error("failed to decode id from url"))
		return
	}

	if err := h.service.Remove(r.Context(), id); err != nil {
		if errors.Is(err, models.ErrBookNotFound) {
			log.Error("book not found", slog.Int("id", id))
			render.Status(r, http.StatusNotFound)
			render.JSON(w, r, response.Error("book not found"))
			return
		}
		log.Error("failed to delete book", sl.Err(err))
		render.Status(r, http.StatusInternalServerError)
		render.JSON(w, r, response.Error("failed to delete book"))
		return
	}

	log.Info("book deleted", slog.Int("id", id))
	render.JSON(w, r, response.OK("book deleted successfully"))
}
