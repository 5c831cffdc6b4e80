// Package list реализует HTTP-обработчик получения каталога книг.
//
// Параметр limit возвращает подборку самых популярных книг, используемую
// клиентами для витрины.
package list

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/bookvahub/lms-backend/internal/http/response"
	"github.com/bookvahub/lms-backend/internal/lib/sl"
	"github.com/bookvahub/lms-backend/internal/models"
)

// Service описывает интерфейс бизнес-логики каталога для чтения книг.
type Service interface {
	List(ctx context.Context, limit int) ([]*models.Book, error)
}

// Handler обрабатывает HTTP-запросы списка книг.
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
	const op = "handlers.book.list"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 0 {
			log.Error("invalid limit query parameter", slog.String("limit", raw))
			render.Status(r, http.StatusBadRequest)
			render.JSON(w, r, response.Error("limit must be a non-negative integer"))
			return
		}
		limit = parsed
	}

	books, err := h.service.List(r.Context(), limit)
	if err != nil {
		log.Error("failed to list books", sl.Err(err))
		render.Status(r, http.StatusInternalServerError)
		render.JSON(w, r, response.Error("failed to retrieve books"))
		return
	}

	render.JSON(w, r, response.OKWithData("books retrieved successfully", books))
}
