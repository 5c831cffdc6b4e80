// Package borrowlist реализует HTTP-обработчик списка записей о выдачах.
package borrowlist

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

// Service описывает интерфейс бизнес-логики чтения выдач.
type Service interface {
	List(ctx context.Context, limit int) ([]*models.Borrow, error)
}

// Handler обрабатывает HTTP-запросы списка выдач.
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
	const op = "handlers.borrow.borrowlist"

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

	borrows, err := h.service.List(r.Context(), limit)
	if err != nil {
		log.Error("failed to list borrows", sl.Err(err))
		render.Status(r, http.StatusInternalServerError)
		render.JSON(w, r, response.Error("failed to retrieve borrows"))
		return
	}

	render.JSON(w, r, response.OKWithData("borrows retrieved successfully", borrows))
}
