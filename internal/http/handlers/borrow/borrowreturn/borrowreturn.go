// Package borrowreturn реализует HTTP-обработчик возврата книги.
package borrowreturn

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

// Service описывает интерфейс бизнес-логики возврата книг.
type Service interface {
	Return(ctx context.Context, borrowID int) error
}

// Handler обрабатывает HTTP-запросы на возврат книги.
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
	const op = "handlers.borrow.borrowreturn"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	borrowID, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		log.Error("failed to decode id from url", sl.Err(err))
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, response.Error("failed to decode id from url"))
		return
	}

	if err := h.service.Return(r.Context(), borrowID); err != nil {
		switch {
		case errors.Is(err, models.ErrBorrowNotFound):
			log.Error("borrow record not found", slog.Int("borrow_id", borrowID))
			render.Status(r, http.StatusNotFound)
			render.JSON(w, r, response.Error("borrow record not found"))
		case errors.Is(err, models.ErrBookNotFound):
			log.Error("book not found", slog.Int("borrow_id", borrowID))
			render.Status(r, http.StatusNotFound)
			render.JSON(w, r, response.Error("book not found"))
		case errors.Is(err, models.ErrAlreadyReturned):
			log.Error("borrow already returned", slog.Int("borrow_id", borrowID))
			render.Status(r, http.StatusBadRequest)
			render.JSON(w, r, response.Error("this book has already been returned"))
		default:
			log.Error("failed to return book", sl.Err(err))
			render.Status(r, http.StatusInternalServerError)
			render.JSON(w, r, response.Error("failed to return book"))
		}
		return
	}

	log.Info("book returned", slog.Int("borrow_id", borrowID))
	render.JSON(w, r, response.OK("book returned successfully"))
}
