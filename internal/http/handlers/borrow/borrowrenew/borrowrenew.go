// Package borrowrenew реализует HTTP-обработчик продления выдачи.
package borrowrenew

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

// Service описывает интерфейс бизнес-логики продления выдачи.
type Service interface {
	Renew(ctx context.Context, borrowID int) (*models.Borrow, error)
}

// Handler обрабатывает HTTP-запросы на продление выдачи.
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
	const op = "handlers.borrow.borrowrenew"

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

	borrow, err := h.service.Renew(r.Context(), borrowID)
	if err != nil {
		switch {
		case errors.Is(err, models.ErrBorrowNotFound):
			log.Error("borrow record not found", slog.Int("borrow_id", borrowID))
			render.Status(r, http.StatusNotFound)
			render.JSON(w, r, response.Error("borrow record not found"))
		case errors.Is(err, models.ErrAlreadyReturned):
			log.Error("cannot renew returned borrow", slog.Int("borrow_id", borrowID))
			render.Status(r, http.StatusBadRequest)
			render.JSON(w, r, response.Error("cannot renew a returned book"))
		default:
			log.Error("failed to renew borrow", sl.Err(err))
			render.Status(r, http.StatusInternalServerError)
			render.JSON(w, r, response.Error("failed to renew borrow"))
		}
		return
	}

	log.Info("borrow renewed",
		slog.Int("borrow_id", borrowID),
		slog.Time("due_date", borrow.DueDate))
	render.JSON(w, r, response.OKWithData("borrow renewed successfully", borrow))
}
