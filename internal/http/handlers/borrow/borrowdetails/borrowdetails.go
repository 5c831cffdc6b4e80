// Package borrowdetails реализует HTTP-обработчик развернутого списка выдач
// с данными пользователя и книги. Доступен только библиотекарю.
package borrowdetails

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/bookvahub/lms-backend/internal/http/response"
	"github.com/bookvahub/lms-backend/internal/lib/sl"
	"github.com/bookvahub/lms-backend/internal/models"
)

// Service описывает интерфейс бизнес-логики чтения выдач с деталями.
type Service interface {
	ListDetails(ctx context.Context) ([]*models.BorrowDetail, error)
}

// Handler обрабатывает HTTP-запросы развернутого списка выдач.
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
	const op = "handlers.borrow.borrowdetails"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	details, err := h.service.ListDetails(r.Context())
	if err != nil {
		log.Error("failed to list borrow details", sl.Err(err))
		render.Status(r, http.StatusInternalServerError)
		render.JSON(w, r, response.Error("failed to retrieve borrow details"))
		return
	}

	render.JSON(w, r, response.OKWithData("borrow details retrieved successfully", details))
}
