// Package borrowcreate реализует HTTP-обработчик выдачи книги текущему
// пользователю.
package borrowcreate

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/bookvahub/lms-backend/internal/http/middlewarectx"
	"github.com/bookvahub/lms-backend/internal/http/response"
	"github.com/bookvahub/lms-backend/internal/lib/sl"
	"github.com/bookvahub/lms-backend/internal/models"
)

// Service описывает интерфейс бизнес-логики выдачи книг.
type Service interface {
	Borrow(ctx context.Context, bookID int, userUID string) (*models.Borrow, error)
}

// Handler обрабатывает HTTP-запросы на выдачу книги.
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

// ServeHTTP godoc
// @Summary Взять книгу
// @Description Выдаёт книгу текущему пользователю на неделю. Не больше трёх
// книг на руках, одна и та же книга не выдаётся повторно до возврата.
// @Tags Borrows
// @Produce  json
// @Param id path int true "ID книги"
// @Success 201 {object} response.Response "Книга выдана"
// @Failure 400 {object} response.ErrorResponse "Нарушено правило выдачи"
// @Failure 401 {object} response.ErrorResponse "Пользователь не аутентифицирован"
// @Failure 404 {object} response.ErrorResponse "Книга не найдена"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера"
// @Router /borrows/{id} [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.borrow.borrowcreate"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	user, ok := middlewarectx.UserFromContext(r.Context())
	if !ok {
		log.Error("no authenticated user in context")
		render.Status(r, http.StatusUnauthorized)
		render.JSON(w, r, response.Error("access denied, no token provided"))
		return
	}

	bookID, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		log.Error("failed to decode id from url", sl.Err(err))
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, response.Error("failed to decode id from url"))
		return
	}

	borrow, err := h.service.Borrow(r.Context(), bookID, user.UID)
	if err != nil {
		switch {
		case errors.Is(err, models.ErrBookNotFound):
			log.Error("book not found", slog.Int("book_id", bookID))
			render.Status(r, http.StatusNotFound)
			render.JSON(w, r, response.Error("book not found"))
		case errors.Is(err, models.ErrBorrowLimitExceeded):
			log.Error("borrow limit exceeded", slog.String("user_uid", user.UID))
			render.Status(r, http.StatusBadRequest)
			render.JSON(w, r, response.Error("you have reached the maximum borrow limit of 3 books"))
		case errors.Is(err, models.ErrDuplicateBorrow):
			log.Error("book already borrowed by user", slog.Int("book_id", bookID))
			render.Status(r, http.StatusBadRequest)
			render.JSON(w, r, response.Error("you have already borrowed this book"))
		case errors.Is(err, models.ErrBookUnavailable):
			log.Error("no available copies", slog.Int("book_id", bookID))
			render.Status(r, http.StatusBadRequest)
			render.JSON(w, r, response.Error("no available copies of this book"))
		default:
			log.Error("failed to borrow book", sl.Err(err))
			render.Status(r, http.StatusInternalServerError)
			render.JSON(w, r, response.Error("failed to borrow book"))
		}
		return
	}

	log.Info("book borrowed",
		slog.Int("borrow_id", borrow.ID),
		slog.Int("book_id", bookID))
	render.Status(r, http.StatusCreated)
	render.JSON(w, r, response.OKWithData("book borrowed successfully", borrow))
}
