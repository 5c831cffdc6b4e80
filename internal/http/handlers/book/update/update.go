// Package update реализует HTTP-обработчик изменения книги каталога.
package update

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/bookvahub/lms-backend/internal/http/response"
	"github.com/bookvahub/lms-backend/internal/lib/sl"
	"github.com/bookvahub/lms-backend/internal/lib/upload"
	"github.com/bookvahub/lms-backend/internal/models"
)

// Service описывает интерфейс бизнес-логики каталога для изменения книги.
type Service interface {
	Update(ctx context.Context, id int, req models.DummyBook, imagePath string) (*models.Book, error)
}

// Handler обрабатывает HTTP-запросы на изменение книги.
type Handler struct {
	log      *slog.Logger
	service  Service
	saver    *upload.Saver
	validate *validator.Validate
}

// New создает новый Handler.
func New(log *slog.Logger, service Service, saver *upload.Saver) *Handler {
	return &Handler{
		log:      log,
		service:  service,
		saver:    saver,
		validate: validator.New(),
	}
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.book.update"

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

	if err := r.ParseMultipartForm(upload.MaxFileSize); err != nil {
		log.Error("failed to parse multipart form", sl.Err(err))
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid multipart form"))
		return
	}

	quantity, _ := strconv.Atoi(r.FormValue("quantity"))
	req := models.DummyBook{
		Title:       r.FormValue("title"),
		Author:      r.FormValue("author"),
		ISBN:        r.FormValue("isbn"),
		Quantity:    quantity,
		Description: r.FormValue("description"),
	}

	if err := h.validate.Struct(req); err != nil {
		log.Error("validation failed", sl.Err(err))
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, response.ValidationError(err.(validator.ValidationErrors)))
		return
	}

	imagePath, err := h.saver.SaveFromRequest(r, "bookImage")
	if err != nil {
		log.Error("failed to save book image", sl.Err(err))
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, response.Error("failed to save book image"))
		return
	}

	book, err := h.service.Update(r.Context(), id, req, imagePath)
	if err != nil {
		if errors.Is(err, models.ErrBookNotFound) {
			log.Error("book not found", slog.Int("id", id))
			render.Status(r, http.StatusNotFound)
			render.JSON(w, r, response.Error("book not found"))
			return
		}
		log.Error("failed to update book", sl.Err(err))
		render.Status(r, http.StatusInternalServerError)
		render.JSON(w, r, response.Error("failed to update book"))
		return
	}

	log.Info("book updated", slog.Int("id", id))
	render.JSON(w, r, response.OKWithData("book updated successfully", book))
}
