// Package create реализует HTTP-обработчик добавления книги в каталог.
//
// Handler принимает multipart-форму с данными книги и опциональной обложкой,
// валидирует её, сохраняет изображение и вызывает бизнес-логику каталога.
package create

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/bookvahub/lms-backend/internal/http/response"
	"github.com/bookvahub/lms-backend/internal/lib/sl"
	"github.com/bookvahub/lms-backend/internal/lib/upload"
	"github.com/bookvahub/lms-backend/internal/models"
)

// Service описывает интерфейс бизнес-логики каталога для добавления книги.
type Service interface {
	Create(ctx context.Context, req models.DummyBook, imagePath string) (*models.Book, error)
}

// Handler обрабатывает HTTP-запросы на добавление книги.
type Handler struct {
	log      *slog.Logger
	service  Service
	saver    *upload.Saver
	validate *validator.Validate
}

// New создает новый Handler с переданными логгером, сервисом и сохранением файлов.
func New(log *slog.Logger, service Service, saver *upload.Saver) *Handler {
	return &Handler{
		log:      log,
		service:  service,
		saver:    saver,
		validate: validator.New(),
	}
}

// ServeHTTP godoc
// @Summary Добавить книгу
// @Description Добавляет книгу в каталог. Все экземпляры считаются свободными.
// @Tags Books
// @Accept  mpfd
// @Produce  json
// @Success 201 {object} response.Response "Книга добавлена"
// @Failure 400 {object} response.ErrorResponse "Ошибка валидации"
// @Failure 403 {object} response.ErrorResponse "Недостаточно прав"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера"
// @Router /books [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.book.create"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

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

	book, err := h.service.Create(r.Context(), req, imagePath)
	if err != nil {
		log.Error("failed to add book", sl.Err(err))
		render.Status(r, http.StatusInternalServerError)
		render.JSON(w, r, response.Error("failed to add book"))
		return
	}

	log.Info("book added", slog.Int("id", book.ID))
	render.Status(r, http.StatusCreated)
	render.JSON(w, r, response.OKWithData("book added successfully", book))
}
