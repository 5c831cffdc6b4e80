// Package borrowuser реализует HTTP-обработчик выдач одного пользователя.
//
// Пользователь видит только свои выдачи, библиотекарь — любые.
package borrowuser

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/bookvahub/lms-backend/internal/http/middlewarectx"
	"github.com/bookvahub/lms-backend/internal/http/response"
	"github.com/bookvahub/lms-backend/internal/lib/sl"
	"github.com/bookvahub/lms-backend/internal/models"
)

// Service описывает интерфейс бизнес-логики выдач пользователя.
type Service interface {
	ListForUser(ctx context.Context, userUID string) ([]*models.BorrowWithBook, error)
}

// Handler обрабатывает HTTP-запросы выдач пользователя.
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
	const op = "handlers.borrow.borrowuser"

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

	targetUID := chi.URLParam(r, "uid")
	if targetUID == "" {
		targetUID = user.UID
	}
	if targetUID != user.UID && user.Role != models.RoleLibrarian {
		log.Error("access to other user's borrows denied",
			slog.String("user_uid", user.UID),
			slog.String("target_uid", targetUID))
		render.Status(r, http.StatusForbidden)
		render.JSON(w, r, response.Error("you may only view your own borrows"))
		return
	}

	borrows, err := h.service.ListForUser(r.Context(), targetUID)
	if err != nil {
		log.Error("failed to list user borrows", sl.Err(err))
		render.Status(r, http.StatusInternalServerError)
		render.JSON(w, r, response.Error("failed to retrieve user borrows"))
		return
	}

	render.JSON(w, r, response.OKWithData("user borrows retrieved successfully", borrows))
}
