// Package userupdate реализует HTTP-обработчик обновления профиля.
//
// Пользователь меняет только свой профиль, библиотекарь — любой.
// Флаг деактивации учётной записи принимается только от библиотекаря.
package userupdate

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

	"github.com/bookvahub/lms-backend/internal/http/middlewarectx"
	"github.com/bookvahub/lms-backend/internal/http/response"
	"github.com/bookvahub/lms-backend/internal/lib/sl"
	"github.com/bookvahub/lms-backend/internal/lib/upload"
	"github.com/bookvahub/lms-backend/internal/models"
)

// Service описывает интерфейс бизнес-логики обновления профиля.
type Service interface {
	Update(ctx context.Context, userUID string, req models.DummyUserUpdate, imagePath string) (*models.User, error)
}

// Handler обрабатывает HTTP-запросы обновления профиля.
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
	const op = "handlers.user.userupdate"

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
		log.Error("access to other user's profile denied",
			slog.String("user_uid", user.UID),
			slog.String("target_uid", targetUID))
		render.Status(r, http.StatusForbidden)
		render.JSON(w, r, response.Error("you may only update your own profile"))
		return
	}

	if err := r.ParseMultipartForm(upload.MaxFileSize); err != nil {
		log.Error("failed to parse multipart form", sl.Err(err))
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid multipart form"))
		return
	}

	req := models.DummyUserUpdate{
		Name:  r.FormValue("name"),
		Email: r.FormValue("email"),
	}
	if raw := r.FormValue("is_deleted"); raw != "" {
		if user.Role != models.RoleLibrarian {
			log.Error("account deactivation attempted by non-librarian",
				slog.String("user_uid", user.UID))
			render.Status(r, http.StatusForbidden)
			render.JSON(w, r, response.Error("only a librarian may deactivate accounts"))
			return
		}
		isDeleted, err := strconv.ParseBool(raw)
		if err != nil {
			log.Error("invalid is_deleted value", slog.String("is_deleted", raw))
			render.Status(r, http.StatusBadRequest)
			render.JSON(w, r, response.Error("is_deleted must be a boolean"))
			return
		}
		req.IsDeleted = &isDeleted
	}

	if err := h.validate.Struct(req); err != nil {
		log.Error("validation failed", sl.Err(err))
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, response.ValidationError(err.(validator.ValidationErrors)))
		return
	}

	imagePath, err := h.saver.SaveFromRequest(r, "profileImage")
	if err != nil {
		log.Error("failed to save profile image", sl.Err(err))
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, response.Error("failed to save profile image"))
		return
	}

	updated, err := h.service.Update(r.Context(), targetUID, req, imagePath)
	if err != nil {
		switch {
		case errors.Is(err, models.ErrUserNotFound):
			log.Error("user not found", slog.String("uid", targetUID))
			render.Status(r, http.StatusNotFound)
			render.JSON(w, r, response.Error("user not found"))
		case errors.Is(err, models.ErrEmailTaken):
			log.Error("email already taken", slog.String("uid", targetUID))
			render.Status(r, http.StatusBadRequest)
			render.JSON(w, r, response.Error("a user with this email already exists"))
		default:
			log.Error("failed to update user", sl.Err(err))
			render.Status(r, http.StatusInternalServerError)
			render.JSON(w, r, response.Error("failed to update user"))
		}
		return
	}

	log.Info("user profile updated", slog.String("uid", targetUID))
	render.JSON(w, r, response.OKWithData("user updated successfully", updated))
}
