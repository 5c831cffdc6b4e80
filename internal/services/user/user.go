// Package user содержит бизнес-логику управления учётными записями:
// просмотр, обновление профиля, деактивация и удаление.
package user

import (
	"context"
	"log/slog"

	"github.com/bookvahub/lms-backend/internal/models"
)

// Repository определяет методы хранилища, нужные сервису пользователей.
type Repository interface {
	// GetUser возвращает пользователя по UID.
	GetUser(ctx context.Context, userUID string) (*models.User, error)
	// ListUsers возвращает всех пользователей.
	ListUsers(ctx context.Context) ([]*models.User, error)
	// UpdateUser обновляет профиль и возвращает обновлённую запись.
	UpdateUser(ctx context.Context, user *models.User) (*models.User, error)
	// RemoveUser удаляет пользователя и возвращает количество удалённых строк.
	RemoveUser(ctx context.Context, userUID string) (int, error)
}

// Service реализует операции над учётными записями.
type Service struct {
	repo Repository
	log  *slog.Logger
}

// New создает новый экземпляр Service.
func New(repo Repository, log *slog.Logger) *Service {
	return &Service{
		repo: repo,
		log:  log,
	}
}

// Get возвращает пользователя по UID.
func (s *Service) Get(ctx context.Context, userUID string) (*models.User, error) {
	return s.repo.GetUser(ctx, userUID)
}

// List возвращает всех пользователей.
func (s *Service) List(ctx context.Context) ([]*models.User, error) {
	return s.repo.ListUsers(ctx)
}

// Update применяет частичное обновление профиля. Пустые поля запроса
// оставляют текущие значения; установка IsDeleted — прерогатива
// библиотекаря, контролируется на уровне обработчика.
func (s *Service) Update(ctx context.Context, userUID string, req models.DummyUserUpdate, imagePath string) (*models.User, error) {
	current, err := s.repo.GetUser(ctx, userUID)
	if err != nil {
		return nil, err
	}

	if req.Name != "" {
		current.Name = req.Name
	}
	if req.Email != "" {
		current.Email = req.Email
	}
	if req.IsDeleted != nil {
		current.IsDeleted = *req.IsDeleted
	}
	if imagePath != "" {
		current.ProfileImage = imagePath
	}

	updated, err := s.repo.UpdateUser(ctx, current)
	if err != nil {
		return nil, err
	}
	s.log.Info("user profile updated", slog.String("uid", userUID))
	return updated, nil
}

// Remove удаляет учётную запись. История выдач пользователя сохраняется.
func (s *Service) Remove(ctx context.Context, userUID string) error {
	count, err := s.repo.RemoveUser(ctx, userUID)
	if err != nil {
		return err
	}
	if count == 0 {
		return models.ErrUserNotFound
	}
	s.log.Info("user removed", slog.String("uid", userUID))
	return nil
}
