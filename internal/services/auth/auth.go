// Package auth содержит бизнес-логику регистрации, входа и проверки JWT.
package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/bookvahub/lms-backend/internal/lib/jwt"
	"github.com/bookvahub/lms-backend/internal/lib/password"
	"github.com/bookvahub/lms-backend/internal/models"
)

// ErrInvalidCredentials возвращается при неверной паре email/пароль.
// Обработчик входа не различает "нет такого пользователя" и "не тот пароль".
var ErrInvalidCredentials = errors.New("invalid credentials")

// UserRepository описывает контракт для работы с пользователями в базе данных.
type UserRepository interface {
	// RegisterUser сохраняет нового пользователя и возвращает его UID.
	RegisterUser(ctx context.Context, user models.User) (string, error)
	// GetUserByEmail возвращает пользователя по email или ошибку, если не найден.
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	// GetUser возвращает пользователя по UID.
	GetUser(ctx context.Context, userUID string) (*models.User, error)
}

// Service отвечает за регистрацию, авторизацию и валидацию JWT.
type Service struct {
	users    UserRepository
	jwtMaker jwt.Maker
	log      *slog.Logger
}

// New создает новый экземпляр Service.
func New(users UserRepository, jwtMaker jwt.Maker, log *slog.Logger) *Service {
	return &Service{
		users:    users,
		jwtMaker: jwtMaker,
		log:      log,
	}
}

// Register создает нового читателя с хэшированием пароля.
// Роль при самостоятельной регистрации всегда borrower.
func (s *Service) Register(ctx context.Context, name, email, rawPassword string) (string, error) {
	hashed, err := password.GetHash(rawPassword)
	if err != nil {
		return "", err
	}
	user := models.User{
		Name:         name,
		Email:        email,
		PasswordHash: hashed,
		Role:         models.RoleBorrower,
	}
	return s.users.RegisterUser(ctx, user)
}

// Login проверяет пароль пользователя и генерирует JWT.
// Деактивированные учётные записи не проходят вход.
func (s *Service) Login(ctx context.Context, email, rawPassword string) (string, *models.User, error) {
	user, err := s.users.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, models.ErrUserNotFound) {
			return "", nil, ErrInvalidCredentials
		}
		return "", nil, err
	}
	if err := password.CompareHash(user.PasswordHash, rawPassword); err != nil {
		return "", nil, ErrInvalidCredentials
	}
	if user.IsDeleted {
		return "", nil, ErrInvalidCredentials
	}
	token, err := s.jwtMaker.GenerateToken(user.Email, user.Role, user.UID)
	if err != nil {
		return "", nil, err
	}
	return token, user, nil
}

// ResolveToken проверяет JWT и возвращает пользователя, на которого он выписан.
// Токен с валидной подписью, но без живого пользователя в базе, отклоняется.
func (s *Service) ResolveToken(ctx context.Context, token string) (*models.User, error) {
	claims, err := s.jwtMaker.ParseToken(token)
	if err != nil {
		return nil, err
	}
	user, err := s.users.GetUser(ctx, claims.UserUID)
	if err != nil {
		return nil, err
	}
	return user, nil
}

// SeedLibrarian создаёт дефолтного библиотекаря, если его ещё нет.
// Вызывается при старте приложения.
func (s *Service) SeedLibrarian(ctx context.Context, name, email, rawPassword string) error {
	const op = "auth.SeedLibrarian"

	_, err := s.users.GetUserByEmail(ctx, email)
	if err == nil {
		return nil
	}
	if !errors.Is(err, models.ErrUserNotFound) {
		return fmt.Errorf("%s: %w", op, err)
	}

	hashed, err := password.GetHash(rawPassword)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	librarian := models.User{
		Name:         name,
		Email:        email,
		PasswordHash: hashed,
		Role:         models.RoleLibrarian,
	}
	if _, err := s.users.RegisterUser(ctx, librarian); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	s.log.Info("default librarian created", slog.String("email", email))
	return nil
}
