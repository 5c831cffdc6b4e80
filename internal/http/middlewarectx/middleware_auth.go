// Package middlewarectx содержит HTTP middleware для аутентификации и
// авторизации запросов.
//
// JWTMiddleware принимает bearer-токен из заголовка Authorization или из
// cookie, проверяет его и резолвит пользователя из хранилища; пользователь
// кладётся в контекст запроса. RequireRole ограничивает операции по роли,
// ActiveUserMiddleware отклоняет деактивированные учётные записи.
package middlewarectx

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/bookvahub/lms-backend/internal/http/response"
	"github.com/bookvahub/lms-backend/internal/lib/sl"
	"github.com/bookvahub/lms-backend/internal/models"
)

// Key тип для ключей контекста HTTP-запроса.
type Key string

// User — ключ, под которым в контексте лежит *models.User текущего запроса.
const User Key = "user"

// TokenCookie — имя cookie, в которой клиенты передают JWT.
const TokenCookie = "token"

// Resolver описывает интерфейс сервиса, резолвящего токен в пользователя.
type Resolver interface {
	ResolveToken(ctx context.Context, token string) (*models.User, error)
}

// UserFromContext извлекает аутентифицированного пользователя из контекста.
func UserFromContext(ctx context.Context) (*models.User, bool) {
	user, ok := ctx.Value(User).(*models.User)
	return user, ok
}

// JWTMiddleware возвращает HTTP middleware, который проверяет JWT из
// заголовка Authorization или cookie и кладёт пользователя в контекст.
//
// Отсутствующий, невалидный или истёкший токен, а также токен без живого
// пользователя в базе дают 401 Unauthorized.
func JWTMiddleware(resolver Resolver, log *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			const op = "middlewarectx.JWTMiddleware"

			log := log.With(
				slog.String("op", op),
				slog.String("request_id", middleware.GetReqID(r.Context())),
			)

			tokenStr := tokenFromRequest(r)
			if tokenStr == "" {
				log.Error("missing bearer token")
				render.Status(r, http.StatusUnauthorized)
				render.JSON(w, r, response.Error("access denied, no token provided"))
				return
			}

			user, err := resolver.ResolveToken(r.Context(), tokenStr)
			if err != nil {
				log.Error("invalid or expired token", sl.Err(err))
				render.Status(r, http.StatusUnauthorized)
				render.JSON(w, r, response.Error("token is invalid or expired"))
				return
			}

			ctx := context.WithValue(r.Context(), User, user)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// tokenFromRequest достаёт JWT из заголовка Authorization, при его
// отсутствии — из cookie.
func tokenFromRequest(r *http.Request) string {
	authHeader := r.Header.Get("Authorization")
	if strings.HasPrefix(authHeader, "Bearer ") {
		return strings.TrimPrefix(authHeader, "Bearer ")
	}
	if cookie, err := r.Cookie(TokenCookie); err == nil {
		return cookie.Value
	}
	return ""
}
