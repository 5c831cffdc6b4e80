// Package lms предоставляет сборку и маршруты основного приложения.
package lms

import (
	"net/http"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	httpSwagger "github.com/swaggo/http-swagger"

	"github.com/bookvahub/lms-backend/internal/config"
	"github.com/bookvahub/lms-backend/internal/http/handlers/auth/login"
	"github.com/bookvahub/lms-backend/internal/http/handlers/auth/logout"
	"github.com/bookvahub/lms-backend/internal/http/handlers/auth/register"
	bookcreate "github.com/bookvahub/lms-backend/internal/http/handlers/book/create"
	booklist "github.com/bookvahub/lms-backend/internal/http/handlers/book/list"
	bookremove "github.com/bookvahub/lms-backend/internal/http/handlers/book/remove"
	bookupdate "github.com/bookvahub/lms-backend/internal/http/handlers/book/update"
	"github.com/bookvahub/lms-backend/internal/http/handlers/borrow/borrowcreate"
	"github.com/bookvahub/lms-backend/internal/http/handlers/borrow/borrowdetails"
	"github.com/bookvahub/lms-backend/internal/http/handlers/borrow/borrowlist"
	"github.com/bookvahub/lms-backend/internal/http/handlers/borrow/borrowrenew"
	"github.com/bookvahub/lms-backend/internal/http/handlers/borrow/borrowreturn"
	"github.com/bookvahub/lms-backend/internal/http/handlers/borrow/borrowuser"
	"github.com/bookvahub/lms-backend/internal/http/handlers/user/userlist"
	"github.com/bookvahub/lms-backend/internal/http/handlers/user/userme"
	"github.com/bookvahub/lms-backend/internal/http/handlers/user/userremove"
	"github.com/bookvahub/lms-backend/internal/http/handlers/user/userupdate"
	"github.com/bookvahub/lms-backend/internal/http/middlewarectx"
	"github.com/bookvahub/lms-backend/internal/lib/upload"
	"github.com/bookvahub/lms-backend/internal/models"
	authservice "github.com/bookvahub/lms-backend/internal/services/auth"
	"github.com/bookvahub/lms-backend/internal/services/borrowing"
	"github.com/bookvahub/lms-backend/internal/services/catalog"
	userservice "github.com/bookvahub/lms-backend/internal/services/user"

	"log/slog"
)

// RegisterRoutes регистрирует все маршруты приложения.
func RegisterRoutes(r chi.Router, logger *slog.Logger, cfg *config.Config,
	authService *authservice.Service, catalogService *catalog.Service,
	borrowingService *borrowing.Service, userService *userservice.Service,
	saver *upload.Saver) {
	// Глобальные middleware
	r.Use(
		middleware.RequestID,
		middleware.Logger,
		middleware.Recoverer,
		middleware.URLFormat,
	)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Route("/api/v1", func(r chi.Router) {
		// Открытые конечные точки
		r.Post("/register", register.New(logger, authService).ServeHTTP)
		r.Post("/login", login.New(logger, authService).ServeHTTP)
		r.Post("/logout", logout.New(logger).ServeHTTP)
		r.Get("/books", booklist.New(logger, catalogService).ServeHTTP)

		// Группа с JWT аутентификацией
		r.Group(func(r chi.Router) {
			r.Use(middlewarectx.JWTMiddleware(authService, logger))
			r.Use(middlewarectx.ActiveUserMiddleware(logger))
			r.Use(middlewarectx.RateLimitMiddleware(logger))

			r.Post("/borrows/{id}", borrowcreate.New(logger, borrowingService).ServeHTTP)
			r.Put("/borrows/{id}/return", borrowreturn.New(logger, borrowingService).ServeHTTP)
			r.Put("/borrows/{id}/renew", borrowrenew.New(logger, borrowingService).ServeHTTP)
			r.Get("/borrows/my", borrowuser.New(logger, borrowingService).ServeHTTP)
			r.Get("/borrows/user/{uid}", borrowuser.New(logger, borrowingService).ServeHTTP)

			r.Get("/users/me", userme.New(logger).ServeHTTP)
			r.Put("/users/me", userupdate.New(logger, userService, saver).ServeHTTP)
			r.Put("/users/{uid}", userupdate.New(logger, userService, saver).ServeHTTP)

			// Операции библиотекаря
			r.Group(func(r chi.Router) {
				r.Use(middlewarectx.RequireRole(logger, models.RoleLibrarian))

				r.Post("/books", bookcreate.New(logger, catalogService, saver).ServeHTTP)
				r.Put("/books/{id}", bookupdate.New(logger, catalogService, saver).ServeHTTP)
				r.Delete("/books/{id}", bookremove.New(logger, catalogService).ServeHTTP)

				r.Get("/borrows", borrowlist.New(logger, borrowingService).ServeHTTP)
				r.Get("/borrows/details", borrowdetails.New(logger, borrowingService).ServeHTTP)

				r.Get("/users", userlist.New(logger, userService).ServeHTTP)
				r.Delete("/users/{uid}", userremove.New(logger, userService).ServeHTTP)
			})
		})
	})

	r.Handle("/metrics", promhttp.Handler())
	// Swagger docs endpoint
	r.Get("/docs/*", httpSwagger.WrapHandler)
	// Статика с обложками книг и аватарами
	r.Handle("/uploads/*", http.StripPrefix("/uploads/", http.FileServer(http.Dir(cfg.UploadsDir))))
}
