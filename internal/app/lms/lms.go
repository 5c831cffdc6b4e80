package lms

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi"

	"github.com/bookvahub/lms-backend/internal/cache"
	"github.com/bookvahub/lms-backend/internal/config"
	"github.com/bookvahub/lms-backend/internal/lib/jwt"
	"github.com/bookvahub/lms-backend/internal/lib/upload"
	"github.com/bookvahub/lms-backend/internal/migrations"
	authservice "github.com/bookvahub/lms-backend/internal/services/auth"
	"github.com/bookvahub/lms-backend/internal/services/borrowing"
	"github.com/bookvahub/lms-backend/internal/services/catalog"
	userservice "github.com/bookvahub/lms-backend/internal/services/user"
	"github.com/bookvahub/lms-backend/internal/storage/repository"
)

type App struct {
	server *http.Server
	logger *slog.Logger
	db     *repository.Storage
	cache  *cache.Cache
}

func New(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	db, err := repository.New(cfg.StorageConnectionString)
	if err != nil {
		return nil, err
	}
	if err = migrations.Run(db.DB, cfg.MigrationsPath); err != nil {
		return nil, err
	}

	cacheRedis, err := cache.InitServer(ctx, cfg.RedisConnection)
	if err != nil {
		return nil, err
	}

	saver, err := upload.NewSaver(cfg.UploadsDir)
	if err != nil {
		return nil, err
	}

	jwtMaker := jwt.NewJWTMaker(cfg.JWTSecretKey, cfg.TokenTTL)

	authService := authservice.New(db, jwtMaker, logger)
	catalogService := catalog.New(db, cacheRedis, logger)
	borrowingService := borrowing.New(db, cacheRedis, logger)
	userService := userservice.New(db, logger)

	if err := authService.SeedLibrarian(ctx, cfg.Seed.LibrarianName, cfg.Seed.LibrarianEmail, cfg.Seed.LibrarianPassword); err != nil {
		return nil, err
	}

	router := chi.NewRouter()

	RegisterRoutes(router, logger, cfg, authService, catalogService, borrowingService, userService, saver)

	srv := &http.Server{
		Addr:         cfg.AddressHTTP,
		Handler:      router,
		ReadTimeout:  cfg.TimeoutHTTP,
		WriteTimeout: cfg.TimeoutHTTP,
		IdleTimeout:  cfg.IdleTimeout,
	}

	return &App{
		server: srv,
		logger: logger,
		db:     db,
		cache:  cacheRedis,
	}, nil
}

func (a *App) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		a.logger.Info("HTTP server starting on", slog.String("address", a.server.Addr))
		err := a.server.ListenAndServe()
		if errors.Is(err, http.ErrServerClosed) {
			errCh <- nil
		} else {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		timeoutCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		a.logger.Info("shutting down HTTP server gracefully")
		err := a.server.Shutdown(timeoutCtx)
		a.db.DB.Close()
		return err
	}
}
