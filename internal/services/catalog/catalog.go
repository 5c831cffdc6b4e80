// Package catalog реализует бизнес-логику каталога книг, включая кеширование
// подборки популярных книг.
package catalog

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/bookvahub/lms-backend/internal/lib/sl"
	"github.com/bookvahub/lms-backend/internal/models"
)

// topBooksTTL — время жизни кешированной подборки популярных книг.
const topBooksTTL = 5 * time.Minute

// Repository определяет методы хранилища, нужные каталогу.
type Repository interface {
	// CreateBook вставляет новую книгу и возвращает её ID.
	CreateBook(ctx context.Context, book models.Book) (int, error)
	// GetBook возвращает книгу по ID.
	GetBook(ctx context.Context, id int) (*models.Book, error)
	// ListBooks возвращает все книги каталога.
	ListBooks(ctx context.Context) ([]*models.Book, error)
	// ListTopBooks возвращает limit книг с наибольшим рейтингом.
	ListTopBooks(ctx context.Context, limit int) ([]*models.Book, error)
	// UpdateBook обновляет книгу с пересчётом доступности.
	UpdateBook(ctx context.Context, book models.Book) (*models.Book, error)
	// RemoveBook удаляет книгу и возвращает количество удалённых строк.
	RemoveBook(ctx context.Context, id int) (int, error)
}

// Cache описывает методы для кэширования данных каталога.
type Cache interface {
	// Get пытается получить значение из кеша по ключу.
	Get(key string, result any) (bool, error)
	// Set сохраняет значение в кеш с временем жизни.
	Set(key string, value any, expiration time.Duration) error
	// InvalidatePrefix удаляет все ключи с заданным префиксом.
	InvalidatePrefix(prefix string) error
}

// Service реализует операции каталога.
type Service struct {
	repo  Repository
	cache Cache
	log   *slog.Logger
}

// New создает новый экземпляр Service.
func New(repo Repository, cache Cache, log *slog.Logger) *Service {
	return &Service{
		repo:  repo,
		cache: cache,
		log:   log,
	}
}

// Create добавляет книгу в каталог: все экземпляры свободны, рейтинг нулевой.
func (s *Service) Create(ctx context.Context, req models.DummyBook, imagePath string) (*models.Book, error) {
	description := req.Description
	if description == "" {
		description = "No description provided."
	}

	book := models.Book{
		Title:       req.Title,
		Author:      req.Author,
		ISBN:        req.ISBN,
		Quantity:    req.Quantity,
		Available:   req.Quantity,
		Rating:      0,
		Description: description,
		BookImage:   imagePath,
	}
	id, err := s.repo.CreateBook(ctx, book)
	if err != nil {
		return nil, err
	}
	book.ID = id

	s.invalidateTopBooks()
	s.log.Info("book added to catalog", slog.Int("id", id), slog.String("title", book.Title))
	return &book, nil
}

// List возвращает книги каталога. При limit > 0 возвращаются limit книг
// с наибольшим рейтингом; такая подборка кешируется.
func (s *Service) List(ctx context.Context, limit int) ([]*models.Book, error) {
	if limit <= 0 {
		return s.repo.ListBooks(ctx)
	}

	cacheKey := topBooksKey(limit)
	var cached []*models.Book
	found, err := s.cache.Get(cacheKey, &cached)
	if err != nil {
		s.log.Warn("failed to read catalog cache", slog.String("key", cacheKey), sl.Err(err))
	}
	if found {
		return cached, nil
	}

	books, err := s.repo.ListTopBooks(ctx, limit)
	if err != nil {
		return nil, err
	}
	if err := s.cache.Set(cacheKey, books, topBooksTTL); err != nil {
		s.log.Warn("failed to cache top books", slog.String("key", cacheKey), sl.Err(err))
	}
	return books, nil
}

// Update изменяет данные книги. Доступность пересчитывается в хранилище
// от нового количества за вычетом открытых выдач.
func (s *Service) Update(ctx context.Context, id int, req models.DummyBook, imagePath string) (*models.Book, error) {
	book := models.Book{
		ID:          id,
		Title:       req.Title,
		Author:      req.Author,
		ISBN:        req.ISBN,
		Quantity:    req.Quantity,
		Description: req.Description,
		BookImage:   imagePath,
	}
	updated, err := s.repo.UpdateBook(ctx, book)
	if err != nil {
		return nil, err
	}

	s.invalidateTopBooks()
	s.log.Info("book updated", slog.Int("id", id))
	return updated, nil
}

// Remove удаляет книгу из каталога. История выдач книги сохраняется.
func (s *Service) Remove(ctx context.Context, id int) error {
	count, err := s.repo.RemoveBook(ctx, id)
	if err != nil {
		return err
	}
	if count == 0 {
		return models.ErrBookNotFound
	}

	s.invalidateTopBooks()
	s.log.Info("book removed", slog.Int("id", id))
	return nil
}

func (s *Service) invalidateTopBooks() {
	if err := s.cache.InvalidatePrefix("books:top:"); err != nil {
		s.log.Warn("failed to invalidate catalog cache", sl.Err(err))
	}
}

func topBooksKey(limit int) string {
	return fmt.Sprintf("books:top:%d", limit)
}
