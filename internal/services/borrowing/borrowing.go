// Package borrowing реализует бизнес-правила выдачи и возврата книг:
// лимит одновременных выдач, запрет повторной выдачи той же книги,
// учёт доступных экземпляров, сроки и продление.
package borrowing

import (
	"context"
	"log/slog"
	"time"

	"github.com/bookvahub/lms-backend/internal/lib/sl"
	"github.com/bookvahub/lms-backend/internal/models"
)

// MaxOpenBorrows — максимум одновременно открытых выдач у одного пользователя.
const MaxOpenBorrows = 3

// Repository определяет методы хранилища, нужные сервису выдачи.
type Repository interface {
	// GetBook возвращает книгу по ID.
	GetBook(ctx context.Context, id int) (*models.Book, error)
	// TakeBookCopy атомарно списывает свободный экземпляр и повышает рейтинг.
	TakeBookCopy(ctx context.Context, id int) error
	// ReturnBookCopy возвращает экземпляр на полку.
	ReturnBookCopy(ctx context.Context, id int) error

	// CreateBorrow вставляет новую запись о выдаче.
	CreateBorrow(ctx context.Context, borrow models.Borrow) (int, error)
	// GetBorrow возвращает запись о выдаче по ID.
	GetBorrow(ctx context.Context, id int) (*models.Borrow, error)
	// CountOpenBorrows считает открытые выдачи пользователя.
	CountOpenBorrows(ctx context.Context, userUID string) (int, error)
	// HasOpenBorrow сообщает об открытой выдаче данной книги пользователю.
	HasOpenBorrow(ctx context.Context, userUID string, bookID int) (bool, error)
	// CloseBorrow закрывает открытую запись, повторное закрытие запрещено.
	CloseBorrow(ctx context.Context, id int, returnDate time.Time) error
	// RenewBorrow сбрасывает срок открытой записи.
	RenewBorrow(ctx context.Context, id int, borrowDate, dueDate time.Time) error

	// ListBorrows возвращает записи о выдачах с опциональным лимитом.
	ListBorrows(ctx context.Context, limit int) ([]*models.Borrow, error)
	// ListBorrowDetails возвращает выдачи с данными пользователя и книги.
	ListBorrowDetails(ctx context.Context) ([]*models.BorrowDetail, error)
	// ListUserBorrows возвращает выдачи пользователя с проекцией книги.
	ListUserBorrows(ctx context.Context, userUID string) ([]*models.BorrowWithBook, error)
}

// Cache описывает методы кеша, задетые операциями выдачи.
type Cache interface {
	// InvalidatePrefix сбрасывает кешированные выборки каталога.
	InvalidatePrefix(prefix string) error
}

// Service реализует сценарии выдачи, возврата и продления.
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

// Borrow выдаёт книгу пользователю.
//
// Порядок проверок: книга существует → лимит открытых выдач → нет открытой
// выдачи этой же книги → есть свободный экземпляр. Списание экземпляра
// выполняется guarded-обновлением, а вставка записи защищена частичным
// уникальным индексом, поэтому конкурентные запросы не нарушают инварианты;
// проигравший запрос получает ту же доменную ошибку, что и при обычной
// проверке.
func (s *Service) Borrow(ctx context.Context, bookID int, userUID string) (*models.Borrow, error) {
	if _, err := s.repo.GetBook(ctx, bookID); err != nil {
		return nil, err
	}

	openCount, err := s.repo.CountOpenBorrows(ctx, userUID)
	if err != nil {
		return nil, err
	}
	if openCount >= MaxOpenBorrows {
		return nil, models.ErrBorrowLimitExceeded
	}

	alreadyBorrowed, err := s.repo.HasOpenBorrow(ctx, userUID, bookID)
	if err != nil {
		return nil, err
	}
	if alreadyBorrowed {
		return nil, models.ErrDuplicateBorrow
	}

	if err := s.repo.TakeBookCopy(ctx, bookID); err != nil {
		return nil, err
	}

	borrowDate := time.Now().UTC()
	borrow := models.Borrow{
		BookID:     bookID,
		UserUID:    userUID,
		BorrowDate: borrowDate,
		DueDate:    borrowDate.Add(models.BorrowTerm),
	}
	id, err := s.repo.CreateBorrow(ctx, borrow)
	if err != nil {
		// Экземпляр уже списан, возвращаем его на полку.
		if rbErr := s.repo.ReturnBookCopy(ctx, bookID); rbErr != nil {
			s.log.Error("failed to restore book copy after borrow conflict",
				slog.Int("book_id", bookID), sl.Err(rbErr))
		}
		return nil, err
	}
	borrow.ID = id

	if err := s.cache.InvalidatePrefix("books:top:"); err != nil {
		s.log.Warn("failed to invalidate catalog cache", sl.Err(err))
	}

	s.log.Info("book borrowed",
		slog.Int("borrow_id", id),
		slog.Int("book_id", bookID),
		slog.String("user_uid", userUID))
	return &borrow, nil
}

// Return закрывает запись о выдаче и возвращает экземпляр на полку.
//
// Повторный возврат одной и той же записи даёт ErrAlreadyReturned и не
// меняет счётчик доступности.
func (s *Service) Return(ctx context.Context, borrowID int) error {
	borrow, err := s.repo.GetBorrow(ctx, borrowID)
	if err != nil {
		return err
	}
	if _, err := s.repo.GetBook(ctx, borrow.BookID); err != nil {
		return err
	}

	if err := s.repo.CloseBorrow(ctx, borrowID, time.Now().UTC()); err != nil {
		return err
	}
	if err := s.repo.ReturnBookCopy(ctx, borrow.BookID); err != nil {
		return err
	}

	s.log.Info("book returned",
		slog.Int("borrow_id", borrowID),
		slog.Int("book_id", borrow.BookID))
	return nil
}

// Renew продлевает открытую выдачу: дата выдачи становится текущей,
// дедлайн — через неделю. Закрытую запись продлить нельзя.
func (s *Service) Renew(ctx context.Context, borrowID int) (*models.Borrow, error) {
	borrow, err := s.repo.GetBorrow(ctx, borrowID)
	if err != nil {
		return nil, err
	}
	if borrow.IsReturned {
		return nil, models.ErrAlreadyReturned
	}

	borrowDate := time.Now().UTC()
	dueDate := borrowDate.Add(models.BorrowTerm)
	if err := s.repo.RenewBorrow(ctx, borrowID, borrowDate, dueDate); err != nil {
		return nil, err
	}

	borrow.BorrowDate = borrowDate
	borrow.DueDate = dueDate

	s.log.Info("borrow renewed",
		slog.Int("borrow_id", borrowID),
		slog.Time("due_date", dueDate))
	return borrow, nil
}

// List возвращает записи о выдачах, опционально ограничивая количество.
func (s *Service) List(ctx context.Context, limit int) ([]*models.Borrow, error) {
	return s.repo.ListBorrows(ctx, limit)
}

// ListDetails возвращает выдачи с данными пользователя и книги.
func (s *Service) ListDetails(ctx context.Context) ([]*models.BorrowDetail, error) {
	return s.repo.ListBorrowDetails(ctx)
}

// ListForUser возвращает выдачи пользователя с проекцией книги.
func (s *Service) ListForUser(ctx context.Context, userUID string) ([]*models.BorrowWithBook, error) {
	return s.repo.ListUserBorrows(ctx, userUID)
}
