package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/bookvahub/lms-backend/internal/models"
)

// CreateBook вставляет новую книгу и возвращает её ID.
func (s *Storage) CreateBook(ctx context.Context, book models.Book) (int, error) {
	const op = "storage.CreateBook"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `INSERT INTO books (title, author, isbn, quantity, available, rating,
			      description, book_image)
			  VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
			  RETURNING id`
	var newID int
	err := s.DB.QueryRowContext(ctx, query,
		book.Title, book.Author, book.ISBN, book.Quantity, book.Available, book.Rating,
		book.Description, book.BookImage).Scan(&newID)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return newID, nil
}

// GetBook возвращает книгу по её ID.
func (s *Storage) GetBook(ctx context.Context, id int) (*models.Book, error) {
	const op = "storage.GetBook"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT id, title, author, isbn, quantity, available, rating, description, book_image
			  FROM books WHERE id = $1`
	row := s.DB.QueryRowContext(ctx, query, id)

	var result models.Book
	if err := row.Scan(&result.ID, &result.Title, &result.Author, &result.ISBN,
		&result.Quantity, &result.Available, &result.Rating, &result.Description,
		&result.BookImage); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, models.ErrBookNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &result, nil
}

// ListBooks возвращает все книги каталога в порядке добавления.
func (s *Storage) ListBooks(ctx context.Context) ([]*models.Book, error) {
	const op = "storage.ListBooks"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT id, title, author, isbn, quantity, available, rating, description, book_image
			  FROM books
			  ORDER BY id`
	return s.queryBooks(ctx, op, query)
}

// ListTopBooks возвращает limit книг с наибольшим рейтингом.
func (s *Storage) ListTopBooks(ctx context.Context, limit int) ([]*models.Book, error) {
	const op = "storage.ListTopBooks"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT id, title, author, isbn, quantity, available, rating, description, book_image
			  FROM books
			  ORDER BY rating DESC, id
			  LIMIT $1`
	return s.queryBooks(ctx, op, query, limit)
}

func (s *Storage) queryBooks(ctx context.Context, op, query string, args ...any) ([]*models.Book, error) {
	rows, err := s.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var result []*models.Book
	for rows.Next() {
		var item models.Book
		if err := rows.Scan(&item.ID, &item.Title, &item.Author, &item.ISBN,
			&item.Quantity, &item.Available, &item.Rating, &item.Description,
			&item.BookImage); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, &item)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}

// UpdateBook обновляет данные книги. Доступность пересчитывается
// от нового количества за вычетом открытых выдач, не опускаясь ниже нуля.
func (s *Storage) UpdateBook(ctx context.Context, book models.Book) (*models.Book, error) {
	const op = "storage.UpdateBook"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `UPDATE books
			  SET title = $1, author = $2, isbn = $3, quantity = $4,
			      available = GREATEST($4 - (SELECT COUNT(*) FROM borrows
			          WHERE book_id = books.id AND NOT is_returned), 0),
			      description = $5,
			      book_image = CASE WHEN $6 <> '' THEN $6 ELSE book_image END
			  WHERE id = $7
			  RETURNING id, title, author, isbn, quantity, available, rating, description, book_image`
	row := s.DB.QueryRowContext(ctx, query,
		book.Title, book.Author, book.ISBN, book.Quantity, book.Description,
		book.BookImage, book.ID)

	var result models.Book
	if err := row.Scan(&result.ID, &result.Title, &result.Author, &result.ISBN,
		&result.Quantity, &result.Available, &result.Rating, &result.Description,
		&result.BookImage); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, models.ErrBookNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &result, nil
}

// RemoveBook удаляет книгу по ID и возвращает количество удалённых строк.
// Записи о выдачах книги остаются как история.
func (s *Storage) RemoveBook(ctx context.Context, id int) (int, error) {
	const op = "storage.RemoveBook"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `DELETE FROM books WHERE id = $1`
	result, err := s.DB.ExecContext(ctx, query, id)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return int(rowsAffected), nil
}

// TakeBookCopy атомарно списывает один свободный экземпляр книги и повышает
// её рейтинг на 0.5. Возвращает ErrBookUnavailable, если свободных
// экземпляров не осталось: условие available > 0 проверяется тем же
// UPDATE, которым выполняется списание, поэтому конкурентные выдачи
// не могут увести счётчик в минус.
func (s *Storage) TakeBookCopy(ctx context.Context, id int) error {
	const op = "storage.TakeBookCopy"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `UPDATE books
			  SET available = available - 1, rating = rating + 0.5
			  WHERE id = $1 AND available > 0`
	result, err := s.DB.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("%s: %w", op, models.ErrBookUnavailable)
	}
	return nil
}

// ReturnBookCopy атомарно возвращает один экземпляр книги на полку,
// не превышая общее количество экземпляров.
func (s *Storage) ReturnBookCopy(ctx context.Context, id int) error {
	const op = "storage.ReturnBookCopy"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `UPDATE books
			  SET available = LEAST(available + 1, quantity)
			  WHERE id = $1`
	result, err := s.DB.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("%s: %w", op, models.ErrBookNotFound)
	}
	return nil
}
