package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/bookvahub/lms-backend/internal/models"
)

// CreateBorrow вставляет новую запись о выдаче и возвращает её ID.
// Частичный уникальный индекс по (user_uid, book_id) для открытых записей
// превращает конкурентную повторную выдачу в ErrDuplicateBorrow.
func (s *Storage) CreateBorrow(ctx context.Context, borrow models.Borrow) (int, error) {
	const op = "storage.CreateBorrow"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `INSERT INTO borrows (book_id, user_uid, borrow_date, due_date, return_date, is_returned)
			  VALUES ($1, $2, $3, $4, NULL, FALSE)
			  RETURNING id`
	var newID int
	err := s.DB.QueryRowContext(ctx, query,
		borrow.BookID, borrow.UserUID, borrow.BorrowDate, borrow.DueDate).Scan(&newID)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
			return 0, fmt.Errorf("%s: %w", op, models.ErrDuplicateBorrow)
		}
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return newID, nil
}

// GetBorrow возвращает запись о выдаче по её ID.
func (s *Storage) GetBorrow(ctx context.Context, id int) (*models.Borrow, error) {
	const op = "storage.GetBorrow"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT id, book_id, user_uid, borrow_date, due_date, return_date, is_returned
			  FROM borrows WHERE id = $1`
	row := s.DB.QueryRowContext(ctx, query, id)

	var result models.Borrow
	var returnDate sql.NullTime
	if err := row.Scan(&result.ID, &result.BookID, &result.UserUID, &result.BorrowDate,
		&result.DueDate, &returnDate, &result.IsReturned); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, models.ErrBorrowNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if returnDate.Valid {
		result.ReturnDate = &returnDate.Time
	}
	return &result, nil
}

// CountOpenBorrows возвращает количество открытых выдач пользователя.
func (s *Storage) CountOpenBorrows(ctx context.Context, userUID string) (int, error) {
	const op = "storage.CountOpenBorrows"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT COUNT(*) FROM borrows WHERE user_uid = $1 AND NOT is_returned`
	var count int
	if err := s.DB.QueryRowContext(ctx, query, userUID).Scan(&count); err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return count, nil
}

// HasOpenBorrow сообщает, есть ли у пользователя открытая выдача данной книги.
func (s *Storage) HasOpenBorrow(ctx context.Context, userUID string, bookID int) (bool, error) {
	const op = "storage.HasOpenBorrow"
	select {
	case <-ctx.Done():
		return false, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT EXISTS (
			      SELECT 1 FROM borrows
			      WHERE user_uid = $1 AND book_id = $2 AND NOT is_returned
			  )`
	var exists bool
	if err := s.DB.QueryRowContext(ctx, query, userUID, bookID).Scan(&exists); err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}
	return exists, nil
}

// CloseBorrow переводит открытую запись в возвращённое состояние.
// Условие NOT is_returned выполняется тем же UPDATE, поэтому повторный
// возврат одной и той же записи даёт ErrAlreadyReturned и не имеет
// побочных эффектов.
func (s *Storage) CloseBorrow(ctx context.Context, id int, returnDate time.Time) error {
	const op = "storage.CloseBorrow"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `UPDATE borrows
			  SET is_returned = TRUE, return_date = $1
			  WHERE id = $2 AND NOT is_returned`
	result, err := s.DB.ExecContext(ctx, query, returnDate, id)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("%s: %w", op, models.ErrAlreadyReturned)
	}
	return nil
}

// RenewBorrow сбрасывает срок открытой выдачи: новая дата выдачи и дедлайн
// через неделю. Закрытую запись продлить нельзя.
func (s *Storage) RenewBorrow(ctx context.Context, id int, borrowDate, dueDate time.Time) error {
	const op = "storage.RenewBorrow"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `UPDATE borrows
			  SET borrow_date = $1, due_date = $2
			  WHERE id = $3 AND NOT is_returned`
	result, err := s.DB.ExecContext(ctx, query, borrowDate, dueDate, id)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("%s: %w", op, models.ErrAlreadyReturned)
	}
	return nil
}

// ListBorrows возвращает записи о выдачах, опционально ограничивая количество.
// limit <= 0 означает "без ограничения".
func (s *Storage) ListBorrows(ctx context.Context, limit int) ([]*models.Borrow, error) {
	const op = "storage.ListBorrows"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT id, book_id, user_uid, borrow_date, due_date, return_date, is_returned
			  FROM borrows
			  ORDER BY borrow_date DESC`
	var rows *sql.Rows
	var err error
	if limit > 0 {
		rows, err = s.DB.QueryContext(ctx, query+` LIMIT $1`, limit)
	} else {
		rows, err = s.DB.QueryContext(ctx, query)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var result []*models.Borrow
	for rows.Next() {
		var item models.Borrow
		var returnDate sql.NullTime
		if err := rows.Scan(&item.ID, &item.BookID, &item.UserUID, &item.BorrowDate,
			&item.DueDate, &returnDate, &item.IsReturned); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		if returnDate.Valid {
			item.ReturnDate = &returnDate.Time
		}
		result = append(result, &item)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}

// ListBorrowDetails возвращает записи о выдачах вместе с данными
// пользователя и книги для административной отчётности.
func (s *Storage) ListBorrowDetails(ctx context.Context) ([]*models.BorrowDetail, error) {
	const op = "storage.ListBorrowDetails"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT b.id, b.book_id, b.user_uid, b.borrow_date, b.due_date,
			      b.return_date, b.is_returned,
			      u.name, u.email, bk.title, bk.isbn
			  FROM borrows b
			  JOIN users u ON u.uid = b.user_uid
			  JOIN books bk ON bk.id = b.book_id
			  ORDER BY b.borrow_date DESC`
	rows, err := s.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var result []*models.BorrowDetail
	for rows.Next() {
		var item models.BorrowDetail
		var returnDate sql.NullTime
		if err := rows.Scan(&item.ID, &item.BookID, &item.UserUID, &item.BorrowDate,
			&item.DueDate, &returnDate, &item.IsReturned,
			&item.UserName, &item.UserEmail, &item.BookTitle, &item.BookISBN); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		if returnDate.Valid {
			item.ReturnDate = &returnDate.Time
		}
		result = append(result, &item)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}

// ListUserBorrows возвращает выдачи пользователя с проекцией книги
// для кабинета читателя.
func (s *Storage) ListUserBorrows(ctx context.Context, userUID string) ([]*models.BorrowWithBook, error) {
	const op = "storage.ListUserBorrows"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT b.id, b.book_id, b.user_uid, b.borrow_date, b.due_date,
			      b.return_date, b.is_returned,
			      bk.title, bk.author, bk.rating, bk.book_image, bk.description
			  FROM borrows b
			  JOIN books bk ON bk.id = b.book_id
			  WHERE b.user_uid = $1
			  ORDER BY b.borrow_date DESC`
	rows, err := s.DB.QueryContext(ctx, query, userUID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var result []*models.BorrowWithBook
	for rows.Next() {
		var item models.BorrowWithBook
		var returnDate sql.NullTime
		if err := rows.Scan(&item.ID, &item.BookID, &item.UserUID, &item.BorrowDate,
			&item.DueDate, &returnDate, &item.IsReturned,
			&item.BookTitle, &item.BookAuthor, &item.BookRating, &item.BookImage,
			&item.BookDescription); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		if returnDate.Valid {
			item.ReturnDate = &returnDate.Time
		}
		result = append(result, &item)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}
