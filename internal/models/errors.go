package models

import "errors"

// Доменные ошибки. Хранилище и сервисы возвращают их как sentinel-значения,
// HTTP-обработчики транслируют в статусы: NotFound — 404, нарушения
// бизнес-правил — 400, всё прочее — 500.
var (
	// ErrUserNotFound — пользователь не найден по uid или email.
	ErrUserNotFound = errors.New("user not found")
	// ErrBookNotFound — книга не найдена по id.
	ErrBookNotFound = errors.New("book not found")
	// ErrBorrowNotFound — запись о выдаче не найдена по id.
	ErrBorrowNotFound = errors.New("borrow record not found")
	// ErrEmailTaken — email уже занят другим пользователем.
	ErrEmailTaken = errors.New("email already registered")

	// ErrBorrowLimitExceeded — у пользователя уже 3 открытые выдачи.
	ErrBorrowLimitExceeded = errors.New("borrow limit exceeded")
	// ErrDuplicateBorrow — у пользователя уже есть открытая выдача этой книги.
	ErrDuplicateBorrow = errors.New("book already borrowed by this user")
	// ErrBookUnavailable — свободных экземпляров книги нет.
	ErrBookUnavailable = errors.New("no copies available")
	// ErrAlreadyReturned — запись уже закрыта; повторный возврат и продление запрещены.
	ErrAlreadyReturned = errors.New("borrow record already returned")
)
