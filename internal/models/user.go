// Package models содержит доменные структуры библиотеки: пользователей,
// книги и записи о выдаче. Структуры используются в бизнес-логике и при
// работе с хранилищем; для приёма данных из JSON-запросов определены
// отдельные Dummy-структуры с тегами валидации.
package models

import "time"

// Роли пользователей системы.
const (
	// RoleLibrarian — администратор библиотеки, управляет каталогом и пользователями.
	RoleLibrarian = "librarian"
	// RoleBorrower — обычный читатель, дефолтная роль при регистрации.
	RoleBorrower = "borrower"
)

// User представляет зарегистрированного пользователя библиотеки.
type User struct {
	UID          string    `json:"uid"`           // Уникальный идентификатор пользователя
	Name         string    `json:"name"`          // Имя пользователя
	Email        string    `json:"email"`         // Электронная почта (уникальная)
	PasswordHash string    `json:"-"`             // Хэш пароля, наружу не отдаётся
	Role         string    `json:"role"`          // Роль: librarian или borrower
	ProfileImage string    `json:"profile_image"` // Относительный путь к аватару
	IsDeleted    bool      `json:"is_deleted"`    // Флаг деактивации учётной записи
	CreatedAt    time.Time `json:"created_at"`    // Дата регистрации
}

// DummyUserUpdate используется для приёма данных обновления профиля,
// прежде чем применять их к User. Все поля опциональны: пустое значение
// означает "оставить как есть".
type DummyUserUpdate struct {
	Name      string `json:"name" validate:"omitempty,min=2,max=100"`
	Email     string `json:"email" validate:"omitempty,email"`
	IsDeleted *bool  `json:"is_deleted"`
}
