package models

import "time"

// BorrowTerm — срок выдачи книги; due date всегда равен дате выдачи плюс неделя,
// продление сбрасывает отсчёт заново.
const BorrowTerm = 7 * 24 * time.Hour

// Borrow представляет запись о выдаче книги пользователю.
//
// Запись создаётся один раз при выдаче, может изменяться при продлении
// и ровно один раз переходит в возвращённое состояние. После возврата
// запись — неизменяемая история, она никогда не удаляется.
type Borrow struct {
	ID         int        `json:"id"`
	BookID     int        `json:"book_id"`
	UserUID    string     `json:"user_uid"`
	BorrowDate time.Time  `json:"borrow_date"`
	DueDate    time.Time  `json:"due_date"`
	ReturnDate *time.Time `json:"return_date"` // nil, пока книга не возвращена
	IsReturned bool       `json:"is_returned"`
}

// BorrowDetail — запись о выдаче, дополненная данными пользователя и книги.
// Используется для административной отчётности.
type BorrowDetail struct {
	Borrow
	UserName  string `json:"user_name"`
	UserEmail string `json:"user_email"`
	BookTitle string `json:"book_title"`
	BookISBN  string `json:"book_isbn"`
}

// BorrowWithBook — запись о выдаче с проекцией книги для кабинета читателя.
type BorrowWithBook struct {
	Borrow
	BookTitle       string  `json:"book_title"`
	BookAuthor      string  `json:"book_author"`
	BookRating      float64 `json:"book_rating"`
	BookImage       string  `json:"book_image"`
	BookDescription string  `json:"book_description"`
}
