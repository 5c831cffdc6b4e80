package models

// Book представляет книгу каталога.
//
// Quantity — общее количество экземпляров, Available — сколько из них
// сейчас не на руках. Инвариант 0 <= Available <= Quantity поддерживается
// сервисом выдачи через атомарные guarded-обновления в хранилище.
// Rating — накопительный сигнал популярности, растёт на 0.5 за каждую выдачу.
type Book struct {
	ID          int     `json:"id"`
	Title       string  `json:"title"`
	Author      string  `json:"author"`
	ISBN        string  `json:"isbn"`
	Quantity    int     `json:"quantity"`
	Available   int     `json:"available"`
	Rating      float64 `json:"rating"`
	Description string  `json:"description"`
	BookImage   string  `json:"book_image"`
}

// DummyBook используется для приёма данных книги из multipart-запроса,
// прежде чем конвертировать их в Book. Quantity приходит строкой из формы
// и парсится на уровне обработчика.
type DummyBook struct {
	Title       string `json:"title" validate:"required,min=1,max=255"`
	Author      string `json:"author" validate:"required,min=1,max=255"`
	ISBN        string `json:"isbn" validate:"required,min=10,max=17"`
	Quantity    int    `json:"quantity" validate:"required,gt=0"`
	Description string `json:"description"`
}
