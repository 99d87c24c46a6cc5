package http

import (
	"github.com/Miguel-Lopes31/poetas-mortos/internal/database/books"
	"github.com/Miguel-Lopes31/poetas-mortos/internal/database/diary"
	"github.com/Miguel-Lopes31/poetas-mortos/internal/database/notes"
	"github.com/Miguel-Lopes31/poetas-mortos/internal/entities"
)

// This file consolidates the store interface definitions used by HTTP
// controllers. Each controller depends only on the operations it needs;
// the concrete implementations live in internal/database.

// BookStore provides all book catalog operations.
// Implemented by books.Repository.
type BookStore interface {
	Create(book *entities.Book) error
	GetByID(userID, id uint) (*entities.Book, error)
	List(userID uint, f books.Filter) ([]entities.Book, error)
	Update(userID, id uint, patch books.Patch) (*entities.Book, error)
	Delete(userID, id uint) error
	Current(userID uint) (*entities.Book, error)
	SetPriority(userID, id uint, priority entities.BookPriority) (*entities.Book, error)
	Queue(userID uint) ([]entities.Book, error)
	Reorder(userID uint, ids []uint) error
	PagesRead(userID, bookID uint) (int, error)
	DistinctFilters(userID uint) (authors, publishers, genres []string, err error)
}

// DiaryStore provides reading diary operations.
// Implemented by diary.Repository.
type DiaryStore interface {
	Create(entry *entities.DiaryEntry) error
	GetByID(userID, id uint) (*entities.DiaryEntry, error)
	GetByDate(userID uint, date entities.Date) (*entities.DiaryEntry, error)
	List(userID uint, month, year int) ([]entities.DiaryEntry, error)
	Update(userID, id uint, patch diary.Patch) (*entities.DiaryEntry, error)
	Delete(userID, id uint) error
}

// NoteStore provides note operations.
// Implemented by notes.Repository.
type NoteStore interface {
	Create(note *entities.Note) error
	GetByID(userID, id uint) (*entities.Note, error)
	List(userID uint, noteType entities.NoteType, bookID uint) ([]entities.Note, error)
	ListByBook(userID, bookID uint) ([]entities.Note, error)
	Update(userID, id uint, patch notes.Patch) (*entities.Note, error)
	Delete(userID, id uint) error
}

// QuoteStore provides access to the seeded daily quotes.
// Implemented by quotes.Repository.
type QuoteStore interface {
	Random() (*entities.DailyQuote, error)
}
