// Package quotes reads the seeded literary quotes. The table is read-only
// at runtime; rows are inserted once at startup by the database package.
package quotes

import (
	"errors"
	"math/rand"

	"gorm.io/gorm"

	"github.com/Miguel-Lopes31/poetas-mortos/internal/entities"
)

var ErrNoQuotes = errors.New("no quotes available")

// Repository handles quote retrieval.
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new quotes repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Random returns one quote picked at random.
func (r *Repository) Random() (*entities.DailyQuote, error) {
	var quotes []entities.DailyQuote
	if err := r.db.Find(&quotes).Error; err != nil {
		return nil, err
	}
	if len(quotes) == 0 {
		return nil, ErrNoQuotes
	}
	quote := quotes[rand.Intn(len(quotes))]
	return &quote, nil
}

// All returns every quote.
func (r *Repository) All() ([]entities.DailyQuote, error) {
	var quotes []entities.DailyQuote
	err := r.db.Find(&quotes).Error
	return quotes, err
}
