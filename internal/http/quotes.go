package http

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/Miguel-Lopes31/poetas-mortos/internal/database/quotes"
)

// QuotesController serves the daily literary quote.
type QuotesController struct {
	store QuoteStore
}

// NewQuotesController creates a new QuotesController.
func NewQuotesController(store QuoteStore) *QuotesController {
	return &QuotesController{store: store}
}

// Random handles GET /api/quote.
func (qc *QuotesController) Random(c *gin.Context) {
	quote, err := qc.store.Random()
	if err != nil {
		if errors.Is(err, quotes.ErrNoQuotes) {
			respondNotFound(c, "quote")
			return
		}
		respondInternalError(c, err, "random quote")
		return
	}

	c.JSON(200, quote)
}
