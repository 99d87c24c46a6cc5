package http

import (
	"github.com/gin-gonic/gin"
)

// FiltersController serves the distinct filter values used to populate
// the catalog filter dropdowns.
type FiltersController struct {
	store BookStore
}

// NewFiltersController creates a new FiltersController.
func NewFiltersController(store BookStore) *FiltersController {
	return &FiltersController{store: store}
}

// List handles GET /api/filters.
func (fc *FiltersController) List(c *gin.Context) {
	userID := GetUserID(c)

	authors, publishers, genres, err := fc.store.DistinctFilters(userID)
	if err != nil {
		respondInternalError(c, err, "list filters")
		return
	}

	c.JSON(200, gin.H{
		"authors":    authors,
		"publishers": publishers,
		"genres":     genres,
	})
}
