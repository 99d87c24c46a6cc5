package http

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/Miguel-Lopes31/poetas-mortos/internal/database/diary"
	"github.com/Miguel-Lopes31/poetas-mortos/internal/entities"
)

// DiaryController handles the reading diary endpoints.
type DiaryController struct {
	store DiaryStore
}

// NewDiaryController creates a new DiaryController.
func NewDiaryController(store DiaryStore) *DiaryController {
	return &DiaryController{store: store}
}

// CreateEntryRequest is the request body for creating a diary entry.
type CreateEntryRequest struct {
	Date        entities.Date `json:"date" binding:"required"`
	BookID      *uint         `json:"book_id"`
	PagesRead   int           `json:"pages_read"`
	ReadingTime *int          `json:"reading_time"`
	DidRead     *bool         `json:"did_read"`
	SkipReason  string        `json:"skip_reason"`
	Notes       string        `json:"notes"`
}

// List handles GET /api/diary.
// Optional month and year query parameters narrow the range.
func (dc *DiaryController) List(c *gin.Context) {
	userID := GetUserID(c)

	month, ok := parseQueryInt(c, "month")
	if !ok {
		return
	}
	year, ok := parseQueryInt(c, "year")
	if !ok {
		return
	}
	if month != 0 && (month < 1 || month > 12) {
		respondBadRequest(c, "month must be between 1 and 12")
		return
	}
	if month != 0 && year == 0 {
		respondBadRequest(c, "month filter requires year")
		return
	}

	entries, err := dc.store.List(userID, month, year)
	if err != nil {
		respondInternalError(c, err, "list diary")
		return
	}

	c.JSON(200, entries)
}

// GetByDate handles GET /api/diary/:date.
func (dc *DiaryController) GetByDate(c *gin.Context) {
	userID := GetUserID(c)
	date, ok := parseDateParam(c, "date")
	if !ok {
		return
	}

	entry, err := dc.store.GetByDate(userID, date)
	if err != nil {
		if errors.Is(err, diary.ErrEntryNotFound) {
			respondNotFound(c, "diary entry")
			return
		}
		respondInternalError(c, err, "get diary entry")
		return
	}

	c.JSON(200, entry)
}

// Create handles POST /api/diary.
// Only one entry may exist per calendar day.
func (dc *DiaryController) Create(c *gin.Context) {
	userID := GetUserID(c)

	var req CreateEntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "date is required")
		return
	}
	if req.PagesRead < 0 {
		respondBadRequest(c, "pages_read cannot be negative")
		return
	}

	didRead := true
	if req.DidRead != nil {
		didRead = *req.DidRead
	}

	entry := &entities.DiaryEntry{
		UserID:      userID,
		BookID:      req.BookID,
		Date:        req.Date,
		PagesRead:   req.PagesRead,
		ReadingTime: req.ReadingTime,
		DidRead:     didRead,
		SkipReason:  req.SkipReason,
		Notes:       req.Notes,
	}

	if err := dc.store.Create(entry); err != nil {
		if errors.Is(err, diary.ErrEntryExists) {
			respondConflict(c, "an entry already exists for this date")
			return
		}
		respondInternalError(c, err, "create diary entry")
		return
	}

	respondCreated(c, entry)
}

// Update handles PUT /api/diary/:id with a partial payload.
// The entry's date is immutable; delete and recreate to move a day.
func (dc *DiaryController) Update(c *gin.Context) {
	userID := GetUserID(c)
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var patch diary.Patch
	if err := c.ShouldBindJSON(&patch); err != nil {
		respondBadRequest(c, "invalid request body")
		return
	}
	if patch.PagesRead != nil && *patch.PagesRead < 0 {
		respondBadRequest(c, "pages_read cannot be negative")
		return
	}

	entry, err := dc.store.Update(userID, id, patch)
	if err != nil {
		if errors.Is(err, diary.ErrEntryNotFound) {
			respondNotFound(c, "diary entry")
			return
		}
		respondInternalError(c, err, "update diary entry")
		return
	}

	c.JSON(200, entry)
}

// Delete handles DELETE /api/diary/:id.
func (dc *DiaryController) Delete(c *gin.Context) {
	userID := GetUserID(c)
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := dc.store.Delete(userID, id); err != nil {
		if errors.Is(err, diary.ErrEntryNotFound) {
			respondNotFound(c, "diary entry")
			return
		}
		respondInternalError(c, err, "delete diary entry")
		return
	}

	respondSuccess(c, "diary entry deleted")
}
