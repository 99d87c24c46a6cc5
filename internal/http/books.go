package http

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/Miguel-Lopes31/poetas-mortos/internal/database/books"
	"github.com/Miguel-Lopes31/poetas-mortos/internal/entities"
	"github.com/Miguel-Lopes31/poetas-mortos/internal/tasks"
)

// BooksController handles the book catalog endpoints.
type BooksController struct {
	store      BookStore
	taskClient *tasks.Client
}

// NewBooksController creates a new BooksController.
// taskClient may be nil, in which case cover refresh is unavailable.
func NewBooksController(store BookStore, taskClient *tasks.Client) *BooksController {
	return &BooksController{store: store, taskClient: taskClient}
}

// CreateBookRequest is the request body for creating a book.
type CreateBookRequest struct {
	Title         string                `json:"title" binding:"required"`
	Author        string                `json:"author"`
	Publisher     string                `json:"publisher"`
	Genre         string                `json:"genre"`
	Pages         int                   `json:"pages"`
	CoverURL      string                `json:"cover_url"`
	Status        entities.BookStatus   `json:"status"`
	Priority      entities.BookPriority `json:"priority"`
	PurchasePlace string                `json:"purchase_place"`
	PurchasePrice *float64              `json:"purchase_price"`
	PurchaseDate  *entities.Date        `json:"purchase_date"`
	DeliveryDays  *int                  `json:"delivery_days"`
	StartDate     *entities.Date        `json:"start_date"`
	EndDate       *entities.Date        `json:"end_date"`
	CurrentPage   int                   `json:"current_page"`
	Rating        *int                  `json:"rating"`
	Observations  string                `json:"observations"`
}

// List handles GET /api/books.
// Supports status, author, publisher, genre, year and search query filters.
func (bc *BooksController) List(c *gin.Context) {
	userID := GetUserID(c)

	year, ok := parseQueryInt(c, "year")
	if !ok {
		return
	}

	filter := books.Filter{
		Status:    entities.BookStatus(c.Query("status")),
		Author:    c.Query("author"),
		Publisher: c.Query("publisher"),
		Genre:     c.Query("genre"),
		Year:      year,
		Search:    c.Query("search"),
	}
	if filter.Status != "" && !entities.ValidStatus(filter.Status) {
		respondBadRequest(c, "invalid status")
		return
	}

	result, err := bc.store.List(userID, filter)
	if err != nil {
		respondInternalError(c, err, "list books")
		return
	}

	c.JSON(200, result)
}

// Get handles GET /api/books/:id.
func (bc *BooksController) Get(c *gin.Context) {
	userID := GetUserID(c)
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	book, err := bc.store.GetByID(userID, id)
	if err != nil {
		if errors.Is(err, books.ErrBookNotFound) {
			respondNotFound(c, "book")
			return
		}
		respondInternalError(c, err, "get book")
		return
	}

	c.JSON(200, book)
}

// Create handles POST /api/books.
func (bc *BooksController) Create(c *gin.Context) {
	userID := GetUserID(c)

	var req CreateBookRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "title is required")
		return
	}

	if req.Status == "" {
		req.Status = entities.StatusWantToRead
	}
	if !entities.ValidStatus(req.Status) {
		respondBadRequest(c, "invalid status")
		return
	}
	if req.Priority == "" {
		req.Priority = entities.PriorityNormal
	}
	if !entities.ValidPriority(req.Priority) {
		respondBadRequest(c, "invalid priority")
		return
	}
	if req.Rating != nil && (*req.Rating < 1 || *req.Rating > 5) {
		respondBadRequest(c, "rating must be between 1 and 5")
		return
	}

	book := &entities.Book{
		UserID:        userID,
		Title:         req.Title,
		Author:        req.Author,
		Publisher:     req.Publisher,
		Genre:         req.Genre,
		Pages:         req.Pages,
		CoverURL:      req.CoverURL,
		Status:        req.Status,
		Priority:      req.Priority,
		PurchasePlace: req.PurchasePlace,
		PurchasePrice: req.PurchasePrice,
		PurchaseDate:  req.PurchaseDate,
		DeliveryDays:  req.DeliveryDays,
		StartDate:     req.StartDate,
		EndDate:       req.EndDate,
		CurrentPage:   req.CurrentPage,
		Rating:        req.Rating,
		Observations:  req.Observations,
	}

	if err := bc.store.Create(book); err != nil {
		if errors.Is(err, books.ErrAlreadyReading) {
			respondConflict(c, "another book is already being read")
			return
		}
		respondInternalError(c, err, "create book")
		return
	}

	respondCreated(c, book)
}

// Update handles PUT /api/books/:id with a partial payload.
func (bc *BooksController) Update(c *gin.Context) {
	userID := GetUserID(c)
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var patch books.Patch
	if err := c.ShouldBindJSON(&patch); err != nil {
		respondBadRequest(c, "invalid request body")
		return
	}

	if patch.Status != nil && !entities.ValidStatus(*patch.Status) {
		respondBadRequest(c, "invalid status")
		return
	}
	if patch.Priority != nil && !entities.ValidPriority(*patch.Priority) {
		respondBadRequest(c, "invalid priority")
		return
	}
	if patch.Rating != nil && (*patch.Rating < 1 || *patch.Rating > 5) {
		respondBadRequest(c, "rating must be between 1 and 5")
		return
	}

	book, err := bc.store.Update(userID, id, patch)
	if err != nil {
		switch {
		case errors.Is(err, books.ErrBookNotFound):
			respondNotFound(c, "book")
		case errors.Is(err, books.ErrAlreadyReading):
			respondConflict(c, "another book is already being read")
		default:
			respondInternalError(c, err, "update book")
		}
		return
	}

	c.JSON(200, book)
}

// Delete handles DELETE /api/books/:id.
// Diary entries and notes referencing the book are removed with it.
func (bc *BooksController) Delete(c *gin.Context) {
	userID := GetUserID(c)
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := bc.store.Delete(userID, id); err != nil {
		if errors.Is(err, books.ErrBookNotFound) {
			respondNotFound(c, "book")
			return
		}
		respondInternalError(c, err, "delete book")
		return
	}

	respondSuccess(c, "book deleted")
}

// Current handles GET /api/books/current.
// Returns null when no book is in progress.
func (bc *BooksController) Current(c *gin.Context) {
	userID := GetUserID(c)

	book, err := bc.store.Current(userID)
	if err != nil {
		if errors.Is(err, books.ErrBookNotFound) {
			c.JSON(200, nil)
			return
		}
		respondInternalError(c, err, "current book")
		return
	}

	c.JSON(200, book)
}

// SetPriorityRequest is the request body for changing a book's priority.
type SetPriorityRequest struct {
	Priority entities.BookPriority `json:"priority" binding:"required"`
}

// SetPriority handles POST /api/books/:id/priority.
func (bc *BooksController) SetPriority(c *gin.Context) {
	userID := GetUserID(c)
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req SetPriorityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "priority is required")
		return
	}
	if !entities.ValidPriority(req.Priority) {
		respondBadRequest(c, "invalid priority")
		return
	}

	book, err := bc.store.SetPriority(userID, id, req.Priority)
	if err != nil {
		if errors.Is(err, books.ErrBookNotFound) {
			respondNotFound(c, "book")
			return
		}
		respondInternalError(c, err, "set priority")
		return
	}

	c.JSON(200, book)
}

// RefreshCover handles POST /api/books/:id/refresh-cover.
// Enqueues a background lookup of the book's cover on OpenLibrary.
func (bc *BooksController) RefreshCover(c *gin.Context) {
	userID := GetUserID(c)
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if bc.taskClient == nil {
		respondError(c, 503, "background tasks are disabled")
		return
	}

	// Verify the book exists before queueing anything
	if _, err := bc.store.GetByID(userID, id); err != nil {
		if errors.Is(err, books.ErrBookNotFound) {
			respondNotFound(c, "book")
			return
		}
		respondInternalError(c, err, "refresh cover")
		return
	}

	ids, err := bc.taskClient.Add(tasks.RefreshCoverTask{UserID: userID, BookID: id}).Save()
	if err != nil {
		respondInternalError(c, err, "enqueue cover refresh")
		return
	}

	c.JSON(202, gin.H{
		"task_id": ids[0],
		"message": "cover refresh enqueued",
	})
}
