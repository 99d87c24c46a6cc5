package http

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/Miguel-Lopes31/poetas-mortos/internal/database/notes"
	"github.com/Miguel-Lopes31/poetas-mortos/internal/entities"
)

// NotesController handles the book notes endpoints.
type NotesController struct {
	store NoteStore
}

// NewNotesController creates a new NotesController.
func NewNotesController(store NoteStore) *NotesController {
	return &NotesController{store: store}
}

// CreateNoteRequest is the request body for creating a note.
type CreateNoteRequest struct {
	BookID     uint              `json:"book_id" binding:"required"`
	Type       entities.NoteType `json:"type"`
	Content    string            `json:"content" binding:"required"`
	PageNumber *int              `json:"page_number"`
}

// List handles GET /api/notes.
// Optional type and book_id query parameters narrow the result.
func (nc *NotesController) List(c *gin.Context) {
	userID := GetUserID(c)

	noteType := entities.NoteType(c.Query("type"))
	if noteType != "" && !entities.ValidNoteType(noteType) {
		respondBadRequest(c, "invalid note type")
		return
	}

	bookID, ok := parseQueryInt(c, "book_id")
	if !ok {
		return
	}

	result, err := nc.store.List(userID, noteType, uint(bookID))
	if err != nil {
		respondInternalError(c, err, "list notes")
		return
	}

	c.JSON(200, result)
}

// ListByBook handles GET /api/books/:id/notes.
func (nc *NotesController) ListByBook(c *gin.Context) {
	userID := GetUserID(c)
	bookID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	result, err := nc.store.ListByBook(userID, bookID)
	if err != nil {
		respondInternalError(c, err, "list notes by book")
		return
	}

	c.JSON(200, result)
}

// Get handles GET /api/notes/:id.
func (nc *NotesController) Get(c *gin.Context) {
	userID := GetUserID(c)
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	note, err := nc.store.GetByID(userID, id)
	if err != nil {
		if errors.Is(err, notes.ErrNoteNotFound) {
			respondNotFound(c, "note")
			return
		}
		respondInternalError(c, err, "get note")
		return
	}

	c.JSON(200, note)
}

// Create handles POST /api/notes.
// The referenced book must belong to the requesting user.
func (nc *NotesController) Create(c *gin.Context) {
	userID := GetUserID(c)

	var req CreateNoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "book_id and content are required")
		return
	}
	if req.Type != "" && !entities.ValidNoteType(req.Type) {
		respondBadRequest(c, "invalid note type")
		return
	}

	note := &entities.Note{
		UserID:     userID,
		BookID:     req.BookID,
		Type:       req.Type,
		Content:    req.Content,
		PageNumber: req.PageNumber,
	}

	if err := nc.store.Create(note); err != nil {
		if errors.Is(err, notes.ErrNoteNotFound) {
			respondNotFound(c, "book")
			return
		}
		respondInternalError(c, err, "create note")
		return
	}

	respondCreated(c, note)
}

// Update handles PUT /api/notes/:id with a partial payload.
func (nc *NotesController) Update(c *gin.Context) {
	userID := GetUserID(c)
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var patch notes.Patch
	if err := c.ShouldBindJSON(&patch); err != nil {
		respondBadRequest(c, "invalid request body")
		return
	}
	if patch.Type != nil && !entities.ValidNoteType(*patch.Type) {
		respondBadRequest(c, "invalid note type")
		return
	}

	note, err := nc.store.Update(userID, id, patch)
	if err != nil {
		if errors.Is(err, notes.ErrNoteNotFound) {
			respondNotFound(c, "note")
			return
		}
		respondInternalError(c, err, "update note")
		return
	}

	c.JSON(200, note)
}

// Delete handles DELETE /api/notes/:id.
func (nc *NotesController) Delete(c *gin.Context) {
	userID := GetUserID(c)
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := nc.store.Delete(userID, id); err != nil {
		if errors.Is(err, notes.ErrNoteNotFound) {
			respondNotFound(c, "note")
			return
		}
		respondInternalError(c, err, "delete note")
		return
	}

	respondSuccess(c, "note deleted")
}
