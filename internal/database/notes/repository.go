// Package notes provides database operations for free-form book notes
// (quotes, thoughts, reflections). Every note belongs to exactly one book.
package notes

import (
	"errors"

	"gorm.io/gorm"

	"github.com/Miguel-Lopes31/poetas-mortos/internal/entities"
)

var ErrNoteNotFound = errors.New("note not found")

// Patch describes a partial note update. Nil fields stay unchanged.
type Patch struct {
	Type       *entities.NoteType `json:"type"`
	Content    *string            `json:"content"`
	PageNumber *int               `json:"page_number"`
}

// Repository handles all note database operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new notes repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Create stores a new note. The referenced book must belong to the user.
func (r *Repository) Create(note *entities.Note) error {
	var count int64
	err := r.db.Model(&entities.Book{}).
		Where("id = ? AND user_id = ?", note.BookID, note.UserID).
		Count(&count).Error
	if err != nil {
		return err
	}
	if count == 0 {
		return ErrNoteNotFound
	}

	if note.Type == "" {
		note.Type = entities.NoteTypeThought
	}
	if err := r.db.Create(note).Error; err != nil {
		return err
	}
	return r.fillBookTitles([]entities.Note{*note}, note)
}

// GetByID returns one note owned by the user.
func (r *Repository) GetByID(userID, id uint) (*entities.Note, error) {
	var note entities.Note
	err := r.db.Where("user_id = ?", userID).First(&note, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNoteNotFound
		}
		return nil, err
	}
	if err := r.fillBookTitles([]entities.Note{note}, &note); err != nil {
		return nil, err
	}
	return &note, nil
}

// List returns notes newest first, optionally filtered by type and book.
func (r *Repository) List(userID uint, noteType entities.NoteType, bookID uint) ([]entities.Note, error) {
	query := r.db.Where("user_id = ?", userID)
	if noteType != "" {
		query = query.Where("type = ?", noteType)
	}
	if bookID != 0 {
		query = query.Where("book_id = ?", bookID)
	}

	var notes []entities.Note
	if err := query.Order("created_at DESC").Find(&notes).Error; err != nil {
		return nil, err
	}
	if err := r.fillBookTitles(notes, nil); err != nil {
		return nil, err
	}
	return notes, nil
}

// ListByBook returns all notes attached to one book, newest first.
func (r *Repository) ListByBook(userID, bookID uint) ([]entities.Note, error) {
	return r.List(userID, "", bookID)
}

// Update applies a partial update and returns the refreshed note.
func (r *Repository) Update(userID, id uint, patch Patch) (*entities.Note, error) {
	var note entities.Note
	err := r.db.Where("user_id = ?", userID).First(&note, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNoteNotFound
		}
		return nil, err
	}

	updates := map[string]any{}
	if patch.Type != nil {
		updates["type"] = *patch.Type
	}
	if patch.Content != nil {
		updates["content"] = *patch.Content
	}
	if patch.PageNumber != nil {
		updates["page_number"] = *patch.PageNumber
	}

	if len(updates) > 0 {
		if err := r.db.Model(&note).Updates(updates).Error; err != nil {
			return nil, err
		}
	}

	return r.GetByID(userID, id)
}

// Delete removes one note owned by the user.
func (r *Repository) Delete(userID, id uint) error {
	result := r.db.Where("user_id = ?", userID).Delete(&entities.Note{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNoteNotFound
	}
	return nil
}

func (r *Repository) fillBookTitles(notes []entities.Note, single *entities.Note) error {
	ids := make([]uint, 0, len(notes))
	for _, n := range notes {
		ids = append(ids, n.BookID)
	}
	if len(ids) == 0 {
		return nil
	}

	var rows []struct {
		ID    uint
		Title string
	}
	err := r.db.Model(&entities.Book{}).
		Select("id, title").
		Where("id IN ?", ids).
		Scan(&rows).Error
	if err != nil {
		return err
	}

	titles := make(map[uint]string, len(rows))
	for _, row := range rows {
		titles[row.ID] = row.Title
	}
	for i := range notes {
		notes[i].BookTitle = titles[notes[i].BookID]
	}
	if single != nil {
		single.BookTitle = titles[single.BookID]
	}
	return nil
}
