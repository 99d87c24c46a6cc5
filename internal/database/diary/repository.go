// Package diary provides database operations for the daily reading diary.
// At most one entry exists per (user, date); creation against an occupied
// date fails with ErrEntryExists.
package diary

import (
	"errors"

	"gorm.io/gorm"

	"github.com/Miguel-Lopes31/poetas-mortos/internal/entities"
)

var (
	ErrEntryNotFound = errors.New("diary entry not found")
	ErrEntryExists   = errors.New("entry already exists for this date")
)

// Patch describes a partial diary entry update. Nil fields stay unchanged.
// A BookID of 0 detaches the entry from any book (NULL).
type Patch struct {
	BookID      *uint   `json:"book_id"`
	PagesRead   *int    `json:"pages_read"`
	ReadingTime *int    `json:"reading_time"`
	DidRead     *bool   `json:"did_read"`
	SkipReason  *string `json:"skip_reason"`
	Notes       *string `json:"notes"`
}

// Repository handles all diary database operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new diary repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Create stores a new entry, rejecting dates that already have one.
func (r *Repository) Create(entry *entities.DiaryEntry) error {
	var count int64
	err := r.db.Model(&entities.DiaryEntry{}).
		Where("user_id = ? AND date = ?", entry.UserID, entry.Date).
		Count(&count).Error
	if err != nil {
		return err
	}
	if count > 0 {
		return ErrEntryExists
	}
	if err := r.db.Create(entry).Error; err != nil {
		return err
	}
	return r.fillBookTitles([]entities.DiaryEntry{*entry}, entry)
}

// GetByID returns one entry owned by the user.
func (r *Repository) GetByID(userID, id uint) (*entities.DiaryEntry, error) {
	var entry entities.DiaryEntry
	err := r.db.Where("user_id = ?", userID).First(&entry, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrEntryNotFound
		}
		return nil, err
	}
	if err := r.fillBookTitles([]entities.DiaryEntry{entry}, &entry); err != nil {
		return nil, err
	}
	return &entry, nil
}

// GetByDate returns the entry for an exact calendar date, if any.
func (r *Repository) GetByDate(userID uint, date entities.Date) (*entities.DiaryEntry, error) {
	var entry entities.DiaryEntry
	err := r.db.Where("user_id = ? AND date = ?", userID, date).First(&entry).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrEntryNotFound
		}
		return nil, err
	}
	if err := r.fillBookTitles([]entities.DiaryEntry{entry}, &entry); err != nil {
		return nil, err
	}
	return &entry, nil
}

// List returns entries newest first, optionally narrowed to one month.
// month and year must be given together; zero values mean no filter.
func (r *Repository) List(userID uint, month, year int) ([]entities.DiaryEntry, error) {
	query := r.db.Where("user_id = ?", userID)
	if month != 0 && year != 0 {
		query = query.Where(
			"CAST(strftime('%m', date) AS INTEGER) = ? AND CAST(strftime('%Y', date) AS INTEGER) = ?",
			month, year,
		)
	}

	var entries []entities.DiaryEntry
	if err := query.Order("date DESC").Find(&entries).Error; err != nil {
		return nil, err
	}
	if err := r.fillBookTitles(entries, nil); err != nil {
		return nil, err
	}
	return entries, nil
}

// Update applies a partial update and returns the refreshed entry.
func (r *Repository) Update(userID, id uint, patch Patch) (*entities.DiaryEntry, error) {
	var entry entities.DiaryEntry
	err := r.db.Where("user_id = ?", userID).First(&entry, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrEntryNotFound
		}
		return nil, err
	}

	updates := map[string]any{}
	if patch.BookID != nil {
		if *patch.BookID == 0 {
			updates["book_id"] = nil
		} else {
			updates["book_id"] = *patch.BookID
		}
	}
	if patch.PagesRead != nil {
		updates["pages_read"] = *patch.PagesRead
	}
	if patch.ReadingTime != nil {
		updates["reading_time"] = *patch.ReadingTime
	}
	if patch.DidRead != nil {
		updates["did_read"] = *patch.DidRead
	}
	if patch.SkipReason != nil {
		updates["skip_reason"] = *patch.SkipReason
	}
	if patch.Notes != nil {
		updates["notes"] = *patch.Notes
	}

	if len(updates) > 0 {
		if err := r.db.Model(&entry).Updates(updates).Error; err != nil {
			return nil, err
		}
	}

	return r.GetByID(userID, id)
}

// Delete removes one entry owned by the user.
func (r *Repository) Delete(userID, id uint) error {
	result := r.db.Where("user_id = ?", userID).Delete(&entities.DiaryEntry{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrEntryNotFound
	}
	return nil
}

// ReadOnDate reports whether the user has a did_read entry for the exact date.
// This is the single lookup the streak walk repeats per day.
func (r *Repository) ReadOnDate(userID uint, date entities.Date) (bool, error) {
	var count int64
	err := r.db.Model(&entities.DiaryEntry{}).
		Where("user_id = ? AND date = ? AND did_read = ?", userID, date, true).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// PagesOnDate returns the pages read on an exact date, 0 when no entry exists.
func (r *Repository) PagesOnDate(userID uint, date entities.Date) (int, error) {
	var total int
	err := r.db.Model(&entities.DiaryEntry{}).
		Where("user_id = ? AND date = ?", userID, date).
		Select("COALESCE(SUM(pages_read), 0)").
		Scan(&total).Error
	return total, err
}

// EntriesSince returns entries on or after the given date, oldest first.
func (r *Repository) EntriesSince(userID uint, from entities.Date) ([]entities.DiaryEntry, error) {
	var entries []entities.DiaryEntry
	err := r.db.Where("user_id = ? AND date >= ?", userID, from).
		Order("date ASC").
		Find(&entries).Error
	return entries, err
}

// AllEntries returns every entry for the user, oldest first.
func (r *Repository) AllEntries(userID uint) ([]entities.DiaryEntry, error) {
	var entries []entities.DiaryEntry
	err := r.db.Where("user_id = ?", userID).Order("date ASC").Find(&entries).Error
	if err != nil {
		return nil, err
	}
	if err := r.fillBookTitles(entries, nil); err != nil {
		return nil, err
	}
	return entries, nil
}

// fillBookTitles populates the derived book_title field. When single is
// non-nil it is updated in place instead of the slice copy.
func (r *Repository) fillBookTitles(entries []entities.DiaryEntry, single *entities.DiaryEntry) error {
	ids := make([]uint, 0, len(entries))
	for _, e := range entries {
		if e.BookID != nil {
			ids = append(ids, *e.BookID)
		}
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
	for i := range entries {
		if entries[i].BookID != nil {
			entries[i].BookTitle = titles[*entries[i].BookID]
		}
	}
	if single != nil && single.BookID != nil {
		single.BookTitle = titles[*single.BookID]
	}
	return nil
}
