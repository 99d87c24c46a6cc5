// Package books provides database operations for the book catalog:
// CRUD with filtering, reading-queue ordering and the derived pages_read
// field computed from diary entries.
//
// # Interface Implementation
//
//	var _ http.BookStore = (*Repository)(nil)
package books

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/Miguel-Lopes31/poetas-mortos/internal/entities"
)

var (
	ErrBookNotFound = errors.New("book not found")
	// ErrAlreadyReading is returned when a second book would enter the
	// "reading" status. Only one book per user may be in progress.
	ErrAlreadyReading = errors.New("another book is already being read")
)

// Filter narrows down book listings. Zero values mean "no constraint".
type Filter struct {
	Status    entities.BookStatus
	Author    string
	Publisher string
	Genre     string
	Year      int // year of purchase
	Search    string
}

// Patch describes a partial book update. Nil fields are left unchanged.
// For the date fields a non-nil zero Date clears the stored value, which
// keeps "absent" distinct from "set to null" on the wire.
type Patch struct {
	Title         *string                `json:"title"`
	Author        *string                `json:"author"`
	Publisher     *string                `json:"publisher"`
	Genre         *string                `json:"genre"`
	Pages         *int                   `json:"pages"`
	CoverURL      *string                `json:"cover_url"`
	Status        *entities.BookStatus   `json:"status"`
	Priority      *entities.BookPriority `json:"priority"`
	PurchasePlace *string                `json:"purchase_place"`
	PurchasePrice *float64               `json:"purchase_price"`
	PurchaseDate  *entities.Date         `json:"purchase_date"`
	DeliveryDays  *int                   `json:"delivery_days"`
	StartDate     *entities.Date         `json:"start_date"`
	EndDate       *entities.Date         `json:"end_date"`
	CurrentPage   *int                   `json:"current_page"`
	Rating        *int                   `json:"rating"`
	Observations  *string                `json:"observations"`
}

// PublisherCount is one row of the books-per-publisher statistic.
type PublisherCount struct {
	Publisher string `json:"publisher"`
	Count     int64  `json:"count"`
}

// Repository handles all book database operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new books repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Create stores a new book and places it at the end of the reading queue
// (queue_order = current max + 1, scoped to the owning user).
func (r *Repository) Create(book *entities.Book) error {
	if book.Status == "" {
		book.Status = entities.StatusWantToRead
	}
	if book.Priority == "" {
		book.Priority = entities.PriorityNormal
	}

	if book.Status == entities.StatusReading {
		if err := r.checkNoOtherReading(book.UserID, 0); err != nil {
			return err
		}
	}

	return r.db.Transaction(func(tx *gorm.DB) error {
		var maxOrder int
		err := tx.Model(&entities.Book{}).
			Where("user_id = ?", book.UserID).
			Select("COALESCE(MAX(queue_order), 0)").
			Scan(&maxOrder).Error
		if err != nil {
			return err
		}
		book.QueueOrder = maxOrder + 1
		return tx.Create(book).Error
	})
}

// GetByID returns a book owned by the user, with pages_read filled in.
func (r *Repository) GetByID(userID, id uint) (*entities.Book, error) {
	var book entities.Book
	err := r.db.Where("user_id = ?", userID).First(&book, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrBookNotFound
		}
		return nil, err
	}

	pages, err := r.PagesRead(userID, id)
	if err != nil {
		return nil, err
	}
	book.PagesRead = pages
	return &book, nil
}

// List returns the user's books matching the filter, newest first,
// each with pages_read filled in.
func (r *Repository) List(userID uint, f Filter) ([]entities.Book, error) {
	query := r.db.Where("user_id = ?", userID)

	if f.Status != "" {
		query = query.Where("status = ?", f.Status)
	}
	if f.Author != "" {
		query = query.Where("author LIKE ?", "%"+f.Author+"%")
	}
	if f.Publisher != "" {
		query = query.Where("publisher LIKE ?", "%"+f.Publisher+"%")
	}
	if f.Genre != "" {
		query = query.Where("genre LIKE ?", "%"+f.Genre+"%")
	}
	if f.Year != 0 {
		query = query.Where("CAST(strftime('%Y', purchase_date) AS INTEGER) = ?", f.Year)
	}
	if f.Search != "" {
		pattern := "%" + f.Search + "%"
		query = query.Where("title LIKE ? OR author LIKE ?", pattern, pattern)
	}

	var books []entities.Book
	if err := query.Order("created_at DESC").Find(&books).Error; err != nil {
		return nil, err
	}

	if err := r.fillPagesRead(books); err != nil {
		return nil, err
	}
	return books, nil
}

// Update applies a partial update and returns the refreshed book.
func (r *Repository) Update(userID, id uint, patch Patch) (*entities.Book, error) {
	var book entities.Book
	err := r.db.Where("user_id = ?", userID).First(&book, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrBookNotFound
		}
		return nil, err
	}

	if patch.Status != nil && *patch.Status == entities.StatusReading && book.Status != entities.StatusReading {
		if err := r.checkNoOtherReading(userID, id); err != nil {
			return nil, err
		}
	}

	updates := patch.changes()
	if len(updates) > 0 {
		if err := r.db.Model(&book).Updates(updates).Error; err != nil {
			return nil, err
		}
	}

	return r.GetByID(userID, id)
}

// changes converts the patch into a GORM update map. Nil pointers are
// skipped; a zero Date maps to NULL (explicit clear).
func (p Patch) changes() map[string]any {
	updates := map[string]any{}
	if p.Title != nil {
		updates["title"] = *p.Title
	}
	if p.Author != nil {
		updates["author"] = *p.Author
	}
	if p.Publisher != nil {
		updates["publisher"] = *p.Publisher
	}
	if p.Genre != nil {
		updates["genre"] = *p.Genre
	}
	if p.Pages != nil {
		updates["pages"] = *p.Pages
	}
	if p.CoverURL != nil {
		updates["cover_url"] = *p.CoverURL
	}
	if p.Status != nil {
		updates["status"] = *p.Status
	}
	if p.Priority != nil {
		updates["priority"] = *p.Priority
	}
	if p.PurchasePlace != nil {
		updates["purchase_place"] = *p.PurchasePlace
	}
	if p.PurchasePrice != nil {
		updates["purchase_price"] = *p.PurchasePrice
	}
	if p.PurchaseDate != nil {
		updates["purchase_date"] = dateOrNull(*p.PurchaseDate)
	}
	if p.DeliveryDays != nil {
		updates["delivery_days"] = *p.DeliveryDays
	}
	if p.StartDate != nil {
		updates["start_date"] = dateOrNull(*p.StartDate)
	}
	if p.EndDate != nil {
		updates["end_date"] = dateOrNull(*p.EndDate)
	}
	if p.CurrentPage != nil {
		updates["current_page"] = *p.CurrentPage
	}
	if p.Rating != nil {
		updates["rating"] = *p.Rating
	}
	if p.Observations != nil {
		updates["observations"] = *p.Observations
	}
	return updates
}

func dateOrNull(d entities.Date) any {
	if d.IsZero() {
		return nil
	}
	return d
}

// Delete removes a book and cascades to its diary entries and notes.
func (r *Repository) Delete(userID, id uint) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		var book entities.Book
		err := tx.Where("user_id = ?", userID).First(&book, id).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrBookNotFound
			}
			return err
		}

		if err := tx.Where("book_id = ?", id).Delete(&entities.DiaryEntry{}).Error; err != nil {
			return fmt.Errorf("failed to delete diary entries: %w", err)
		}
		if err := tx.Where("book_id = ?", id).Delete(&entities.Note{}).Error; err != nil {
			return fmt.Errorf("failed to delete notes: %w", err)
		}
		return tx.Delete(&book).Error
	})
}

// Current returns the book in "reading" status, most recently started first.
func (r *Repository) Current(userID uint) (*entities.Book, error) {
	var book entities.Book
	err := r.db.Where("user_id = ? AND status = ?", userID, entities.StatusReading).
		Order("start_date DESC").
		First(&book).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrBookNotFound
		}
		return nil, err
	}

	pages, err := r.PagesRead(userID, book.ID)
	if err != nil {
		return nil, err
	}
	book.PagesRead = pages
	return &book, nil
}

// SetPriority updates a book's priority.
func (r *Repository) SetPriority(userID, id uint, priority entities.BookPriority) (*entities.Book, error) {
	result := r.db.Model(&entities.Book{}).
		Where("id = ? AND user_id = ?", id, userID).
		Update("priority", priority)
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		return nil, ErrBookNotFound
	}
	return r.GetByID(userID, id)
}

// Queue returns the want_to_read books sorted by queue_order.
// The order column is never trusted as a dense index, only as a sort key.
func (r *Repository) Queue(userID uint) ([]entities.Book, error) {
	var books []entities.Book
	err := r.db.Where("user_id = ? AND status = ?", userID, entities.StatusWantToRead).
		Order("queue_order ASC").
		Find(&books).Error
	if err != nil {
		return nil, err
	}
	if err := r.fillPagesRead(books); err != nil {
		return nil, err
	}
	return books, nil
}

// Reorder sets queue_order = position for each listed book id. Ids that do
// not resolve to a book owned by the user are skipped silently; books not
// mentioned keep their previous order.
func (r *Repository) Reorder(userID uint, ids []uint) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		for index, id := range ids {
			err := tx.Model(&entities.Book{}).
				Where("id = ? AND user_id = ?", id, userID).
				Update("queue_order", index).Error
			if err != nil {
				return err
			}
		}
		return nil
	})
}

// PagesRead sums pages_read across the book's diary entries. Computed on
// every call, never cached. Returns ErrBookNotFound for unknown ids so a
// deleted book does not masquerade as "zero pages".
func (r *Repository) PagesRead(userID, bookID uint) (int, error) {
	var count int64
	err := r.db.Model(&entities.Book{}).
		Where("id = ? AND user_id = ?", bookID, userID).
		Count(&count).Error
	if err != nil {
		return 0, err
	}
	if count == 0 {
		return 0, ErrBookNotFound
	}

	var total int
	err = r.db.Model(&entities.DiaryEntry{}).
		Where("book_id = ?", bookID).
		Select("COALESCE(SUM(pages_read), 0)").
		Scan(&total).Error
	if err != nil {
		return 0, err
	}
	return total, nil
}

// fillPagesRead populates the derived pages_read field for a slice of books
// with a single grouped query.
func (r *Repository) fillPagesRead(books []entities.Book) error {
	if len(books) == 0 {
		return nil
	}

	ids := make([]uint, 0, len(books))
	for _, b := range books {
		ids = append(ids, b.ID)
	}

	var rows []struct {
		BookID uint
		Total  int
	}
	err := r.db.Model(&entities.DiaryEntry{}).
		Select("book_id, COALESCE(SUM(pages_read), 0) AS total").
		Where("book_id IN ?", ids).
		Group("book_id").
		Scan(&rows).Error
	if err != nil {
		return err
	}

	totals := make(map[uint]int, len(rows))
	for _, row := range rows {
		totals[row.BookID] = row.Total
	}
	for i := range books {
		books[i].PagesRead = totals[books[i].ID]
	}
	return nil
}

// SetCoverURL stores a fetched cover URL on a book.
func (r *Repository) SetCoverURL(id uint, coverURL string) error {
	result := r.db.Model(&entities.Book{}).
		Where("id = ?", id).
		Update("cover_url", coverURL)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrBookNotFound
	}
	return nil
}

// CountByStatus returns the user's total book count and per-status counts.
func (r *Repository) CountByStatus(userID uint) (total, read, reading, want int64, err error) {
	if err = r.db.Model(&entities.Book{}).Where("user_id = ?", userID).Count(&total).Error; err != nil {
		return
	}
	counts := map[entities.BookStatus]*int64{
		entities.StatusRead:       &read,
		entities.StatusReading:    &reading,
		entities.StatusWantToRead: &want,
	}
	for status, dest := range counts {
		err = r.db.Model(&entities.Book{}).
			Where("user_id = ? AND status = ?", userID, status).
			Count(dest).Error
		if err != nil {
			return
		}
	}
	return
}

// FinishedWindows returns books having both start and end dates set,
// for the reading-time distribution.
func (r *Repository) FinishedWindows(userID uint) ([]entities.Book, error) {
	var books []entities.Book
	err := r.db.Where("user_id = ? AND start_date IS NOT NULL AND end_date IS NOT NULL", userID).
		Find(&books).Error
	return books, err
}

// Purchases returns books carrying a purchase price, for spending charts.
func (r *Repository) Purchases(userID uint) ([]entities.Book, error) {
	var books []entities.Book
	err := r.db.Where("user_id = ? AND purchase_price IS NOT NULL", userID).
		Find(&books).Error
	return books, err
}

// PublisherCounts returns how many books each publisher contributed.
func (r *Repository) PublisherCounts(userID uint) ([]PublisherCount, error) {
	var rows []PublisherCount
	err := r.db.Model(&entities.Book{}).
		Select("publisher, COUNT(id) AS count").
		Where("user_id = ? AND publisher IS NOT NULL AND publisher != ''", userID).
		Group("publisher").
		Scan(&rows).Error
	return rows, err
}

// DistinctFilters returns the distinct authors, publishers and genres of the
// user's library, used to populate filter dropdowns.
func (r *Repository) DistinctFilters(userID uint) (authors, publishers, genres []string, err error) {
	columns := map[string]*[]string{
		"author":    &authors,
		"publisher": &publishers,
		"genre":     &genres,
	}
	for column, dest := range columns {
		err = r.db.Model(&entities.Book{}).
			Distinct(column).
			Where(fmt.Sprintf("user_id = ? AND %s IS NOT NULL AND %s != ''", column, column), userID).
			Pluck(column, dest).Error
		if err != nil {
			return
		}
	}
	return
}

// checkNoOtherReading enforces the single-in-progress-book invariant at the
// write boundary. excludeID skips the book being updated.
func (r *Repository) checkNoOtherReading(userID, excludeID uint) error {
	var count int64
	query := r.db.Model(&entities.Book{}).
		Where("user_id = ? AND status = ?", userID, entities.StatusReading)
	if excludeID != 0 {
		query = query.Where("id != ?", excludeID)
	}
	if err := query.Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return ErrAlreadyReading
	}
	return nil
}
