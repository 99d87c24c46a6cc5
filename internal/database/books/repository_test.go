package books

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/Miguel-Lopes31/poetas-mortos/internal/entities"
)

func setupTestDB(t *testing.T) (*gorm.DB, *Repository, func()) {
	dbPath := "./test_books_" + t.Name() + ".db"

	db, err := gorm.Open(sqlite.Open(dbPath), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	err = db.AutoMigrate(
		&entities.User{},
		&entities.Book{},
		&entities.DiaryEntry{},
		&entities.Note{},
	)
	require.NoError(t, err)

	repo := NewRepository(db)

	cleanup := func() {
		sqlDB, _ := db.DB()
		sqlDB.Close()
		os.Remove(dbPath)
	}

	return db, repo, cleanup
}

func createTestBook(t *testing.T, repo *Repository, userID uint, title string, status entities.BookStatus) *entities.Book {
	book := &entities.Book{
		UserID: userID,
		Title:  title,
		Author: "Test Author",
		Status: status,
	}
	require.NoError(t, repo.Create(book))
	return book
}

func createDiaryEntry(t *testing.T, db *gorm.DB, userID, bookID uint, date entities.Date, pages int) {
	id := bookID
	entry := &entities.DiaryEntry{
		UserID:    userID,
		BookID:    &id,
		Date:      date,
		PagesRead: pages,
		DidRead:   true,
	}
	require.NoError(t, db.Create(entry).Error)
}

func TestRepository_Create_AppendsToQueue(t *testing.T) {
	_, repo, cleanup := setupTestDB(t)
	defer cleanup()

	first := createTestBook(t, repo, 1, "First", entities.StatusWantToRead)
	second := createTestBook(t, repo, 1, "Second", entities.StatusWantToRead)

	assert.Equal(t, 1, first.QueueOrder)
	assert.Equal(t, 2, second.QueueOrder)

	// Another user's queue starts fresh
	other := createTestBook(t, repo, 2, "Other", entities.StatusWantToRead)
	assert.Equal(t, 1, other.QueueOrder)
}

func TestRepository_Create_Defaults(t *testing.T) {
	_, repo, cleanup := setupTestDB(t)
	defer cleanup()

	book := &entities.Book{UserID: 1, Title: "Defaults"}
	require.NoError(t, repo.Create(book))

	assert.Equal(t, entities.StatusWantToRead, book.Status)
	assert.Equal(t, entities.PriorityNormal, book.Priority)
}

func TestRepository_Create_SingleReading(t *testing.T) {
	_, repo, cleanup := setupTestDB(t)
	defer cleanup()

	createTestBook(t, repo, 1, "In Progress", entities.StatusReading)

	err := repo.Create(&entities.Book{UserID: 1, Title: "Another", Status: entities.StatusReading})
	assert.ErrorIs(t, err, ErrAlreadyReading)

	// A different user can read simultaneously
	err = repo.Create(&entities.Book{UserID: 2, Title: "Theirs", Status: entities.StatusReading})
	assert.NoError(t, err)
}

func TestRepository_GetByID(t *testing.T) {
	db, repo, cleanup := setupTestDB(t)
	defer cleanup()

	book := createTestBook(t, repo, 1, "Mine", entities.StatusRead)
	createDiaryEntry(t, db, 1, book.ID, entities.Today().AddDays(-1), 30)
	createDiaryEntry(t, db, 1, book.ID, entities.Today(), 12)

	got, err := repo.GetByID(1, book.ID)
	require.NoError(t, err)
	assert.Equal(t, "Mine", got.Title)
	assert.Equal(t, 42, got.PagesRead)

	// Another user's ID space does not leak
	_, err = repo.GetByID(2, book.ID)
	assert.ErrorIs(t, err, ErrBookNotFound)

	_, err = repo.GetByID(1, 9999)
	assert.ErrorIs(t, err, ErrBookNotFound)
}

func TestRepository_List_Filters(t *testing.T) {
	_, repo, cleanup := setupTestDB(t)
	defer cleanup()

	require.NoError(t, repo.Create(&entities.Book{
		UserID: 1, Title: "Dune", Author: "Frank Herbert", Publisher: "Aleph", Genre: "sci-fi",
		Status: entities.StatusRead,
	}))
	require.NoError(t, repo.Create(&entities.Book{
		UserID: 1, Title: "Hyperion", Author: "Dan Simmons", Publisher: "Aleph", Genre: "sci-fi",
		Status: entities.StatusWantToRead,
	}))
	require.NoError(t, repo.Create(&entities.Book{
		UserID: 1, Title: "Grande Sertão", Author: "Guimarães Rosa", Publisher: "Companhia", Genre: "literature",
		Status: entities.StatusRead,
	}))

	byStatus, err := repo.List(1, Filter{Status: entities.StatusRead})
	require.NoError(t, err)
	assert.Len(t, byStatus, 2)

	byAuthor, err := repo.List(1, Filter{Author: "Herbert"})
	require.NoError(t, err)
	require.Len(t, byAuthor, 1)
	assert.Equal(t, "Dune", byAuthor[0].Title)

	byPublisher, err := repo.List(1, Filter{Publisher: "Aleph"})
	require.NoError(t, err)
	assert.Len(t, byPublisher, 2)

	bySearch, err := repo.List(1, Filter{Search: "sertão"})
	require.NoError(t, err)
	require.Len(t, bySearch, 1)
	assert.Equal(t, "Grande Sertão", bySearch[0].Title)

	all, err := repo.List(1, Filter{})
	require.NoError(t, err)
	assert.Len(t, all, 3)

	none, err := repo.List(2, Filter{})
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestRepository_List_YearFilter(t *testing.T) {
	_, repo, cleanup := setupTestDB(t)
	defer cleanup()

	date2024, err := entities.ParseDate("2024-06-15")
	require.NoError(t, err)
	date2025, err := entities.ParseDate("2025-01-10")
	require.NoError(t, err)

	require.NoError(t, repo.Create(&entities.Book{UserID: 1, Title: "Old", PurchaseDate: &date2024}))
	require.NoError(t, repo.Create(&entities.Book{UserID: 1, Title: "New", PurchaseDate: &date2025}))
	require.NoError(t, repo.Create(&entities.Book{UserID: 1, Title: "Undated"}))

	got, err := repo.List(1, Filter{Year: 2024})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "Old", got[0].Title)
}

func TestRepository_Update_PartialPatch(t *testing.T) {
	_, repo, cleanup := setupTestDB(t)
	defer cleanup()

	book := createTestBook(t, repo, 1, "Original", entities.StatusWantToRead)

	newTitle := "Renamed"
	pages := 320
	updated, err := repo.Update(1, book.ID, Patch{Title: &newTitle, Pages: &pages})
	require.NoError(t, err)

	assert.Equal(t, "Renamed", updated.Title)
	assert.Equal(t, 320, updated.Pages)
	// Untouched fields survive
	assert.Equal(t, "Test Author", updated.Author)
	assert.Equal(t, entities.StatusWantToRead, updated.Status)
}

func TestRepository_Update_ClearDate(t *testing.T) {
	_, repo, cleanup := setupTestDB(t)
	defer cleanup()

	purchased, err := entities.ParseDate("2025-03-01")
	require.NoError(t, err)
	book := &entities.Book{UserID: 1, Title: "Dated", PurchaseDate: &purchased}
	require.NoError(t, repo.Create(book))

	// A zero date in the patch clears the stored value
	zero := entities.Date{}
	updated, err := repo.Update(1, book.ID, Patch{PurchaseDate: &zero})
	require.NoError(t, err)
	assert.Nil(t, updated.PurchaseDate)
}

func TestRepository_Update_SingleReading(t *testing.T) {
	_, repo, cleanup := setupTestDB(t)
	defer cleanup()

	createTestBook(t, repo, 1, "In Progress", entities.StatusReading)
	queued := createTestBook(t, repo, 1, "Queued", entities.StatusWantToRead)

	reading := entities.StatusReading
	_, err := repo.Update(1, queued.ID, Patch{Status: &reading})
	assert.ErrorIs(t, err, ErrAlreadyReading)

	// Re-asserting the current status on the in-progress book is not a conflict
	current, err := repo.Current(1)
	require.NoError(t, err)
	_, err = repo.Update(1, current.ID, Patch{Status: &reading})
	assert.NoError(t, err)
}

func TestRepository_Update_NotFound(t *testing.T) {
	_, repo, cleanup := setupTestDB(t)
	defer cleanup()

	title := "nope"
	_, err := repo.Update(1, 42, Patch{Title: &title})
	assert.ErrorIs(t, err, ErrBookNotFound)
}

func TestRepository_Delete_Cascades(t *testing.T) {
	db, repo, cleanup := setupTestDB(t)
	defer cleanup()

	book := createTestBook(t, repo, 1, "Doomed", entities.StatusRead)
	createDiaryEntry(t, db, 1, book.ID, entities.Today(), 10)
	require.NoError(t, db.Create(&entities.Note{UserID: 1, BookID: book.ID, Content: "note"}).Error)

	require.NoError(t, repo.Delete(1, book.ID))

	_, err := repo.GetByID(1, book.ID)
	assert.ErrorIs(t, err, ErrBookNotFound)

	var diaryCount, noteCount int64
	db.Model(&entities.DiaryEntry{}).Where("book_id = ?", book.ID).Count(&diaryCount)
	db.Model(&entities.Note{}).Where("book_id = ?", book.ID).Count(&noteCount)
	assert.Zero(t, diaryCount)
	assert.Zero(t, noteCount)
}

func TestRepository_Delete_NotFound(t *testing.T) {
	_, repo, cleanup := setupTestDB(t)
	defer cleanup()

	err := repo.Delete(1, 42)
	assert.ErrorIs(t, err, ErrBookNotFound)
}

func TestRepository_Current(t *testing.T) {
	_, repo, cleanup := setupTestDB(t)
	defer cleanup()

	_, err := repo.Current(1)
	assert.ErrorIs(t, err, ErrBookNotFound)

	createTestBook(t, repo, 1, "Reading Now", entities.StatusReading)

	current, err := repo.Current(1)
	require.NoError(t, err)
	assert.Equal(t, "Reading Now", current.Title)
}

func TestRepository_SetPriority(t *testing.T) {
	_, repo, cleanup := setupTestDB(t)
	defer cleanup()

	book := createTestBook(t, repo, 1, "Priority", entities.StatusWantToRead)

	updated, err := repo.SetPriority(1, book.ID, entities.PriorityHigh)
	require.NoError(t, err)
	assert.Equal(t, entities.PriorityHigh, updated.Priority)

	_, err = repo.SetPriority(1, 9999, entities.PriorityLow)
	assert.ErrorIs(t, err, ErrBookNotFound)
}

func TestRepository_QueueAndReorder(t *testing.T) {
	_, repo, cleanup := setupTestDB(t)
	defer cleanup()

	a := createTestBook(t, repo, 1, "A", entities.StatusWantToRead)
	b := createTestBook(t, repo, 1, "B", entities.StatusWantToRead)
	c := createTestBook(t, repo, 1, "C", entities.StatusWantToRead)
	// Non-queued statuses never appear in the queue
	createTestBook(t, repo, 1, "Done", entities.StatusRead)

	queue, err := repo.Queue(1)
	require.NoError(t, err)
	require.Len(t, queue, 3)
	assert.Equal(t, []string{"A", "B", "C"}, queueTitles(queue))

	// Reverse the order; an unknown ID is skipped silently
	err = repo.Reorder(1, []uint{c.ID, 9999, b.ID, a.ID})
	require.NoError(t, err)

	queue, err = repo.Queue(1)
	require.NoError(t, err)
	assert.Equal(t, []string{"C", "B", "A"}, queueTitles(queue))
}

func queueTitles(queue []entities.Book) []string {
	titles := make([]string, 0, len(queue))
	for _, b := range queue {
		titles = append(titles, b.Title)
	}
	return titles
}

func TestRepository_PagesRead(t *testing.T) {
	db, repo, cleanup := setupTestDB(t)
	defer cleanup()

	book := createTestBook(t, repo, 1, "Pages", entities.StatusReading)
	createDiaryEntry(t, db, 1, book.ID, entities.Today().AddDays(-2), 20)
	createDiaryEntry(t, db, 1, book.ID, entities.Today().AddDays(-1), 25)

	total, err := repo.PagesRead(1, book.ID)
	require.NoError(t, err)
	assert.Equal(t, 45, total)

	// A book with no entries reads zero, an unknown book errors
	empty := createTestBook(t, repo, 1, "Empty", entities.StatusWantToRead)
	total, err = repo.PagesRead(1, empty.ID)
	require.NoError(t, err)
	assert.Zero(t, total)

	_, err = repo.PagesRead(1, 9999)
	assert.ErrorIs(t, err, ErrBookNotFound)
}

func TestRepository_CountByStatus(t *testing.T) {
	_, repo, cleanup := setupTestDB(t)
	defer cleanup()

	createTestBook(t, repo, 1, "R1", entities.StatusRead)
	createTestBook(t, repo, 1, "R2", entities.StatusRead)
	createTestBook(t, repo, 1, "Now", entities.StatusReading)
	createTestBook(t, repo, 1, "Next", entities.StatusWantToRead)

	total, read, reading, want, err := repo.CountByStatus(1)
	require.NoError(t, err)
	assert.Equal(t, int64(4), total)
	assert.Equal(t, int64(2), read)
	assert.Equal(t, int64(1), reading)
	assert.Equal(t, int64(1), want)
}

func TestRepository_PublisherCounts(t *testing.T) {
	_, repo, cleanup := setupTestDB(t)
	defer cleanup()

	require.NoError(t, repo.Create(&entities.Book{UserID: 1, Title: "A", Publisher: "Aleph"}))
	require.NoError(t, repo.Create(&entities.Book{UserID: 1, Title: "B", Publisher: "Aleph"}))
	require.NoError(t, repo.Create(&entities.Book{UserID: 1, Title: "C", Publisher: "Todavia"}))
	require.NoError(t, repo.Create(&entities.Book{UserID: 1, Title: "D"}))

	counts, err := repo.PublisherCounts(1)
	require.NoError(t, err)
	require.Len(t, counts, 2)

	byName := map[string]int64{}
	for _, row := range counts {
		byName[row.Publisher] = row.Count
	}
	assert.Equal(t, int64(2), byName["Aleph"])
	assert.Equal(t, int64(1), byName["Todavia"])
}

func TestRepository_DistinctFilters(t *testing.T) {
	_, repo, cleanup := setupTestDB(t)
	defer cleanup()

	require.NoError(t, repo.Create(&entities.Book{UserID: 1, Title: "A", Author: "Rosa", Publisher: "Aleph", Genre: "sci-fi"}))
	require.NoError(t, repo.Create(&entities.Book{UserID: 1, Title: "B", Author: "Rosa", Genre: "sci-fi"}))
	require.NoError(t, repo.Create(&entities.Book{UserID: 1, Title: "C", Author: "Lispector"}))

	authors, publishers, genres, err := repo.DistinctFilters(1)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"Rosa", "Lispector"}, authors)
	assert.ElementsMatch(t, []string{"Aleph"}, publishers)
	assert.ElementsMatch(t, []string{"sci-fi"}, genres)
}

func TestRepository_SetCoverURL(t *testing.T) {
	_, repo, cleanup := setupTestDB(t)
	defer cleanup()

	book := createTestBook(t, repo, 1, "Covered", entities.StatusWantToRead)

	require.NoError(t, repo.SetCoverURL(book.ID, "https://covers.openlibrary.org/b/id/1-L.jpg"))

	got, err := repo.GetByID(1, book.ID)
	require.NoError(t, err)
	assert.Equal(t, "https://covers.openlibrary.org/b/id/1-L.jpg", got.CoverURL)

	assert.ErrorIs(t, repo.SetCoverURL(9999, "x"), ErrBookNotFound)
}
