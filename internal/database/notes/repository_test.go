package notes

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
	dbPath := "./test_notes_" + t.Name() + ".db"

	db, err := gorm.Open(sqlite.Open(dbPath), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	err = db.AutoMigrate(
		&entities.User{},
		&entities.Book{},
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

func createTestBook(t *testing.T, db *gorm.DB, userID uint, title string) *entities.Book {
	book := &entities.Book{UserID: userID, Title: title}
	require.NoError(t, db.Create(book).Error)
	return book
}

func TestRepository_Create(t *testing.T) {
	db, repo, cleanup := setupTestDB(t)
	defer cleanup()

	book := createTestBook(t, db, 1, "Ensaio Sobre a Cegueira")

	note := &entities.Note{
		UserID:  1,
		BookID:  book.ID,
		Content: "the city loses its sight one driver at a time",
	}
	require.NoError(t, repo.Create(note))

	assert.NotZero(t, note.ID)
	// Untyped notes default to thought
	assert.Equal(t, entities.NoteTypeThought, note.Type)
	assert.Equal(t, "Ensaio Sobre a Cegueira", note.BookTitle)
}

func TestRepository_Create_RequiresOwnedBook(t *testing.T) {
	db, repo, cleanup := setupTestDB(t)
	defer cleanup()

	err := repo.Create(&entities.Note{UserID: 1, BookID: 9999, Content: "orphan"})
	assert.ErrorIs(t, err, ErrNoteNotFound)

	// A book belonging to another user is just as invisible
	other := createTestBook(t, db, 2, "Theirs")
	err = repo.Create(&entities.Note{UserID: 1, BookID: other.ID, Content: "trespassing"})
	assert.ErrorIs(t, err, ErrNoteNotFound)
}

func TestRepository_List_Filters(t *testing.T) {
	db, repo, cleanup := setupTestDB(t)
	defer cleanup()

	first := createTestBook(t, db, 1, "First")
	second := createTestBook(t, db, 1, "Second")

	require.NoError(t, repo.Create(&entities.Note{UserID: 1, BookID: first.ID, Type: entities.NoteTypeQuote, Content: "q1"}))
	require.NoError(t, repo.Create(&entities.Note{UserID: 1, BookID: first.ID, Type: entities.NoteTypeThought, Content: "t1"}))
	require.NoError(t, repo.Create(&entities.Note{UserID: 1, BookID: second.ID, Type: entities.NoteTypeQuote, Content: "q2"}))

	all, err := repo.List(1, "", 0)
	require.NoError(t, err)
	assert.Len(t, all, 3)

	quotes, err := repo.List(1, entities.NoteTypeQuote, 0)
	require.NoError(t, err)
	assert.Len(t, quotes, 2)

	firstQuotes, err := repo.List(1, entities.NoteTypeQuote, first.ID)
	require.NoError(t, err)
	require.Len(t, firstQuotes, 1)
	assert.Equal(t, "q1", firstQuotes[0].Content)

	byBook, err := repo.ListByBook(1, second.ID)
	require.NoError(t, err)
	require.Len(t, byBook, 1)
	assert.Equal(t, "Second", byBook[0].BookTitle)
}

func TestRepository_Update(t *testing.T) {
	db, repo, cleanup := setupTestDB(t)
	defer cleanup()

	book := createTestBook(t, db, 1, "Editable")
	note := &entities.Note{UserID: 1, BookID: book.ID, Content: "draft"}
	require.NoError(t, repo.Create(note))

	content := "final"
	noteType := entities.NoteTypeReflection
	page := 120
	updated, err := repo.Update(1, note.ID, Patch{Content: &content, Type: &noteType, PageNumber: &page})
	require.NoError(t, err)

	assert.Equal(t, "final", updated.Content)
	assert.Equal(t, entities.NoteTypeReflection, updated.Type)
	require.NotNil(t, updated.PageNumber)
	assert.Equal(t, 120, *updated.PageNumber)
}

func TestRepository_Update_NotFound(t *testing.T) {
	_, repo, cleanup := setupTestDB(t)
	defer cleanup()

	content := "nope"
	_, err := repo.Update(1, 42, Patch{Content: &content})
	assert.ErrorIs(t, err, ErrNoteNotFound)
}

func TestRepository_Delete(t *testing.T) {
	db, repo, cleanup := setupTestDB(t)
	defer cleanup()

	book := createTestBook(t, db, 1, "Deletable")
	note := &entities.Note{UserID: 1, BookID: book.ID, Content: "bye"}
	require.NoError(t, repo.Create(note))

	require.NoError(t, repo.Delete(1, note.ID))

	_, err := repo.GetByID(1, note.ID)
	assert.ErrorIs(t, err, ErrNoteNotFound)

	assert.ErrorIs(t, repo.Delete(1, note.ID), ErrNoteNotFound)
}

func TestRepository_Delete_OtherUser(t *testing.T) {
	db, repo, cleanup := setupTestDB(t)
	defer cleanup()

	book := createTestBook(t, db, 1, "Protected")
	note := &entities.Note{UserID: 1, BookID: book.ID, Content: "mine"}
	require.NoError(t, repo.Create(note))

	assert.ErrorIs(t, repo.Delete(2, note.ID), ErrNoteNotFound)
}
