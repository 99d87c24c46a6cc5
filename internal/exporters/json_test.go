package exporters

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/Miguel-Lopes31/poetas-mortos/internal/database/books"
	"github.com/Miguel-Lopes31/poetas-mortos/internal/database/diary"
	"github.com/Miguel-Lopes31/poetas-mortos/internal/database/notes"
	"github.com/Miguel-Lopes31/poetas-mortos/internal/entities"
)

func setupTestExporter(t *testing.T) (*gorm.DB, *JSONExporter, func()) {
	dbPath := "./test_export_" + t.Name() + ".db"

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

	exporter := NewJSONExporter(
		books.NewRepository(db),
		diary.NewRepository(db),
		notes.NewRepository(db),
	)

	cleanup := func() {
		sqlDB, _ := db.DB()
		sqlDB.Close()
		os.Remove(dbPath)
	}

	return db, exporter, cleanup
}

func seedLibrary(t *testing.T, db *gorm.DB, userID uint) {
	book := &entities.Book{UserID: userID, Title: "Exportável", Author: "Autora"}
	require.NoError(t, db.Create(book).Error)

	date, err := entities.ParseDate("2025-08-10")
	require.NoError(t, err)
	require.NoError(t, db.Create(&entities.DiaryEntry{
		UserID: userID, BookID: &book.ID, Date: date, PagesRead: 20, DidRead: true,
	}).Error)

	require.NoError(t, db.Create(&entities.Note{
		UserID: userID, BookID: book.ID, Content: "nota exportada",
	}).Error)
}

func TestJSONExporter_Build(t *testing.T) {
	db, exporter, cleanup := setupTestExporter(t)
	defer cleanup()

	seedLibrary(t, db, 1)
	// Another user's data stays out of the document
	seedOther := &entities.Book{UserID: 2, Title: "Alheio"}
	require.NoError(t, db.Create(seedOther).Error)

	doc, err := exporter.Build(1)
	require.NoError(t, err)

	require.Len(t, doc.Books, 1)
	assert.Equal(t, "Exportável", doc.Books[0].Title)
	assert.Equal(t, 20, doc.Books[0].PagesRead)
	require.Len(t, doc.Diary, 1)
	assert.Equal(t, "Exportável", doc.Diary[0].BookTitle)
	require.Len(t, doc.Notes, 1)
	assert.False(t, doc.ExportedAt.IsZero())
}

func TestJSONExporter_Build_EmptyLibrary(t *testing.T) {
	_, exporter, cleanup := setupTestExporter(t)
	defer cleanup()

	doc, err := exporter.Build(1)
	require.NoError(t, err)
	assert.Empty(t, doc.Books)
	assert.Empty(t, doc.Diary)
	assert.Empty(t, doc.Notes)
}

func TestJSONExporter_WriteSnapshot(t *testing.T) {
	db, exporter, cleanup := setupTestExporter(t)
	defer cleanup()

	seedLibrary(t, db, 1)

	dir := t.TempDir()
	path, err := exporter.WriteSnapshot(1, filepath.Join(dir, "exports"))
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var doc Document
	require.NoError(t, json.Unmarshal(data, &doc))
	require.Len(t, doc.Books, 1)
	assert.Equal(t, "Exportável", doc.Books[0].Title)

	// No leftover temp file
	_, err = os.Stat(path + ".tmp")
	assert.True(t, os.IsNotExist(err))
}
