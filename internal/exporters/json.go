// Package exporters builds full-data exports of a user's library.
package exporters

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/Miguel-Lopes31/poetas-mortos/internal/database/books"
	"github.com/Miguel-Lopes31/poetas-mortos/internal/database/diary"
	"github.com/Miguel-Lopes31/poetas-mortos/internal/database/notes"
	"github.com/Miguel-Lopes31/poetas-mortos/internal/entities"
)

// Document is a complete snapshot of a user's reading data.
type Document struct {
	ExportedAt time.Time             `json:"exported_at"`
	Books      []entities.Book       `json:"books"`
	Diary      []entities.DiaryEntry `json:"diary"`
	Notes      []entities.Note       `json:"notes"`
}

// JSONExporter assembles export documents from the repositories.
type JSONExporter struct {
	books *books.Repository
	diary *diary.Repository
	notes *notes.Repository
}

// NewJSONExporter creates an exporter backed by the given repositories.
func NewJSONExporter(booksRepo *books.Repository, diaryRepo *diary.Repository, notesRepo *notes.Repository) *JSONExporter {
	return &JSONExporter{
		books: booksRepo,
		diary: diaryRepo,
		notes: notesRepo,
	}
}

// Build assembles a snapshot of all data belonging to the user.
func (e *JSONExporter) Build(userID uint) (*Document, error) {
	allBooks, err := e.books.List(userID, books.Filter{})
	if err != nil {
		return nil, fmt.Errorf("export books: %w", err)
	}

	allEntries, err := e.diary.AllEntries(userID)
	if err != nil {
		return nil, fmt.Errorf("export diary: %w", err)
	}

	allNotes, err := e.notes.List(userID, "", 0)
	if err != nil {
		return nil, fmt.Errorf("export notes: %w", err)
	}

	return &Document{
		ExportedAt: time.Now().UTC(),
		Books:      allBooks,
		Diary:      allEntries,
		Notes:      allNotes,
	}, nil
}

// WriteSnapshot builds an export document and writes it to dir as a
// dated JSON file. Returns the path of the written file.
func (e *JSONExporter) WriteSnapshot(userID uint, dir string) (string, error) {
	doc, err := e.Build(userID)
	if err != nil {
		return "", err
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create export directory: %w", err)
	}

	name := fmt.Sprintf("export-%s.json", doc.ExportedAt.Format("2006-01-02"))
	path := filepath.Join(dir, name)

	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshal export: %w", err)
	}

	// Write to a temp file then rename so a partially written snapshot
	// never shadows a good one.
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return "", fmt.Errorf("write export: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return "", fmt.Errorf("finalize export: %w", err)
	}

	return path, nil
}
