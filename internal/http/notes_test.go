package http

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Miguel-Lopes31/poetas-mortos/internal/entities"
)

func TestNotesController_Create(t *testing.T) {
	t.Run("creates a note", func(t *testing.T) {
		_, router, cleanup := setupTestRouter(t)
		defer cleanup()

		createBook(t, router, map[string]any{"title": "Anotado"})

		w := performRequest(t, router, "POST", "/api/notes", map[string]any{
			"book_id": 1, "content": "pensamento solto", "type": "reflection", "page_number": 42,
		})
		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

		var note entities.Note
		decodeJSON(t, w, &note)
		assert.NotZero(t, note.ID)
		assert.Equal(t, entities.NoteTypeReflection, note.Type)
		assert.Equal(t, "Anotado", note.BookTitle)
	})

	t.Run("defaults to thought", func(t *testing.T) {
		_, router, cleanup := setupTestRouter(t)
		defer cleanup()

		createBook(t, router, map[string]any{"title": "Anotado"})

		w := performRequest(t, router, "POST", "/api/notes", map[string]any{"book_id": 1, "content": "simples"})
		require.Equal(t, http.StatusCreated, w.Code)

		var note entities.Note
		decodeJSON(t, w, &note)
		assert.Equal(t, entities.NoteTypeThought, note.Type)
	})

	t.Run("rejects missing fields", func(t *testing.T) {
		_, router, cleanup := setupTestRouter(t)
		defer cleanup()

		w := performRequest(t, router, "POST", "/api/notes", map[string]any{"content": "sem livro"})
		assert.Equal(t, http.StatusBadRequest, w.Code)

		w = performRequest(t, router, "POST", "/api/notes", map[string]any{"book_id": 1})
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("rejects invalid type", func(t *testing.T) {
		_, router, cleanup := setupTestRouter(t)
		defer cleanup()

		createBook(t, router, map[string]any{"title": "Anotado"})

		w := performRequest(t, router, "POST", "/api/notes", map[string]any{
			"book_id": 1, "content": "x", "type": "essay",
		})
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("missing book yields 404", func(t *testing.T) {
		_, router, cleanup := setupTestRouter(t)
		defer cleanup()

		w := performRequest(t, router, "POST", "/api/notes", map[string]any{"book_id": 99, "content": "órfã"})
		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestNotesController_ListAndFilter(t *testing.T) {
	_, router, cleanup := setupTestRouter(t)
	defer cleanup()

	createBook(t, router, map[string]any{"title": "Primeiro"})
	createBook(t, router, map[string]any{"title": "Segundo"})

	for _, body := range []map[string]any{
		{"book_id": 1, "content": "q1", "type": "quote"},
		{"book_id": 1, "content": "t1", "type": "thought"},
		{"book_id": 2, "content": "q2", "type": "quote"},
	} {
		w := performRequest(t, router, "POST", "/api/notes", body)
		require.Equal(t, http.StatusCreated, w.Code)
	}

	var notes []entities.Note

	w := performRequest(t, router, "GET", "/api/notes", nil)
	require.Equal(t, http.StatusOK, w.Code)
	decodeJSON(t, w, &notes)
	assert.Len(t, notes, 3)

	w = performRequest(t, router, "GET", "/api/notes?type=quote", nil)
	require.Equal(t, http.StatusOK, w.Code)
	decodeJSON(t, w, &notes)
	assert.Len(t, notes, 2)

	w = performRequest(t, router, "GET", "/api/notes?type=quote&book_id=2", nil)
	require.Equal(t, http.StatusOK, w.Code)
	decodeJSON(t, w, &notes)
	require.Len(t, notes, 1)
	assert.Equal(t, "q2", notes[0].Content)

	// Notes scoped to one book through the books resource
	w = performRequest(t, router, "GET", "/api/books/1/notes", nil)
	require.Equal(t, http.StatusOK, w.Code)
	decodeJSON(t, w, &notes)
	assert.Len(t, notes, 2)
}

func TestNotesController_Update(t *testing.T) {
	_, router, cleanup := setupTestRouter(t)
	defer cleanup()

	createBook(t, router, map[string]any{"title": "Editável"})
	w := performRequest(t, router, "POST", "/api/notes", map[string]any{"book_id": 1, "content": "rascunho"})
	require.Equal(t, http.StatusCreated, w.Code)

	w = performRequest(t, router, "PUT", "/api/notes/1", map[string]any{"content": "final", "type": "quote"})
	require.Equal(t, http.StatusOK, w.Code)

	var note entities.Note
	decodeJSON(t, w, &note)
	assert.Equal(t, "final", note.Content)
	assert.Equal(t, entities.NoteTypeQuote, note.Type)

	w = performRequest(t, router, "PUT", "/api/notes/1", map[string]any{"type": "essay"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = performRequest(t, router, "PUT", "/api/notes/999", map[string]any{"content": "x"})
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestNotesController_Delete(t *testing.T) {
	_, router, cleanup := setupTestRouter(t)
	defer cleanup()

	createBook(t, router, map[string]any{"title": "Descartável"})
	w := performRequest(t, router, "POST", "/api/notes", map[string]any{"book_id": 1, "content": "efêmera"})
	require.Equal(t, http.StatusCreated, w.Code)

	w = performRequest(t, router, "DELETE", "/api/notes/1", nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w = performRequest(t, router, "GET", "/api/notes/1", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}
