package http

import (
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Miguel-Lopes31/poetas-mortos/internal/entities"
)

func createBook(t *testing.T, router *gin.Engine, body map[string]any) entities.Book {
	t.Helper()
	w := performRequest(t, router, "POST", "/api/books", body)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var book entities.Book
	decodeJSON(t, w, &book)
	return book
}

func TestBooksController_Create(t *testing.T) {
	t.Run("creates with defaults", func(t *testing.T) {
		_, router, cleanup := setupTestRouter(t)
		defer cleanup()

		book := createBook(t, router, map[string]any{"title": "O Alienista", "author": "Machado de Assis"})

		assert.NotZero(t, book.ID)
		assert.Equal(t, entities.StatusWantToRead, book.Status)
		assert.Equal(t, entities.PriorityNormal, book.Priority)
		assert.Equal(t, 1, book.QueueOrder)
	})

	t.Run("rejects missing title", func(t *testing.T) {
		_, router, cleanup := setupTestRouter(t)
		defer cleanup()

		w := performRequest(t, router, "POST", "/api/books", map[string]any{"author": "Anon"})
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("rejects invalid status", func(t *testing.T) {
		_, router, cleanup := setupTestRouter(t)
		defer cleanup()

		w := performRequest(t, router, "POST", "/api/books", map[string]any{"title": "X", "status": "finished"})
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("rejects out of range rating", func(t *testing.T) {
		_, router, cleanup := setupTestRouter(t)
		defer cleanup()

		w := performRequest(t, router, "POST", "/api/books", map[string]any{"title": "X", "rating": 6})
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("conflicts on second reading book", func(t *testing.T) {
		_, router, cleanup := setupTestRouter(t)
		defer cleanup()

		createBook(t, router, map[string]any{"title": "First", "status": "reading"})

		w := performRequest(t, router, "POST", "/api/books", map[string]any{"title": "Second", "status": "reading"})
		assert.Equal(t, http.StatusConflict, w.Code)
	})
}

func TestBooksController_Get(t *testing.T) {
	_, router, cleanup := setupTestRouter(t)
	defer cleanup()

	created := createBook(t, router, map[string]any{"title": "Quincas Borba"})

	w := performRequest(t, router, "GET", "/api/books/1", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var book entities.Book
	decodeJSON(t, w, &book)
	assert.Equal(t, created.ID, book.ID)
	assert.Equal(t, "Quincas Borba", book.Title)

	w = performRequest(t, router, "GET", "/api/books/999", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = performRequest(t, router, "GET", "/api/books/abc", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestBooksController_List(t *testing.T) {
	_, router, cleanup := setupTestRouter(t)
	defer cleanup()

	createBook(t, router, map[string]any{"title": "A", "status": "read", "genre": "romance"})
	createBook(t, router, map[string]any{"title": "B", "status": "want_to_read", "genre": "romance"})
	createBook(t, router, map[string]any{"title": "C", "status": "read", "genre": "cronica"})

	var list []entities.Book

	w := performRequest(t, router, "GET", "/api/books", nil)
	require.Equal(t, http.StatusOK, w.Code)
	decodeJSON(t, w, &list)
	assert.Len(t, list, 3)

	w = performRequest(t, router, "GET", "/api/books?status=read", nil)
	require.Equal(t, http.StatusOK, w.Code)
	decodeJSON(t, w, &list)
	assert.Len(t, list, 2)

	w = performRequest(t, router, "GET", "/api/books?status=read&genre=romance", nil)
	require.Equal(t, http.StatusOK, w.Code)
	decodeJSON(t, w, &list)
	assert.Len(t, list, 1)

	w = performRequest(t, router, "GET", "/api/books?status=bogus", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestBooksController_Update(t *testing.T) {
	_, router, cleanup := setupTestRouter(t)
	defer cleanup()

	createBook(t, router, map[string]any{"title": "Original", "pages": 100})

	w := performRequest(t, router, "PUT", "/api/books/1", map[string]any{"title": "Renamed"})
	require.Equal(t, http.StatusOK, w.Code)

	var book entities.Book
	decodeJSON(t, w, &book)
	assert.Equal(t, "Renamed", book.Title)
	assert.Equal(t, 100, book.Pages)

	w = performRequest(t, router, "PUT", "/api/books/1", map[string]any{"status": "bogus"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = performRequest(t, router, "PUT", "/api/books/999", map[string]any{"title": "X"})
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestBooksController_Delete(t *testing.T) {
	_, router, cleanup := setupTestRouter(t)
	defer cleanup()

	createBook(t, router, map[string]any{"title": "Doomed"})

	w := performRequest(t, router, "DELETE", "/api/books/1", nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w = performRequest(t, router, "GET", "/api/books/1", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = performRequest(t, router, "DELETE", "/api/books/1", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestBooksController_Current(t *testing.T) {
	_, router, cleanup := setupTestRouter(t)
	defer cleanup()

	// No book in progress reads as null, not an error
	w := performRequest(t, router, "GET", "/api/books/current", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "null", w.Body.String())

	createBook(t, router, map[string]any{"title": "Reading Now", "status": "reading"})

	w = performRequest(t, router, "GET", "/api/books/current", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var book entities.Book
	decodeJSON(t, w, &book)
	assert.Equal(t, "Reading Now", book.Title)
}

func TestBooksController_SetPriority(t *testing.T) {
	_, router, cleanup := setupTestRouter(t)
	defer cleanup()

	createBook(t, router, map[string]any{"title": "Urgent"})

	w := performRequest(t, router, "POST", "/api/books/1/priority", map[string]any{"priority": "high"})
	require.Equal(t, http.StatusOK, w.Code)

	var book entities.Book
	decodeJSON(t, w, &book)
	assert.Equal(t, entities.PriorityHigh, book.Priority)

	w = performRequest(t, router, "POST", "/api/books/1/priority", map[string]any{"priority": "urgent"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = performRequest(t, router, "POST", "/api/books/999/priority", map[string]any{"priority": "low"})
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestBooksController_RefreshCover_TasksDisabled(t *testing.T) {
	_, router, cleanup := setupTestRouter(t)
	defer cleanup()

	createBook(t, router, map[string]any{"title": "Coverless"})

	// The test router runs without a task client
	w := performRequest(t, router, "POST", "/api/books/1/refresh-cover", nil)
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}

func TestBooksController_PagesReadDerived(t *testing.T) {
	_, router, cleanup := setupTestRouter(t)
	defer cleanup()

	createBook(t, router, map[string]any{"title": "Tracked", "status": "reading"})

	w := performRequest(t, router, "POST", "/api/diary", map[string]any{
		"date": "2025-08-10", "book_id": 1, "pages_read": 30,
	})
	require.Equal(t, http.StatusCreated, w.Code)
	w = performRequest(t, router, "POST", "/api/diary", map[string]any{
		"date": "2025-08-11", "book_id": 1, "pages_read": 12,
	})
	require.Equal(t, http.StatusCreated, w.Code)

	w = performRequest(t, router, "GET", "/api/books/1", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var book entities.Book
	decodeJSON(t, w, &book)
	assert.Equal(t, 42, book.PagesRead)
}
