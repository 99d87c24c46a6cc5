package http

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Miguel-Lopes31/poetas-mortos/internal/entities"
)

func TestQueueController_List(t *testing.T) {
	_, router, cleanup := setupTestRouter(t)
	defer cleanup()

	createBook(t, router, map[string]any{"title": "A"})
	createBook(t, router, map[string]any{"title": "B"})
	// Books outside want_to_read never queue
	createBook(t, router, map[string]any{"title": "Done", "status": "read"})

	w := performRequest(t, router, "GET", "/api/queue", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var queue []entities.Book
	decodeJSON(t, w, &queue)
	require.Len(t, queue, 2)
	assert.Equal(t, "A", queue[0].Title)
	assert.Equal(t, "B", queue[1].Title)
}

func TestQueueController_Reorder(t *testing.T) {
	_, router, cleanup := setupTestRouter(t)
	defer cleanup()

	createBook(t, router, map[string]any{"title": "A"})
	createBook(t, router, map[string]any{"title": "B"})
	createBook(t, router, map[string]any{"title": "C"})

	// Unknown IDs are skipped without failing the request
	w := performRequest(t, router, "PUT", "/api/queue/reorder", map[string]any{
		"order": []uint{3, 99, 1, 2},
	})
	require.Equal(t, http.StatusOK, w.Code)

	var resp map[string]bool
	decodeJSON(t, w, &resp)
	assert.True(t, resp["success"])

	w = performRequest(t, router, "GET", "/api/queue", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var queue []entities.Book
	decodeJSON(t, w, &queue)
	require.Len(t, queue, 3)
	assert.Equal(t, "C", queue[0].Title)
	assert.Equal(t, "A", queue[1].Title)
	assert.Equal(t, "B", queue[2].Title)
}

func TestQueueController_Reorder_RequiresBody(t *testing.T) {
	_, router, cleanup := setupTestRouter(t)
	defer cleanup()

	w := performRequest(t, router, "PUT", "/api/queue/reorder", map[string]any{})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
