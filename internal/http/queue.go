package http

import (
	"github.com/gin-gonic/gin"
)

// QueueController handles the reading queue endpoints.
type QueueController struct {
	store BookStore
}

// NewQueueController creates a new QueueController.
func NewQueueController(store BookStore) *QueueController {
	return &QueueController{store: store}
}

// List handles GET /api/queue.
// Returns want-to-read books in queue order.
func (qc *QueueController) List(c *gin.Context) {
	userID := GetUserID(c)

	queue, err := qc.store.Queue(userID)
	if err != nil {
		respondInternalError(c, err, "list queue")
		return
	}

	c.JSON(200, queue)
}

// ReorderRequest is the request body for reordering the queue.
type ReorderRequest struct {
	Order []uint `json:"order" binding:"required"`
}

// Reorder handles PUT /api/queue/reorder.
// Each book's queue position becomes its index in the submitted list.
// IDs that don't match a queued book are skipped silently.
func (qc *QueueController) Reorder(c *gin.Context) {
	userID := GetUserID(c)

	var req ReorderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "order is required")
		return
	}

	if err := qc.store.Reorder(userID, req.Order); err != nil {
		respondInternalError(c, err, "reorder queue")
		return
	}

	c.JSON(200, gin.H{"success": true})
}
