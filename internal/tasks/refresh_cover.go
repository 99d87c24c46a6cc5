package tasks

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/mikestefanello/backlite"

	"github.com/Miguel-Lopes31/poetas-mortos/internal/database/books"
	"github.com/Miguel-Lopes31/poetas-mortos/internal/metadata"
)

// RefreshCoverTask looks up a cover image for a single book on OpenLibrary
// and stores the resulting URL.
type RefreshCoverTask struct {
	UserID uint `json:"user_id"`
	BookID uint `json:"book_id"`
}

// Config returns the queue configuration for cover refresh tasks.
func (t RefreshCoverTask) Config() backlite.QueueConfig {
	return backlite.QueueConfig{
		Name:        "refresh_cover",
		MaxAttempts: 3,
		Backoff:     30 * time.Second,
		Timeout:     2 * time.Minute,
		Retention: &backlite.Retention{
			Duration:   24 * time.Hour,
			OnlyFailed: false,
			Data:       &backlite.RetainData{OnlyFailed: true},
		},
	}
}

// RefreshCoverProcessor creates a processor function for RefreshCoverTask.
func RefreshCoverProcessor(repo *books.Repository, client *metadata.OpenLibraryClient) backlite.QueueProcessor[RefreshCoverTask] {
	return func(ctx context.Context, task RefreshCoverTask) error {
		if client == nil {
			return fmt.Errorf("metadata client not configured")
		}

		book, err := repo.GetByID(task.UserID, task.BookID)
		if err != nil {
			if errors.Is(err, books.ErrBookNotFound) {
				// Book was deleted after the task was queued, nothing to do
				log.Printf("[TASK] Book %d no longer exists, skipping cover refresh", task.BookID)
				return nil
			}
			return fmt.Errorf("load book %d: %w", task.BookID, err)
		}

		meta, err := client.SearchByTitle(ctx, book.Title, book.Author)
		if err != nil {
			return fmt.Errorf("look up cover for book %d (%s): %w", task.BookID, book.Title, err)
		}

		if meta.CoverURL == "" {
			log.Printf("[TASK] No cover found for book %d (%s)", task.BookID, book.Title)
			return nil
		}

		if err := repo.SetCoverURL(task.BookID, meta.CoverURL); err != nil {
			return fmt.Errorf("save cover for book %d: %w", task.BookID, err)
		}

		log.Printf("[TASK] Updated cover for book %d (%s)", task.BookID, book.Title)
		return nil
	}
}

// NewRefreshCoverQueue creates a backlite queue for cover refresh tasks.
func NewRefreshCoverQueue(repo *books.Repository, client *metadata.OpenLibraryClient) backlite.Queue {
	return backlite.NewQueue(RefreshCoverProcessor(repo, client))
}
