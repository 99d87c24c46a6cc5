// Package scheduler runs periodic background jobs.
package scheduler

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"gorm.io/gorm"

	"github.com/Miguel-Lopes31/poetas-mortos/internal/config"
	"github.com/Miguel-Lopes31/poetas-mortos/internal/entities"
	"github.com/Miguel-Lopes31/poetas-mortos/internal/exporters"
)

// ExportScheduler writes periodic JSON snapshots of every user's data
// to the configured export directory.
type ExportScheduler struct {
	db       *gorm.DB
	exporter *exporters.JSONExporter
	cfg      config.Export

	cron       *cron.Cron
	entryID    cron.EntryID
	mu         sync.RWMutex
	isRunning  bool
	cancelFunc context.CancelFunc
}

// NewExportScheduler creates a new scheduler instance.
func NewExportScheduler(db *gorm.DB, exporter *exporters.JSONExporter, cfg config.Export) *ExportScheduler {
	return &ExportScheduler{
		db:       db,
		exporter: exporter,
		cfg:      cfg,
		cron:     cron.New(cron.WithParser(cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow))),
	}
}

// Start begins the scheduler if exports are enabled.
func (s *ExportScheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.isRunning {
		return nil
	}

	if !s.cfg.Enabled {
		log.Printf("Export scheduler: disabled")
		return nil
	}

	if s.cfg.Dir == "" {
		log.Printf("Export scheduler: export directory not configured, skipping")
		return nil
	}

	entryID, err := s.cron.AddFunc(s.cfg.Schedule, func() {
		s.runSnapshot()
	})
	if err != nil {
		return fmt.Errorf("invalid export schedule '%s': %w", s.cfg.Schedule, err)
	}
	s.entryID = entryID

	var cancelCtx context.Context
	cancelCtx, s.cancelFunc = context.WithCancel(ctx)

	s.cron.Start()
	s.isRunning = true

	log.Printf("Export scheduler: started with schedule '%s'", s.cfg.Schedule)

	go func() {
		<-cancelCtx.Done()
		s.Stop()
	}()

	return nil
}

// Stop gracefully stops the scheduler.
func (s *ExportScheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.isRunning {
		return
	}

	// Stop accepting new jobs and wait for running jobs to complete
	ctx := s.cron.Stop()
	<-ctx.Done()

	s.isRunning = false
	s.cancelFunc = nil

	log.Printf("Export scheduler: stopped")
}

// RunNow triggers an immediate snapshot.
func (s *ExportScheduler) RunNow() {
	go s.runSnapshot()
}

// IsRunning returns whether the scheduler is active.
func (s *ExportScheduler) IsRunning() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.isRunning
}

// NextRunTime returns when the next snapshot will occur.
func (s *ExportScheduler) NextRunTime() *time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.isRunning {
		return nil
	}

	for _, entry := range s.cron.Entries() {
		if entry.ID == s.entryID {
			t := entry.Next
			return &t
		}
	}
	return nil
}

// runSnapshot performs the actual export for every user with data.
func (s *ExportScheduler) runSnapshot() {
	start := time.Now()

	userIDs, err := s.userIDs()
	if err != nil {
		log.Printf("Export snapshot: failed to list users: %v", err)
		return
	}

	if len(userIDs) == 0 {
		log.Printf("Export snapshot: no data to export")
		return
	}

	written := 0
	for _, userID := range userIDs {
		path, err := s.exporter.WriteSnapshot(userID, s.userDir(userID))
		if err != nil {
			log.Printf("Export snapshot: user %d failed: %v", userID, err)
			continue
		}
		log.Printf("Export snapshot: wrote %s", path)
		written++
	}

	log.Printf("Export snapshot: finished, %d/%d users in %v", written, len(userIDs), time.Since(start).Round(time.Millisecond))
}

// userIDs lists every user that owns at least one book.
func (s *ExportScheduler) userIDs() ([]uint, error) {
	var ids []uint
	err := s.db.Model(&entities.Book{}).
		Distinct("user_id").
		Order("user_id").
		Pluck("user_id", &ids).Error
	return ids, err
}

// userDir returns the snapshot directory for a user. The default user
// (auth disabled) writes directly into the export root.
func (s *ExportScheduler) userDir(userID uint) string {
	if userID == 0 {
		return s.cfg.Dir
	}
	return fmt.Sprintf("%s/user-%d", s.cfg.Dir, userID)
}
