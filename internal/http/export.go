package http

import (
	"fmt"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/Miguel-Lopes31/poetas-mortos/internal/exporters"
	"github.com/Miguel-Lopes31/poetas-mortos/internal/scheduler"
)

// ExportController serves full-data exports of the user's library.
type ExportController struct {
	exporter  *exporters.JSONExporter
	scheduler *scheduler.ExportScheduler
}

// NewExportController creates a new ExportController.
// The scheduler may be nil when periodic snapshots are disabled.
func NewExportController(exporter *exporters.JSONExporter, sched *scheduler.ExportScheduler) *ExportController {
	return &ExportController{exporter: exporter, scheduler: sched}
}

// Download handles GET /api/export.
// Streams the full export document as a JSON attachment.
func (ec *ExportController) Download(c *gin.Context) {
	userID := GetUserID(c)

	doc, err := ec.exporter.Build(userID)
	if err != nil {
		respondInternalError(c, err, "build export")
		return
	}

	filename := fmt.Sprintf("export-%s.json", doc.ExportedAt.Format("2006-01-02"))
	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	c.JSON(200, doc)
}

// Status handles GET /api/export/status.
// Reports whether scheduled snapshots are running and when the next one fires.
func (ec *ExportController) Status(c *gin.Context) {
	if ec.scheduler == nil {
		c.JSON(200, gin.H{"scheduled": false})
		return
	}

	var next *time.Time
	if ec.scheduler.IsRunning() {
		next = ec.scheduler.NextRunTime()
	}

	c.JSON(200, gin.H{
		"scheduled": ec.scheduler.IsRunning(),
		"next_run":  next,
	})
}

// RunSnapshot handles POST /api/export/snapshot.
// Triggers an immediate snapshot write for all users.
func (ec *ExportController) RunSnapshot(c *gin.Context) {
	if ec.scheduler == nil {
		respondError(c, 503, "scheduled exports are disabled")
		return
	}

	ec.scheduler.RunNow()
	c.JSON(202, gin.H{"message": "snapshot started"})
}
