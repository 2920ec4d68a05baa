package report

import (
	"context"
	"time"

	"vapemart/internal/model"
)

// SweepReport is the archived record of one reconciliation sweep.
type SweepReport struct {
	RanAt time.Time            `json:"ranAt"`
	Stats model.ReconcileStats `json:"stats"`
}

// Archiver defines the interface for persisting sweep reports. Archiving is
// best-effort observability: a failed Store never fails the sweep itself.
type Archiver interface {
	// Store persists a sweep report.
	Store(ctx context.Context, rep SweepReport) error
}

// objectKey derives a stable, sortable object name for a report.
func objectKey(rep SweepReport) string {
	return "reconcile-" + rep.RanAt.UTC().Format("20060102T150405Z") + ".json"
}
