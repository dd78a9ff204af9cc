package tournament

import (
	"context"
	"time"
)

// Repository describes tournament persistence needs from use cases.
type Repository interface {
	Reconcile(ctx context.Context, name, gameID string, startDate *time.Time, attrs Attrs) (int64, error)
	// FindActiveOn returns tournaments whose date range contains the given
	// day, boundaries included.
	FindActiveOn(ctx context.Context, name, gameID string, on time.Time) ([]Tournament, error)
	// FindNearest returns the tournament with the same name whose start date
	// is closest to the given day, regardless of containment.
	FindNearest(ctx context.Context, name, gameID string, on time.Time) (Tournament, bool, error)
}
