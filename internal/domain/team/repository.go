package team

import "context"

// Repository describes team persistence needs from use cases.
type Repository interface {
	// Reconcile returns the id for the natural key, creating the row when
	// missing and updating only the set attributes when present.
	Reconcile(ctx context.Context, name, gameID string, attrs Attrs) (int64, error)
	// FindIDByName resolves a team id by exact name within a game. A miss is
	// not an error.
	FindIDByName(ctx context.Context, name, gameID string) (int64, bool, error)
}
