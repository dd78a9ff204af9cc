package player

import "context"

// Repository describes player persistence needs from use cases.
type Repository interface {
	Reconcile(ctx context.Context, nickname, gameID string, attrs Attrs) (int64, error)
}
