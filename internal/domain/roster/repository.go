package roster

import "context"

// Repository describes roster persistence needs from use cases. Rosters are
// rebuilt from scratch each sync: truncate, then bulk insert.
type Repository interface {
	TruncateForGame(ctx context.Context, gameID string) error
	BulkInsert(ctx context.Context, entries []Entry) (int, error)
}
