package matchseries

import "context"

// Repository describes match series persistence needs from use cases.
type Repository interface {
	// BulkUpsert inserts the batch in one statement per chunk, overwriting
	// every non-key column on conflict. Returns rows submitted.
	BulkUpsert(ctx context.Context, series []Series) (int, error)
}
