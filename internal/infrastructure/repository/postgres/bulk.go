package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	qb "github.com/aresdata/esports-etl/internal/platform/querybuilder"
)

// bulkBatchSize bounds the placeholder count of one statement; Postgres
// allows 65535 bind parameters, 500 rows stays far below that for every
// table here.
const bulkBatchSize = 500

// bulkUpsert inserts rows in multi-row batches with the caller's full ON
// CONFLICT clause. Keys absent from a row map insert NULL. The executor owns
// the transaction: nothing is committed or rolled back here. Returns the
// number of rows submitted.
func bulkUpsert(ctx context.Context, ex sqlx.ExtContext, table string, columns []string, rows []map[string]any, conflictClause string) (int, error) {
	if len(rows) == 0 {
		return 0, nil
	}
	if len(columns) == 0 {
		return 0, fmt.Errorf("bulk insert into %s: columns are required", table)
	}

	for start := 0; start < len(rows); start += bulkBatchSize {
		end := start + bulkBatchSize
		if end > len(rows) {
			end = len(rows)
		}

		query, args, err := buildBulkInsert(table, columns, rows[start:end], conflictClause)
		if err != nil {
			return 0, err
		}
		if _, err := ex.ExecContext(ctx, query, args...); err != nil {
			return 0, fmt.Errorf("bulk insert into %s rows=%d..%d: %w", table, start, end, err)
		}
	}

	return len(rows), nil
}

func buildBulkInsert(table string, columns []string, rows []map[string]any, conflictClause string) (string, []any, error) {
	builder := qb.InsertInto(table).Columns(columns...)
	for _, row := range rows {
		values := make([]any, len(columns))
		for i, column := range columns {
			values[i] = row[column]
		}
		builder = builder.Values(values...)
	}
	if conflictClause != "" {
		builder = builder.Suffix(conflictClause)
	}

	query, args, err := builder.ToSQL()
	if err != nil {
		return "", nil, fmt.Errorf("build bulk insert into %s: %w", table, err)
	}
	return query, args, nil
}
