package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/aresdata/esports-etl/internal/platform/field"
	qb "github.com/aresdata/esports-etl/internal/platform/querybuilder"
)

// entityKind parameterizes the generic get-or-create reconciler. One value
// per table replaces the per-entity copy-paste the upsert logic would
// otherwise become.
type entityKind struct {
	table      string
	idColumn   string
	keyColumns []string
	// mutableColumns is the full set of updatable columns, in statement
	// order. Attributes outside this list never reach an UPDATE.
	mutableColumns []string
	// insertDefaults fill columns that stay NOT NULL even when the caller
	// left the attribute unset.
	insertDefaults map[string]any
}

// reconcile returns the row id for the natural key, creating the row when
// missing. Existing rows receive an UPDATE restricted to set attributes;
// reconciling the same input twice is a no-op beyond the lookup.
func reconcile(ctx context.Context, ex sqlx.ExtContext, kind entityKind, key []any, attrs map[string]field.Value) (int64, error) {
	if len(key) != len(kind.keyColumns) {
		return 0, fmt.Errorf("%s natural key needs %d values, got %d", kind.table, len(kind.keyColumns), len(key))
	}

	id, found, err := lookupByKey(ctx, ex, kind, key)
	if err != nil {
		return 0, err
	}
	if found {
		if err := updateAttrs(ctx, ex, kind, id, attrs); err != nil {
			return 0, err
		}
		return id, nil
	}

	// Inside a transaction a failed INSERT aborts every later statement, so
	// the insert runs under a savepoint; rolling back to it keeps the
	// enclosing transaction usable for the retry lookup.
	_, inTx := ex.(*sqlx.Tx)
	if inTx {
		if _, err := ex.ExecContext(ctx, "SAVEPOINT reconcile_insert"); err != nil {
			return 0, fmt.Errorf("savepoint before %s insert: %w", kind.table, err)
		}
	}

	id, err = insertRow(ctx, ex, kind, key, attrs)
	if err == nil {
		if inTx {
			if _, err := ex.ExecContext(ctx, "RELEASE SAVEPOINT reconcile_insert"); err != nil {
				return 0, fmt.Errorf("release savepoint after %s insert: %w", kind.table, err)
			}
		}
		return id, nil
	}
	if !isUniqueViolation(err) {
		return 0, err
	}
	if inTx {
		if _, spErr := ex.ExecContext(ctx, "ROLLBACK TO SAVEPOINT reconcile_insert"); spErr != nil {
			return 0, fmt.Errorf("rollback savepoint after %s unique violation: %w", kind.table, spErr)
		}
	}

	// A concurrent writer created the row between our lookup and insert;
	// it must be visible now.
	id, found, lookupErr := lookupByKey(ctx, ex, kind, key)
	if lookupErr != nil {
		return 0, lookupErr
	}
	if !found {
		return 0, fmt.Errorf("select %s after unique violation: row vanished", kind.table)
	}
	if err := updateAttrs(ctx, ex, kind, id, attrs); err != nil {
		return 0, err
	}
	return id, nil
}

func lookupByKey(ctx context.Context, ex sqlx.ExtContext, kind entityKind, key []any) (int64, bool, error) {
	conditions := make([]qb.Condition, 0, len(kind.keyColumns))
	for i, column := range kind.keyColumns {
		if key[i] == nil {
			conditions = append(conditions, qb.IsNull(column))
			continue
		}
		conditions = append(conditions, qb.Eq(column, key[i]))
	}

	query, args, err := qb.Select(kind.idColumn).
		From(kind.table).
		Where(conditions...).
		ToSQL()
	if err != nil {
		return 0, false, fmt.Errorf("build %s lookup: %w", kind.table, err)
	}

	var id int64
	if err := sqlx.GetContext(ctx, ex, &id, query, args...); err != nil {
		if isNotFound(err) {
			return 0, false, nil
		}
		return 0, false, fmt.Errorf("select %s by natural key: %w", kind.table, err)
	}

	return id, true, nil
}

func updateAttrs(ctx context.Context, ex sqlx.ExtContext, kind entityKind, id int64, attrs map[string]field.Value) error {
	builder := qb.Update(kind.table)
	sets := 0
	for _, column := range kind.mutableColumns {
		value, ok := attrs[column]
		if !ok || !value.IsSet() {
			continue
		}
		builder = builder.Set(column, value.Interface())
		sets++
	}
	if sets == 0 {
		return nil
	}

	query, args, err := builder.Where(qb.Eq(kind.idColumn, id)).ToSQL()
	if err != nil {
		return fmt.Errorf("build %s update: %w", kind.table, err)
	}
	if _, err := ex.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("update %s id=%d: %w", kind.table, id, err)
	}

	return nil
}

func insertRow(ctx context.Context, ex sqlx.ExtContext, kind entityKind, key []any, attrs map[string]field.Value) (int64, error) {
	columns := make([]string, 0, len(kind.keyColumns)+len(kind.mutableColumns))
	values := make([]any, 0, cap(columns))

	columns = append(columns, kind.keyColumns...)
	values = append(values, key...)

	for _, column := range kind.mutableColumns {
		if value, ok := attrs[column]; ok && value.IsSet() {
			columns = append(columns, column)
			values = append(values, value.Interface())
			continue
		}
		if fallback, ok := kind.insertDefaults[column]; ok {
			columns = append(columns, column)
			values = append(values, fallback)
		}
	}

	query, args, err := qb.InsertInto(kind.table).
		Columns(columns...).
		Values(values...).
		Suffix("RETURNING " + kind.idColumn).
		ToSQL()
	if err != nil {
		return 0, fmt.Errorf("build %s insert: %w", kind.table, err)
	}

	var id int64
	if err := sqlx.GetContext(ctx, ex, &id, query, args...); err != nil {
		if isUniqueViolation(err) {
			return 0, err
		}
		return 0, fmt.Errorf("insert %s: %w", kind.table, err)
	}

	return id, nil
}
