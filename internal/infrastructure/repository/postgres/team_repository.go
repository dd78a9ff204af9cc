package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/aresdata/esports-etl/internal/domain/team"
	"github.com/aresdata/esports-etl/internal/platform/field"
	qb "github.com/aresdata/esports-etl/internal/platform/querybuilder"
)

var teamKind = entityKind{
	table:          "teams",
	idColumn:       "team_id",
	keyColumns:     []string{"team_name", "game_id"},
	mutableColumns: []string{"region", "location", "is_disbanded"},
	insertDefaults: map[string]any{"is_disbanded": false},
}

type TeamRepository struct {
	ex sqlx.ExtContext
}

func NewTeamRepository(ex sqlx.ExtContext) *TeamRepository {
	return &TeamRepository{ex: ex}
}

func (r *TeamRepository) Reconcile(ctx context.Context, name, gameID string, attrs team.Attrs) (int64, error) {
	if err := team.ValidateKey(name, gameID); err != nil {
		return 0, err
	}

	return reconcile(ctx, r.ex, teamKind, []any{name, gameID}, map[string]field.Value{
		"region":       attrs.Region,
		"location":     attrs.Location,
		"is_disbanded": attrs.Disbanded,
	})
}

func (r *TeamRepository) FindIDByName(ctx context.Context, name, gameID string) (int64, bool, error) {
	if err := team.ValidateKey(name, gameID); err != nil {
		return 0, false, err
	}

	query, args, err := qb.Select("team_id").
		From("teams").
		Where(qb.Eq("team_name", name), qb.Eq("game_id", gameID)).
		ToSQL()
	if err != nil {
		return 0, false, fmt.Errorf("build team lookup: %w", err)
	}

	var id int64
	if err := sqlx.GetContext(ctx, r.ex, &id, query, args...); err != nil {
		if isNotFound(err) {
			return 0, false, nil
		}
		return 0, false, fmt.Errorf("select team by name: %w", err)
	}

	return id, true, nil
}
