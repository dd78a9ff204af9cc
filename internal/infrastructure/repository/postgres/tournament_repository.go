package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/aresdata/esports-etl/internal/domain/tournament"
	"github.com/aresdata/esports-etl/internal/platform/field"
	qb "github.com/aresdata/esports-etl/internal/platform/querybuilder"
)

var tournamentKind = entityKind{
	table:      "tournaments",
	idColumn:   "tournament_id",
	keyColumns: []string{"tournament_name", "game_id", "start_date"},
	mutableColumns: []string{
		"end_date", "tier", "tournament_type", "region", "location",
		"prize_pool", "tournament_weight",
	},
}

type tournamentRow struct {
	ID        int64      `db:"tournament_id"`
	Name      string     `db:"tournament_name"`
	GameID    string     `db:"game_id"`
	Tier      *string    `db:"tier"`
	StartDate *time.Time `db:"start_date"`
	EndDate   *time.Time `db:"end_date"`
}

func (r tournamentRow) toDomain() tournament.Tournament {
	t := tournament.Tournament{
		ID:        r.ID,
		Name:      r.Name,
		GameID:    r.GameID,
		StartDate: r.StartDate,
		EndDate:   r.EndDate,
	}
	if r.Tier != nil {
		t.Tier = *r.Tier
	}
	return t
}

const tournamentColumns = "tournament_id, tournament_name, game_id, tier, start_date, end_date"

type TournamentRepository struct {
	ex sqlx.ExtContext
}

func NewTournamentRepository(ex sqlx.ExtContext) *TournamentRepository {
	return &TournamentRepository{ex: ex}
}

func (r *TournamentRepository) Reconcile(ctx context.Context, name, gameID string, startDate *time.Time, attrs tournament.Attrs) (int64, error) {
	if err := tournament.ValidateKey(name, gameID); err != nil {
		return 0, err
	}

	// A nil start date is part of the natural key: the lookup uses IS NULL so
	// a dateless edition cannot spawn duplicates across syncs.
	var startKey any
	if startDate != nil {
		startKey = *startDate
	}

	return reconcile(ctx, r.ex, tournamentKind, []any{name, gameID, startKey}, map[string]field.Value{
		"end_date":          attrs.EndDate,
		"tier":              attrs.Tier,
		"tournament_type":   attrs.Type,
		"region":            attrs.Region,
		"location":          attrs.Location,
		"prize_pool":        attrs.PrizePool,
		"tournament_weight": attrs.Weight,
	})
}

func (r *TournamentRepository) FindActiveOn(ctx context.Context, name, gameID string, on time.Time) ([]tournament.Tournament, error) {
	if err := tournament.ValidateKey(name, gameID); err != nil {
		return nil, err
	}

	day := on.Format(time.DateOnly)
	query, args, err := qb.Select(tournamentColumns).
		From("tournaments").
		Where(
			qb.Eq("tournament_name", name),
			qb.Eq("game_id", gameID),
			qb.Lte("start_date", day),
			qb.Gte("end_date", day),
		).
		OrderBy("start_date DESC").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build active tournament lookup: %w", err)
	}

	var rows []tournamentRow
	if err := sqlx.SelectContext(ctx, r.ex, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("select tournaments active on %s: %w", day, err)
	}

	out := make([]tournament.Tournament, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toDomain())
	}
	return out, nil
}

func (r *TournamentRepository) FindNearest(ctx context.Context, name, gameID string, on time.Time) (tournament.Tournament, bool, error) {
	if err := tournament.ValidateKey(name, gameID); err != nil {
		return tournament.Tournament{}, false, err
	}

	query := `
SELECT ` + tournamentColumns + `
FROM tournaments
WHERE tournament_name = $1 AND game_id = $2 AND start_date IS NOT NULL
ORDER BY ABS(start_date - $3::date) ASC
LIMIT 1`

	var row tournamentRow
	if err := sqlx.GetContext(ctx, r.ex, &row, query, name, gameID, on.Format(time.DateOnly)); err != nil {
		if isNotFound(err) {
			return tournament.Tournament{}, false, nil
		}
		return tournament.Tournament{}, false, fmt.Errorf("select nearest tournament: %w", err)
	}

	return row.toDomain(), true, nil
}
