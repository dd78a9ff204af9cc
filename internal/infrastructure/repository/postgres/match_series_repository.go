package postgres

import (
	"context"

	"github.com/jmoiron/sqlx"

	"github.com/aresdata/esports-etl/internal/domain/matchseries"
)

var matchSeriesColumns = []string{
	"series_external_id", "tournament_id", "game_id", "series_date",
	"team1_id", "team2_id", "team1_score", "team2_score",
	"winner_team_id", "best_of", "is_forfeit", "tier",
}

// matchSeriesConflictClause refreshes every non-key column, so a finished
// series re-fetched with corrected scores overwrites the stale row.
const matchSeriesConflictClause = `ON CONFLICT (series_external_id) DO UPDATE SET
tournament_id = EXCLUDED.tournament_id,
game_id = EXCLUDED.game_id,
series_date = EXCLUDED.series_date,
team1_id = EXCLUDED.team1_id,
team2_id = EXCLUDED.team2_id,
team1_score = EXCLUDED.team1_score,
team2_score = EXCLUDED.team2_score,
winner_team_id = EXCLUDED.winner_team_id,
best_of = EXCLUDED.best_of,
is_forfeit = EXCLUDED.is_forfeit,
tier = EXCLUDED.tier`

type MatchSeriesRepository struct {
	ex sqlx.ExtContext
}

func NewMatchSeriesRepository(ex sqlx.ExtContext) *MatchSeriesRepository {
	return &MatchSeriesRepository{ex: ex}
}

func (r *MatchSeriesRepository) BulkUpsert(ctx context.Context, series []matchseries.Series) (int, error) {
	rows := make([]map[string]any, 0, len(series))
	for _, s := range series {
		if err := s.Validate(); err != nil {
			return 0, err
		}
		row := map[string]any{
			"series_external_id": s.ExternalID,
			"tournament_id":      s.TournamentID,
			"game_id":            s.GameID,
			"team1_id":           s.Team1ID,
			"team2_id":           s.Team2ID,
			"best_of":            s.BestOf,
			"is_forfeit":         s.IsForfeit,
		}
		if s.PlayedAt != nil {
			row["series_date"] = *s.PlayedAt
		}
		if s.Team1Score != nil {
			row["team1_score"] = *s.Team1Score
		}
		if s.Team2Score != nil {
			row["team2_score"] = *s.Team2Score
		}
		if s.WinnerTeamID != nil {
			row["winner_team_id"] = *s.WinnerTeamID
		}
		if s.Tier != "" {
			row["tier"] = s.Tier
		}
		rows = append(rows, row)
	}

	return bulkUpsert(ctx, r.ex, "match_series", matchSeriesColumns, rows, matchSeriesConflictClause)
}
