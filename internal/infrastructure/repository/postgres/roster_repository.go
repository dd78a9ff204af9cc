package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/aresdata/esports-etl/internal/domain/roster"
)

var rosterColumns = []string{
	"team_id", "player_id", "player_nickname", "join_date", "leave_date",
	"is_substitute", "role_during_tenure", "status",
}

type RosterRepository struct {
	ex sqlx.ExtContext
}

func NewRosterRepository(ex sqlx.ExtContext) *RosterRepository {
	return &RosterRepository{ex: ex}
}

// TruncateForGame removes every roster entry for teams of one game. Roster
// snapshots are rebuilt wholesale each sync rather than diffed.
func (r *RosterRepository) TruncateForGame(ctx context.Context, gameID string) error {
	if gameID == "" {
		return fmt.Errorf("game id is required")
	}

	query := `DELETE FROM team_rosters WHERE team_id IN (SELECT team_id FROM teams WHERE game_id = $1)`
	if _, err := r.ex.ExecContext(ctx, query, gameID); err != nil {
		return fmt.Errorf("truncate rosters for game %s: %w", gameID, err)
	}

	return nil
}

func (r *RosterRepository) BulkInsert(ctx context.Context, entries []roster.Entry) (int, error) {
	rows := make([]map[string]any, 0, len(entries))
	for _, e := range entries {
		if err := e.Validate(); err != nil {
			return 0, err
		}
		row := map[string]any{
			"team_id":            e.TeamID,
			"player_id":          e.PlayerID,
			"join_date":          e.JoinDate,
			"is_substitute":      e.IsSubstitute,
			"role_during_tenure": e.Role,
			"status":             e.Status,
		}
		if e.Nickname != "" {
			row["player_nickname"] = e.Nickname
		}
		if e.LeaveDate != nil {
			row["leave_date"] = *e.LeaveDate
		}
		rows = append(rows, row)
	}

	return bulkUpsert(ctx, r.ex, "team_rosters", rosterColumns, rows,
		"ON CONFLICT (team_id, player_id, join_date) DO NOTHING")
}
