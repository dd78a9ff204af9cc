package postgres

import (
	"context"

	"github.com/jmoiron/sqlx"

	"github.com/aresdata/esports-etl/internal/domain/player"
	"github.com/aresdata/esports-etl/internal/platform/field"
)

var playerKind = entityKind{
	table:          "players",
	idColumn:       "player_id",
	keyColumns:     []string{"player_nickname", "game_id"},
	mutableColumns: []string{"birth_date", "nationality", "status", "curr_role", "player_type"},
}

type PlayerRepository struct {
	ex sqlx.ExtContext
}

func NewPlayerRepository(ex sqlx.ExtContext) *PlayerRepository {
	return &PlayerRepository{ex: ex}
}

func (r *PlayerRepository) Reconcile(ctx context.Context, nickname, gameID string, attrs player.Attrs) (int64, error) {
	if err := player.ValidateKey(nickname, gameID); err != nil {
		return 0, err
	}

	return reconcile(ctx, r.ex, playerKind, []any{nickname, gameID}, map[string]field.Value{
		"birth_date":  attrs.BirthDate,
		"nationality": attrs.Nationality,
		"status":      attrs.Status,
		"curr_role":   attrs.Role,
		"player_type": attrs.Type,
	})
}
