package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/aresdata/esports-etl/internal/domain/game"
)

// GameRepository persists supported titles. Games come from operator
// configuration, not from the provider, so Ensure never updates rows.
type GameRepository struct {
	ex sqlx.ExtContext
}

func NewGameRepository(ex sqlx.ExtContext) *GameRepository {
	return &GameRepository{ex: ex}
}

func (r *GameRepository) Ensure(ctx context.Context, g game.Game) error {
	if err := g.Validate(); err != nil {
		return err
	}

	query, args, err := sqlx.Named(`
INSERT INTO games (game_id, game_name)
VALUES (:game_id, :game_name)
ON CONFLICT (game_id) DO NOTHING`, map[string]any{
		"game_id":   g.ID,
		"game_name": g.Name,
	})
	if err != nil {
		return fmt.Errorf("bind game %s query: %w", g.ID, err)
	}

	query = r.ex.Rebind(query)
	if _, err := r.ex.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("ensure game %s: %w", g.ID, err)
	}

	return nil
}
