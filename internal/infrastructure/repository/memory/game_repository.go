// Package memory provides map-backed repositories with the same reconcile
// semantics as the Postgres implementations, for tests and dry runs.
package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/aresdata/esports-etl/internal/domain/game"
)

type GameRepository struct {
	mu    sync.RWMutex
	games map[string]game.Game
}

func NewGameRepository() *GameRepository {
	return &GameRepository{games: make(map[string]game.Game)}
}

func (r *GameRepository) Ensure(_ context.Context, g game.Game) error {
	if err := g.Validate(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.games[g.ID]; !ok {
		r.games[g.ID] = g
	}

	return nil
}

func (r *GameRepository) All() []game.Game {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]game.Game, 0, len(r.games))
	for _, g := range r.games {
		out = append(out, g)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })

	return out
}
