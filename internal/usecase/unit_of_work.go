package usecase

import (
	"context"

	"github.com/aresdata/esports-etl/internal/domain/game"
	"github.com/aresdata/esports-etl/internal/domain/matchseries"
	"github.com/aresdata/esports-etl/internal/domain/player"
	"github.com/aresdata/esports-etl/internal/domain/roster"
	"github.com/aresdata/esports-etl/internal/domain/team"
	"github.com/aresdata/esports-etl/internal/domain/tournament"
)

// Repositories bundles every persistence port a sync stage can touch. Inside
// Within, all of them share one transaction.
type Repositories struct {
	Games       game.Repository
	Teams       team.Repository
	Players     player.Repository
	Tournaments tournament.Repository
	Rosters     roster.Repository
	MatchSeries matchseries.Repository
}

// UnitOfWork runs fn atomically: every repository write inside fn commits or
// rolls back together. A non-nil error from fn aborts the transaction.
type UnitOfWork interface {
	Within(ctx context.Context, fn func(repos Repositories) error) error
}
