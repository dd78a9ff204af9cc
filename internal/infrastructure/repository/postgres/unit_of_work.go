package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/aresdata/esports-etl/internal/usecase"
)

// UnitOfWork opens one transaction per Within call and hands the callback a
// repository set bound to that transaction.
type UnitOfWork struct {
	db *sqlx.DB
}

func NewUnitOfWork(db *sqlx.DB) *UnitOfWork {
	return &UnitOfWork{db: db}
}

func (u *UnitOfWork) Within(ctx context.Context, fn func(repos usecase.Repositories) error) error {
	tx, err := u.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // no-op after commit

	if err := fn(newRepositories(tx)); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}

	return nil
}

func newRepositories(ex sqlx.ExtContext) usecase.Repositories {
	return usecase.Repositories{
		Games:       NewGameRepository(ex),
		Teams:       NewTeamRepository(ex),
		Players:     NewPlayerRepository(ex),
		Tournaments: NewTournamentRepository(ex),
		Rosters:     NewRosterRepository(ex),
		MatchSeries: NewMatchSeriesRepository(ex),
	}
}
