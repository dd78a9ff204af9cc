package memory

import (
	"context"

	"github.com/aresdata/esports-etl/internal/usecase"
)

// UnitOfWork passes its fixed repository set straight through; there is no
// transaction to commit or roll back in memory.
type UnitOfWork struct {
	repos usecase.Repositories
}

func NewUnitOfWork(repos usecase.Repositories) *UnitOfWork {
	return &UnitOfWork{repos: repos}
}

func (u *UnitOfWork) Within(_ context.Context, fn func(repos usecase.Repositories) error) error {
	return fn(u.repos)
}
