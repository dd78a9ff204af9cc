package memory

import (
	"context"
	"sync"
	"time"

	"github.com/aresdata/esports-etl/internal/domain/player"
)

// PlayerState is an inspectable copy of a stored player row.
type PlayerState struct {
	ID          int64
	Nickname    string
	GameID      string
	BirthDate   *time.Time
	Nationality *string
	Status      *string
	Role        *string
	Type        *string
}

type playerKey struct {
	nickname string
	gameID   string
}

type PlayerRepository struct {
	mu      sync.RWMutex
	nextID  int64
	players map[playerKey]*PlayerState
}

func NewPlayerRepository() *PlayerRepository {
	return &PlayerRepository{players: make(map[playerKey]*PlayerState)}
}

func (r *PlayerRepository) Reconcile(_ context.Context, nickname, gameID string, attrs player.Attrs) (int64, error) {
	if err := player.ValidateKey(nickname, gameID); err != nil {
		return 0, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	key := playerKey{nickname: nickname, gameID: gameID}
	row, ok := r.players[key]
	if !ok {
		r.nextID++
		row = &PlayerState{ID: r.nextID, Nickname: nickname, GameID: gameID}
		r.players[key] = row
	}

	applyDate(&row.BirthDate, attrs.BirthDate)
	applyString(&row.Nationality, attrs.Nationality)
	applyString(&row.Status, attrs.Status)
	applyString(&row.Role, attrs.Role)
	applyString(&row.Type, attrs.Type)

	return row.ID, nil
}

func (r *PlayerRepository) Find(nickname, gameID string) (PlayerState, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if row, ok := r.players[playerKey{nickname: nickname, gameID: gameID}]; ok {
		return *row, true
	}

	return PlayerState{}, false
}

func (r *PlayerRepository) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return len(r.players)
}
