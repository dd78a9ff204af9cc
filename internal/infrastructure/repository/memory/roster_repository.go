package memory

import (
	"context"
	"sync"
	"time"

	"github.com/aresdata/esports-etl/internal/domain/roster"
)

type rosterKey struct {
	teamID   int64
	playerID int64
	joinDate string
}

// RosterRepository resolves a team's game through the team repository it was
// built with, mirroring the foreign key the SQL truncate relies on.
type RosterRepository struct {
	mu      sync.RWMutex
	teams   *TeamRepository
	entries map[rosterKey]roster.Entry
}

func NewRosterRepository(teams *TeamRepository) *RosterRepository {
	return &RosterRepository{teams: teams, entries: make(map[rosterKey]roster.Entry)}
}

func (r *RosterRepository) TruncateForGame(_ context.Context, gameID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for key := range r.entries {
		if game, ok := r.teams.gameOf(key.teamID); ok && game == gameID {
			delete(r.entries, key)
		}
	}

	return nil
}

func (r *RosterRepository) BulkInsert(_ context.Context, entries []roster.Entry) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, e := range entries {
		if err := e.Validate(); err != nil {
			return 0, err
		}
		key := rosterKey{teamID: e.TeamID, playerID: e.PlayerID, joinDate: e.JoinDate.Format(time.DateOnly)}
		if _, ok := r.entries[key]; ok {
			continue
		}
		r.entries[key] = e
	}

	return len(entries), nil
}

func (r *RosterRepository) Entries() []roster.Entry {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]roster.Entry, 0, len(r.entries))
	for _, e := range r.entries {
		out = append(out, e)
	}

	return out
}
