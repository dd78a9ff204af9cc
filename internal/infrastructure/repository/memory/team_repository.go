package memory

import (
	"context"
	"sync"

	"github.com/aresdata/esports-etl/internal/domain/team"
)

// TeamState is an inspectable copy of a stored team row.
type TeamState struct {
	ID        int64
	Name      string
	GameID    string
	Region    *string
	Location  *string
	Disbanded bool
}

type teamKey struct {
	name   string
	gameID string
}

type TeamRepository struct {
	mu     sync.RWMutex
	nextID int64
	teams  map[teamKey]*TeamState
}

func NewTeamRepository() *TeamRepository {
	return &TeamRepository{teams: make(map[teamKey]*TeamState)}
}

func (r *TeamRepository) Reconcile(_ context.Context, name, gameID string, attrs team.Attrs) (int64, error) {
	if err := team.ValidateKey(name, gameID); err != nil {
		return 0, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	key := teamKey{name: name, gameID: gameID}
	row, ok := r.teams[key]
	if !ok {
		r.nextID++
		row = &TeamState{ID: r.nextID, Name: name, GameID: gameID}
		r.teams[key] = row
	}

	applyString(&row.Region, attrs.Region)
	applyString(&row.Location, attrs.Location)
	applyBool(&row.Disbanded, attrs.Disbanded)

	return row.ID, nil
}

func (r *TeamRepository) FindIDByName(_ context.Context, name, gameID string) (int64, bool, error) {
	if err := team.ValidateKey(name, gameID); err != nil {
		return 0, false, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	if row, ok := r.teams[teamKey{name: name, gameID: gameID}]; ok {
		return row.ID, true, nil
	}

	return 0, false, nil
}

func (r *TeamRepository) Find(name, gameID string) (TeamState, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if row, ok := r.teams[teamKey{name: name, gameID: gameID}]; ok {
		return *row, true
	}

	return TeamState{}, false
}

func (r *TeamRepository) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return len(r.teams)
}

func (r *TeamRepository) gameOf(teamID int64) (string, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, row := range r.teams {
		if row.ID == teamID {
			return row.GameID, true
		}
	}

	return "", false
}
