package memory

import (
	"context"
	"sync"
	"time"

	"github.com/aresdata/esports-etl/internal/domain/tournament"
)

// TournamentState is an inspectable copy of a stored tournament row.
type TournamentState struct {
	ID        int64
	Name      string
	GameID    string
	StartDate *time.Time
	EndDate   *time.Time
	Tier      *string
	Type      *string
	Region    *string
	Location  *string
	PrizePool *float64
	Weight    *float64
}

type tournamentKey struct {
	name      string
	gameID    string
	startDate string // date string, empty for nil
}

type TournamentRepository struct {
	mu          sync.RWMutex
	nextID      int64
	tournaments map[tournamentKey]*TournamentState
}

func NewTournamentRepository() *TournamentRepository {
	return &TournamentRepository{tournaments: make(map[tournamentKey]*TournamentState)}
}

func (r *TournamentRepository) Reconcile(_ context.Context, name, gameID string, startDate *time.Time, attrs tournament.Attrs) (int64, error) {
	if err := tournament.ValidateKey(name, gameID); err != nil {
		return 0, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	key := tournamentKey{name: name, gameID: gameID}
	if startDate != nil {
		key.startDate = startDate.Format(time.DateOnly)
	}

	row, ok := r.tournaments[key]
	if !ok {
		r.nextID++
		row = &TournamentState{ID: r.nextID, Name: name, GameID: gameID}
		if startDate != nil {
			day := dateOnly(*startDate)
			row.StartDate = &day
		}
		r.tournaments[key] = row
	}

	applyDate(&row.EndDate, attrs.EndDate)
	applyString(&row.Tier, attrs.Tier)
	applyString(&row.Type, attrs.Type)
	applyString(&row.Region, attrs.Region)
	applyString(&row.Location, attrs.Location)
	applyFloat(&row.PrizePool, attrs.PrizePool)
	applyFloat(&row.Weight, attrs.Weight)

	return row.ID, nil
}

func (r *TournamentRepository) FindActiveOn(_ context.Context, name, gameID string, on time.Time) ([]tournament.Tournament, error) {
	if err := tournament.ValidateKey(name, gameID); err != nil {
		return nil, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	day := dateOnly(on)
	var out []tournament.Tournament
	for _, row := range r.tournaments {
		if row.Name != name || row.GameID != gameID {
			continue
		}
		if row.StartDate == nil || row.EndDate == nil {
			continue
		}
		if day.Before(*row.StartDate) || day.After(*row.EndDate) {
			continue
		}
		out = append(out, row.toDomain())
	}

	return out, nil
}

func (r *TournamentRepository) FindNearest(_ context.Context, name, gameID string, on time.Time) (tournament.Tournament, bool, error) {
	if err := tournament.ValidateKey(name, gameID); err != nil {
		return tournament.Tournament{}, false, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	day := dateOnly(on)
	var best *TournamentState
	var bestDiff time.Duration
	for _, row := range r.tournaments {
		if row.Name != name || row.GameID != gameID || row.StartDate == nil {
			continue
		}
		diff := day.Sub(*row.StartDate)
		if diff < 0 {
			diff = -diff
		}
		switch {
		case best == nil, diff < bestDiff:
			best, bestDiff = row, diff
		case diff == bestDiff && row.StartDate.After(*best.StartDate):
			best = row
		}
	}
	if best == nil {
		return tournament.Tournament{}, false, nil
	}

	return best.toDomain(), true, nil
}

func (r *TournamentRepository) Find(name, gameID string, startDate *time.Time) (TournamentState, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	key := tournamentKey{name: name, gameID: gameID}
	if startDate != nil {
		key.startDate = startDate.Format(time.DateOnly)
	}
	if row, ok := r.tournaments[key]; ok {
		return *row, true
	}

	return TournamentState{}, false
}

func (r *TournamentRepository) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return len(r.tournaments)
}

func (s *TournamentState) toDomain() tournament.Tournament {
	t := tournament.Tournament{
		ID:        s.ID,
		Name:      s.Name,
		GameID:    s.GameID,
		StartDate: s.StartDate,
		EndDate:   s.EndDate,
	}
	if s.Tier != nil {
		t.Tier = *s.Tier
	}
	return t
}

func dateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
