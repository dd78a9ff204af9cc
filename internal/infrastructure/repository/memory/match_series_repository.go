package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/aresdata/esports-etl/internal/domain/matchseries"
)

type MatchSeriesRepository struct {
	mu     sync.RWMutex
	series map[string]matchseries.Series
}

func NewMatchSeriesRepository() *MatchSeriesRepository {
	return &MatchSeriesRepository{series: make(map[string]matchseries.Series)}
}

func (r *MatchSeriesRepository) BulkUpsert(_ context.Context, series []matchseries.Series) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, s := range series {
		if err := s.Validate(); err != nil {
			return 0, err
		}
		r.series[s.ExternalID] = s
	}

	return len(series), nil
}

func (r *MatchSeriesRepository) Get(externalID string) (matchseries.Series, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	s, ok := r.series[externalID]
	return s, ok
}

func (r *MatchSeriesRepository) All() []matchseries.Series {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]matchseries.Series, 0, len(r.series))
	for _, s := range r.series {
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ExternalID < out[j].ExternalID })

	return out
}
