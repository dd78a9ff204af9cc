package usecase

import (
	"context"
	"fmt"
	"math"
	"strings"

	"github.com/aresdata/esports-etl/internal/domain/tournament"
	"github.com/aresdata/esports-etl/internal/platform/field"
)

// Tier contribution to the tournament weight. Numeric tiers are the
// provider's liquipediatier values.
var tierScores = map[string]float64{
	"1":          100,
	"2":          75,
	"3":          50,
	"4":          25,
	"qualifier":  15,
	"show match": 10,
}

const (
	defaultTierScore = 10
	tierShare        = 0.70
	prizeShare       = 0.30
)

func tierScore(tier string) float64 {
	if score, ok := tierScores[strings.ToLower(strings.TrimSpace(tier))]; ok {
		return score
	}
	return defaultTierScore
}

// tournamentWeight blends tier and prize pool into one comparable number.
// The prize is min-max normalized against the game's fetched batch and
// clamped to [0,1]; when every tournament has the same prize, a positive
// prize still counts as 1. Rounded to two decimals.
func tournamentWeight(tier string, prize, minPrize, maxPrize float64) float64 {
	normalized := 0.0
	switch {
	case maxPrize > minPrize:
		normalized = (prize - minPrize) / (maxPrize - minPrize)
		if normalized < 0 {
			normalized = 0
		}
		if normalized > 1 {
			normalized = 1
		}
	case prize > 0:
		normalized = 1
	}

	weight := tierScore(tier)*tierShare + normalized*100*prizeShare

	return math.Round(weight*100) / 100
}

func (s *SyncService) syncTournaments(ctx context.Context, g GameConfig) error {
	ctx, span := startUsecaseSpan(ctx, "usecase.SyncService.syncTournaments")
	defer span.End()

	fetched, err := s.provider.FetchTournaments(ctx, g.Wiki, g.FetchSince)
	if err != nil {
		return fmt.Errorf("fetch tournaments wiki=%s: %w", g.Wiki, err)
	}

	// Rows without both dates cannot be resolved against later, and future
	// tournaments have nothing to sync yet.
	now := s.now().UTC()
	kept := make([]ExternalTournament, 0, len(fetched))
	for _, item := range fetched {
		if strings.TrimSpace(item.Name) == "" {
			continue
		}
		if item.StartDate == nil || item.EndDate == nil {
			continue
		}
		if item.StartDate.After(now) {
			continue
		}
		kept = append(kept, item)
	}

	minPrize, maxPrize := prizeRange(kept)

	err = s.uow.Within(ctx, func(repos Repositories) error {
		for _, item := range kept {
			prize := 0.0
			prizeAttr := field.Value{}
			if item.PrizePool != nil {
				prize = *item.PrizePool
				prizeAttr = field.Of(prize)
			}

			attrs := tournament.Attrs{
				EndDate:   field.OfDate(item.EndDate),
				Tier:      field.OfString(item.Tier),
				Type:      field.OfString(item.Type),
				Region:    field.OfString(item.Region),
				Location:  field.OfString(item.Location),
				PrizePool: prizeAttr,
				Weight:    field.Of(tournamentWeight(item.Tier, prize, minPrize, maxPrize)),
			}
			if _, err := repos.Tournaments.Reconcile(ctx, strings.TrimSpace(item.Name), g.ID, item.StartDate, attrs); err != nil {
				return fmt.Errorf("reconcile tournament %s: %w", item.Name, err)
			}
		}

		return nil
	})
	if err != nil {
		return err
	}

	s.logger.InfoContext(ctx, "tournaments synced",
		"game_id", g.ID,
		"fetched", len(fetched),
		"synced", len(kept),
		"dropped", len(fetched)-len(kept),
	)

	return nil
}

func prizeRange(items []ExternalTournament) (float64, float64) {
	minPrize, maxPrize := 0.0, 0.0
	first := true
	for _, item := range items {
		prize := 0.0
		if item.PrizePool != nil {
			prize = *item.PrizePool
		}
		if first {
			minPrize, maxPrize = prize, prize
			first = false
			continue
		}
		if prize < minPrize {
			minPrize = prize
		}
		if prize > maxPrize {
			maxPrize = prize
		}
	}

	return minPrize, maxPrize
}
