package usecase

import (
	"context"
	"fmt"
	"strings"

	"github.com/aresdata/esports-etl/internal/domain/matchseries"
)

// syncSeries loads finished series inside the game's date window. Rows that
// cannot be anchored to a stored tournament and two stored teams are skipped,
// never guessed.
func (s *SyncService) syncSeries(ctx context.Context, g GameConfig) error {
	ctx, span := startUsecaseSpan(ctx, "usecase.SyncService.syncSeries")
	defer span.End()

	fetched, err := s.provider.FetchMatchSeries(ctx, g.Wiki, g.FetchSince, s.now().UTC())
	if err != nil {
		return fmt.Errorf("fetch match series wiki=%s: %w", g.Wiki, err)
	}

	items := dedupeSeries(fetched)

	var rows []matchseries.Series
	skipped := 0
	err = s.uow.Within(ctx, func(repos Repositories) error {
		resolver := newTournamentResolver(repos.Tournaments, s.logger)
		for _, item := range items {
			if item.PlayedAt == nil || item.BestOf <= 0 {
				skipped++
				continue
			}

			tourney, found, err := resolver.Resolve(ctx, item.TournamentName, g.ID, *item.PlayedAt)
			if err != nil {
				return err
			}
			if !found {
				s.logger.WarnContext(ctx, "series skipped: tournament not resolved",
					"game_id", g.ID,
					"series_external_id", item.ExternalID,
					"tournament_name", item.TournamentName,
				)
				skipped++
				continue
			}

			team1ID, ok1, err := s.lookupTeamID(ctx, repos.Teams, item.Opponent1, g.ID)
			if err != nil {
				return err
			}
			team2ID, ok2, err := s.lookupTeamID(ctx, repos.Teams, item.Opponent2, g.ID)
			if err != nil {
				return err
			}
			if !ok1 || !ok2 {
				skipped++
				continue
			}

			var winnerID *int64
			switch strings.TrimSpace(item.Winner) {
			case "1":
				winnerID = &team1ID
			case "2":
				winnerID = &team2ID
			}

			walkover := strings.TrimSpace(item.Walkover)

			rows = append(rows, matchseries.Series{
				ExternalID:   item.ExternalID,
				TournamentID: tourney.ID,
				GameID:       g.ID,
				PlayedAt:     item.PlayedAt,
				Team1ID:      team1ID,
				Team2ID:      team2ID,
				Team1Score:   item.Score1,
				Team2Score:   item.Score2,
				WinnerTeamID: winnerID,
				BestOf:       item.BestOf,
				IsForfeit:    walkover == "1" || walkover == "2",
				Tier:         strings.TrimSpace(item.Tier),
			})
		}

		_, err := repos.MatchSeries.BulkUpsert(ctx, rows)
		return err
	})
	if err != nil {
		return err
	}

	s.logger.InfoContext(ctx, "match series synced",
		"game_id", g.ID,
		"fetched", len(fetched),
		"upserted", len(rows),
		"skipped", skipped,
	)

	return nil
}

// dedupeSeries keeps the first occurrence per external id. The provider can
// return the same series twice when a page boundary shifts mid-fetch.
func dedupeSeries(items []ExternalSeries) []ExternalSeries {
	if len(items) == 0 {
		return nil
	}

	seen := make(map[string]struct{}, len(items))
	out := make([]ExternalSeries, 0, len(items))
	for _, item := range items {
		id := strings.TrimSpace(item.ExternalID)
		if id == "" {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, item)
	}

	return out
}
