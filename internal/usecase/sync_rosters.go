package usecase

import (
	"context"
	"fmt"
	"strings"

	"github.com/aresdata/esports-etl/internal/domain/player"
	"github.com/aresdata/esports-etl/internal/domain/roster"
	"github.com/aresdata/esports-etl/internal/platform/field"
)

// Squad entries with these roles describe staff, not players on the server.
// They still update the player record but never become roster rows.
var staffRoles = map[string]struct{}{
	"coach":           {},
	"head coach":      {},
	"assistant coach": {},
	"manager":         {},
	"general manager": {},
	"analyst":         {},
	"content creator": {},
	"streamer":        {},
}

func isStaffEntry(role, entryType string) bool {
	if strings.EqualFold(strings.TrimSpace(entryType), "staff") {
		return true
	}
	_, ok := staffRoles[strings.ToLower(strings.TrimSpace(role))]

	return ok
}

func isSubstituteRole(role string) bool {
	return strings.Contains(strings.ToLower(role), "sub")
}

// syncRosters rebuilds the game's roster rows from scratch: current squads
// are a snapshot, not an event log, so diffing against stale rows would only
// preserve departures the provider already dropped.
func (s *SyncService) syncRosters(ctx context.Context, g GameConfig) error {
	ctx, span := startUsecaseSpan(ctx, "usecase.SyncService.syncRosters")
	defer span.End()

	entries, err := s.provider.FetchRosterEntries(ctx, g.Wiki)
	if err != nil {
		return fmt.Errorf("fetch roster entries wiki=%s: %w", g.Wiki, err)
	}

	inserted, skipped := 0, 0
	err = s.uow.Within(ctx, func(repos Repositories) error {
		if err := repos.Rosters.TruncateForGame(ctx, g.ID); err != nil {
			return err
		}

		rows := make([]roster.Entry, 0, len(entries))
		for _, item := range entries {
			nickname := strings.TrimSpace(item.Nickname)
			if nickname == "" {
				skipped++
				continue
			}

			// The squad feed often carries fresher role and status data than
			// the player feed, so the player row is updated even when the
			// entry itself is filtered out below.
			playerID, err := repos.Players.Reconcile(ctx, nickname, g.ID, player.Attrs{
				Status: field.OfString(item.Status),
				Role:   field.OfString(item.Role),
				Type:   field.OfString(item.Type),
			})
			if err != nil {
				return fmt.Errorf("reconcile squad player %s: %w", nickname, err)
			}

			if item.JoinDate == nil || isStaffEntry(item.Role, item.Type) {
				skipped++
				continue
			}

			teamName := strings.TrimSpace(item.TeamName)
			if teamName == "" {
				skipped++
				continue
			}
			teamID, found, err := repos.Teams.FindIDByName(ctx, teamName, g.ID)
			if err != nil {
				return fmt.Errorf("lookup squad team %s: %w", teamName, err)
			}
			if !found {
				skipped++
				continue
			}

			rows = append(rows, roster.Entry{
				TeamID:       teamID,
				PlayerID:     playerID,
				Nickname:     nickname,
				JoinDate:     *item.JoinDate,
				LeaveDate:    item.LeaveDate,
				IsSubstitute: isSubstituteRole(item.Role),
				Role:         strings.TrimSpace(item.Role),
				Status:       strings.TrimSpace(item.Status),
			})
		}

		count, err := repos.Rosters.BulkInsert(ctx, rows)
		if err != nil {
			return err
		}
		inserted = count

		return nil
	})
	if err != nil {
		return err
	}

	s.logger.InfoContext(ctx, "rosters rebuilt",
		"game_id", g.ID,
		"fetched", len(entries),
		"inserted", inserted,
		"skipped", skipped,
	)

	return nil
}
