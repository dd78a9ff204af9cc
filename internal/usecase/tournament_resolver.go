package usecase

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/aresdata/esports-etl/internal/domain/tournament"
	"github.com/aresdata/esports-etl/internal/platform/logging"
)

// Stage suffixes providers append to the parent event name. Stripping them
// yields candidate parent tournament names, most specific first.
var stageSuffixPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)\s*:\s*(Opening Stage|Challengers Stage|Legends Stage|Champions Stage|Playoffs|Group Stage|Finals|Qualifier|Main Event)\s*$`),
	regexp.MustCompile(`(?i)\s*-\s*(Opening Stage|Challengers Stage|Legends Stage|Champions Stage|Playoffs|Group Stage|Finals|Qualifier|Main Event)\s*$`),
	regexp.MustCompile(`(?i)\s+Play-In\s*$`),
	regexp.MustCompile(`(?i)\s+Last Chance Qualifier\s*$`),
	regexp.MustCompile(`(?i)\s+LCQ\s*$`),
	regexp.MustCompile(`(?i)\s+Regional Finals\s*$`),
	regexp.MustCompile(`(?i)\s+Stage [1-3]\s*$`),
	regexp.MustCompile(`(?i)\s+Phase [1-3]\s*$`),
}

// tournamentNameCandidates lists names to try when resolving a series to its
// tournament: the raw name first, then progressively stripped variants, then
// the prefixes before the first ":" and " - ". Ordered, de-duplicated.
func tournamentNameCandidates(raw string) []string {
	name := strings.TrimSpace(strings.ReplaceAll(raw, "_", " "))
	if name == "" {
		return nil
	}

	var out []string
	seen := make(map[string]struct{})
	add := func(candidate string) {
		candidate = strings.TrimSpace(candidate)
		if candidate == "" {
			return
		}
		if _, ok := seen[candidate]; ok {
			return
		}
		seen[candidate] = struct{}{}
		out = append(out, candidate)
	}

	add(name)

	current := name
	for {
		next := current
		for _, pattern := range stageSuffixPatterns {
			if stripped := strings.TrimSpace(pattern.ReplaceAllString(next, "")); stripped != next {
				next = stripped
				break
			}
		}
		if next == current || next == "" {
			break
		}
		add(next)
		current = next
	}

	if idx := strings.Index(name, ":"); idx > 0 {
		add(name[:idx])
	}
	if idx := strings.Index(name, " - "); idx > 0 {
		add(name[:idx])
	}

	return out
}

// tournamentResolver matches a provider-side tournament name and match date
// to a stored tournament edition.
type tournamentResolver struct {
	tournaments tournament.Repository
	logger      *logging.Logger
}

func newTournamentResolver(tournaments tournament.Repository, logger *logging.Logger) *tournamentResolver {
	if logger == nil {
		logger = logging.Default()
	}

	return &tournamentResolver{tournaments: tournaments, logger: logger}
}

// Resolve tries each name candidate against tournaments whose date range
// contains playedOn (boundaries included). Several matches → the latest start
// date wins. When no candidate contains the date, it falls back to the
// closest start date for the raw name. A miss is not an error: the caller
// skips the row.
func (r *tournamentResolver) Resolve(ctx context.Context, rawName, gameID string, playedOn time.Time) (tournament.Tournament, bool, error) {
	candidates := tournamentNameCandidates(rawName)
	if len(candidates) == 0 {
		return tournament.Tournament{}, false, nil
	}

	for _, candidate := range candidates {
		matches, err := r.tournaments.FindActiveOn(ctx, candidate, gameID, playedOn)
		if err != nil {
			return tournament.Tournament{}, false, fmt.Errorf("find tournaments active on %s name=%s: %w", playedOn.Format(time.DateOnly), candidate, err)
		}
		if len(matches) == 0 {
			continue
		}

		best := matches[0]
		for _, match := range matches[1:] {
			if laterStart(match, best) {
				best = match
			}
		}
		if len(matches) > 1 {
			r.logger.WarnContext(ctx,
				"several tournaments contain the match date, keeping the latest start",
				"game_id", gameID,
				"name", candidate,
				"match_count", len(matches),
				"kept_tournament_id", best.ID,
			)
		}

		return best, true, nil
	}

	nearest, found, err := r.tournaments.FindNearest(ctx, candidates[0], gameID, playedOn)
	if err != nil {
		return tournament.Tournament{}, false, fmt.Errorf("find nearest tournament name=%s: %w", candidates[0], err)
	}
	if !found {
		return tournament.Tournament{}, false, nil
	}

	r.logger.WarnContext(ctx,
		"no tournament contains the match date, resolved by nearest start date",
		"game_id", gameID,
		"name", candidates[0],
		"tournament_id", nearest.ID,
	)

	return nearest, true, nil
}

func laterStart(a, b tournament.Tournament) bool {
	if a.StartDate == nil {
		return false
	}
	if b.StartDate == nil {
		return true
	}
	return a.StartDate.After(*b.StartDate)
}
