package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/aresdata/esports-etl/internal/domain/game"
	"github.com/aresdata/esports-etl/internal/domain/player"
	"github.com/aresdata/esports-etl/internal/domain/team"
	"github.com/aresdata/esports-etl/internal/platform/cache"
	"github.com/aresdata/esports-etl/internal/platform/field"
	"github.com/aresdata/esports-etl/internal/platform/logging"
)

const (
	StageGames       = "games"
	StageTeams       = "teams"
	StagePlayers     = "players"
	StageTournaments = "tournaments"
	StageRosters     = "rosters"
	StageSeries      = "series"
)

// stageOrder is the dependency order: series needs teams and tournaments,
// rosters need teams and players, everything needs the game row.
var stageOrder = []string{
	StageGames, StageTeams, StagePlayers, StageTournaments, StageRosters, StageSeries,
}

const defaultTeamIDCacheTTL = 15 * time.Minute

// GameConfig is one title the pipeline maintains.
type GameConfig struct {
	// ID is the internal game id, e.g. "cs2".
	ID string
	// Wiki is the provider wiki slug, e.g. "counterstrike".
	Wiki string
	// Name is the display name stored on the game row.
	Name string
	// FetchSince floors tournament start dates and the series date window.
	// Nil means no lower bound.
	FetchSince *time.Time
}

type SyncService struct {
	provider EsportsDataProvider
	uow      UnitOfWork
	teamIDs  *cache.Store
	games    []GameConfig
	now      func() time.Time
	logger   *logging.Logger
}

func NewSyncService(
	provider EsportsDataProvider,
	uow UnitOfWork,
	teamIDs *cache.Store,
	games []GameConfig,
	logger *logging.Logger,
) *SyncService {
	if teamIDs == nil {
		teamIDs = cache.NewStore(defaultTeamIDCacheTTL)
	}
	if logger == nil {
		logger = logging.Default()
	}

	return &SyncService{
		provider: provider,
		uow:      uow,
		teamIDs:  teamIDs,
		games:    games,
		now:      time.Now,
		logger:   logger,
	}
}

// Run executes the requested stages, each stage across every configured game
// before the next stage starts. A failing game is logged and does not stop
// the others; Run returns the collected failures at the end. An empty stage
// list means all stages in dependency order.
func (s *SyncService) Run(ctx context.Context, stages []string) error {
	ctx, span := startUsecaseSpan(ctx, "usecase.SyncService.Run")
	defer span.End()

	if s.provider == nil || s.uow == nil {
		return fmt.Errorf("%w: sync service is not fully configured", ErrDependencyUnavailable)
	}
	if len(s.games) == 0 {
		return fmt.Errorf("%w: no games configured", ErrInvalidInput)
	}
	for _, g := range s.games {
		if strings.TrimSpace(g.ID) == "" || strings.TrimSpace(g.Wiki) == "" {
			return fmt.Errorf("%w: game config needs id and wiki, got id=%q wiki=%q", ErrInvalidInput, g.ID, g.Wiki)
		}
	}

	ordered, err := normalizeStages(stages)
	if err != nil {
		return err
	}

	var failures []error
	for _, stage := range ordered {
		for _, g := range s.games {
			if err := s.runStage(ctx, stage, g); err != nil {
				s.logger.ErrorContext(ctx, "sync stage failed",
					"stage", stage,
					"game_id", g.ID,
					"error", err,
				)
				failures = append(failures, fmt.Errorf("stage %s game %s: %w", stage, g.ID, err))
			}
		}
	}

	return errors.Join(failures...)
}

func (s *SyncService) runStage(ctx context.Context, stage string, g GameConfig) error {
	switch stage {
	case StageGames:
		return s.ensureGame(ctx, g)
	case StageTeams:
		return s.syncTeams(ctx, g)
	case StagePlayers:
		return s.syncPlayers(ctx, g)
	case StageTournaments:
		return s.syncTournaments(ctx, g)
	case StageRosters:
		return s.syncRosters(ctx, g)
	case StageSeries:
		return s.syncSeries(ctx, g)
	default:
		return fmt.Errorf("%w: unknown stage %q", ErrInvalidInput, stage)
	}
}

func normalizeStages(requested []string) ([]string, error) {
	if len(requested) == 0 {
		return stageOrder, nil
	}

	want := make(map[string]bool, len(requested))
	for _, stage := range requested {
		stage = strings.ToLower(strings.TrimSpace(stage))
		known := false
		for _, candidate := range stageOrder {
			if stage == candidate {
				known = true
				break
			}
		}
		if !known {
			return nil, fmt.Errorf("%w: unknown stage %q", ErrInvalidInput, stage)
		}
		want[stage] = true
	}

	out := make([]string, 0, len(want))
	for _, stage := range stageOrder {
		if want[stage] {
			out = append(out, stage)
		}
	}

	return out, nil
}

func (s *SyncService) ensureGame(ctx context.Context, g GameConfig) error {
	ctx, span := startUsecaseSpan(ctx, "usecase.SyncService.ensureGame")
	defer span.End()

	name := strings.TrimSpace(g.Name)
	if name == "" {
		name = g.ID
	}

	return s.uow.Within(ctx, func(repos Repositories) error {
		return repos.Games.Ensure(ctx, game.Game{ID: g.ID, Name: name})
	})
}

func (s *SyncService) syncTeams(ctx context.Context, g GameConfig) error {
	ctx, span := startUsecaseSpan(ctx, "usecase.SyncService.syncTeams")
	defer span.End()

	teams, err := s.provider.FetchTeams(ctx, g.Wiki)
	if err != nil {
		return fmt.Errorf("fetch teams wiki=%s: %w", g.Wiki, err)
	}

	synced := 0
	err = s.uow.Within(ctx, func(repos Repositories) error {
		for _, item := range teams {
			name := strings.TrimSpace(item.Name)
			if name == "" {
				continue
			}

			attrs := team.Attrs{
				Region:    field.OfString(item.Region),
				Location:  field.OfString(item.Location),
				Disbanded: field.Of(item.Disbanded),
			}
			if _, err := repos.Teams.Reconcile(ctx, name, g.ID, attrs); err != nil {
				return fmt.Errorf("reconcile team %s: %w", name, err)
			}
			synced++
		}

		return nil
	})
	if err != nil {
		return err
	}

	s.logger.InfoContext(ctx, "teams synced",
		"game_id", g.ID,
		"fetched", len(teams),
		"synced", synced,
	)

	return nil
}

func (s *SyncService) syncPlayers(ctx context.Context, g GameConfig) error {
	ctx, span := startUsecaseSpan(ctx, "usecase.SyncService.syncPlayers")
	defer span.End()

	players, err := s.provider.FetchPlayers(ctx, g.Wiki)
	if err != nil {
		return fmt.Errorf("fetch players wiki=%s: %w", g.Wiki, err)
	}

	synced := 0
	err = s.uow.Within(ctx, func(repos Repositories) error {
		for _, item := range players {
			nickname := strings.TrimSpace(item.Nickname)
			if nickname == "" {
				continue
			}

			attrs := player.Attrs{
				BirthDate:   field.OfDate(item.BirthDate),
				Nationality: field.OfString(item.Nationality),
				Status:      field.OfString(item.Status),
				Role:        field.OfString(item.Role),
				Type:        field.OfString(item.Type),
			}
			if _, err := repos.Players.Reconcile(ctx, nickname, g.ID, attrs); err != nil {
				return fmt.Errorf("reconcile player %s: %w", nickname, err)
			}
			synced++
		}

		return nil
	})
	if err != nil {
		return err
	}

	s.logger.InfoContext(ctx, "players synced",
		"game_id", g.ID,
		"fetched", len(players),
		"synced", synced,
	)

	return nil
}

// lookupTeamID resolves a team id by exact name, memoized per (game, name)
// so series syncs do not re-query the same opponents page after page.
func (s *SyncService) lookupTeamID(ctx context.Context, teams team.Repository, name, gameID string) (int64, bool, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return 0, false, nil
	}

	key := "team:" + gameID + ":" + name
	value, err := s.teamIDs.GetOrLoad(ctx, key, func(ctx context.Context) (any, error) {
		id, found, err := teams.FindIDByName(ctx, name, gameID)
		if err != nil {
			return nil, err
		}
		if !found {
			// Misses are not cached: the team may appear later in the run.
			return nil, fmt.Errorf("%w: team %s", ErrNotFound, name)
		}
		return id, nil
	})
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return 0, false, nil
		}
		return 0, false, fmt.Errorf("lookup team %s: %w", name, err)
	}

	return value.(int64), true, nil
}
