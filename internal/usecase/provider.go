package usecase

import (
	"context"
	"time"
)

// ExternalTeam is a provider team row normalized to what the sync needs.
type ExternalTeam struct {
	Name      string
	Region    string
	Location  string
	Status    string
	Disbanded bool
}

type ExternalPlayer struct {
	Nickname    string
	PageName    string
	Nationality string
	Status      string
	Role        string
	Type        string
	BirthDate   *time.Time
}

type ExternalTournament struct {
	Name      string
	PageName  string
	Tier      string
	Type      string
	Region    string
	Location  string
	StartDate *time.Time
	EndDate   *time.Time
	PrizePool *float64
}

type ExternalRosterEntry struct {
	TeamName  string
	Nickname  string
	Role      string
	Type      string
	Status    string
	JoinDate  *time.Time
	LeaveDate *time.Time
}

type ExternalSeries struct {
	ExternalID     string
	TournamentName string
	PlayedAt       *time.Time
	Opponent1      string
	Opponent2      string
	Score1         *int
	Score2         *int
	// Winner is the provider's side marker: "1", "2", or anything else for
	// no winner.
	Winner   string
	Walkover string
	Tier     string
	BestOf   int
}

// EsportsDataProvider is the upstream reference-data API seen from use
// cases. Implementations own pagination, rate limiting, and raw payload
// normalization.
type EsportsDataProvider interface {
	FetchTeams(ctx context.Context, wiki string) ([]ExternalTeam, error)
	FetchPlayers(ctx context.Context, wiki string) ([]ExternalPlayer, error)
	FetchTournaments(ctx context.Context, wiki string, startDateFloor *time.Time) ([]ExternalTournament, error)
	FetchRosterEntries(ctx context.Context, wiki string) ([]ExternalRosterEntry, error)
	FetchMatchSeries(ctx context.Context, wiki string, from *time.Time, to time.Time) ([]ExternalSeries, error)
}
