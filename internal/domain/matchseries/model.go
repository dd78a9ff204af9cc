package matchseries

import (
	"fmt"
	"time"
)

// Series is one best-of-N match between two teams inside a tournament. The
// provider's match id is the primary key, so re-syncs overwrite in place.
type Series struct {
	ExternalID   string
	TournamentID int64
	GameID       string
	PlayedAt     *time.Time
	Team1ID      int64
	Team2ID      int64
	Team1Score   *int
	Team2Score   *int
	WinnerTeamID *int64
	BestOf       int
	IsForfeit    bool
	Tier         string
}

func (s Series) Validate() error {
	if s.ExternalID == "" {
		return fmt.Errorf("series external id is required")
	}
	if s.TournamentID <= 0 {
		return fmt.Errorf("series tournament id is required")
	}
	if s.Team1ID <= 0 || s.Team2ID <= 0 {
		return fmt.Errorf("series team ids are required")
	}
	if s.BestOf <= 0 {
		return fmt.Errorf("series best-of is required")
	}

	return nil
}
