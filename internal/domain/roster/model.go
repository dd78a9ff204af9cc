package roster

import (
	"fmt"
	"time"
)

// Entry is one player's stint on one team. Natural key:
// (team id, player id, join date): a player can rejoin the same team later.
type Entry struct {
	TeamID       int64
	PlayerID     int64
	Nickname     string
	JoinDate     time.Time
	LeaveDate    *time.Time
	IsSubstitute bool
	Role         string
	Status       string
}

func (e Entry) Validate() error {
	if e.TeamID <= 0 {
		return fmt.Errorf("roster team id is required")
	}
	if e.PlayerID <= 0 {
		return fmt.Errorf("roster player id is required")
	}
	if e.JoinDate.IsZero() {
		return fmt.Errorf("roster join date is required")
	}

	return nil
}
