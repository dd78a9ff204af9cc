package team

import (
	"fmt"

	"github.com/aresdata/esports-etl/internal/platform/field"
)

// Team is an esports organization's lineup in one game. Natural key:
// (name, game id).
type Team struct {
	ID        int64
	Name      string
	GameID    string
	Region    string
	Location  string
	Disbanded bool
}

// Attrs are the optional attributes applied on reconcile. Unset values leave
// the stored column untouched.
type Attrs struct {
	Region    field.Value
	Location  field.Value
	Disbanded field.Value
}

func ValidateKey(name, gameID string) error {
	if name == "" {
		return fmt.Errorf("team name is required")
	}
	if gameID == "" {
		return fmt.Errorf("team game id is required")
	}

	return nil
}
