package player

import (
	"fmt"

	"github.com/aresdata/esports-etl/internal/platform/field"
)

// Player is an individual competitor. Natural key: (nickname, game id).
type Player struct {
	ID          int64
	Nickname    string
	GameID      string
	Nationality string
	Status      string
	Role        string
	Type        string
}

type Attrs struct {
	BirthDate   field.Value
	Nationality field.Value
	Status      field.Value
	Role        field.Value
	Type        field.Value
}

func ValidateKey(nickname, gameID string) error {
	if nickname == "" {
		return fmt.Errorf("player nickname is required")
	}
	if gameID == "" {
		return fmt.Errorf("player game id is required")
	}

	return nil
}
