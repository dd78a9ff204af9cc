package tournament

import (
	"fmt"
	"time"

	"github.com/aresdata/esports-etl/internal/platform/field"
)

// Tournament is one event edition. Natural key: (name, game id, start date);
// recurring events share a name, so the start date disambiguates editions.
type Tournament struct {
	ID        int64
	Name      string
	GameID    string
	Tier      string
	StartDate *time.Time
	EndDate   *time.Time
}

type Attrs struct {
	EndDate   field.Value
	Tier      field.Value
	Type      field.Value
	Region    field.Value
	Location  field.Value
	PrizePool field.Value
	Weight    field.Value
}

func ValidateKey(name, gameID string) error {
	if name == "" {
		return fmt.Errorf("tournament name is required")
	}
	if gameID == "" {
		return fmt.Errorf("tournament game id is required")
	}

	return nil
}
