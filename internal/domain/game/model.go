package game

import "fmt"

// Game is a supported esports title. The ID doubles as the wiki-independent
// key used across every other table.
type Game struct {
	ID   string `db:"game_id"`
	Name string `db:"game_name"`
}

func (g Game) Validate() error {
	if g.ID == "" {
		return fmt.Errorf("game id is required")
	}
	if g.Name == "" {
		return fmt.Errorf("game name is required")
	}

	return nil
}
