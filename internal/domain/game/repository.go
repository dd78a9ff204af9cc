package game

import "context"

// Repository describes game persistence needs from use cases.
type Repository interface {
	// Ensure creates the game row when missing and leaves existing rows
	// untouched.
	Ensure(ctx context.Context, g Game) error
}
