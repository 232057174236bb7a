package player

import "context"

// Repository describes player directory persistence needs from use cases.
type Repository interface {
	// GetByIDs returns the records present for the given ids. Absent ids
	// are simply missing from the result, not an error.
	GetByIDs(ctx context.Context, playerIDs []string) ([]Player, error)
	// UpsertBatch inserts or replaces records keyed by player id.
	// Implementations may cap the accepted batch size.
	UpsertBatch(ctx context.Context, players []Player) error
}
