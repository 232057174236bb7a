package memory

import (
	"context"
	"sync"

	"github.com/gridironlab/companion/internal/domain/player"
)

// PlayerRepository is a map-backed directory for tests and local runs.
type PlayerRepository struct {
	mu      sync.RWMutex
	players map[string]player.Player
}

func NewPlayerRepository(seed []player.Player) *PlayerRepository {
	players := make(map[string]player.Player, len(seed))
	for _, p := range seed {
		players[p.ID] = p
	}
	return &PlayerRepository{players: players}
}

func (r *PlayerRepository) GetByIDs(_ context.Context, playerIDs []string) ([]player.Player, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]player.Player, 0, len(playerIDs))
	for _, id := range playerIDs {
		if p, ok := r.players[id]; ok {
			out = append(out, p)
		}
	}
	return out, nil
}

func (r *PlayerRepository) UpsertBatch(_ context.Context, players []player.Player) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, p := range players {
		r.players[p.ID] = p
	}
	return nil
}

// Snapshot copies the current directory contents, for assertions.
func (r *PlayerRepository) Snapshot() map[string]player.Player {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make(map[string]player.Player, len(r.players))
	for id, p := range r.players {
		out[id] = p
	}
	return out
}
