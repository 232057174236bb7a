package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/gridironlab/companion/internal/domain/player"
	qb "github.com/gridironlab/companion/internal/platform/querybuilder"
)

// maxUpsertRows mirrors the storage backend's per-request row ceiling.
const maxUpsertRows = 1000

const upsertConflictClause = "ON CONFLICT (player_id) DO UPDATE SET " +
	"full_name = EXCLUDED.full_name, " +
	"position = EXCLUDED.position, " +
	"team = EXCLUDED.team, " +
	"updated_at = NOW()"

type PlayerRepository struct {
	db *sqlx.DB
}

var playerSelectColumns = []string{
	"player_id",
	"full_name",
	"position",
	"team",
	"updated_at",
}

func NewPlayerRepository(db *sqlx.DB) *PlayerRepository {
	return &PlayerRepository{db: db}
}

func (r *PlayerRepository) GetByIDs(ctx context.Context, playerIDs []string) ([]player.Player, error) {
	if len(playerIDs) == 0 {
		return []player.Player{}, nil
	}

	query, args, err := qb.Select(playerSelectColumns...).From("players").
		Where(qb.In("player_id", stringSliceToAny(playerIDs))).
		OrderBy("player_id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build select players by ids query: %w", err)
	}

	var rows []playerTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("select players by ids: %w", err)
	}

	out := make([]player.Player, 0, len(rows))
	for _, row := range rows {
		out = append(out, player.Player{
			ID:       row.PlayerID,
			FullName: row.FullName,
			Position: player.Position(row.Position),
			Team:     row.Team,
		})
	}

	return out, nil
}

func (r *PlayerRepository) UpsertBatch(ctx context.Context, players []player.Player) error {
	if len(players) == 0 {
		return nil
	}
	if len(players) > maxUpsertRows {
		return fmt.Errorf("upsert batch of %d rows exceeds limit of %d", len(players), maxUpsertRows)
	}

	builder := qb.InsertInto("players").
		Columns("player_id", "full_name", "position", "team")
	for _, p := range players {
		builder.Values(p.ID, p.FullName, string(p.Position), p.Team)
	}

	query, args, err := builder.Suffix(upsertConflictClause).ToSQL()
	if err != nil {
		return fmt.Errorf("build upsert players query: %w", err)
	}

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("upsert players: %w", err)
	}

	return nil
}

func stringSliceToAny(items []string) []any {
	out := make([]any, 0, len(items))
	for _, item := range items {
		out = append(out, item)
	}
	return out
}
