package postgres

import "time"

type playerTableModel struct {
	PlayerID  string    `db:"player_id"`
	FullName  string    `db:"full_name"`
	Position  string    `db:"position"`
	Team      string    `db:"team"`
	UpdatedAt time.Time `db:"updated_at"`
}
