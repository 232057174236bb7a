package memory

import "github.com/gridironlab/companion/internal/domain/player"

// SeedPlayers returns a small directory fixture.
func SeedPlayers() []player.Player {
	return []player.Player{
		{ID: "4046", FullName: "Patrick Mahomes", Position: player.PositionQuarterback, Team: "KC"},
		{ID: "4866", FullName: "Saquon Barkley", Position: player.PositionRunningBack, Team: "PHI"},
		{ID: "6794", FullName: "Justin Jefferson", Position: player.PositionWideReceiver, Team: "MIN"},
		{ID: "4217", FullName: "George Kittle", Position: player.PositionTightEnd, Team: "SF"},
		{ID: "8112", FullName: "Jahmyr Gibbs", Position: player.PositionRunningBack, Team: "DET"},
		{ID: "9997", FullName: "Practice Squad Guy", Position: player.PositionWideReceiver, Team: player.TeamFreeAgent},
	}
}
