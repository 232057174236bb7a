package player

import "fmt"

// Position represents NFL position categories used by the directory.
type Position string

const (
	PositionQuarterback Position = "QB"
	PositionRunningBack Position = "RB"
	PositionWideReceiver Position = "WR"
	PositionTightEnd     Position = "TE"
	PositionKicker       Position = "K"
	PositionDefense      Position = "DEF"
)

// SkillPositions are the positions the directory sync persists.
var SkillPositions = map[Position]struct{}{
	PositionQuarterback:  {},
	PositionRunningBack:  {},
	PositionWideReceiver: {},
	PositionTightEnd:     {},
}

// TeamFreeAgent is the sentinel team for players without a club.
const TeamFreeAgent = "Free Agent"

// Player is one directory record, keyed by the platform's opaque
// player id. Records are overwritten wholesale by the sync job and
// go stale between runs; that is acceptable for a display cache.
type Player struct {
	ID       string
	FullName string
	Position Position
	Team     string
}

func (p Player) Validate() error {
	if p.ID == "" {
		return fmt.Errorf("player id is required")
	}
	if p.FullName == "" {
		return fmt.Errorf("player full name is required")
	}
	if _, ok := SkillPositions[p.Position]; !ok {
		return fmt.Errorf("invalid directory position: %s", p.Position)
	}
	if p.Team == "" {
		return fmt.Errorf("player team is required")
	}

	return nil
}

// DisplayName renders the roster substitution string for a record.
func (p Player) DisplayName() string {
	return fmt.Sprintf("%s (%s, %s)", p.FullName, p.Position, p.Team)
}
