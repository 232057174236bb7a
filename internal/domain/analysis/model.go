package analysis

// The types in this package are the field whitelist for AI analysis
// payloads. Raw league snapshots from the platform carry far more
// nested data than a prompt should ever see; decoding into these
// shapes and running PruneRequest is what bounds the payload before
// identifier resolution and prompt assembly.

// RosterSettings is the numeric record subset kept per roster.
type RosterSettings struct {
	Wins        int     `json:"wins"`
	Losses      int     `json:"losses"`
	Ties        int     `json:"ties"`
	FPTS        float64 `json:"fpts"`
	FPTSAgainst float64 `json:"fpts_against"`
}

// Roster is one team's snapshot inside a league. Starters is in
// lineup-slot order and must stay that way; every starter id also
// appears in Players.
type Roster struct {
	RosterID int            `json:"roster_id"`
	OwnerID  string         `json:"owner_id,omitempty"`
	Starters []string       `json:"starters"`
	Players  []string       `json:"players"`
	Settings RosterSettings `json:"settings"`
}

// LeagueSettings is the bounded settings subset retained after
// pruning. Absent upstream values stay nil rather than zero.
type LeagueSettings struct {
	PlayoffTeams     *int `json:"playoff_teams,omitempty"`
	Type             *int `json:"type,omitempty"`
	WaiverType       *int `json:"waiver_type,omitempty"`
	TradeDeadline    *int `json:"trade_deadline,omitempty"`
	PlayoffWeekStart *int `json:"playoff_week_start,omitempty"`
	MaxKeepers       *int `json:"max_keepers,omitempty"`
}

// League is the pruned league context.
type League struct {
	Name            string             `json:"name"`
	Season          string             `json:"season"`
	ScoringSettings map[string]float64 `json:"scoring_settings"`
	RosterPositions []string           `json:"roster_positions"`
	Settings        LeagueSettings     `json:"settings"`
}

// User is one league member; only these three fields survive pruning.
type User struct {
	UserID      string `json:"user_id"`
	DisplayName string `json:"display_name"`
	Username    string `json:"username"`
}

// Request is the analysis input bundle. All five fields are mandatory
// and checked before any external work happens.
type Request struct {
	Question   string          `json:"question"`
	MyRoster   *Roster         `json:"myRoster"`
	AllRosters []Roster        `json:"allRosters"`
	League     *League         `json:"league"`
	Users      map[string]User `json:"users"`
}

// MissingFields reports every absent mandatory field, not just the
// first, so validation errors can name them all.
func (r Request) MissingFields() []string {
	var missing []string
	if r.Question == "" {
		missing = append(missing, "question")
	}
	if r.MyRoster == nil {
		missing = append(missing, "myRoster")
	}
	if r.AllRosters == nil {
		missing = append(missing, "allRosters")
	}
	if r.League == nil {
		missing = append(missing, "league")
	}
	if r.Users == nil {
		missing = append(missing, "users")
	}
	return missing
}
