package sleeper

import (
	"strings"

	"github.com/gridironlab/companion/internal/domain/analysis"
	"github.com/gridironlab/companion/internal/usecase"
)

// Raw platform shapes. Decoding rosters, leagues and users directly
// into the analysis whitelist types would silently drop fields the
// list endpoints need (league ids, statuses), so list payloads get
// their own structs and are mapped explicitly.

type rawUser struct {
	UserID      string `json:"user_id"`
	Username    string `json:"username"`
	DisplayName string `json:"display_name"`
	Avatar      string `json:"avatar"`
}

func (u rawUser) toExternal() usecase.ExternalUser {
	return usecase.ExternalUser{
		UserID:      strings.TrimSpace(u.UserID),
		Username:    strings.TrimSpace(u.Username),
		DisplayName: strings.TrimSpace(u.DisplayName),
		Avatar:      strings.TrimSpace(u.Avatar),
	}
}

type rawLeagueSummary struct {
	LeagueID     string `json:"league_id"`
	Name         string `json:"name"`
	Season       string `json:"season"`
	Status       string `json:"status"`
	TotalRosters int    `json:"total_rosters"`
}

func (l rawLeagueSummary) toExternal() usecase.ExternalLeague {
	return usecase.ExternalLeague{
		LeagueID:     strings.TrimSpace(l.LeagueID),
		Name:         strings.TrimSpace(l.Name),
		Season:       strings.TrimSpace(l.Season),
		Status:       strings.TrimSpace(l.Status),
		TotalRosters: l.TotalRosters,
	}
}

type rawTransaction struct {
	TransactionID string         `json:"transaction_id"`
	Type          string         `json:"type"`
	Status        string         `json:"status"`
	Leg           int            `json:"leg"`
	RosterIDs     []int          `json:"roster_ids"`
	Adds          map[string]int `json:"adds"`
	Drops         map[string]int `json:"drops"`
}

func (t rawTransaction) toExternal(week int) usecase.ExternalTransaction {
	if t.Leg > 0 {
		week = t.Leg
	}
	return usecase.ExternalTransaction{
		TransactionID: strings.TrimSpace(t.TransactionID),
		Type:          strings.TrimSpace(t.Type),
		Status:        strings.TrimSpace(t.Status),
		Week:          week,
		RosterIDs:     t.RosterIDs,
		Adds:          t.Adds,
		Drops:         t.Drops,
	}
}

type rawCatalogPlayer struct {
	PlayerID string `json:"player_id"`
	FullName string `json:"full_name"`
	Position string `json:"position"`
	Team     string `json:"team"`
}

func (p rawCatalogPlayer) toExternal(key string) usecase.ExternalCatalogPlayer {
	id := strings.TrimSpace(p.PlayerID)
	if id == "" {
		id = strings.TrimSpace(key)
	}
	return usecase.ExternalCatalogPlayer{
		PlayerID: id,
		FullName: strings.TrimSpace(p.FullName),
		Position: strings.TrimSpace(strings.ToUpper(p.Position)),
		Team:     strings.TrimSpace(p.Team),
	}
}

// League detail, roster and user payloads decode straight into the
// analysis whitelist types: every key outside the whitelist is
// discarded at the decode boundary, which is the first pruning step.
type rawLeagueDetail = analysis.League

type rawRoster = analysis.Roster

func mapLeagueUsers(raw []rawUser) map[string]analysis.User {
	out := make(map[string]analysis.User, len(raw))
	for _, u := range raw {
		id := strings.TrimSpace(u.UserID)
		if id == "" {
			continue
		}
		out[id] = analysis.User{
			UserID:      id,
			DisplayName: strings.TrimSpace(u.DisplayName),
			Username:    strings.TrimSpace(u.Username),
		}
	}
	return out
}
