package analysis

// PruneRequest returns a deep copy of req holding only the whitelisted
// attributes. It never mutates its input, is idempotent, and has no
// failure path: absent optional settings stay absent. Unknown upstream
// JSON keys are already dropped when the raw payload is decoded into
// the typed model; the copy here guarantees later in-place rewrites
// (identifier resolution) cannot leak back into caller state.
func PruneRequest(req Request) Request {
	out := Request{
		Question: req.Question,
	}

	if req.MyRoster != nil {
		pruned := pruneRoster(*req.MyRoster)
		out.MyRoster = &pruned
	}

	if req.AllRosters != nil {
		out.AllRosters = make([]Roster, 0, len(req.AllRosters))
		for _, r := range req.AllRosters {
			out.AllRosters = append(out.AllRosters, pruneRoster(r))
		}
	}

	if req.League != nil {
		pruned := pruneLeague(*req.League)
		out.League = &pruned
	}

	if req.Users != nil {
		out.Users = make(map[string]User, len(req.Users))
		for id, u := range req.Users {
			out.Users[id] = User{
				UserID:      u.UserID,
				DisplayName: u.DisplayName,
				Username:    u.Username,
			}
		}
	}

	return out
}

func pruneRoster(r Roster) Roster {
	return Roster{
		RosterID: r.RosterID,
		OwnerID:  r.OwnerID,
		Starters: append([]string(nil), r.Starters...),
		Players:  append([]string(nil), r.Players...),
		Settings: RosterSettings{
			Wins:        r.Settings.Wins,
			Losses:      r.Settings.Losses,
			Ties:        r.Settings.Ties,
			FPTS:        r.Settings.FPTS,
			FPTSAgainst: r.Settings.FPTSAgainst,
		},
	}
}

func pruneLeague(l League) League {
	out := League{
		Name:   l.Name,
		Season: l.Season,
	}

	if l.ScoringSettings != nil {
		out.ScoringSettings = make(map[string]float64, len(l.ScoringSettings))
		for k, v := range l.ScoringSettings {
			out.ScoringSettings[k] = v
		}
	}
	if l.RosterPositions != nil {
		out.RosterPositions = append([]string(nil), l.RosterPositions...)
	}

	out.Settings = LeagueSettings{
		PlayoffTeams:     copyIntPtr(l.Settings.PlayoffTeams),
		Type:             copyIntPtr(l.Settings.Type),
		WaiverType:       copyIntPtr(l.Settings.WaiverType),
		TradeDeadline:    copyIntPtr(l.Settings.TradeDeadline),
		PlayoffWeekStart: copyIntPtr(l.Settings.PlayoffWeekStart),
		MaxKeepers:       copyIntPtr(l.Settings.MaxKeepers),
	}

	return out
}

func copyIntPtr(v *int) *int {
	if v == nil {
		return nil
	}
	out := *v
	return &out
}
