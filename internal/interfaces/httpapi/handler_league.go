package httpapi

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/gridironlab/companion/internal/usecase"
)

const defaultTransactionWeeks = 4

type userDTO struct {
	UserID      string `json:"user_id"`
	Username    string `json:"username"`
	DisplayName string `json:"display_name"`
	Avatar      string `json:"avatar,omitempty"`
}

type leagueSummaryDTO struct {
	LeagueID     string `json:"league_id"`
	Name         string `json:"name"`
	Season       string `json:"season"`
	Status       string `json:"status"`
	TotalRosters int    `json:"total_rosters"`
}

type transactionDTO struct {
	TransactionID string         `json:"transaction_id"`
	Type          string         `json:"type"`
	Status        string         `json:"status"`
	Week          int            `json:"week"`
	RosterIDs     []int          `json:"roster_ids"`
	Adds          map[string]int `json:"adds,omitempty"`
	Drops         map[string]int `json:"drops,omitempty"`
}

type transactionsQuery struct {
	ThroughWeek int `validate:"min=1,max=18"`
}

func (h *Handler) GetUserByUsername(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetUserByUsername")
	defer span.End()

	username := r.PathValue("username")
	user, err := h.leagueService.GetUserByUsername(ctx, username)
	if err != nil {
		h.logger.WarnContext(ctx, "user lookup failed", "username", username, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeJSON(ctx, w, http.StatusOK, userDTO{
		UserID:      user.UserID,
		Username:    user.Username,
		DisplayName: user.DisplayName,
		Avatar:      user.Avatar,
	})
}

func (h *Handler) ListUserLeagues(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListUserLeagues")
	defer span.End()

	userID := r.PathValue("userID")
	season := r.PathValue("season")
	leagues, err := h.leagueService.ListUserLeagues(ctx, userID, season)
	if err != nil {
		h.logger.WarnContext(ctx, "list user leagues failed", "user_id", userID, "season", season, "error", err)
		writeError(ctx, w, err)
		return
	}

	items := make([]leagueSummaryDTO, 0, len(leagues))
	for _, l := range leagues {
		items = append(items, leagueSummaryDTO{
			LeagueID:     l.LeagueID,
			Name:         l.Name,
			Season:       l.Season,
			Status:       l.Status,
			TotalRosters: l.TotalRosters,
		})
	}

	writeJSON(ctx, w, http.StatusOK, items)
}

func (h *Handler) GetLeague(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetLeague")
	defer span.End()

	leagueID := r.PathValue("leagueID")
	league, err := h.leagueService.GetLeague(ctx, leagueID)
	if err != nil {
		h.logger.WarnContext(ctx, "get league failed", "league_id", leagueID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeJSON(ctx, w, http.StatusOK, league)
}

func (h *Handler) ListLeagueRosters(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListLeagueRosters")
	defer span.End()

	leagueID := r.PathValue("leagueID")
	rosters, err := h.leagueService.ListLeagueRosters(ctx, leagueID)
	if err != nil {
		h.logger.WarnContext(ctx, "list rosters failed", "league_id", leagueID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeJSON(ctx, w, http.StatusOK, rosters)
}

func (h *Handler) ListLeagueUsers(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListLeagueUsers")
	defer span.End()

	leagueID := r.PathValue("leagueID")
	users, err := h.leagueService.ListLeagueUsers(ctx, leagueID)
	if err != nil {
		h.logger.WarnContext(ctx, "list league users failed", "league_id", leagueID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeJSON(ctx, w, http.StatusOK, users)
}

func (h *Handler) GetLeagueSnapshot(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetLeagueSnapshot")
	defer span.End()

	leagueID := r.PathValue("leagueID")
	snapshot, err := h.leagueService.GetLeagueSnapshot(ctx, leagueID)
	if err != nil {
		h.logger.WarnContext(ctx, "league snapshot failed", "league_id", leagueID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeJSON(ctx, w, http.StatusOK, snapshot)
}

func (h *Handler) ListLeagueTransactions(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListLeagueTransactions")
	defer span.End()

	leagueID := r.PathValue("leagueID")

	throughWeek := defaultTransactionWeeks
	if raw := r.URL.Query().Get("through_week"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			writeError(ctx, w, fmt.Errorf("%w: through_week must be an integer, got %q", usecase.ErrInvalidInput, raw))
			return
		}
		throughWeek = parsed
	}
	if err := h.validateRequest(ctx, transactionsQuery{ThroughWeek: throughWeek}); err != nil {
		writeError(ctx, w, err)
		return
	}

	transactions, err := h.leagueService.ListRecentTransactions(ctx, leagueID, throughWeek)
	if err != nil {
		h.logger.WarnContext(ctx, "list transactions failed", "league_id", leagueID, "through_week", throughWeek, "error", err)
		writeError(ctx, w, err)
		return
	}

	items := make([]transactionDTO, 0, len(transactions))
	for _, txn := range transactions {
		items = append(items, transactionDTO{
			TransactionID: txn.TransactionID,
			Type:          txn.Type,
			Status:        txn.Status,
			Week:          txn.Week,
			RosterIDs:     txn.RosterIDs,
			Adds:          txn.Adds,
			Drops:         txn.Drops,
		})
	}

	writeJSON(ctx, w, http.StatusOK, items)
}
