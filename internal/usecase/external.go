package usecase

import (
	"context"

	"github.com/gridironlab/companion/internal/domain/analysis"
)

// ExternalUser is a platform account resolved by username or id.
type ExternalUser struct {
	UserID      string
	Username    string
	DisplayName string
	Avatar      string
}

// ExternalLeague is a league summary from the platform's league list.
type ExternalLeague struct {
	LeagueID     string
	Name         string
	Season       string
	Status       string
	TotalRosters int
}

// ExternalTransaction is one waiver/trade/free-agent move in a week.
type ExternalTransaction struct {
	TransactionID string
	Type          string
	Status        string
	Week          int
	RosterIDs     []int
	Adds          map[string]int
	Drops         map[string]int
}

// ExternalCatalogPlayer is one raw entry of the platform's full player
// catalog, before directory filtering.
type ExternalCatalogPlayer struct {
	PlayerID string
	FullName string
	Position string
	Team     string
}

// LeagueDataProvider is the read surface the league platform exposes.
// Roster, league and user payloads come back already decoded into the
// analysis whitelist types.
type LeagueDataProvider interface {
	GetUserByUsername(ctx context.Context, username string) (ExternalUser, error)
	ListUserLeagues(ctx context.Context, userID, season string) ([]ExternalLeague, error)
	GetLeague(ctx context.Context, leagueID string) (analysis.League, error)
	ListLeagueRosters(ctx context.Context, leagueID string) ([]analysis.Roster, error)
	ListLeagueUsers(ctx context.Context, leagueID string) (map[string]analysis.User, error)
	ListTransactions(ctx context.Context, leagueID string, week int) ([]ExternalTransaction, error)
}

// PlayerCatalogProvider fetches the full upstream player catalog for
// the directory sync job.
type PlayerCatalogProvider interface {
	FetchPlayerCatalog(ctx context.Context) (map[string]ExternalCatalogPlayer, error)
}

// ChatMessage is one role-tagged segment of a model prompt.
type ChatMessage struct {
	Role    string
	Content string
}

// ChatRequest is a bounded chat-completion call.
type ChatRequest struct {
	Model       string
	Messages    []ChatMessage
	MaxTokens   int
	Temperature float64
}

// ChatClient invokes the generative analysis service and returns the
// first candidate's text. Implementations map upstream failures onto
// the sentinel taxonomy in errors.go.
type ChatClient interface {
	CreateChatCompletion(ctx context.Context, req ChatRequest) (string, error)
}
