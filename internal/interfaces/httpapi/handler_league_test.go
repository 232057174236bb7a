package httpapi

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	sonic "github.com/bytedance/sonic"

	"github.com/gridironlab/companion/internal/domain/analysis"
	"github.com/gridironlab/companion/internal/platform/cache"
	"github.com/gridironlab/companion/internal/usecase"
)

type stubLeagueProvider struct {
	userErr error
}

func (p *stubLeagueProvider) GetUserByUsername(_ context.Context, username string) (usecase.ExternalUser, error) {
	if p.userErr != nil {
		return usecase.ExternalUser{}, p.userErr
	}
	return usecase.ExternalUser{UserID: "u1", Username: username, DisplayName: "Alex"}, nil
}

func (p *stubLeagueProvider) ListUserLeagues(_ context.Context, userID, season string) ([]usecase.ExternalLeague, error) {
	return []usecase.ExternalLeague{{LeagueID: "l1", Name: "Test League", Season: season, Status: "in_season", TotalRosters: 10}}, nil
}

func (p *stubLeagueProvider) GetLeague(_ context.Context, leagueID string) (analysis.League, error) {
	return analysis.League{Name: "Test League", Season: "2026", ScoringSettings: map[string]float64{"rec": 1}}, nil
}

func (p *stubLeagueProvider) ListLeagueRosters(_ context.Context, leagueID string) ([]analysis.Roster, error) {
	return []analysis.Roster{{RosterID: 1, OwnerID: "u1", Starters: []string{"4046"}, Players: []string{"4046"}}}, nil
}

func (p *stubLeagueProvider) ListLeagueUsers(_ context.Context, leagueID string) (map[string]analysis.User, error) {
	return map[string]analysis.User{"u1": {UserID: "u1", DisplayName: "Alex", Username: "alex"}}, nil
}

func (p *stubLeagueProvider) ListTransactions(_ context.Context, leagueID string, week int) ([]usecase.ExternalTransaction, error) {
	return []usecase.ExternalTransaction{
		{TransactionID: "t1", Type: "waiver", Status: "complete", Week: week, RosterIDs: []int{1}},
	}, nil
}

func newLeagueRouter(t *testing.T, provider usecase.LeagueDataProvider) http.Handler {
	t.Helper()

	leagueService := usecase.NewLeagueService(provider, cache.NewStore(time.Minute), nil)
	handler := NewHandler(nil, leagueService, nil, false)
	return NewRouter(handler, nil, nil)
}

func get(router http.Handler, path string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestHealthz(t *testing.T) {
	t.Parallel()

	rec := get(newLeagueRouter(t, &stubLeagueProvider{}), "/healthz")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `"status":"ok"`) {
		t.Fatalf("unexpected body: %s", rec.Body.String())
	}
}

func TestGetUserByUsername(t *testing.T) {
	t.Parallel()

	rec := get(newLeagueRouter(t, &stubLeagueProvider{}), "/v1/users/alex")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d body = %s", rec.Code, rec.Body.String())
	}

	var body userDTO
	if err := sonic.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if body.UserID != "u1" || body.Username != "alex" {
		t.Fatalf("unexpected body: %+v", body)
	}
}

func TestGetUserByUsername_TransportFailure(t *testing.T) {
	t.Parallel()

	provider := &stubLeagueProvider{userErr: usecase.ErrTransport}
	rec := get(newLeagueRouter(t, provider), "/v1/users/alex")
	if rec.Code != http.StatusBadGateway {
		t.Fatalf("status = %d body = %s", rec.Code, rec.Body.String())
	}
}

func TestListUserLeagues(t *testing.T) {
	t.Parallel()

	rec := get(newLeagueRouter(t, &stubLeagueProvider{}), "/v1/users/u1/leagues/2026")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d body = %s", rec.Code, rec.Body.String())
	}

	var body []leagueSummaryDTO
	if err := sonic.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(body) != 1 || body[0].LeagueID != "l1" || body[0].Season != "2026" {
		t.Fatalf("unexpected body: %+v", body)
	}
}

func TestGetLeagueSnapshot(t *testing.T) {
	t.Parallel()

	rec := get(newLeagueRouter(t, &stubLeagueProvider{}), "/v1/leagues/l1/snapshot")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d body = %s", rec.Code, rec.Body.String())
	}

	var body struct {
		League  analysis.League          `json:"league"`
		Rosters []analysis.Roster        `json:"rosters"`
		Users   map[string]analysis.User `json:"users"`
	}
	if err := sonic.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if body.League.Name != "Test League" || len(body.Rosters) != 1 || len(body.Users) != 1 {
		t.Fatalf("incomplete snapshot: %s", rec.Body.String())
	}
}

func TestListLeagueTransactions_DefaultWindow(t *testing.T) {
	t.Parallel()

	rec := get(newLeagueRouter(t, &stubLeagueProvider{}), "/v1/leagues/l1/transactions")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d body = %s", rec.Code, rec.Body.String())
	}

	var body []transactionDTO
	if err := sonic.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(body) != defaultTransactionWeeks {
		t.Fatalf("got %d transactions, want one per default week (%d)", len(body), defaultTransactionWeeks)
	}
}

func TestListLeagueTransactions_ValidatesThroughWeek(t *testing.T) {
	t.Parallel()

	router := newLeagueRouter(t, &stubLeagueProvider{})

	for _, query := range []string{"?through_week=0", "?through_week=19", "?through_week=abc"} {
		rec := get(router, "/v1/leagues/l1/transactions"+query)
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("query %s: status = %d body = %s", query, rec.Code, rec.Body.String())
		}
	}

	rec := get(router, "/v1/leagues/l1/transactions?through_week=2")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d body = %s", rec.Code, rec.Body.String())
	}
}
