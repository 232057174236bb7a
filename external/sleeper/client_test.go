package sleeper

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/gridironlab/companion/internal/platform/resilience"
	"github.com/gridironlab/companion/internal/usecase"
)

func newTestClient(t *testing.T, handler http.Handler) (*Client, *httptest.Server) {
	t.Helper()

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client := NewClient(ClientConfig{
		BaseURL: server.URL,
		Timeout: 2 * time.Second,
		CircuitBreaker: resilience.CircuitBreakerConfig{
			Enabled: false,
		},
	})
	return client, server
}

func TestClient_GetUserByUsername(t *testing.T) {
	t.Parallel()

	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/user/alex" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		w.Write([]byte(`{"user_id":"u1","username":"alex","display_name":"Alex","avatar":"abc"}`))
	}))

	user, err := client.GetUserByUsername(t.Context(), "alex")
	if err != nil {
		t.Fatalf("fetch user failed: %v", err)
	}
	if user.UserID != "u1" || user.DisplayName != "Alex" {
		t.Fatalf("unexpected user: %+v", user)
	}
}

func TestClient_GetUserByUsername_NullBody(t *testing.T) {
	t.Parallel()

	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`null`))
	}))

	_, err := client.GetUserByUsername(t.Context(), "ghost")
	if !errors.Is(err, usecase.ErrInvalidInput) {
		t.Fatalf("expected not-found to surface as invalid input, got %v", err)
	}
}

func TestClient_RetriesTransientFailures(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) == 1 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		w.Write([]byte(`{"name":"Dynasty League","season":"2026","scoring_settings":{"rec":1},"roster_positions":["QB"],"settings":{}}`))
	})

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	client := NewClient(ClientConfig{
		BaseURL:        server.URL,
		Timeout:        2 * time.Second,
		MaxRetries:     2,
		CircuitBreaker: resilience.CircuitBreakerConfig{Enabled: false},
	})

	league, err := client.GetLeague(t.Context(), "league-1")
	if err != nil {
		t.Fatalf("fetch league failed: %v", err)
	}
	if league.Name != "Dynasty League" {
		t.Fatalf("unexpected league: %+v", league)
	}
	if got := calls.Load(); got != 2 {
		t.Fatalf("upstream called %d times, want 2", got)
	}
}

func TestClient_NonRetryableStatusFailsImmediately(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		http.Error(w, "not found", http.StatusNotFound)
	}))

	_, err := client.ListLeagueRosters(t.Context(), "missing")
	if !errors.Is(err, usecase.ErrTransport) {
		t.Fatalf("expected transport error, got %v", err)
	}
	if got := calls.Load(); got != 1 {
		t.Fatalf("a 404 must not be retried, got %d calls", got)
	}
}

func TestClient_ListLeagueRosters_DropsUnknownFields(t *testing.T) {
	t.Parallel()

	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[{
			"roster_id": 3,
			"owner_id": "u1",
			"starters": ["4046"],
			"players": ["4046","6794"],
			"settings": {"wins": 8, "losses": 5, "ties": 0, "fpts": 1501.2, "fpts_against": 1320.8, "waiver_position": 4},
			"metadata": {"streak": "3W"},
			"taxi": []
		}]`))
	}))

	rosters, err := client.ListLeagueRosters(t.Context(), "league-1")
	if err != nil {
		t.Fatalf("fetch rosters failed: %v", err)
	}
	if len(rosters) != 1 {
		t.Fatalf("got %d rosters, want 1", len(rosters))
	}

	roster := rosters[0]
	if roster.RosterID != 3 || roster.OwnerID != "u1" {
		t.Fatalf("unexpected roster: %+v", roster)
	}
	if roster.Settings.Wins != 8 || roster.Settings.FPTS != 1501.2 {
		t.Fatalf("settings subset not decoded: %+v", roster.Settings)
	}
}

func TestClient_ListLeagueUsers_KeyedByUserID(t *testing.T) {
	t.Parallel()

	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[
			{"user_id":"u1","username":"alex","display_name":"Alex","is_owner":true},
			{"user_id":"u2","username":"sam","display_name":"Sam"},
			{"user_id":"","username":"ghost","display_name":"Ghost"}
		]`))
	}))

	users, err := client.ListLeagueUsers(t.Context(), "league-1")
	if err != nil {
		t.Fatalf("fetch users failed: %v", err)
	}
	if len(users) != 2 {
		t.Fatalf("got %d users, want 2", len(users))
	}
	if users["u1"].Username != "alex" {
		t.Fatalf("unexpected user map: %+v", users)
	}
}

func TestClient_ListTransactions_WeekFromLeg(t *testing.T) {
	t.Parallel()

	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/league/league-1/transactions/4" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		w.Write([]byte(`[
			{"transaction_id":"t1","type":"waiver","status":"complete","leg":4,"roster_ids":[1],"adds":{"4046":1},"drops":null},
			{"transaction_id":"","type":"waiver","status":"complete","leg":4}
		]`))
	}))

	txns, err := client.ListTransactions(t.Context(), "league-1", 4)
	if err != nil {
		t.Fatalf("fetch transactions failed: %v", err)
	}
	if len(txns) != 1 {
		t.Fatalf("got %d transactions, want 1", len(txns))
	}
	if txns[0].Week != 4 || txns[0].Adds["4046"] != 1 {
		t.Fatalf("unexpected transaction: %+v", txns[0])
	}
}

func TestClient_FetchPlayerCatalog(t *testing.T) {
	t.Parallel()

	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/players/nfl" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		w.Write([]byte(`{
			"4046": {"player_id":"4046","full_name":"Patrick Mahomes","position":"qb","team":"KC"},
			"9000": {"full_name":"Keyed Only","position":"WR","team":"DAL"}
		}`))
	}))

	catalog, err := client.FetchPlayerCatalog(t.Context())
	if err != nil {
		t.Fatalf("fetch catalog failed: %v", err)
	}
	if len(catalog) != 2 {
		t.Fatalf("got %d entries, want 2", len(catalog))
	}
	if catalog["4046"].Position != "QB" {
		t.Fatalf("position not upper-cased: %+v", catalog["4046"])
	}
	if catalog["9000"].PlayerID != "9000" {
		t.Fatalf("map key must backfill a missing player_id: %+v", catalog["9000"])
	}
}

func TestClient_CircuitBreakerShortCircuits(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	t.Cleanup(server.Close)

	client := NewClient(ClientConfig{
		BaseURL: server.URL,
		Timeout: 2 * time.Second,
		CircuitBreaker: resilience.CircuitBreakerConfig{
			Enabled:          true,
			FailureThreshold: 1,
			OpenTimeout:      time.Minute,
			HalfOpenMaxReq:   1,
		},
	})

	if _, err := client.GetLeague(t.Context(), "league-1"); !errors.Is(err, usecase.ErrTransport) {
		t.Fatalf("expected transport failure, got %v", err)
	}

	_, err := client.GetLeague(t.Context(), "league-1")
	if !errors.Is(err, usecase.ErrTransport) {
		t.Fatalf("expected circuit rejection as transport error, got %v", err)
	}
}
