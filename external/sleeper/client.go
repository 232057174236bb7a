package sleeper

import (
	"context"
	stderrors "errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	sonic "github.com/bytedance/sonic"
	crerr "github.com/cockroachdb/errors"

	"github.com/gridironlab/companion/internal/domain/analysis"
	"github.com/gridironlab/companion/internal/platform/logging"
	"github.com/gridironlab/companion/internal/platform/resilience"
	"github.com/gridironlab/companion/internal/usecase"
)

const (
	defaultBaseURL = "https://api.sleeper.app/v1"
	defaultSport   = "nfl"

	// The full player catalog weighs several megabytes; everything
	// else is small.
	maxResponseBytes = 16 << 20
)

var errSleeperTransient = crerr.New("sleeper transient failure")

type ClientConfig struct {
	HTTPClient     *http.Client
	BaseURL        string
	Token          string
	Timeout        time.Duration
	MaxRetries     int
	Logger         *logging.Logger
	CircuitBreaker resilience.CircuitBreakerConfig
}

// Client reads league data from the Sleeper platform. All endpoints
// are public GETs; the optional token is only forwarded when set.
type Client struct {
	httpClient     *http.Client
	baseURL        string
	token          string
	maxRetries     int
	logger         *logging.Logger
	breaker        *resilience.CircuitBreaker
	circuitEnabled bool
	flight         resilience.SingleFlight
}

var (
	_ usecase.LeagueDataProvider    = (*Client)(nil)
	_ usecase.PlayerCatalogProvider = (*Client)(nil)
)

func NewClient(cfg ClientConfig) *Client {
	logger := cfg.Logger
	if logger == nil {
		logger = logging.Default()
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.Timeout}
	}
	if httpClient.Timeout <= 0 {
		httpClient.Timeout = 20 * time.Second
	}

	baseURL := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	breakerCfg := resilience.NormalizeCircuitBreakerConfig(cfg.CircuitBreaker)

	maxRetries := cfg.MaxRetries
	if maxRetries < 0 {
		maxRetries = 0
	}

	return &Client{
		httpClient:     httpClient,
		baseURL:        baseURL,
		token:          strings.TrimSpace(cfg.Token),
		maxRetries:     maxRetries,
		logger:         logger,
		breaker:        resilience.NewCircuitBreaker(breakerCfg.FailureThreshold, breakerCfg.OpenTimeout, breakerCfg.HalfOpenMaxReq),
		circuitEnabled: breakerCfg.Enabled,
	}
}

func (c *Client) GetUserByUsername(ctx context.Context, username string) (usecase.ExternalUser, error) {
	var raw rawUser
	if err := c.doJSON(ctx, "/user/"+url.PathEscape(username), &raw); err != nil {
		return usecase.ExternalUser{}, fmt.Errorf("fetch user %q: %w", username, err)
	}

	user := raw.toExternal()
	if user.UserID == "" {
		// The platform answers unknown usernames with a literal null.
		return usecase.ExternalUser{}, fmt.Errorf("%w: user %q not found", usecase.ErrInvalidInput, username)
	}
	return user, nil
}

func (c *Client) ListUserLeagues(ctx context.Context, userID, season string) ([]usecase.ExternalLeague, error) {
	path := "/user/" + url.PathEscape(userID) + "/leagues/" + defaultSport + "/" + url.PathEscape(season)

	var raw []rawLeagueSummary
	if err := c.doJSON(ctx, path, &raw); err != nil {
		return nil, fmt.Errorf("fetch leagues user_id=%s season=%s: %w", userID, season, err)
	}

	out := make([]usecase.ExternalLeague, 0, len(raw))
	for _, item := range raw {
		league := item.toExternal()
		if league.LeagueID == "" {
			continue
		}
		out = append(out, league)
	}
	return out, nil
}

func (c *Client) GetLeague(ctx context.Context, leagueID string) (analysis.League, error) {
	var raw rawLeagueDetail
	if err := c.doJSON(ctx, "/league/"+url.PathEscape(leagueID), &raw); err != nil {
		return analysis.League{}, fmt.Errorf("fetch league %s: %w", leagueID, err)
	}
	if raw.Name == "" && raw.Season == "" {
		return analysis.League{}, fmt.Errorf("%w: league %q not found", usecase.ErrInvalidInput, leagueID)
	}
	return raw, nil
}

func (c *Client) ListLeagueRosters(ctx context.Context, leagueID string) ([]analysis.Roster, error) {
	var raw []rawRoster
	if err := c.doJSON(ctx, "/league/"+url.PathEscape(leagueID)+"/rosters", &raw); err != nil {
		return nil, fmt.Errorf("fetch rosters league_id=%s: %w", leagueID, err)
	}
	return raw, nil
}

func (c *Client) ListLeagueUsers(ctx context.Context, leagueID string) (map[string]analysis.User, error) {
	var raw []rawUser
	if err := c.doJSON(ctx, "/league/"+url.PathEscape(leagueID)+"/users", &raw); err != nil {
		return nil, fmt.Errorf("fetch league users league_id=%s: %w", leagueID, err)
	}
	return mapLeagueUsers(raw), nil
}

func (c *Client) ListTransactions(ctx context.Context, leagueID string, week int) ([]usecase.ExternalTransaction, error) {
	path := "/league/" + url.PathEscape(leagueID) + "/transactions/" + strconv.Itoa(week)

	var raw []rawTransaction
	if err := c.doJSON(ctx, path, &raw); err != nil {
		return nil, fmt.Errorf("fetch transactions league_id=%s week=%d: %w", leagueID, week, err)
	}

	out := make([]usecase.ExternalTransaction, 0, len(raw))
	for _, item := range raw {
		txn := item.toExternal(week)
		if txn.TransactionID == "" {
			continue
		}
		out = append(out, txn)
	}
	return out, nil
}

func (c *Client) FetchPlayerCatalog(ctx context.Context) (map[string]usecase.ExternalCatalogPlayer, error) {
	var raw map[string]rawCatalogPlayer
	if err := c.doJSON(ctx, "/players/"+defaultSport, &raw); err != nil {
		return nil, fmt.Errorf("fetch player catalog: %w", err)
	}

	out := make(map[string]usecase.ExternalCatalogPlayer, len(raw))
	for key, item := range raw {
		entry := item.toExternal(key)
		if entry.PlayerID == "" {
			continue
		}
		out[entry.PlayerID] = entry
	}
	return out, nil
}

func (c *Client) doJSON(ctx context.Context, path string, target any) error {
	if c.circuitEnabled {
		if err := c.breaker.Allow(); err != nil {
			c.logger.WarnContext(ctx, "sleeper circuit breaker rejected request", "state", c.breaker.State())
			return fmt.Errorf("%w: league platform is temporarily unavailable", usecase.ErrTransport)
		}
	}

	fullURL := c.baseURL + path
	out, err, _ := c.flight.Do(path, func() (any, error) {
		raw, reqErr := c.executeRequest(ctx, fullURL)
		if c.circuitEnabled {
			if reqErr != nil && stderrors.Is(reqErr, errSleeperTransient) {
				c.breaker.RecordFailure()
			} else {
				c.breaker.RecordSuccess()
			}
		}
		return raw, reqErr
	})
	if err != nil {
		if stderrors.Is(err, errSleeperTransient) {
			return fmt.Errorf("%w: %v", usecase.ErrTransport, err)
		}
		return err
	}

	raw, ok := out.([]byte)
	if !ok {
		return fmt.Errorf("unexpected response payload type %T", out)
	}

	if err := sonic.Unmarshal(raw, target); err != nil {
		return fmt.Errorf("%w: decode platform payload: %v", usecase.ErrTransport, err)
	}
	return nil
}

func (c *Client) executeRequest(ctx context.Context, fullURL string) ([]byte, error) {
	var lastErr error
	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
		if err != nil {
			return nil, fmt.Errorf("build request: %w", err)
		}
		req.Header.Set("accept", "application/json")
		if c.token != "" {
			req.Header.Set("Authorization", "Bearer "+c.token)
		}

		resp, err := c.httpClient.Do(req)
		if err != nil {
			lastErr = fmt.Errorf("%w: send request: %v", errSleeperTransient, err)
		} else {
			raw, readErr := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
			_ = resp.Body.Close()
			switch {
			case readErr != nil:
				lastErr = fmt.Errorf("%w: read response body: %v", errSleeperTransient, readErr)
			case resp.StatusCode >= 200 && resp.StatusCode < 300:
				return raw, nil
			case isRetryableStatus(resp.StatusCode):
				lastErr = fmt.Errorf("%w: platform status=%d body=%s", errSleeperTransient, resp.StatusCode, abbreviateBody(raw))
			default:
				return nil, fmt.Errorf("%w: platform status=%d body=%s", usecase.ErrTransport, resp.StatusCode, abbreviateBody(raw))
			}
		}

		if attempt == c.maxRetries {
			break
		}
		backoff := time.Duration(attempt+1) * time.Second
		timer := time.NewTimer(backoff)
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil, ctx.Err()
		case <-timer.C:
		}
	}

	if lastErr == nil {
		lastErr = fmt.Errorf("%w: platform request failed", errSleeperTransient)
	}
	c.logger.WarnContext(ctx, "sleeper request failed", "url", fullURL, "error", lastErr)
	return nil, lastErr
}

func isRetryableStatus(code int) bool {
	return code == http.StatusTooManyRequests || code >= http.StatusInternalServerError
}

func abbreviateBody(body []byte) string {
	text := strings.TrimSpace(string(body))
	if len(text) <= 240 {
		return text
	}
	return text[:240] + "..."
}
