package usecase

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"sync"

	"github.com/panjf2000/ants/v2"
	"github.com/sourcegraph/conc/pool"

	"github.com/gridironlab/companion/internal/domain/analysis"
	"github.com/gridironlab/companion/internal/platform/cache"
	"github.com/gridironlab/companion/internal/platform/logging"
)

const transactionFetchWorkers = 4

// LeagueSnapshot bundles everything a client needs to assemble an
// analysis request for a league.
type LeagueSnapshot struct {
	League  analysis.League          `json:"league"`
	Rosters []analysis.Roster        `json:"rosters"`
	Users   map[string]analysis.User `json:"users"`
}

// LeagueService serves league platform reads through the TTL cache.
// The platform data is public and slow-moving; the cache bounds
// upstream call volume, not correctness.
type LeagueService struct {
	provider LeagueDataProvider
	store    *cache.Store
	logger   *logging.Logger
}

func NewLeagueService(provider LeagueDataProvider, store *cache.Store, logger *logging.Logger) *LeagueService {
	if logger == nil {
		logger = logging.Default()
	}
	return &LeagueService{
		provider: provider,
		store:    store,
		logger:   logger,
	}
}

func (s *LeagueService) GetUserByUsername(ctx context.Context, username string) (ExternalUser, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.LeagueService.GetUserByUsername")
	defer span.End()

	username = strings.TrimSpace(username)
	if username == "" {
		return ExternalUser{}, fmt.Errorf("%w: username is required", ErrInvalidInput)
	}

	value, err := s.store.GetOrLoad(ctx, "user:"+username, func(ctx context.Context) (any, error) {
		return s.provider.GetUserByUsername(ctx, username)
	})
	if err != nil {
		return ExternalUser{}, fmt.Errorf("get user by username: %w", err)
	}

	return value.(ExternalUser), nil
}

func (s *LeagueService) ListUserLeagues(ctx context.Context, userID, season string) ([]ExternalLeague, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.LeagueService.ListUserLeagues")
	defer span.End()

	userID = strings.TrimSpace(userID)
	season = strings.TrimSpace(season)
	if userID == "" {
		return nil, fmt.Errorf("%w: user id is required", ErrInvalidInput)
	}
	if season == "" {
		return nil, fmt.Errorf("%w: season is required", ErrInvalidInput)
	}

	value, err := s.store.GetOrLoad(ctx, "leagues:"+userID+":"+season, func(ctx context.Context) (any, error) {
		return s.provider.ListUserLeagues(ctx, userID, season)
	})
	if err != nil {
		return nil, fmt.Errorf("list user leagues: %w", err)
	}

	return value.([]ExternalLeague), nil
}

func (s *LeagueService) GetLeague(ctx context.Context, leagueID string) (analysis.League, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.LeagueService.GetLeague")
	defer span.End()

	leagueID = strings.TrimSpace(leagueID)
	if leagueID == "" {
		return analysis.League{}, fmt.Errorf("%w: league id is required", ErrInvalidInput)
	}

	value, err := s.store.GetOrLoad(ctx, "league:"+leagueID, func(ctx context.Context) (any, error) {
		return s.provider.GetLeague(ctx, leagueID)
	})
	if err != nil {
		return analysis.League{}, fmt.Errorf("get league: %w", err)
	}

	return value.(analysis.League), nil
}

func (s *LeagueService) ListLeagueRosters(ctx context.Context, leagueID string) ([]analysis.Roster, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.LeagueService.ListLeagueRosters")
	defer span.End()

	leagueID = strings.TrimSpace(leagueID)
	if leagueID == "" {
		return nil, fmt.Errorf("%w: league id is required", ErrInvalidInput)
	}

	value, err := s.store.GetOrLoad(ctx, "rosters:"+leagueID, func(ctx context.Context) (any, error) {
		return s.provider.ListLeagueRosters(ctx, leagueID)
	})
	if err != nil {
		return nil, fmt.Errorf("list league rosters: %w", err)
	}

	return value.([]analysis.Roster), nil
}

func (s *LeagueService) ListLeagueUsers(ctx context.Context, leagueID string) (map[string]analysis.User, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.LeagueService.ListLeagueUsers")
	defer span.End()

	leagueID = strings.TrimSpace(leagueID)
	if leagueID == "" {
		return nil, fmt.Errorf("%w: league id is required", ErrInvalidInput)
	}

	value, err := s.store.GetOrLoad(ctx, "users:"+leagueID, func(ctx context.Context) (any, error) {
		return s.provider.ListLeagueUsers(ctx, leagueID)
	})
	if err != nil {
		return nil, fmt.Errorf("list league users: %w", err)
	}

	return value.(map[string]analysis.User), nil
}

// GetLeagueSnapshot fetches league detail, rosters and users
// concurrently and assembles them into one bundle.
func (s *LeagueService) GetLeagueSnapshot(ctx context.Context, leagueID string) (LeagueSnapshot, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.LeagueService.GetLeagueSnapshot")
	defer span.End()

	leagueID = strings.TrimSpace(leagueID)
	if leagueID == "" {
		return LeagueSnapshot{}, fmt.Errorf("%w: league id is required", ErrInvalidInput)
	}

	var snapshot LeagueSnapshot

	p := pool.New().WithContext(ctx).WithCancelOnError().WithFirstError()
	p.Go(func(ctx context.Context) error {
		league, err := s.GetLeague(ctx, leagueID)
		if err != nil {
			return err
		}
		snapshot.League = league
		return nil
	})
	p.Go(func(ctx context.Context) error {
		rosters, err := s.ListLeagueRosters(ctx, leagueID)
		if err != nil {
			return err
		}
		snapshot.Rosters = rosters
		return nil
	})
	p.Go(func(ctx context.Context) error {
		users, err := s.ListLeagueUsers(ctx, leagueID)
		if err != nil {
			return err
		}
		snapshot.Users = users
		return nil
	})

	if err := p.Wait(); err != nil {
		return LeagueSnapshot{}, fmt.Errorf("fetch league snapshot: %w", err)
	}

	return snapshot, nil
}

// ListRecentTransactions fans per-week transaction fetches out over a
// bounded worker pool and merges the results in week order.
func (s *LeagueService) ListRecentTransactions(ctx context.Context, leagueID string, throughWeek int) ([]ExternalTransaction, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.LeagueService.ListRecentTransactions")
	defer span.End()

	leagueID = strings.TrimSpace(leagueID)
	if leagueID == "" {
		return nil, fmt.Errorf("%w: league id is required", ErrInvalidInput)
	}
	if throughWeek < 1 {
		return nil, fmt.Errorf("%w: through week must be at least 1", ErrInvalidInput)
	}

	workers, err := ants.NewPool(transactionFetchWorkers)
	if err != nil {
		return nil, fmt.Errorf("create worker pool: %w", err)
	}
	defer workers.Release()

	byWeek := make([][]ExternalTransaction, throughWeek)
	errs := make([]error, throughWeek)

	var wg sync.WaitGroup
	for week := 1; week <= throughWeek; week++ {
		week := week
		wg.Add(1)
		if err := workers.Submit(func() {
			defer wg.Done()

			cacheKey := "transactions:" + leagueID + ":" + strconv.Itoa(week)
			value, loadErr := s.store.GetOrLoad(ctx, cacheKey, func(ctx context.Context) (any, error) {
				return s.provider.ListTransactions(ctx, leagueID, week)
			})
			if loadErr != nil {
				errs[week-1] = loadErr
				return
			}
			byWeek[week-1] = value.([]ExternalTransaction)
		}); err != nil {
			wg.Done()
			return nil, fmt.Errorf("submit transaction fetch: %w", err)
		}
	}
	wg.Wait()

	for week, fetchErr := range errs {
		if fetchErr != nil {
			return nil, fmt.Errorf("list transactions week %d: %w", week+1, fetchErr)
		}
	}

	var out []ExternalTransaction
	for _, weekTxns := range byWeek {
		out = append(out, weekTxns...)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Week < out[j].Week })

	return out, nil
}
