package app

import (
	"fmt"
	"net/http"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/uptrace/opentelemetry-go-extra/otelsql"
	"github.com/uptrace/opentelemetry-go-extra/otelsqlx"
	semconv "go.opentelemetry.io/otel/semconv/v1.12.0"

	"github.com/gridironlab/companion/external/openai"
	"github.com/gridironlab/companion/external/sleeper"
	"github.com/gridironlab/companion/internal/config"
	"github.com/gridironlab/companion/internal/infrastructure/repository/postgres"
	"github.com/gridironlab/companion/internal/interfaces/httpapi"
	"github.com/gridironlab/companion/internal/platform/cache"
	"github.com/gridironlab/companion/internal/platform/logging"
	"github.com/gridironlab/companion/internal/platform/resilience"
	"github.com/gridironlab/companion/internal/usecase"
)

// NewHTTPServer wires the full dependency graph and returns a server
// ready to listen, plus a close function that releases the DB pool.
func NewHTTPServer(cfg config.Config, logger *logging.Logger) (*http.Server, func() error, error) {
	db, err := openDB(cfg)
	if err != nil {
		return nil, nil, fmt.Errorf("open database: %w", err)
	}

	playerRepo := postgres.NewPlayerRepository(db)
	store := cache.NewStore(cfg.CacheTTL)

	sleeperClient := sleeper.NewClient(sleeper.ClientConfig{
		BaseURL:    cfg.SleeperBaseURL,
		Token:      cfg.SleeperToken,
		Timeout:    cfg.SleeperTimeout,
		MaxRetries: cfg.SleeperMaxRetries,
		Logger:     logger,
		CircuitBreaker: resilience.CircuitBreakerConfig{
			Enabled:          cfg.SleeperCircuitEnabled,
			FailureThreshold: cfg.SleeperCircuitFailureCount,
			OpenTimeout:      cfg.SleeperCircuitOpenTimeout,
			HalfOpenMaxReq:   cfg.SleeperCircuitHalfOpenMaxReq,
		},
	})

	openAIClient := openai.NewClient(openai.ClientConfig{
		BaseURL: cfg.OpenAIBaseURL,
		APIKey:  cfg.OpenAIAPIKey,
		Timeout: cfg.OpenAITimeout,
		Logger:  logger,
	})

	analysisSvc := usecase.NewAnalysisService(playerRepo, openAIClient, logger)
	leagueSvc := usecase.NewLeagueService(sleeperClient, store, logger)

	handler := httpapi.NewHandler(analysisSvc, leagueSvc, logger, cfg.ExposeErrorDetails())
	router := httpapi.NewRouter(handler, logger, cfg.CORSAllowedOrigins)

	server := &http.Server{
		Addr:         cfg.HTTPAddr,
		Handler:      router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}

	if server.Addr == "" {
		_ = db.Close()
		return nil, nil, fmt.Errorf("http server addr cannot be empty")
	}

	return server, db.Close, nil
}

// NewPlayerSync builds the player directory sync pipeline for the
// one-shot sync command.
func NewPlayerSync(cfg config.Config, logger *logging.Logger) (*usecase.PlayerSyncService, func() error, error) {
	db, err := openDB(cfg)
	if err != nil {
		return nil, nil, fmt.Errorf("open database: %w", err)
	}

	playerRepo := postgres.NewPlayerRepository(db)

	sleeperClient := sleeper.NewClient(sleeper.ClientConfig{
		BaseURL:    cfg.SleeperBaseURL,
		Token:      cfg.SleeperToken,
		Timeout:    cfg.SleeperTimeout,
		MaxRetries: cfg.SleeperMaxRetries,
		Logger:     logger,
		CircuitBreaker: resilience.CircuitBreakerConfig{
			Enabled:          cfg.SleeperCircuitEnabled,
			FailureThreshold: cfg.SleeperCircuitFailureCount,
			OpenTimeout:      cfg.SleeperCircuitOpenTimeout,
			HalfOpenMaxReq:   cfg.SleeperCircuitHalfOpenMaxReq,
		},
	})

	return usecase.NewPlayerSyncService(sleeperClient, playerRepo, logger), db.Close, nil
}

func openDB(cfg config.Config) (*sqlx.DB, error) {
	dsn := normalizeDBURL(cfg.DBURL, cfg.DBDisablePreparedBinary)

	db, err := otelsqlx.Connect("postgres", dsn,
		otelsql.WithAttributes(semconv.DBSystemPostgreSQL),
		otelsql.WithDBName(dbNameFromURL(cfg.DBURL)),
		otelsql.WithQueryFormatter(formatDBQueryForTrace),
	)
	if err != nil {
		return nil, err
	}

	return db, nil
}
