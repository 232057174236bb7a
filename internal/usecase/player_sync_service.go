package usecase

import (
	"context"
	"fmt"
	"sort"

	"github.com/gridironlab/companion/internal/domain/player"
	"github.com/gridironlab/companion/internal/platform/logging"
)

// UpsertBatchLimit is the storage backend's accepted row ceiling per
// upsert request.
const UpsertBatchLimit = 1000

// PlayerSyncService refreshes the player directory from the upstream
// catalog. It is a periodic best-effort cache refresh: a failed batch
// aborts the whole run rather than attempting partial-commit recovery.
type PlayerSyncService struct {
	catalog    PlayerCatalogProvider
	playerRepo player.Repository
	batchSize  int
	logger     *logging.Logger
}

func NewPlayerSyncService(catalog PlayerCatalogProvider, playerRepo player.Repository, logger *logging.Logger) *PlayerSyncService {
	if logger == nil {
		logger = logging.Default()
	}
	return &PlayerSyncService{
		catalog:    catalog,
		playerRepo: playerRepo,
		batchSize:  UpsertBatchLimit,
		logger:     logger,
	}
}

// SyncReport summarizes one directory refresh.
type SyncReport struct {
	CatalogSize int
	Upserted    int
	Skipped     int
	Batches     int
}

// Run fetches the full catalog, keeps skill-position players with a
// display name, and upserts them keyed by player id in bounded
// batches. Re-running with identical upstream data is a no-op in
// effect.
func (s *PlayerSyncService) Run(ctx context.Context) (SyncReport, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.PlayerSyncService.Run")
	defer span.End()

	catalog, err := s.catalog.FetchPlayerCatalog(ctx)
	if err != nil {
		return SyncReport{}, fmt.Errorf("fetch player catalog: %w", err)
	}

	report := SyncReport{CatalogSize: len(catalog)}

	records := make([]player.Player, 0, len(catalog))
	for _, entry := range catalog {
		rec, ok := directoryRecord(entry)
		if !ok {
			report.Skipped++
			continue
		}
		records = append(records, rec)
	}

	// Deterministic batch contents across runs.
	sort.Slice(records, func(i, j int) bool { return records[i].ID < records[j].ID })

	for start := 0; start < len(records); start += s.batchSize {
		end := start + s.batchSize
		if end > len(records) {
			end = len(records)
		}

		batch := records[start:end]
		if err := s.playerRepo.UpsertBatch(ctx, batch); err != nil {
			return SyncReport{}, fmt.Errorf("upsert players batch %d: %w", report.Batches+1, err)
		}
		report.Batches++
		report.Upserted += len(batch)
	}

	s.logger.InfoContext(ctx, "player directory synchronized",
		"catalog_size", report.CatalogSize,
		"upserted", report.Upserted,
		"skipped", report.Skipped,
		"batches", report.Batches,
	)

	return report, nil
}

// directoryRecord filters one catalog entry down to a directory row:
// the four skill positions, a non-empty display name, and the free
// agent sentinel for a missing team.
func directoryRecord(entry ExternalCatalogPlayer) (player.Player, bool) {
	if entry.PlayerID == "" || entry.FullName == "" {
		return player.Player{}, false
	}

	position := player.Position(entry.Position)
	if _, ok := player.SkillPositions[position]; !ok {
		return player.Player{}, false
	}

	team := entry.Team
	if team == "" {
		team = player.TeamFreeAgent
	}

	return player.Player{
		ID:       entry.PlayerID,
		FullName: entry.FullName,
		Position: position,
		Team:     team,
	}, true
}
