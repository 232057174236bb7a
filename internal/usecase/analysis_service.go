package usecase

import (
	"context"
	"fmt"
	"strings"

	"github.com/gridironlab/companion/internal/domain/analysis"
	"github.com/gridironlab/companion/internal/domain/player"
	"github.com/gridironlab/companion/internal/platform/logging"
)

const (
	// ModelStandard and ModelPremium are the two analysis tiers.
	ModelStandard = "gpt-3.5-turbo"
	ModelPremium  = "gpt-4"

	// maxOutputTokens caps generated length; model cost scales with it.
	maxOutputTokens = 500
	// samplingTemperature keeps advice varied but not erratic.
	samplingTemperature = 0.7
)

// AnalysisService runs the analysis pipeline: validate the request,
// prune the payload to the whitelist, resolve player ids against the
// directory, assemble the prompt and call the model. Stages run
// strictly in that order; the directory lookup and the model call are
// the only two network hops.
type AnalysisService struct {
	playerRepo player.Repository
	chat       ChatClient
	logger     *logging.Logger
}

func NewAnalysisService(playerRepo player.Repository, chat ChatClient, logger *logging.Logger) *AnalysisService {
	if logger == nil {
		logger = logging.Default()
	}
	return &AnalysisService{
		playerRepo: playerRepo,
		chat:       chat,
		logger:     logger,
	}
}

// AnalyzeInput carries the request bundle plus the model tier flag.
type AnalyzeInput struct {
	Request         analysis.Request
	UsePremiumModel bool
}

func (s *AnalysisService) Analyze(ctx context.Context, in AnalyzeInput) (string, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.AnalysisService.Analyze")
	defer span.End()

	if missing := in.Request.MissingFields(); len(missing) > 0 {
		return "", fmt.Errorf("%w: missing required fields: %s", ErrInvalidInput, strings.Join(missing, ", "))
	}

	pruned := analysis.PruneRequest(in.Request)

	if err := s.resolvePlayerNames(ctx, &pruned); err != nil {
		return "", err
	}

	system, user, err := BuildAnalysisPrompt(pruned)
	if err != nil {
		return "", fmt.Errorf("build analysis prompt: %w", err)
	}

	model := ModelStandard
	if in.UsePremiumModel {
		model = ModelPremium
	}

	result, err := s.chat.CreateChatCompletion(ctx, ChatRequest{
		Model: model,
		Messages: []ChatMessage{
			{Role: "system", Content: system},
			{Role: "user", Content: user},
		},
		MaxTokens:   maxOutputTokens,
		Temperature: samplingTemperature,
	})
	if err != nil {
		return "", fmt.Errorf("generate analysis: %w", err)
	}

	s.logger.InfoContext(ctx, "analysis generated",
		"model", model,
		"rosters", len(pruned.AllRosters),
		"prompt_bytes", len(user),
	)

	return result, nil
}

// resolvePlayerNames joins every player id referenced by the request
// against the directory in a single bulk query and rewrites roster
// sequences with display strings. Ids the directory does not know keep
// their raw form: an untracked player is degraded output, not an
// error. A failing lookup is an error, since falling back for every
// player would silently gut the prompt.
func (s *AnalysisService) resolvePlayerNames(ctx context.Context, req *analysis.Request) error {
	ctx, span := startUsecaseSpan(ctx, "usecase.AnalysisService.resolvePlayerNames")
	defer span.End()

	ids := collectPlayerIDs(req)
	if len(ids) == 0 {
		return nil
	}

	records, err := s.playerRepo.GetByIDs(ctx, ids)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrDirectoryLookup, err)
	}

	displayByID := make(map[string]string, len(records))
	for _, rec := range records {
		displayByID[rec.ID] = rec.DisplayName()
	}

	s.logger.DebugContext(ctx, "player ids resolved",
		"requested", len(ids),
		"resolved", len(displayByID),
	)

	if req.MyRoster != nil {
		substituteIDs(req.MyRoster.Players, displayByID)
		substituteIDs(req.MyRoster.Starters, displayByID)
	}
	for i := range req.AllRosters {
		substituteIDs(req.AllRosters[i].Players, displayByID)
		substituteIDs(req.AllRosters[i].Starters, displayByID)
	}

	return nil
}

// collectPlayerIDs unions Players across the caller's roster and every
// league roster, first-seen order. Starters are a subset of Players
// and need no separate pass.
func collectPlayerIDs(req *analysis.Request) []string {
	seen := make(map[string]struct{})
	var ids []string

	appendIDs := func(playerIDs []string) {
		for _, id := range playerIDs {
			if id == "" {
				continue
			}
			if _, ok := seen[id]; ok {
				continue
			}
			seen[id] = struct{}{}
			ids = append(ids, id)
		}
	}

	if req.MyRoster != nil {
		appendIDs(req.MyRoster.Players)
	}
	for i := range req.AllRosters {
		appendIDs(req.AllRosters[i].Players)
	}

	return ids
}

// substituteIDs rewrites ids in place, preserving order and length.
func substituteIDs(ids []string, displayByID map[string]string) {
	for i, id := range ids {
		if display, ok := displayByID[id]; ok {
			ids[i] = display
		}
	}
}
