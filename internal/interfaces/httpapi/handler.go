package httpapi

import (
	"context"
	"fmt"

	"github.com/go-playground/validator/v10"

	"github.com/gridironlab/companion/internal/platform/logging"
	"github.com/gridironlab/companion/internal/usecase"
)

type Handler struct {
	analysisService *usecase.AnalysisService
	leagueService   *usecase.LeagueService
	logger          *logging.Logger
	validator       *validator.Validate

	// exposeErrorDetails gates the stack field on analysis failures;
	// only non-production builds set it.
	exposeErrorDetails bool
}

func NewHandler(
	analysisService *usecase.AnalysisService,
	leagueService *usecase.LeagueService,
	logger *logging.Logger,
	exposeErrorDetails bool,
) *Handler {
	if logger == nil {
		logger = logging.Default()
	}

	return &Handler{
		analysisService:    analysisService,
		leagueService:      leagueService,
		logger:             logger,
		validator:          validator.New(),
		exposeErrorDetails: exposeErrorDetails,
	}
}

func (h *Handler) validateRequest(ctx context.Context, payload any) error {
	ctx, span := startSpan(ctx, "httpapi.Handler.validateRequest")
	defer span.End()

	if err := h.validator.StructCtx(ctx, payload); err != nil {
		return fmt.Errorf("%w: validation failed: %v", usecase.ErrInvalidInput, err)
	}

	return nil
}
