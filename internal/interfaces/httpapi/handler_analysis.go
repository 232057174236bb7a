package httpapi

import (
	"errors"
	"fmt"
	"mime"
	"net/http"
	"strings"

	sonic "github.com/bytedance/sonic"
	crerr "github.com/cockroachdb/errors"

	"github.com/gridironlab/companion/internal/domain/analysis"
	"github.com/gridironlab/companion/internal/usecase"
)

// The analysis route's bodies are a fixed client contract: existing
// consumers match on these exact strings.
const (
	msgBadContentType  = "Content-Type must be application/json"
	msgMissingData     = "Missing required data for AI analysis"
	msgAnalysisFailure = "AI analysis failed"
)

type analysisRequestBody struct {
	analysis.Request
	UseGPT4 bool `json:"useGPT4"`
}

type analysisSuccessBody struct {
	Result string `json:"result"`
}

type analysisFailureBody struct {
	Error   string `json:"error"`
	Details string `json:"details"`
	Stack   string `json:"stack,omitempty"`
}

func (h *Handler) AnalyzeRoster(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.AnalyzeRoster")
	defer span.End()

	if !isJSONContentType(r.Header.Get("Content-Type")) {
		writeJSON(ctx, w, http.StatusBadRequest, errorBody{Error: msgBadContentType})
		return
	}

	var body analysisRequestBody
	if err := sonic.ConfigDefault.NewDecoder(r.Body).Decode(&body); err != nil {
		writeJSON(ctx, w, http.StatusBadRequest, errorBody{Error: msgMissingData})
		return
	}

	result, err := h.analysisService.Analyze(ctx, usecase.AnalyzeInput{
		Request:         body.Request,
		UsePremiumModel: body.UseGPT4,
	})
	if err != nil {
		if errors.Is(err, usecase.ErrInvalidInput) {
			h.logger.WarnContext(ctx, "analysis request rejected", "error", err)
			writeJSON(ctx, w, http.StatusBadRequest, errorBody{Error: msgMissingData})
			return
		}

		h.logger.ErrorContext(ctx, "analysis failed", "error", err)
		failure := analysisFailureBody{
			Error:   msgAnalysisFailure,
			Details: err.Error(),
		}
		if h.exposeErrorDetails {
			failure.Stack = stackTrace(err)
		}
		writeJSON(ctx, w, http.StatusInternalServerError, failure)
		return
	}

	writeJSON(ctx, w, http.StatusOK, analysisSuccessBody{Result: result})
}

func isJSONContentType(header string) bool {
	mediaType, _, err := mime.ParseMediaType(strings.TrimSpace(header))
	if err != nil {
		return false
	}
	return mediaType == "application/json"
}

// stackTrace renders the error chain with a stack captured at the
// HTTP boundary. Service errors are plain wrapped sentinels, so the
// capture happens here rather than at each raise site.
func stackTrace(err error) string {
	return fmt.Sprintf("%+v", crerr.WithStack(err))
}
