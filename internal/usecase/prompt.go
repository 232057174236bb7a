package usecase

import (
	"fmt"

	sonic "github.com/bytedance/sonic"
	"github.com/valyala/bytebufferpool"

	"github.com/gridironlab/companion/internal/domain/analysis"
)

// systemPrompt pins the model's persona and forbids it from reaching
// outside the supplied data.
const systemPrompt = "You are a fantasy football expert advising one manager in their league. " +
	"Use only the league data supplied in the message; do not invent players, records, or settings. " +
	"Give a direct recommendation and a short justification."

// promptJSON is std-compatible sonic: map keys are sorted, so the same
// request always serializes to the same bytes. That keeps responses
// reproducible for testing and cacheable by prompt.
var promptJSON = sonic.ConfigStd

// BuildAnalysisPrompt assembles the two message segments sent to the
// analysis service: the fixed system instruction and one user message
// serializing, in order, league info, the user directory, every
// roster, the caller's own roster, and the free-text question.
func BuildAnalysisPrompt(req analysis.Request) (string, string, error) {
	league, err := promptJSON.Marshal(req.League)
	if err != nil {
		return "", "", fmt.Errorf("serialize league: %w", err)
	}
	users, err := promptJSON.Marshal(req.Users)
	if err != nil {
		return "", "", fmt.Errorf("serialize users: %w", err)
	}
	allRosters, err := promptJSON.Marshal(req.AllRosters)
	if err != nil {
		return "", "", fmt.Errorf("serialize rosters: %w", err)
	}
	myRoster, err := promptJSON.Marshal(req.MyRoster)
	if err != nil {
		return "", "", fmt.Errorf("serialize my roster: %w", err)
	}

	buf := bytebufferpool.Get()
	defer bytebufferpool.Put(buf)

	_, _ = buf.WriteString("League: ")
	_, _ = buf.Write(league)
	_, _ = buf.WriteString("\nUsers: ")
	_, _ = buf.Write(users)
	_, _ = buf.WriteString("\nAll rosters: ")
	_, _ = buf.Write(allRosters)
	_, _ = buf.WriteString("\nMy roster: ")
	_, _ = buf.Write(myRoster)
	_, _ = buf.WriteString("\nQuestion: ")
	_, _ = buf.WriteString(req.Question)

	return systemPrompt, buf.String(), nil
}
