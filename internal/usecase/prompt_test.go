package usecase

import (
	"strings"
	"testing"

	"github.com/gridironlab/companion/internal/domain/analysis"
)

func TestBuildAnalysisPrompt_Deterministic(t *testing.T) {
	t.Parallel()

	req := analyzeFixture()
	system1, user1, err := BuildAnalysisPrompt(req)
	if err != nil {
		t.Fatalf("build prompt failed: %v", err)
	}

	for i := 0; i < 50; i++ {
		system2, user2, err := BuildAnalysisPrompt(req)
		if err != nil {
			t.Fatalf("build prompt failed on iteration %d: %v", i, err)
		}
		if system2 != system1 {
			t.Fatal("system prompt differs between identical inputs")
		}
		if user2 != user1 {
			t.Fatalf("user prompt differs between identical inputs:\n%s\n---\n%s", user1, user2)
		}
	}
}

func TestBuildAnalysisPrompt_SectionOrder(t *testing.T) {
	t.Parallel()

	_, user, err := BuildAnalysisPrompt(analyzeFixture())
	if err != nil {
		t.Fatalf("build prompt failed: %v", err)
	}

	sections := []string{"League: ", "Users: ", "All rosters: ", "My roster: ", "Question: "}
	last := -1
	for _, section := range sections {
		idx := strings.Index(user, section)
		if idx < 0 {
			t.Fatalf("section %q missing from prompt:\n%s", section, user)
		}
		if idx < last {
			t.Fatalf("section %q out of order in prompt:\n%s", section, user)
		}
		last = idx
	}

	if !strings.HasSuffix(user, "Question: Who should I start at flex?") {
		t.Fatalf("question must terminate the prompt:\n%s", user)
	}
}

func TestBuildAnalysisPrompt_SortsMapKeys(t *testing.T) {
	t.Parallel()

	req := analyzeFixture()
	req.League.ScoringSettings = map[string]float64{
		"rec":     0.5,
		"pass_td": 4,
		"rush_td": 6,
		"bonus":   1,
	}

	_, user, err := BuildAnalysisPrompt(req)
	if err != nil {
		t.Fatalf("build prompt failed: %v", err)
	}

	want := `"scoring_settings":{"bonus":1,"pass_td":4,"rec":0.5,"rush_td":6}`
	if !strings.Contains(user, want) {
		t.Fatalf("scoring settings not serialized with sorted keys:\n%s", user)
	}
}

func TestBuildAnalysisPrompt_OmitsAbsentLeagueSettings(t *testing.T) {
	t.Parallel()

	req := analyzeFixture()
	playoffTeams := 6
	req.League.Settings = analysis.LeagueSettings{PlayoffTeams: &playoffTeams}

	_, user, err := BuildAnalysisPrompt(req)
	if err != nil {
		t.Fatalf("build prompt failed: %v", err)
	}
	if !strings.Contains(user, `"settings":{"playoff_teams":6}`) {
		t.Fatalf("present settings must serialize and absent ones must be omitted:\n%s", user)
	}
}
