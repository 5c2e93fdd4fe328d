package analysis

import (
	"context"
	"fmt"

	"github.com/ppiankov/lacuna/internal/llm"
	"github.com/ppiankov/lacuna/internal/model"
	"github.com/ppiankov/lacuna/internal/util"
)

type generatedQuestion struct {
	GapID                string   `json:"gap_id"`
	Question             string   `json:"question"`
	Rationale            string   `json:"rationale"`
	RelatedThemeIDs      []string `json:"related_theme_ids"`
	SuggestedMethodology string   `json:"suggested_methodology"`
	PriorityScore        float64  `json:"priority_score"`
}

type questionResponse struct {
	Questions []generatedQuestion `json:"questions"`
}

// Validate checks question shape and priority bounds
func (r questionResponse) Validate() error {
	for i, q := range r.Questions {
		if q.Question == "" {
			return fmt.Errorf("question %d: empty question", i)
		}
		if q.PriorityScore < 0 || q.PriorityScore > 1 {
			return fmt.Errorf("question %d: priority score %v out of range", i, q.PriorityScore)
		}
	}
	return nil
}

// QuestionGenerator turns identified gaps into concrete research
// questions via the oracle
type QuestionGenerator struct {
	ex *llm.Extractor
}

// NewQuestionGenerator creates a new question generator
func NewQuestionGenerator(ex *llm.Extractor) *QuestionGenerator {
	return &QuestionGenerator{ex: ex}
}

// Generate produces 1-3 research questions per gap. Questions citing an
// unknown gap ID are dropped entirely; theme references are filtered to
// known themes. With no gaps it returns nil without an oracle call.
func (g *QuestionGenerator) Generate(ctx context.Context, gaps []model.Gap, themes []model.Theme) ([]model.ResearchQuestion, error) {
	if len(gaps) == 0 {
		return nil, nil
	}

	result, err := llm.Extract[questionResponse](ctx, g.ex, llm.Request{
		Prompt:       questionGenerationPrompt(gaps, themes),
		SystemPrompt: questionGenerationSystem,
	})
	if err != nil {
		return nil, fmt.Errorf("generate questions: %w", err)
	}

	gapIDs := make(map[string]bool, len(gaps))
	for _, gap := range gaps {
		gapIDs[gap.ID] = true
	}
	themeIDs := make(map[string]bool, len(themes))
	for _, t := range themes {
		themeIDs[t.ID] = true
	}

	questions := make([]model.ResearchQuestion, 0, len(result.Questions))
	for _, raw := range result.Questions {
		if !gapIDs[raw.GapID] {
			continue
		}

		related := make([]string, 0, len(raw.RelatedThemeIDs))
		for _, id := range raw.RelatedThemeIDs {
			if themeIDs[id] {
				related = append(related, id)
			}
		}

		questions = append(questions, model.ResearchQuestion{
			ID:                   util.NewID("question"),
			GapID:                raw.GapID,
			Question:             raw.Question,
			Rationale:            raw.Rationale,
			RelatedThemeIDs:      related,
			SuggestedMethodology: raw.SuggestedMethodology,
			PriorityScore:        raw.PriorityScore,
		})
	}

	return questions, nil
}
