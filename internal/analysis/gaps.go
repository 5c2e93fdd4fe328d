package analysis

import (
	"context"
	"fmt"

	"github.com/ppiankov/lacuna/internal/llm"
	"github.com/ppiankov/lacuna/internal/model"
	"github.com/ppiankov/lacuna/internal/util"
)

type identifiedGap struct {
	Title           string        `json:"title"`
	Description     string        `json:"description"`
	Type            model.GapType `json:"type"`
	RelatedThemeIDs []string      `json:"related_theme_ids"`
	Confidence      float64       `json:"confidence"`
	Evidence        string        `json:"evidence"`
	PotentialImpact string        `json:"potential_impact"`
}

type gapResponse struct {
	Gaps []identifiedGap `json:"gaps"`
}

// Validate checks gap types and confidence bounds
func (r gapResponse) Validate() error {
	for i, g := range r.Gaps {
		if !g.Type.Valid() {
			return fmt.Errorf("gap %d: invalid type %q", i, g.Type)
		}
		if g.Confidence < 0 || g.Confidence > 1 {
			return fmt.Errorf("gap %d: confidence %v out of range", i, g.Confidence)
		}
	}
	return nil
}

// GapFinder identifies under-researched areas from the theme graph.
// Structural signals (unlinked theme pairs, sparse themes, contradiction
// areas) are computed locally and handed to the oracle as evidence.
type GapFinder struct {
	ex              *llm.Extractor
	sparseThreshold float64
}

// NewGapFinder creates a gap finder; themes below sparseThreshold
// density are flagged as sparsely covered
func NewGapFinder(ex *llm.Extractor, sparseThreshold float64) *GapFinder {
	if sparseThreshold <= 0 {
		sparseThreshold = 0.2
	}
	return &GapFinder{ex: ex, sparseThreshold: sparseThreshold}
}

func unexploredIntersections(themes []model.Theme, relationships []model.Relationship) []string {
	connected := map[string]bool{}
	for _, r := range relationships {
		connected[pairKey(r.SourceThemeID, r.TargetThemeID)] = true
	}

	var signals []string
	for i := 0; i < len(themes); i++ {
		for j := i + 1; j < len(themes); j++ {
			if connected[pairKey(themes[i].ID, themes[j].ID)] {
				continue
			}
			signals = append(signals, fmt.Sprintf("Unexplored intersection: %q and %q have no identified relationship",
				themes[i].Label, themes[j].Label))
		}
	}
	return signals
}

func (f *GapFinder) sparseCoverage(themes []model.Theme) []string {
	var signals []string
	for _, t := range themes {
		if t.Density < f.sparseThreshold {
			signals = append(signals, fmt.Sprintf("Sparse coverage: %q has low density (%.2f)", t.Label, t.Density))
		}
	}
	return signals
}

func contradictoryAreas(contradictions []model.Contradiction) []string {
	var signals []string
	for _, c := range contradictions {
		signals = append(signals, fmt.Sprintf("Contradictory area: %s (severity: %s)", c.Description, c.Severity))
	}
	return signals
}

// Find asks the oracle for knowledge gaps given the analyzed landscape.
// Gap theme references the oracle invented are dropped. With no themes
// the finder returns nil without an oracle call.
func (f *GapFinder) Find(ctx context.Context, themes []model.Theme, relationships []model.Relationship, contradictions []model.Contradiction) ([]model.Gap, error) {
	if len(themes) == 0 {
		return nil, nil
	}

	var signals []string
	signals = append(signals, unexploredIntersections(themes, relationships)...)
	signals = append(signals, f.sparseCoverage(themes)...)
	signals = append(signals, contradictoryAreas(contradictions)...)

	result, err := llm.Extract[gapResponse](ctx, f.ex, llm.Request{
		Prompt:       gapAnalysisPrompt(themes, relationships, signals),
		SystemPrompt: gapAnalysisSystem,
	})
	if err != nil {
		return nil, fmt.Errorf("find gaps: %w", err)
	}

	themeIDs := make(map[string]bool, len(themes))
	for _, t := range themes {
		themeIDs[t.ID] = true
	}

	gaps := make([]model.Gap, 0, len(result.Gaps))
	for _, raw := range result.Gaps {
		related := make([]string, 0, len(raw.RelatedThemeIDs))
		for _, id := range raw.RelatedThemeIDs {
			if themeIDs[id] {
				related = append(related, id)
			}
		}

		gaps = append(gaps, model.Gap{
			ID:              util.NewID("gap"),
			Title:           raw.Title,
			Description:     raw.Description,
			Type:            raw.Type,
			RelatedThemeIDs: related,
			Confidence:      raw.Confidence,
			Evidence:        raw.Evidence,
			PotentialImpact: raw.PotentialImpact,
		})
	}

	return gaps, nil
}
