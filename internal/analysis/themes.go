package analysis

import (
	"context"
	"fmt"

	"github.com/ppiankov/lacuna/internal/llm"
	"github.com/ppiankov/lacuna/internal/model"
	"github.com/ppiankov/lacuna/internal/util"
)

type clusteredTheme struct {
	Label       string   `json:"label"`
	Description string   `json:"description"`
	ClaimIDs    []string `json:"claim_ids"`
}

type themeClusteringResponse struct {
	Themes []clusteredTheme `json:"themes"`
}

// Validate checks the clustered theme shapes
func (r themeClusteringResponse) Validate() error {
	for i, t := range r.Themes {
		if t.Label == "" {
			return fmt.Errorf("theme %d: empty label", i)
		}
	}
	return nil
}

// ThemeClusterer groups claims into research themes via the oracle
type ThemeClusterer struct {
	ex *llm.Extractor
}

// NewThemeClusterer creates a new theme clusterer
func NewThemeClusterer(ex *llm.Extractor) *ThemeClusterer {
	return &ThemeClusterer{ex: ex}
}

// Cluster asks the oracle for theme groupings over the given claims.
// Claim IDs the oracle invented are dropped; density is the fraction of
// all input claims a theme covers, clamped to 1. With no claims the
// clusterer returns nil without an oracle call.
func (t *ThemeClusterer) Cluster(ctx context.Context, claims []model.Claim) ([]model.Theme, error) {
	if len(claims) == 0 {
		return nil, nil
	}

	result, err := llm.Extract[themeClusteringResponse](ctx, t.ex, llm.Request{
		Prompt:       themeClusteringPrompt(claims),
		SystemPrompt: themeClusteringSystem,
	})
	if err != nil {
		return nil, fmt.Errorf("cluster themes: %w", err)
	}

	claimToPaper := make(map[string]string, len(claims))
	for _, c := range claims {
		claimToPaper[c.ID] = c.PaperID
	}

	themes := make([]model.Theme, 0, len(result.Themes))
	for _, raw := range result.Themes {
		validClaimIDs := make([]string, 0, len(raw.ClaimIDs))
		paperIDs := []string{}
		seenPapers := map[string]bool{}

		for _, id := range raw.ClaimIDs {
			paperID, ok := claimToPaper[id]
			if !ok {
				continue
			}
			validClaimIDs = append(validClaimIDs, id)
			if !seenPapers[paperID] {
				seenPapers[paperID] = true
				paperIDs = append(paperIDs, paperID)
			}
		}

		density := float64(len(validClaimIDs)) / float64(len(claims))
		if density > 1 {
			density = 1
		}

		themes = append(themes, model.Theme{
			ID:          util.NewID("theme"),
			Label:       raw.Label,
			Description: raw.Description,
			ClaimIDs:    validClaimIDs,
			PaperIDs:    paperIDs,
			Density:     density,
		})
	}

	return themes, nil
}
