package analysis

import (
	"context"
	"fmt"
	"sort"

	"github.com/ppiankov/lacuna/internal/llm"
	"github.com/ppiankov/lacuna/internal/model"
	"github.com/ppiankov/lacuna/internal/util"
)

type claimRef struct {
	ID        string
	PaperID   string
	Statement string
	Evidence  string
}

type claimPair struct {
	A claimRef
	B claimRef
}

type detectedContradiction struct {
	ClaimAID    string                      `json:"claim_a_id"`
	ClaimBID    string                      `json:"claim_b_id"`
	PaperAID    string                      `json:"paper_a_id"`
	PaperBID    string                      `json:"paper_b_id"`
	Description string                      `json:"description"`
	Severity    model.ContradictionSeverity `json:"severity"`
	Category    model.ContradictionCategory `json:"category"`
	Resolution  string                      `json:"resolution"`
}

type contradictionResponse struct {
	Contradictions []detectedContradiction `json:"contradictions"`
}

// Validate checks severity and category enums
func (r contradictionResponse) Validate() error {
	for i, c := range r.Contradictions {
		if !c.Severity.Valid() {
			return fmt.Errorf("contradiction %d: invalid severity %q", i, c.Severity)
		}
		if !c.Category.Valid() {
			return fmt.Errorf("contradiction %d: invalid category %q", i, c.Category)
		}
	}
	return nil
}

// ContradictionDetector finds conflicting claim pairs across papers.
// Candidate pairs come from theme overlap; when no claim carries theme
// links, every cross-paper pair is a candidate.
type ContradictionDetector struct {
	ex        *llm.Extractor
	batchSize int
}

// NewContradictionDetector creates a detector that screens candidate
// pairs in batches of batchSize per oracle call
func NewContradictionDetector(ex *llm.Extractor, batchSize int) *ContradictionDetector {
	if batchSize <= 0 {
		batchSize = 5
	}
	return &ContradictionDetector{ex: ex, batchSize: batchSize}
}

func pairKey(a, b string) string {
	ids := []string{a, b}
	sort.Strings(ids)
	return ids[0] + ":" + ids[1]
}

func buildCandidatePairs(claims []model.Claim) []claimPair {
	var pairs []claimPair

	themeToClaimIDs := map[string][]string{}
	for _, c := range claims {
		for _, themeID := range c.ThemeIDs {
			themeToClaimIDs[themeID] = append(themeToClaimIDs[themeID], c.ID)
		}
	}

	claimByID := make(map[string]model.Claim, len(claims))
	for _, c := range claims {
		claimByID[c.ID] = c
	}

	seen := map[string]bool{}

	// Theme order does not matter for correctness but iterate in a
	// stable order so batches are deterministic.
	themeIDs := make([]string, 0, len(themeToClaimIDs))
	for id := range themeToClaimIDs {
		themeIDs = append(themeIDs, id)
	}
	sort.Strings(themeIDs)

	for _, themeID := range themeIDs {
		claimIDs := themeToClaimIDs[themeID]
		for i := 0; i < len(claimIDs); i++ {
			for j := i + 1; j < len(claimIDs); j++ {
				a := claimByID[claimIDs[i]]
				b := claimByID[claimIDs[j]]

				if a.PaperID == b.PaperID {
					continue
				}

				key := pairKey(a.ID, b.ID)
				if seen[key] {
					continue
				}
				seen[key] = true

				pairs = append(pairs, claimPair{
					A: claimRef{ID: a.ID, PaperID: a.PaperID, Statement: a.Statement, Evidence: a.Evidence},
					B: claimRef{ID: b.ID, PaperID: b.PaperID, Statement: b.Statement, Evidence: b.Evidence},
				})
			}
		}
	}

	// Claims without theme links: fall back to every cross-paper pair
	if len(pairs) == 0 && len(claims) > 1 {
		for i := 0; i < len(claims); i++ {
			for j := i + 1; j < len(claims); j++ {
				a := claims[i]
				b := claims[j]
				if a.PaperID == b.PaperID {
					continue
				}

				key := pairKey(a.ID, b.ID)
				if seen[key] {
					continue
				}
				seen[key] = true

				pairs = append(pairs, claimPair{
					A: claimRef{ID: a.ID, PaperID: a.PaperID, Statement: a.Statement, Evidence: a.Evidence},
					B: claimRef{ID: b.ID, PaperID: b.PaperID, Statement: b.Statement, Evidence: b.Evidence},
				})
			}
		}
	}

	return pairs
}

// Detect screens candidate claim pairs for contradictions. Batches are
// processed sequentially; a mid-run failure returns the contradictions
// found so far together with the error.
func (d *ContradictionDetector) Detect(ctx context.Context, claims []model.Claim) ([]model.Contradiction, error) {
	if len(claims) < 2 {
		return nil, nil
	}

	pairs := buildCandidatePairs(claims)
	if len(pairs) == 0 {
		return nil, nil
	}

	var contradictions []model.Contradiction

	for start := 0; start < len(pairs); start += d.batchSize {
		end := start + d.batchSize
		if end > len(pairs) {
			end = len(pairs)
		}
		batch := pairs[start:end]

		result, err := llm.Extract[contradictionResponse](ctx, d.ex, llm.Request{
			Prompt:       contradictionDetectionPrompt(batch),
			SystemPrompt: contradictionDetectionSystem,
		})
		if err != nil {
			return contradictions, fmt.Errorf("detect contradictions (pairs %d-%d): %w", start+1, end, err)
		}

		for _, c := range result.Contradictions {
			contradictions = append(contradictions, model.Contradiction{
				ID:          util.NewID("contra"),
				ClaimAID:    c.ClaimAID,
				ClaimBID:    c.ClaimBID,
				PaperAID:    c.PaperAID,
				PaperBID:    c.PaperBID,
				Description: c.Description,
				Severity:    c.Severity,
				Category:    c.Category,
				Resolution:  c.Resolution,
			})
		}
	}

	return contradictions, nil
}
