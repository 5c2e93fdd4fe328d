package ingest

import (
	"context"
	"fmt"

	"github.com/ppiankov/lacuna/internal/llm"
	"github.com/ppiankov/lacuna/internal/model"
	"github.com/ppiankov/lacuna/internal/util"
)

// PaperContext carries the paper metadata embedded in extraction prompts
type PaperContext struct {
	Title   string
	Authors []string
}

type extractedClaim struct {
	Type       model.ClaimType       `json:"type"`
	Statement  string                `json:"statement"`
	Evidence   string                `json:"evidence"`
	Confidence model.ConfidenceLevel `json:"confidence"`
	Metadata   model.ClaimMetadata   `json:"metadata"`
}

type claimExtractionResponse struct {
	Claims []extractedClaim `json:"claims"`
}

// Validate checks every returned claim against the claim schema
func (r claimExtractionResponse) Validate() error {
	for i, c := range r.Claims {
		if !c.Type.Valid() {
			return fmt.Errorf("claim %d: invalid type %q", i, c.Type)
		}
		if !c.Confidence.Valid() {
			return fmt.Errorf("claim %d: invalid confidence %q", i, c.Confidence)
		}
		if c.Statement == "" {
			return fmt.Errorf("claim %d: empty statement", i)
		}
	}
	return nil
}

// ClaimExtractor turns one chunk of paper text into Claim entities via
// the oracle
type ClaimExtractor struct {
	ex *llm.Extractor
}

// NewClaimExtractor creates a new claim extractor
func NewClaimExtractor(ex *llm.Extractor) *ClaimExtractor {
	return &ClaimExtractor{ex: ex}
}

// Extract issues one structured extraction call for the chunk and
// assigns fresh IDs and paper/chunk linkage to every returned claim.
// Failures are wrapped with the chunk ID and propagate to abort the
// paper's ingestion.
func (c *ClaimExtractor) Extract(ctx context.Context, chunk model.Chunk, paper PaperContext) ([]model.Claim, error) {
	result, err := llm.Extract[claimExtractionResponse](ctx, c.ex, llm.Request{
		Prompt:       claimExtractionPrompt(chunk.Content, paper.Title, paper.Authors),
		SystemPrompt: claimExtractionSystem,
	})
	if err != nil {
		return nil, &ClaimExtractionError{ChunkID: chunk.ID, Err: err}
	}

	claims := make([]model.Claim, 0, len(result.Claims))
	for _, raw := range result.Claims {
		claims = append(claims, model.Claim{
			ID:         util.NewID("claim"),
			PaperID:    chunk.PaperID,
			ChunkID:    chunk.ID,
			Type:       raw.Type,
			Statement:  raw.Statement,
			Evidence:   raw.Evidence,
			Confidence: raw.Confidence,
			ThemeIDs:   []string{},
			Metadata:   raw.Metadata,
		})
	}

	return claims, nil
}
