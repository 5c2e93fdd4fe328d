package model

import "fmt"

// ClaimType categorizes the nature of an extracted claim
type ClaimType string

const (
	ClaimAssertion   ClaimType = "assertion"
	ClaimMethodology ClaimType = "methodology"
	ClaimFinding     ClaimType = "finding"
	ClaimCitation    ClaimType = "citation"
)

// Valid reports whether t is a known claim type
func (t ClaimType) Valid() bool {
	switch t {
	case ClaimAssertion, ClaimMethodology, ClaimFinding, ClaimCitation:
		return true
	}
	return false
}

// ConfidenceLevel grades how strongly the source text supports a claim
type ConfidenceLevel string

const (
	ConfidenceHigh   ConfidenceLevel = "high"
	ConfidenceMedium ConfidenceLevel = "medium"
	ConfidenceLow    ConfidenceLevel = "low"
)

// Valid reports whether c is a known confidence level
func (c ConfidenceLevel) Valid() bool {
	switch c {
	case ConfidenceHigh, ConfidenceMedium, ConfidenceLow:
		return true
	}
	return false
}

// ClaimMetadata carries optional provenance details from extraction
type ClaimMetadata struct {
	PageNumber   int      `json:"page_number,omitempty"`
	Section      string   `json:"section,omitempty"`
	CitedSources []string `json:"cited_sources,omitempty"`
	Methodology  string   `json:"methodology,omitempty"`
}

// Claim is an atomic factual or methodological assertion extracted
// from one chunk of one paper. Claims are immutable after creation;
// ThemeIDs is derived during analysis on copies, never written back.
type Claim struct {
	ID         string          `json:"id"`
	PaperID    string          `json:"paper_id"`
	ChunkID    string          `json:"chunk_id"`
	Type       ClaimType       `json:"type"`
	Statement  string          `json:"statement"`
	Evidence   string          `json:"evidence"`
	Confidence ConfidenceLevel `json:"confidence"`
	ThemeIDs   []string        `json:"theme_ids"`
	Metadata   ClaimMetadata   `json:"metadata"`
}

// Validate checks the enum fields of a claim
func (c Claim) Validate() error {
	if !c.Type.Valid() {
		return fmt.Errorf("invalid claim type: %q", c.Type)
	}
	if !c.Confidence.Valid() {
		return fmt.Errorf("invalid confidence level: %q", c.Confidence)
	}
	return nil
}
