package model

// Theme is a cluster of semantically related claims identified by the
// oracle. Density is the fraction of all known claims the theme covers,
// clamped to [0, 1].
type Theme struct {
	ID            string   `json:"id"`
	Label         string   `json:"label"`
	Description   string   `json:"description"`
	ClaimIDs      []string `json:"claim_ids"`
	PaperIDs      []string `json:"paper_ids"`
	Density       float64  `json:"density"`
	ParentThemeID string   `json:"parent_theme_id,omitempty"`
}

// RelationshipType classifies how two themes relate
type RelationshipType string

const (
	RelSupports          RelationshipType = "supports"
	RelContradicts       RelationshipType = "contradicts"
	RelExtends           RelationshipType = "extends"
	RelPrerequisite      RelationshipType = "prerequisite"
	RelParallel          RelationshipType = "parallel"
	RelMethodologyShared RelationshipType = "methodology_shared"
)

// Valid reports whether t is a known relationship type
func (t RelationshipType) Valid() bool {
	switch t {
	case RelSupports, RelContradicts, RelExtends, RelPrerequisite, RelParallel, RelMethodologyShared:
		return true
	}
	return false
}

// Relationship is a directed, typed edge between two themes
type Relationship struct {
	ID            string           `json:"id"`
	SourceThemeID string           `json:"source_theme_id"`
	TargetThemeID string           `json:"target_theme_id"`
	Type          RelationshipType `json:"type"`
	Strength      float64          `json:"strength"` // 0..1
	Evidence      string           `json:"evidence"`
}
