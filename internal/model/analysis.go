package model

// ContradictionSeverity grades how fundamental a contradiction is
type ContradictionSeverity string

const (
	SeverityCritical ContradictionSeverity = "critical"
	SeverityMajor    ContradictionSeverity = "major"
	SeverityMinor    ContradictionSeverity = "minor"
)

// Valid reports whether s is a known severity
func (s ContradictionSeverity) Valid() bool {
	switch s {
	case SeverityCritical, SeverityMajor, SeverityMinor:
		return true
	}
	return false
}

// ContradictionCategory classifies the nature of a contradiction
type ContradictionCategory string

const (
	CategoryDirectConflict  ContradictionCategory = "direct_conflict"
	CategoryMethodological  ContradictionCategory = "methodological"
	CategoryScopeDifference ContradictionCategory = "scope_difference"
	CategoryTemporal        ContradictionCategory = "temporal"
	CategoryInterpretation  ContradictionCategory = "interpretation"
)

// Valid reports whether c is a known category
func (c ContradictionCategory) Valid() bool {
	switch c {
	case CategoryDirectConflict, CategoryMethodological, CategoryScopeDifference, CategoryTemporal, CategoryInterpretation:
		return true
	}
	return false
}

// Contradiction is an oracle-confirmed conflict between two claims
// from different papers
type Contradiction struct {
	ID          string                `json:"id"`
	ClaimAID    string                `json:"claim_a_id"`
	ClaimBID    string                `json:"claim_b_id"`
	PaperAID    string                `json:"paper_a_id"`
	PaperBID    string                `json:"paper_b_id"`
	Description string                `json:"description"`
	Severity    ContradictionSeverity `json:"severity"`
	Category    ContradictionCategory `json:"category"`
	Resolution  string                `json:"resolution,omitempty"`
}

// GapType classifies an identified knowledge gap
type GapType string

const (
	GapUnexploredIntersection GapType = "unexplored_intersection"
	GapSparseCoverage         GapType = "sparse_coverage"
	GapMethodological         GapType = "methodological_gap"
	GapTemporal               GapType = "temporal_gap"
	GapContradictoryArea      GapType = "contradictory_area"
)

// Valid reports whether t is a known gap type
func (t GapType) Valid() bool {
	switch t {
	case GapUnexploredIntersection, GapSparseCoverage, GapMethodological, GapTemporal, GapContradictoryArea:
		return true
	}
	return false
}

// Gap is an under-researched or disconnected area in the theme graph
type Gap struct {
	ID              string   `json:"id"`
	Title           string   `json:"title"`
	Description     string   `json:"description"`
	Type            GapType  `json:"type"`
	RelatedThemeIDs []string `json:"related_theme_ids"`
	Confidence      float64  `json:"confidence"` // 0..1
	Evidence        string   `json:"evidence"`
	PotentialImpact string   `json:"potential_impact"`
}

// ResearchQuestion is a concrete question addressing a gap
type ResearchQuestion struct {
	ID                   string   `json:"id"`
	GapID                string   `json:"gap_id"`
	Question             string   `json:"question"`
	Rationale            string   `json:"rationale"`
	RelatedThemeIDs      []string `json:"related_theme_ids"`
	SuggestedMethodology string   `json:"suggested_methodology,omitempty"`
	PriorityScore        float64  `json:"priority_score"` // 0..1
}

// AnalysisStatus tracks an analysis run
type AnalysisStatus string

const (
	AnalysisPending  AnalysisStatus = "pending"
	AnalysisRunning  AnalysisStatus = "running"
	AnalysisComplete AnalysisStatus = "complete"
	AnalysisError    AnalysisStatus = "error"
)

// AnalysisResult aggregates the output of one analysis run.
// It is persisted after each completed stage so partial results
// survive a crash.
type AnalysisResult struct {
	ID             string             `json:"id"`
	PaperIDs       []string           `json:"paper_ids"`
	Themes         []Theme            `json:"themes"`
	Relationships  []Relationship     `json:"relationships"`
	Contradictions []Contradiction    `json:"contradictions"`
	Gaps           []Gap              `json:"gaps"`
	Questions      []ResearchQuestion `json:"questions"`
	CreatedAt      string             `json:"created_at"` // RFC 3339
	Status         AnalysisStatus     `json:"status"`
}
