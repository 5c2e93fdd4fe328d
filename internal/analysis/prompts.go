package analysis

import (
	"fmt"
	"strings"

	"github.com/ppiankov/lacuna/internal/model"
)

const themeClusteringSystem = "You are an expert research analyst. Group academic claims into coherent research themes. Return valid JSON only."

const relationshipMappingSystem = "You are an expert research analyst. Identify relationships between research themes. Return valid JSON only."

const contradictionDetectionSystem = "You are an expert research analyst. Identify genuine contradictions between academic claims. Be conservative, only flag real contradictions. Return valid JSON only."

const gapAnalysisSystem = "You are an expert research analyst. Identify genuine knowledge gaps in the research landscape. Focus on actionable, impactful gaps. Return valid JSON only."

const questionGenerationSystem = "You are an expert research strategist. Generate specific, actionable research questions that address knowledge gaps. Return valid JSON only."

func themeClusteringPrompt(claims []model.Claim) string {
	var b strings.Builder
	for _, c := range claims {
		fmt.Fprintf(&b, "[%s] (%s) %s\n", c.ID, c.Type, c.Statement)
	}

	return fmt.Sprintf(`Analyze the following claims extracted from academic papers and group them into coherent research themes.

Each theme should:
- Have a short descriptive label (2-5 words)
- Have a clear description of what the theme covers
- Include the IDs of all claims that belong to it
- A claim may belong to multiple themes

Claims:
"""
%s
"""

Respond with ONLY a JSON object in this exact format:
{
  "themes": [
    {
      "label": "Short Theme Label",
      "description": "A sentence describing this research theme",
      "claim_ids": ["claim_id1", "claim_id2"]
    }
  ]
}`, strings.TrimRight(b.String(), "\n"))
}

func relationshipMappingPrompt(themes []model.Theme) string {
	var b strings.Builder
	for _, t := range themes {
		fmt.Fprintf(&b, "[%s] %q: %s\n", t.ID, t.Label, t.Description)
	}

	return fmt.Sprintf(`Analyze the following research themes and identify relationships between them.

For each pair of related themes, determine:
- type: one of "supports", "contradicts", "extends", "prerequisite", "parallel", "methodology_shared"
- strength: a number from 0 to 1 indicating how strong the relationship is
- evidence: a brief explanation of why this relationship exists

Only include pairs that have a meaningful relationship. Not all themes need to be related.

Themes:
"""
%s
"""

Respond with ONLY a JSON object in this exact format:
{
  "relationships": [
    {
      "source_theme_id": "theme_id1",
      "target_theme_id": "theme_id2",
      "type": "supports",
      "strength": 0.8,
      "evidence": "Brief explanation of the relationship"
    }
  ]
}`, strings.TrimRight(b.String(), "\n"))
}

func contradictionDetectionPrompt(pairs []claimPair) string {
	var b strings.Builder
	for i, p := range pairs {
		if i > 0 {
			b.WriteString("\n\n")
		}
		fmt.Fprintf(&b, "Pair %d:\n  Claim A [%s] (paper: %s): %s\n    Evidence: %s\n  Claim B [%s] (paper: %s): %s\n    Evidence: %s",
			i+1,
			p.A.ID, p.A.PaperID, p.A.Statement, p.A.Evidence,
			p.B.ID, p.B.PaperID, p.B.Statement, p.B.Evidence)
	}

	return fmt.Sprintf(`Analyze the following pairs of claims from academic papers and identify any contradictions between them.

For each contradictory pair, provide:
- claim_a_id and claim_b_id: the IDs of the contradicting claims
- paper_a_id and paper_b_id: the IDs of their source papers
- description: what the contradiction is about
- severity: "critical" (fundamental disagreement), "major" (significant difference), or "minor" (nuanced difference)
- category: one of "direct_conflict", "methodological", "scope_difference", "temporal", "interpretation"
- resolution: optional suggestion for resolving the contradiction

Only include pairs that genuinely contradict each other. Return an empty array if no contradictions exist.

Claim pairs:
"""
%s
"""

Respond with ONLY a JSON object in this exact format:
{
  "contradictions": [
    {
      "claim_a_id": "id",
      "claim_b_id": "id",
      "paper_a_id": "id",
      "paper_b_id": "id",
      "description": "Description of the contradiction",
      "severity": "major",
      "category": "direct_conflict",
      "resolution": "Optional resolution suggestion"
    }
  ]
}`, b.String())
}

func gapAnalysisPrompt(themes []model.Theme, relationships []model.Relationship, signals []string) string {
	var themeList strings.Builder
	for _, t := range themes {
		fmt.Fprintf(&themeList, "[%s] %q (density: %.2f): %s\n", t.ID, t.Label, t.Density, t.Description)
	}

	var relList strings.Builder
	for _, r := range relationships {
		fmt.Fprintf(&relList, "%s --[%s]--> %s\n", r.SourceThemeID, r.Type, r.TargetThemeID)
	}

	signalList := "None identified"
	if len(signals) > 0 {
		signalList = strings.Join(signals, "\n")
	}

	return fmt.Sprintf(`Analyze the following research landscape and identify knowledge gaps: areas that are understudied, missing, or need further investigation.

Themes:
"""
%s
"""

Relationships between themes:
"""
%s
"""

Areas with contradictions:
"""
%s
"""

For each gap, provide:
- title: short descriptive title
- description: detailed explanation of the gap
- type: one of "unexplored_intersection" (theme pairs with no relationship), "sparse_coverage" (low-density themes), "methodological_gap" (missing methods), "temporal_gap" (outdated research), "contradictory_area" (unresolved contradictions)
- related_theme_ids: IDs of themes related to this gap
- confidence: 0-1 score of how confident you are this is a real gap
- evidence: what evidence points to this gap
- potential_impact: why filling this gap matters

Respond with ONLY a JSON object in this exact format:
{
  "gaps": [
    {
      "title": "Gap Title",
      "description": "Detailed description",
      "type": "unexplored_intersection",
      "related_theme_ids": ["theme_id1", "theme_id2"],
      "confidence": 0.8,
      "evidence": "Evidence for the gap",
      "potential_impact": "Why this gap matters"
    }
  ]
}`, strings.TrimRight(themeList.String(), "\n"), strings.TrimRight(relList.String(), "\n"), signalList)
}

func questionGenerationPrompt(gaps []model.Gap, themes []model.Theme) string {
	var gapList strings.Builder
	for i, g := range gaps {
		if i > 0 {
			gapList.WriteString("\n\n")
		}
		fmt.Fprintf(&gapList, "[%s] %q (%s): %s\n  Impact: %s", g.ID, g.Title, g.Type, g.Description, g.PotentialImpact)
	}

	themeRefs := make([]string, 0, len(themes))
	for _, t := range themes {
		themeRefs = append(themeRefs, fmt.Sprintf("[%s] %q", t.ID, t.Label))
	}

	return fmt.Sprintf(`Based on the following knowledge gaps identified in academic research, generate 1-3 research questions per gap.

Gaps:
"""
%s
"""

Available themes for reference: %s

For each question, provide:
- gap_id: the ID of the gap this question addresses
- question: a clear, specific research question
- rationale: why this question is important
- related_theme_ids: IDs of related themes
- suggested_methodology: optional suggestion for research methodology
- priority_score: 0-1 score based on the gap's type and confidence

Respond with ONLY a JSON object in this exact format:
{
  "questions": [
    {
      "gap_id": "gap_id",
      "question": "What is the effect of X on Y?",
      "rationale": "Why this matters",
      "related_theme_ids": ["theme_id1"],
      "suggested_methodology": "Randomized controlled trial",
      "priority_score": 0.85
    }
  ]
}`, gapList.String(), strings.Join(themeRefs, ", "))
}
