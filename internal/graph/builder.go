// Package graph turns an analysis result into a renderable knowledge
// graph of theme and gap nodes.
package graph

import (
	"github.com/ppiankov/lacuna/internal/model"
	"github.com/ppiankov/lacuna/internal/util"
)

var relationshipColors = map[model.RelationshipType]string{
	model.RelSupports:          "#22c55e",
	model.RelContradicts:       "#ef4444",
	model.RelExtends:           "#3b82f6",
	model.RelPrerequisite:      "#f59e0b",
	model.RelParallel:          "#8b5cf6",
	model.RelMethodologyShared: "#06b6d4",
}

const (
	defaultEdgeColor = "#6b7280"
	gapColor         = "#ef4444"
)

func themeColor(claimCount int) string {
	switch {
	case claimCount >= 10:
		return "#1d4ed8"
	case claimCount >= 5:
		return "#3b82f6"
	case claimCount >= 2:
		return "#60a5fa"
	default:
		return "#93c5fd"
	}
}

// Build converts an analysis into graph data. Themes become nodes sized
// by density, relationships become typed edges, and gaps become red
// nodes linked to their related themes.
func Build(analysis *model.AnalysisResult) *model.GraphData {
	data := &model.GraphData{
		Nodes: []model.GraphNode{},
		Edges: []model.GraphEdge{},
	}

	for _, theme := range analysis.Themes {
		data.Nodes = append(data.Nodes, model.GraphNode{
			ID:         theme.ID,
			Label:      theme.Label,
			Type:       "theme",
			Size:       theme.Density*80 + 20,
			Color:      themeColor(len(theme.ClaimIDs)),
			Density:    theme.Density,
			ClaimCount: len(theme.ClaimIDs),
		})
	}

	for _, rel := range analysis.Relationships {
		color, ok := relationshipColors[rel.Type]
		if !ok {
			color = defaultEdgeColor
		}
		data.Edges = append(data.Edges, model.GraphEdge{
			ID:       rel.ID,
			Source:   rel.SourceThemeID,
			Target:   rel.TargetThemeID,
			Label:    string(rel.Type),
			Type:     string(rel.Type),
			Strength: rel.Strength,
			Color:    color,
		})
	}

	for _, gap := range analysis.Gaps {
		data.Nodes = append(data.Nodes, model.GraphNode{
			ID:    gap.ID,
			Label: gap.Title,
			Type:  "gap",
			Size:  30,
			Color: gapColor,
			IsGap: true,
		})

		for _, themeID := range gap.RelatedThemeIDs {
			data.Edges = append(data.Edges, model.GraphEdge{
				ID:       util.NewID("edge"),
				Source:   gap.ID,
				Target:   themeID,
				Label:    "gap",
				Type:     "gap",
				Strength: gap.Confidence,
				Color:    gapColor,
			})
		}
	}

	return data
}
