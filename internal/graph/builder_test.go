package graph

import (
	"strings"
	"testing"

	"github.com/ppiankov/lacuna/internal/model"
)

func sampleAnalysis() *model.AnalysisResult {
	return &model.AnalysisResult{
		ID: "analysis_1",
		Themes: []model.Theme{
			{ID: "theme_1", Label: "Dense Theme", ClaimIDs: []string{"c1", "c2", "c3", "c4", "c5"}, Density: 0.5},
			{ID: "theme_2", Label: "Small Theme", ClaimIDs: []string{"c6"}, Density: 0.1},
		},
		Relationships: []model.Relationship{
			{ID: "rel_1", SourceThemeID: "theme_1", TargetThemeID: "theme_2", Type: model.RelSupports, Strength: 0.8},
		},
		Gaps: []model.Gap{
			{ID: "gap_1", Title: "Missing link", RelatedThemeIDs: []string{"theme_1", "theme_2"}, Confidence: 0.7},
		},
		Status: model.AnalysisComplete,
	}
}

func TestBuild_ThemeNodes(t *testing.T) {
	data := Build(sampleAnalysis())

	// 2 theme nodes + 1 gap node
	if len(data.Nodes) != 3 {
		t.Fatalf("Expected 3 nodes, got %d", len(data.Nodes))
	}

	var dense *model.GraphNode
	for i := range data.Nodes {
		if data.Nodes[i].ID == "theme_1" {
			dense = &data.Nodes[i]
		}
	}
	if dense == nil {
		t.Fatal("Expected node for theme_1")
	}

	if dense.Type != "theme" {
		t.Errorf("Expected theme node type, got %q", dense.Type)
	}
	// density 0.5 → size 0.5*80+20 = 60
	if dense.Size != 60 {
		t.Errorf("Expected size 60, got %v", dense.Size)
	}
	// 5 claims → mid-tier color
	if dense.Color != "#3b82f6" {
		t.Errorf("Expected 5-claim color, got %q", dense.Color)
	}
	if dense.ClaimCount != 5 {
		t.Errorf("Expected claim count 5, got %d", dense.ClaimCount)
	}
}

func TestBuild_RelationshipEdges(t *testing.T) {
	data := Build(sampleAnalysis())

	// 1 relationship edge + 2 gap edges
	if len(data.Edges) != 3 {
		t.Fatalf("Expected 3 edges, got %d", len(data.Edges))
	}

	var rel *model.GraphEdge
	for i := range data.Edges {
		if data.Edges[i].ID == "rel_1" {
			rel = &data.Edges[i]
		}
	}
	if rel == nil {
		t.Fatal("Expected edge for rel_1")
	}

	if rel.Source != "theme_1" || rel.Target != "theme_2" {
		t.Errorf("Expected edge theme_1 -> theme_2, got %s -> %s", rel.Source, rel.Target)
	}
	if rel.Color != "#22c55e" {
		t.Errorf("Expected supports color, got %q", rel.Color)
	}
	if rel.Strength != 0.8 {
		t.Errorf("Expected strength 0.8, got %v", rel.Strength)
	}
}

func TestBuild_GapNodesAndEdges(t *testing.T) {
	data := Build(sampleAnalysis())

	var gapNode *model.GraphNode
	for i := range data.Nodes {
		if data.Nodes[i].ID == "gap_1" {
			gapNode = &data.Nodes[i]
		}
	}
	if gapNode == nil {
		t.Fatal("Expected node for gap_1")
	}

	if !gapNode.IsGap {
		t.Error("Expected gap node to be flagged")
	}
	if gapNode.Color != "#ef4444" {
		t.Errorf("Expected red gap color, got %q", gapNode.Color)
	}
	if gapNode.Size != 30 {
		t.Errorf("Expected fixed gap size 30, got %v", gapNode.Size)
	}

	gapEdges := 0
	for _, e := range data.Edges {
		if e.Type != "gap" {
			continue
		}
		gapEdges++
		if e.Source != "gap_1" {
			t.Errorf("Expected gap edge source gap_1, got %s", e.Source)
		}
		if e.Strength != 0.7 {
			t.Errorf("Expected gap confidence as strength, got %v", e.Strength)
		}
		if !strings.HasPrefix(e.ID, "edge_") {
			t.Errorf("Expected edge_ ID prefix, got %q", e.ID)
		}
	}
	if gapEdges != 2 {
		t.Errorf("Expected 2 gap edges, got %d", gapEdges)
	}
}

func TestBuild_EmptyAnalysis(t *testing.T) {
	data := Build(&model.AnalysisResult{ID: "analysis_empty"})

	if data.Nodes == nil || data.Edges == nil {
		t.Fatal("Expected empty (non-nil) slices")
	}
	if len(data.Nodes) != 0 || len(data.Edges) != 0 {
		t.Errorf("Expected no nodes or edges, got %d/%d", len(data.Nodes), len(data.Edges))
	}
}
