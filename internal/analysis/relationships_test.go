package analysis

import (
	"context"
	"strings"
	"testing"

	"github.com/ppiankov/lacuna/internal/model"
)

func TestRelationshipMapper_FewerThanTwoThemes(t *testing.T) {
	provider := &scriptedProvider{}
	mapper := NewRelationshipMapper(newTestExtractor(provider))

	rels, err := mapper.Map(context.Background(), nil)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if rels != nil {
		t.Errorf("Expected nil relationships, got %d", len(rels))
	}

	rels, err = mapper.Map(context.Background(), []model.Theme{theme("theme_1", "Alone", 0.5)})
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if rels != nil {
		t.Errorf("Expected nil relationships for a single theme, got %d", len(rels))
	}

	if provider.callCount() != 0 {
		t.Errorf("Expected no oracle calls, got %d", provider.callCount())
	}
}

func TestRelationshipMapper_FiltersInventedThemeRefs(t *testing.T) {
	provider := &scriptedProvider{responses: []string{`{
  "relationships": [
    {
      "source_theme_id": "theme_1",
      "target_theme_id": "theme_2",
      "type": "supports",
      "strength": 0.8,
      "evidence": "Both report consistent results."
    },
    {
      "source_theme_id": "theme_1",
      "target_theme_id": "theme_invented",
      "type": "extends",
      "strength": 0.6,
      "evidence": "Hallucinated target."
    },
    {
      "source_theme_id": "theme_invented",
      "target_theme_id": "theme_2",
      "type": "contradicts",
      "strength": 0.4,
      "evidence": "Hallucinated source."
    }
  ]
}`}}
	mapper := NewRelationshipMapper(newTestExtractor(provider))

	themes := []model.Theme{theme("theme_1", "A", 0.5), theme("theme_2", "B", 0.5)}

	rels, err := mapper.Map(context.Background(), themes)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if len(rels) != 1 {
		t.Fatalf("Expected edges with unknown theme IDs to be dropped, got %d relationships", len(rels))
	}

	rel := rels[0]
	if !strings.HasPrefix(rel.ID, "rel_") {
		t.Errorf("Expected rel_ ID prefix, got %q", rel.ID)
	}
	if rel.SourceThemeID != "theme_1" || rel.TargetThemeID != "theme_2" {
		t.Errorf("Expected edge theme_1 -> theme_2, got %s -> %s", rel.SourceThemeID, rel.TargetThemeID)
	}
	if rel.Type != model.RelSupports {
		t.Errorf("Expected supports type, got %q", rel.Type)
	}
	if rel.Strength != 0.8 {
		t.Errorf("Expected strength 0.8, got %v", rel.Strength)
	}
}
