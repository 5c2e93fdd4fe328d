package analysis

import (
	"context"
	"fmt"

	"github.com/ppiankov/lacuna/internal/llm"
	"github.com/ppiankov/lacuna/internal/model"
	"github.com/ppiankov/lacuna/internal/util"
)

type mappedRelationship struct {
	SourceThemeID string                 `json:"source_theme_id"`
	TargetThemeID string                 `json:"target_theme_id"`
	Type          model.RelationshipType `json:"type"`
	Strength      float64                `json:"strength"`
	Evidence      string                 `json:"evidence"`
}

type relationshipMappingResponse struct {
	Relationships []mappedRelationship `json:"relationships"`
}

// Validate checks relationship types and strength bounds
func (r relationshipMappingResponse) Validate() error {
	for i, rel := range r.Relationships {
		if !rel.Type.Valid() {
			return fmt.Errorf("relationship %d: invalid type %q", i, rel.Type)
		}
		if rel.Strength < 0 || rel.Strength > 1 {
			return fmt.Errorf("relationship %d: strength %v out of range", i, rel.Strength)
		}
	}
	return nil
}

// RelationshipMapper identifies typed edges between themes via the oracle
type RelationshipMapper struct {
	ex *llm.Extractor
}

// NewRelationshipMapper creates a new relationship mapper
func NewRelationshipMapper(ex *llm.Extractor) *RelationshipMapper {
	return &RelationshipMapper{ex: ex}
}

// Map asks the oracle for relationships between the given themes.
// Edges referencing unknown theme IDs are dropped. Fewer than two
// themes yields nil without an oracle call.
func (m *RelationshipMapper) Map(ctx context.Context, themes []model.Theme) ([]model.Relationship, error) {
	if len(themes) < 2 {
		return nil, nil
	}

	result, err := llm.Extract[relationshipMappingResponse](ctx, m.ex, llm.Request{
		Prompt:       relationshipMappingPrompt(themes),
		SystemPrompt: relationshipMappingSystem,
	})
	if err != nil {
		return nil, fmt.Errorf("map relationships: %w", err)
	}

	themeIDs := make(map[string]bool, len(themes))
	for _, t := range themes {
		themeIDs[t.ID] = true
	}

	relationships := make([]model.Relationship, 0, len(result.Relationships))
	for _, raw := range result.Relationships {
		if !themeIDs[raw.SourceThemeID] || !themeIDs[raw.TargetThemeID] {
			continue
		}
		relationships = append(relationships, model.Relationship{
			ID:            util.NewID("rel"),
			SourceThemeID: raw.SourceThemeID,
			TargetThemeID: raw.TargetThemeID,
			Type:          raw.Type,
			Strength:      raw.Strength,
			Evidence:      raw.Evidence,
		})
	}

	return relationships, nil
}
