package models

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// LinkedAssetIDs holds the per-category ordered asset id lists of a project.
// Lists are append-only from the caller's perspective and may hold stale ids
// after an asset is removed; lookups must treat those as "not found".
type LinkedAssetIDs struct {
	Sprites     []string `json:"sprites"`
	Items       []string `json:"items"`
	MapConcepts []string `json:"mapConcepts"`
	RPGSystems  []string `json:"rpgSystems"`
	ConceptArt  []string `json:"conceptArt,omitempty"`
}

// Project groups assets around one anchoring story concept.
type Project struct {
	ID              string         `json:"id"`
	Name            string         `json:"name"`
	Timestamp       int64          `json:"timestamp"`
	StoryConceptID  string         `json:"storyConceptId,omitempty"` // empty = no story linked
	GameGenre       string         `json:"gameGenre,omitempty"`
	GamePerspective string         `json:"gamePerspective,omitempty"`
	LinkedAssetIDs  LinkedAssetIDs `json:"linkedAssetIds"`
}

// NewProjectID builds a project identifier.
func NewProjectID() string {
	return fmt.Sprintf("project-%d-%s", time.Now().UnixMilli(), uuid.NewString()[:8])
}

// LinkAsset appends an asset id to the list matching its category. Story
// concepts anchor a project through storyConceptId instead of a list, so they
// report false here, as does any unknown type.
func (p *Project) LinkAsset(a *Asset) bool {
	switch a.AssetType {
	case AssetSprite:
		p.LinkedAssetIDs.Sprites = append(p.LinkedAssetIDs.Sprites, a.ID)
	case AssetItem:
		p.LinkedAssetIDs.Items = append(p.LinkedAssetIDs.Items, a.ID)
	case AssetMapConcept:
		p.LinkedAssetIDs.MapConcepts = append(p.LinkedAssetIDs.MapConcepts, a.ID)
	case AssetRPGSystem:
		p.LinkedAssetIDs.RPGSystems = append(p.LinkedAssetIDs.RPGSystems, a.ID)
	case AssetConceptArt:
		p.LinkedAssetIDs.ConceptArt = append(p.LinkedAssetIDs.ConceptArt, a.ID)
	case AssetStoryConcept:
		return false
	default:
		return false
	}
	return true
}
