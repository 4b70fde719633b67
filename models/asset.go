package models

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// AssetType discriminates the persisted asset union.
type AssetType string

const (
	AssetSprite       AssetType = "sprite"
	AssetItem         AssetType = "item"
	AssetMapConcept   AssetType = "mapConcept"
	AssetStoryConcept AssetType = "storyConcept"
	AssetRPGSystem    AssetType = "rpgSystemData"
	AssetConceptArt   AssetType = "conceptArt"
)

// VariantKey identifies which interaction state a static image represents.
type VariantKey string

const (
	VariantDefault VariantKey = "default"
	VariantHover   VariantKey = "hover"
	VariantActive  VariantKey = "active"
)

// Asset is one persisted unit of generated content: a flat object
// discriminated by assetType with category-specific fields omitted when
// empty.
type Asset struct {
	ID        string    `json:"id"`
	Timestamp int64     `json:"timestamp"` // ms epoch, assigned at creation, never mutated
	Name      string    `json:"name"`
	AssetType AssetType `json:"assetType"`
	ProjectID string    `json:"projectId,omitempty"`

	// Image-bearing categories (sprite, item, conceptArt)
	ImageURL         string     `json:"imageUrl,omitempty"` // self-contained data URL
	VariantKey       VariantKey `json:"variantKey,omitempty"`
	IsAnimationSheet bool       `json:"isAnimationSheet,omitempty"`
	AnimationType    string     `json:"animationType,omitempty"`
	FrameCount       int        `json:"frameCount,omitempty"`
	Prompt           string     `json:"prompt,omitempty"` // kept for auditing and regeneration

	// Sprite
	SpriteConcept    string `json:"spriteConcept,omitempty"`
	GameGenre        string `json:"gameGenre,omitempty"`
	GamePerspective  string `json:"gamePerspective,omitempty"`
	RPGCharacterType string `json:"rpgCharacterType,omitempty"`
	AnimationState   string `json:"animationState,omitempty"`

	// Item
	ItemConcept  string `json:"itemConcept,omitempty"`
	ItemCategory string `json:"itemCategory,omitempty"`
	ItemType     string `json:"itemType,omitempty"`

	// Long-form text categories (mapConcept, storyConcept, rpgSystemData)
	Content       string          `json:"content,omitempty"`
	MapTheme      string          `json:"mapTheme,omitempty"`
	Perspective   string          `json:"perspective,omitempty"`
	StoryTheme    string          `json:"storyTheme,omitempty"`
	Genre         string          `json:"genre,omitempty"`
	SystemSection string          `json:"systemSection,omitempty"`
	ConfigDetails json.RawMessage `json:"configDetails,omitempty"`

	// Concept art
	SourceAssetID   string    `json:"sourceAssetId,omitempty"`
	SourceAssetType AssetType `json:"sourceAssetType,omitempty"`
}

// Validate checks the discriminator and the fields required for its category.
func (a *Asset) Validate() error {
	if a.ID == "" {
		return fmt.Errorf("asset missing id")
	}
	switch a.AssetType {
	case AssetSprite, AssetItem, AssetConceptArt:
		if a.ImageURL == "" {
			return fmt.Errorf("%s asset %s missing imageUrl", a.AssetType, a.ID)
		}
	case AssetMapConcept, AssetStoryConcept, AssetRPGSystem:
		if a.Content == "" {
			return fmt.Errorf("%s asset %s missing content", a.AssetType, a.ID)
		}
	default:
		return fmt.Errorf("unknown asset type %q", a.AssetType)
	}
	return nil
}

// NewAssetID builds an asset identifier from its category, the creation
// instant and a random suffix.
func NewAssetID(t AssetType) string {
	return fmt.Sprintf("%s-%d-%s", t, time.Now().UnixMilli(), uuid.NewString()[:8])
}
