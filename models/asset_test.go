package models

import (
	"strings"
	"testing"
)

func TestAssetValidate(t *testing.T) {
	cases := []struct {
		name  string
		asset Asset
		ok    bool
	}{
		{"sprite with image", Asset{ID: "a", AssetType: AssetSprite, ImageURL: "data:image/png;base64,AA"}, true},
		{"sprite without image", Asset{ID: "a", AssetType: AssetSprite}, false},
		{"concept art without image", Asset{ID: "a", AssetType: AssetConceptArt}, false},
		{"story with content", Asset{ID: "a", AssetType: AssetStoryConcept, Content: "text"}, true},
		{"map without content", Asset{ID: "a", AssetType: AssetMapConcept}, false},
		{"missing id", Asset{AssetType: AssetSprite, ImageURL: "x"}, false},
		{"unknown type", Asset{ID: "a", AssetType: "gadget"}, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.asset.Validate()
			if tc.ok && err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !tc.ok && err == nil {
				t.Fatal("expected validation error")
			}
		})
	}
}

func TestNewAssetID(t *testing.T) {
	id := NewAssetID(AssetSprite)
	if !strings.HasPrefix(id, "sprite-") {
		t.Fatalf("id = %q, want sprite- prefix", id)
	}
	if id == NewAssetID(AssetSprite) {
		t.Fatal("consecutive ids must differ")
	}
}

func TestLinkAssetRouting(t *testing.T) {
	var p Project
	cases := []struct {
		assetType AssetType
		want      bool
	}{
		{AssetSprite, true},
		{AssetItem, true},
		{AssetMapConcept, true},
		{AssetRPGSystem, true},
		{AssetConceptArt, true},
		{AssetStoryConcept, false},
		{"gadget", false},
	}
	for _, tc := range cases {
		a := Asset{ID: "x-" + string(tc.assetType), AssetType: tc.assetType}
		if got := p.LinkAsset(&a); got != tc.want {
			t.Fatalf("LinkAsset(%s) = %v, want %v", tc.assetType, got, tc.want)
		}
	}
	if len(p.LinkedAssetIDs.Sprites) != 1 || len(p.LinkedAssetIDs.ConceptArt) != 1 {
		t.Fatalf("linked lists = %+v", p.LinkedAssetIDs)
	}
}
