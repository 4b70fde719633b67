package handlers

import (
	"encoding/json"
	"net/http"

	"spriteforge/generator"
	"spriteforge/prompts"
)

type itemRequest struct {
	Category      string `json:"itemCategory"`
	Type          string `json:"itemType"`
	Material      string `json:"material"`
	StyleKeywords string `json:"styleKeywords"`
	Perspective   string `json:"gamePerspective"`
	VariationType string `json:"variationType"`
}

// itemVariationInstructions differentiates the hover and active prompts per
// variation type.
var itemVariationInstructions = map[string]string{
	"highlight":     "For 'hover', describe a subtle highlight or sheen. For 'active', describe a soft glow or brighter highlight, as if selected.",
	"imbued":        "For 'hover', describe faint magical particles or a hint of elemental energy. For 'active', describe a more pronounced magical aura, elemental effect (fire, ice, etc.), or glowing runes.",
	"damaged":       "For 'hover', describe minor scuffs or wear. For 'active', describe small cracks, dents, or slightly frayed edges, indicating use or age.",
	"ornate_detail": "For 'hover', describe a key ornate detail becoming slightly more prominent. For 'active', describe intricate details like engravings or filigree appearing sharper or more visually emphasized.",
}

const defaultItemVariation = "Describe a subtle visual change for hover, and a more pronounced one for active."

// GenerateItemHandler runs the variant pipeline for a game item.
func (s *Server) GenerateItemHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	var req itemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Bad request", http.StatusBadRequest)
		return
	}
	if req.Category == "" || req.Type == "" || req.Material == "" {
		http.Error(w, "Missing item details", http.StatusBadRequest)
		return
	}

	instruction, ok := itemVariationInstructions[req.VariationType]
	if !ok {
		instruction = defaultItemVariation
	}
	genReq := generator.ItemRequest{
		Category:             req.Category,
		Type:                 req.Type,
		Material:             req.Material,
		StyleKeywords:        req.StyleKeywords,
		Perspective:          req.Perspective,
		VariationType:        req.VariationType,
		VariationInstruction: instruction,
	}
	if context, ok := s.repo.ActiveStoryContext(); ok {
		genReq.StoryContext = context
	}

	result, err := s.orch.GenerateItemVariants(r.Context(), prompts.ItemVariantSystem, genReq)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, newVariantResponse(result))
}
