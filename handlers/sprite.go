package handlers

import (
	"encoding/base64"
	"encoding/json"
	"net/http"

	"spriteforge/generator"
	"spriteforge/prompts"
)

type spriteRequest struct {
	Mode               string `json:"mode"` // "variants" or "animation"
	Concept            string `json:"concept"`
	GameGenre          string `json:"gameGenre"`
	GamePerspective    string `json:"gamePerspective"`
	RPGCharacterType   string `json:"rpgCharacterType,omitempty"`
	AnimationState     string `json:"animationState,omitempty"`
	VariationType      string `json:"variationType,omitempty"`
	CustomInstructions string `json:"customInstructions,omitempty"`
	FrameCount         int    `json:"frameCount,omitempty"`
	ReferenceImage     string `json:"referenceImage,omitempty"` // base64
	ReferenceMIME      string `json:"referenceMimeType,omitempty"`
}

type variantResponse struct {
	Description *generator.VariantDescription `json:"description"`
	ImageURLs   variantImageURLs              `json:"imageUrls"`
	ImageError  string                        `json:"imageError,omitempty"`
}

type variantImageURLs struct {
	Default string `json:"default,omitempty"`
	Hover   string `json:"hover,omitempty"`
	Active  string `json:"active,omitempty"`
}

type animationResponse struct {
	Description *generator.AnimationDescription `json:"description"`
	Frames      []string                        `json:"frames"`
	SheetURL    string                          `json:"stitchedImageUrl,omitempty"`
	FrameErrors []string                        `json:"frameErrors,omitempty"`
	SheetError  string                          `json:"sheetError,omitempty"`
}

// GenerateSpriteHandler runs the variant or animation pipeline for a sprite
// concept. Story context from the active project is injected automatically.
func (s *Server) GenerateSpriteHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	var req spriteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Bad request", http.StatusBadRequest)
		return
	}
	if req.Concept == "" {
		http.Error(w, "Missing sprite concept", http.StatusBadRequest)
		return
	}

	genReq := generator.SpriteRequest{
		Concept:            req.Concept,
		GameGenre:          req.GameGenre,
		GamePerspective:    req.GamePerspective,
		RPGCharacterType:   req.RPGCharacterType,
		AnimationState:     req.AnimationState,
		VariationType:      req.VariationType,
		CustomInstructions: req.CustomInstructions,
		FrameCount:         req.FrameCount,
	}
	if context, ok := s.repo.ActiveStoryContext(); ok {
		genReq.StoryContext = context
	}
	if req.ReferenceImage != "" {
		data, err := base64.StdEncoding.DecodeString(req.ReferenceImage)
		if err != nil {
			http.Error(w, "Invalid reference image encoding", http.StatusBadRequest)
			return
		}
		genReq.ReferenceImage = data
		genReq.ReferenceMIME = req.ReferenceMIME
	}

	if req.Mode == "animation" {
		result, err := s.orch.GenerateAnimation(r.Context(), prompts.SpriteAnimationSystem, genReq)
		if err != nil {
			s.writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, animationResponse{
			Description: result.Description,
			Frames:      dataURLs(result.Frames),
			SheetURL:    dataURL(result.Sheet),
			FrameErrors: result.FrameErrors,
			SheetError:  result.SheetError,
		})
		return
	}

	result, err := s.orch.GenerateVariants(r.Context(), prompts.SpriteVariantSystem, genReq)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, newVariantResponse(result))
}

type regenerateRequest struct {
	Description *generator.VariantDescription `json:"description"`
}

// RegenerateImagesHandler repeats the imaging stage for an already-generated
// description without re-issuing the text call.
func (s *Server) RegenerateImagesHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	var req regenerateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Bad request", http.StatusBadRequest)
		return
	}
	result, err := s.orch.RegenerateImages(r.Context(), req.Description)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, newVariantResponse(result))
}

func newVariantResponse(result *generator.VariantResult) variantResponse {
	return variantResponse{
		Description: result.Description,
		ImageURLs: variantImageURLs{
			Default: dataURL(result.Images.Default),
			Hover:   dataURL(result.Images.Hover),
			Active:  dataURL(result.Images.Active),
		},
		ImageError: result.ImageError,
	}
}
