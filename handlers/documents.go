package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"

	"spriteforge/models"
	"spriteforge/prompts"
	"spriteforge/roadmap"
)

type storyRequest struct {
	Genre string `json:"genre"`
	Theme string `json:"theme"`
}

type documentResponse struct {
	Content   string             `json:"content"`
	Checklist *roadmap.Checklist `json:"checklist,omitempty"`
}

// GenerateStoryHandler produces a long-form story concept document, plus the
// parsed project creation checklist when the model included one.
func (s *Server) GenerateStoryHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	var req storyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Bad request", http.StatusBadRequest)
		return
	}
	if req.Genre == "" || req.Theme == "" {
		http.Error(w, "Missing genre or theme", http.StatusBadRequest)
		return
	}

	content, err := s.orch.GenerateDocument(r.Context(), prompts.StoryConcept(req.Genre, req.Theme))
	if err != nil {
		s.writeError(w, err)
		return
	}
	resp := documentResponse{Content: content}
	if checklist := roadmap.ParseChecklist(content); !checklist.Empty() {
		resp.Checklist = &checklist
	}
	writeJSON(w, http.StatusOK, resp)
}

type mapRequest struct {
	Theme       string `json:"theme"`
	Perspective string `json:"perspective"`
}

// GenerateMapHandler produces a map concept document.
func (s *Server) GenerateMapHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	var req mapRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Bad request", http.StatusBadRequest)
		return
	}
	if req.Theme == "" {
		http.Error(w, "Missing map theme", http.StatusBadRequest)
		return
	}

	storyContext, _ := s.repo.ActiveStoryContext()
	content, err := s.orch.GenerateDocument(r.Context(), prompts.MapConcept(req.Theme, req.Perspective, storyContext))
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, documentResponse{Content: content})
}

type rpgRequest struct {
	Section       string          `json:"systemSection"`
	ConfigDetails json.RawMessage `json:"configDetails,omitempty"`
}

// GenerateRPGHandler produces one section of an RPG system design document.
func (s *Server) GenerateRPGHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	var req rpgRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Bad request", http.StatusBadRequest)
		return
	}
	if req.Section == "" {
		http.Error(w, "Missing system section", http.StatusBadRequest)
		return
	}

	storyContext, _ := s.repo.ActiveStoryContext()
	content, err := s.orch.GenerateDocument(r.Context(), prompts.RPGSystem(req.Section, string(req.ConfigDetails), storyContext))
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, documentResponse{Content: content})
}

type illustrationRequest struct {
	SourceAssetID string `json:"sourceAssetId"`
}

type illustrationResponse struct {
	ImageURL string `json:"imageUrl"`
	Prompt   string `json:"prompt"`
}

// GenerateIllustrationHandler produces concept art for a saved text asset.
func (s *Server) GenerateIllustrationHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	var req illustrationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Bad request", http.StatusBadRequest)
		return
	}

	source, ok := s.repo.GetAsset(req.SourceAssetID)
	if !ok {
		http.Error(w, "Source asset not found", http.StatusNotFound)
		return
	}
	switch source.AssetType {
	case models.AssetMapConcept, models.AssetStoryConcept, models.AssetRPGSystem:
	default:
		http.Error(w, fmt.Sprintf("Cannot illustrate a %s asset", source.AssetType), http.StatusBadRequest)
		return
	}

	prompt := prompts.Illustration(source.Name)
	img, err := s.orch.GenerateIllustration(r.Context(), prompt)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, illustrationResponse{ImageURL: dataURL(img), Prompt: prompt})
}
