package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"go.uber.org/zap"

	"spriteforge/models"
	"spriteforge/prompts"
	"spriteforge/roadmap"
)

type batchRequest struct {
	Category string `json:"category,omitempty"` // characters|enemies|items|locations, empty = all
}

type batchResponse struct {
	Generated int      `json:"generated"`
	Errors    []string `json:"errors,omitempty"`
}

// BatchGenerateHandler walks the active project's story checklist and
// generates one asset per entry, saving each directly. A failed entry is
// recorded and skipped; the rest of the batch continues.
func (s *Server) BatchGenerateHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	var req batchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Bad request", http.StatusBadRequest)
		return
	}

	storyContent, ok := s.activeStoryContent()
	if !ok {
		http.Error(w, "Active project has no linked story", http.StatusConflict)
		return
	}
	items := selectChecklistItems(roadmap.ParseChecklist(storyContent), req.Category)
	if len(items) == 0 {
		http.Error(w, "No checklist entries found in the project story", http.StatusConflict)
		return
	}

	var resp batchResponse
	for i, item := range items {
		s.setBatch(BatchStatus{
			Active:  true,
			Message: fmt.Sprintf("Generating %s...", item.Text),
			Total:   len(items),
			Current: i + 1,
		})
		if err := s.generateChecklistItem(r.Context(), item); err != nil {
			s.log.Warn("batch entry failed", zap.String("item", item.Text), zap.Error(err))
			resp.Errors = append(resp.Errors, fmt.Sprintf("%s: %v", item.Text, err))
			continue
		}
		resp.Generated++
	}
	s.setBatch(BatchStatus{})

	writeJSON(w, http.StatusOK, resp)
}

// activeStoryContent returns the full story document of the active project,
// not the truncated prompt context; the checklist usually sits past the
// first thousand characters.
func (s *Server) activeStoryContent() (string, bool) {
	project, ok := s.repo.GetProject(s.repo.ActiveProjectID())
	if !ok || project.StoryConceptID == "" {
		return "", false
	}
	story, ok := s.repo.GetAsset(project.StoryConceptID)
	if !ok || story.AssetType != models.AssetStoryConcept {
		return "", false
	}
	return story.Content, true
}

func selectChecklistItems(checklist roadmap.Checklist, category string) []roadmap.ChecklistItem {
	switch category {
	case "characters":
		return checklist.Characters
	case "enemies":
		return checklist.Enemies
	case "items":
		return checklist.Items
	case "locations":
		return checklist.Locations
	case "":
		return checklist.All()
	default:
		return nil
	}
}

func (s *Server) generateChecklistItem(ctx context.Context, item roadmap.ChecklistItem) error {
	switch item.Type {
	case roadmap.ItemCharacter, roadmap.ItemEnemy:
		imagePrompt, err := s.orch.GenerateDocument(ctx, prompts.BatchSprite(item.FullLine))
		if err != nil {
			return err
		}
		img, err := s.orch.GenerateIllustration(ctx, imagePrompt)
		if err != nil {
			return err
		}
		return s.repo.AddAsset(ctx, models.Asset{
			ID:            models.NewAssetID(models.AssetSprite),
			Name:          item.Text,
			AssetType:     models.AssetSprite,
			ImageURL:      dataURL(img),
			VariantKey:    models.VariantDefault,
			SpriteConcept: item.FullLine,
			Prompt:        imagePrompt,
		})

	case roadmap.ItemGear:
		imagePrompt, err := s.orch.GenerateDocument(ctx, prompts.BatchItem(item.FullLine))
		if err != nil {
			return err
		}
		img, err := s.orch.GenerateIllustration(ctx, imagePrompt)
		if err != nil {
			return err
		}
		return s.repo.AddAsset(ctx, models.Asset{
			ID:          models.NewAssetID(models.AssetItem),
			Name:        item.Text,
			AssetType:   models.AssetItem,
			ImageURL:    dataURL(img),
			VariantKey:  models.VariantDefault,
			ItemConcept: item.FullLine,
			Prompt:      imagePrompt,
		})

	case roadmap.ItemLocation:
		content, err := s.orch.GenerateDocument(ctx, prompts.BatchMap(item.FullLine))
		if err != nil {
			return err
		}
		return s.repo.AddAsset(ctx, models.Asset{
			ID:        models.NewAssetID(models.AssetMapConcept),
			Name:      item.Text,
			AssetType: models.AssetMapConcept,
			MapTheme:  item.FullLine,
			Content:   content,
		})

	default:
		return fmt.Errorf("unknown checklist item type %q", item.Type)
	}
}
