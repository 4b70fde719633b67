package generator

import (
	"context"
	"fmt"
)

// ItemRequest carries the user specification for an item variant generation.
type ItemRequest struct {
	Category             string
	Type                 string
	Material             string
	StyleKeywords        string
	Perspective          string
	VariationType        string
	VariationInstruction string
	StoryContext         string
}

// GenerateItemVariants runs the variant pipeline for a game item. Same
// contract as sprites: one structured description, then three concurrent
// slot-keyed image calls.
func (o *Orchestrator) GenerateItemVariants(ctx context.Context, systemInstruction string, req ItemRequest) (*VariantResult, error) {
	o.setStatus(PhaseDescribing, "Generating item description...")

	raw, err := o.text.GenerateDocument(ctx, systemInstruction, buildItemParts(req))
	if err != nil {
		o.setStatus(PhaseTotalFailure, "Description generation failed")
		return nil, fmt.Errorf("description generation: %w", err)
	}

	desc, err := ParseVariantDescription(raw)
	if err != nil {
		o.setStatus(PhaseParseFailed, "Description did not match the required structure")
		return nil, err
	}
	o.setStatus(PhaseDescribed, "Description ready")

	return o.generateVariantImages(ctx, desc)
}

func buildItemParts(req ItemRequest) []Part {
	parts := []Part{
		TextPart("Item Category: %s", req.Category),
		TextPart("Item Type: %s", req.Type),
		TextPart("Material/Primary Color: %s", req.Material),
		TextPart("Style Keywords: %s", req.StyleKeywords),
		TextPart("Game Perspective: %s", req.Perspective),
		TextPart("The item variation type is '%s'. Apply this instruction: %s",
			req.VariationType, req.VariationInstruction),
	}
	if req.StoryContext != "" {
		parts = append(parts, TextPart(
			"\n--- ACTIVE PROJECT STORY CONTEXT ---\n%s\n----------------------------------\n Guideline: Use the above story context to influence the item's theme, materials, and style to ensure it aligns with the project's narrative.",
			req.StoryContext))
	}
	return parts
}
