// Package generator drives the multi-step generation pipeline: one text call
// producing a structured document, then one or more independently fallible
// image calls, then compositing for animation sheets.
package generator

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"go.uber.org/zap"

	"spriteforge/compositor"
)

// Frame count bounds for animation mode. User input outside this range is
// clamped before the request is issued.
const (
	MinFrameCount = 2
	MaxFrameCount = 12
)

// TextGenerator issues one text-generation call under a system instruction
// and a JSON response directive, returning the raw response text.
type TextGenerator interface {
	GenerateDocument(ctx context.Context, systemInstruction string, parts []Part) (string, error)
}

// ImageGenerator issues one image-generation call, returning PNG bytes.
type ImageGenerator interface {
	GenerateImage(ctx context.Context, prompt string) ([]byte, error)
}

// Part is one content segment of a text-generation request: either a text
// fragment or an inline reference image.
type Part struct {
	Text      string
	ImageData []byte
	ImageMIME string
}

// TextPart builds a text segment.
func TextPart(format string, args ...any) Part {
	return Part{Text: fmt.Sprintf(format, args...)}
}

// SpriteRequest carries the user specification for a variant or animation
// generation. Option fields hold display labels, injected verbatim into the
// prompt parts.
type SpriteRequest struct {
	Concept            string
	GameGenre          string
	GamePerspective    string
	RPGCharacterType   string
	AnimationState     string
	VariationType      string
	CustomInstructions string
	FrameCount         int
	ReferenceImage     []byte
	ReferenceMIME      string
	StoryContext       string
}

// VariantImages holds the three slot results. A nil slot means that slot's
// image call failed; the siblings stay usable.
type VariantImages struct {
	Default []byte
	Hover   []byte
	Active  []byte
}

// VariantResult is the outcome of a variant-mode generation. ImageError
// lists only the failed slots; partial success is not an error.
type VariantResult struct {
	Description *VariantDescription
	Images      VariantImages
	ImageError  string
}

// AnimationResult is the outcome of an animation-mode generation. Frames are
// the successfully generated frames in ascending index order; failed frames
// are recorded in FrameErrors and skipped, never retried.
type AnimationResult struct {
	Description *AnimationDescription
	Frames      [][]byte
	Sheet       []byte
	FrameErrors []string
	SheetError  string
}

// Orchestrator sequences text generation, validation, image generation and
// compositing, exposing one authoritative status per in-flight request.
type Orchestrator struct {
	text  TextGenerator
	image ImageGenerator
	log   *zap.Logger

	mu       sync.Mutex
	status   Status
	onStatus func(Status)
}

// New builds an Orchestrator over the given generation clients.
func New(text TextGenerator, image ImageGenerator, log *zap.Logger) *Orchestrator {
	return &Orchestrator{
		text:   text,
		image:  image,
		log:    log,
		status: Status{Phase: PhaseIdle},
	}
}

// OnStatus registers a callback invoked at every status transition.
func (o *Orchestrator) OnStatus(fn func(Status)) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.onStatus = fn
}

// Status returns a snapshot of the current generation status.
func (o *Orchestrator) Status() Status {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.status
}

func (o *Orchestrator) setStatus(phase Phase, format string, args ...any) {
	o.mu.Lock()
	o.status = Status{Phase: phase, Message: fmt.Sprintf(format, args...)}
	status := o.status
	fn := o.onStatus
	o.mu.Unlock()

	o.log.Debug("generation status", zap.String("phase", string(phase)), zap.String("message", status.Message))
	if fn != nil {
		fn(status)
	}
}

// ClampFrameCount forces a requested frame count into the supported range.
func ClampFrameCount(n int) int {
	if n < MinFrameCount {
		return MinFrameCount
	}
	if n > MaxFrameCount {
		return MaxFrameCount
	}
	return n
}

// GenerateVariants runs the full variant pipeline: describe, validate, then
// three concurrent image calls keyed by slot.
func (o *Orchestrator) GenerateVariants(ctx context.Context, systemInstruction string, req SpriteRequest) (*VariantResult, error) {
	o.setStatus(PhaseDescribing, "Generating description...")

	raw, err := o.text.GenerateDocument(ctx, systemInstruction, o.buildParts(req, false))
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

// RegenerateImages repeats only the imaging stage against an already-parsed
// description. The text stage is not re-issued.
func (o *Orchestrator) RegenerateImages(ctx context.Context, desc *VariantDescription) (*VariantResult, error) {
	if desc == nil || desc.Variants == nil {
		return nil, &MalformedResponseError{Reason: "no stored description to regenerate from"}
	}
	return o.generateVariantImages(ctx, desc)
}

func (o *Orchestrator) generateVariantImages(ctx context.Context, desc *VariantDescription) (*VariantResult, error) {
	o.setStatus(PhaseImaging, "Generating variant images...")

	slots := []struct {
		name   string
		prompt string
	}{
		{"default", desc.Variants.Default.Prompt},
		{"hover", desc.Variants.Hover.Prompt},
		{"active", desc.Variants.Active.Prompt},
	}

	// The three calls run concurrently but results land in fixed slots keyed
	// by intent, never by completion order.
	images := make([][]byte, len(slots))
	errs := make([]error, len(slots))
	var wg sync.WaitGroup
	for i := range slots {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			images[i], errs[i] = o.image.GenerateImage(ctx, slots[i].prompt)
		}(i)
	}
	wg.Wait()

	result := &VariantResult{
		Description: desc,
		Images:      VariantImages{Default: images[0], Hover: images[1], Active: images[2]},
	}

	var failures []string
	for i, err := range errs {
		if err != nil {
			failures = append(failures, fmt.Sprintf("%s: %v", slots[i].name, err))
		}
	}
	result.ImageError = strings.Join(failures, ", ")

	switch len(failures) {
	case 0:
		o.setStatus(PhaseFullSuccess, "All variant images generated")
	case len(slots):
		o.setStatus(PhaseTotalFailure, "All variant images failed")
		return result, fmt.Errorf("image generation: %s", result.ImageError)
	default:
		o.setStatus(PhasePartialSuccess, "Some variant images failed")
	}
	return result, nil
}

// GenerateAnimation runs the animation pipeline: describe, validate, then
// one image call per frame, strictly sequential and in ascending index
// order. A failed frame is recorded and skipped so the completed frames stay
// usable, then the survivors are stitched into a sheet.
func (o *Orchestrator) GenerateAnimation(ctx context.Context, systemInstruction string, req SpriteRequest) (*AnimationResult, error) {
	req.FrameCount = ClampFrameCount(req.FrameCount)
	o.setStatus(PhaseDescribing, "Generating animation prompts...")

	raw, err := o.text.GenerateDocument(ctx, systemInstruction, o.buildParts(req, true))
	if err != nil {
		o.setStatus(PhaseTotalFailure, "Description generation failed")
		return nil, fmt.Errorf("description generation: %w", err)
	}

	desc, err := ParseAnimationDescription(raw)
	if err != nil {
		o.setStatus(PhaseParseFailed, "Description did not match the required structure")
		return nil, err
	}
	o.setStatus(PhaseDescribed, "Animation prompts ready")

	result := &AnimationResult{Description: desc}
	total := len(desc.AnimationPrompts)
	for i, fp := range desc.AnimationPrompts {
		o.setStatus(PhaseImaging, "Generating frame %d of %d...", i+1, total)
		frame, err := o.image.GenerateImage(ctx, fp.Prompt)
		if err != nil {
			result.FrameErrors = append(result.FrameErrors, fmt.Sprintf("Frame %d: %v", i+1, err))
			continue
		}
		result.Frames = append(result.Frames, frame)
	}

	if len(result.Frames) == 0 {
		o.setStatus(PhaseTotalFailure, "No frames were generated successfully")
		return result, fmt.Errorf("animation generation: no frames were generated successfully")
	}

	o.setStatus(PhaseImaging, "Stitching frames into sprite sheet...")
	sheet, err := compositor.Stitch(result.Frames)
	if err != nil {
		// Individual frames stay inspectable even when the sheet cannot be
		// assembled.
		result.SheetError = err.Error()
		o.setStatus(PhasePartialSuccess, "Frames generated but stitching failed")
		return result, nil
	}
	result.Sheet = sheet

	if len(result.FrameErrors) > 0 {
		o.setStatus(PhasePartialSuccess, "Sheet assembled with %d failed frame(s)", len(result.FrameErrors))
	} else {
		o.setStatus(PhaseFullSuccess, "Sprite sheet assembled")
	}
	return result, nil
}

// GenerateDocument issues one plain text-generation call and returns the
// response text, for the long-form markdown generators (story, map, RPG
// system).
func (o *Orchestrator) GenerateDocument(ctx context.Context, prompt string) (string, error) {
	o.setStatus(PhaseDescribing, "Generating document...")
	doc, err := o.text.GenerateDocument(ctx, "", []Part{{Text: prompt}})
	if err != nil {
		o.setStatus(PhaseTotalFailure, "Document generation failed")
		return "", fmt.Errorf("document generation: %w", err)
	}
	o.setStatus(PhaseFullSuccess, "Document generated")
	return doc, nil
}

// GenerateIllustration issues one image call for concept art.
func (o *Orchestrator) GenerateIllustration(ctx context.Context, prompt string) ([]byte, error) {
	o.setStatus(PhaseImaging, "Generating illustration...")
	img, err := o.image.GenerateImage(ctx, prompt)
	if err != nil {
		o.setStatus(PhaseTotalFailure, "Illustration generation failed")
		return nil, fmt.Errorf("illustration generation: %w", err)
	}
	o.setStatus(PhaseFullSuccess, "Illustration generated")
	return img, nil
}

// buildParts assembles the text segments shared by both sprite modes, plus
// the mode-specific tail and the optional reference image.
func (o *Orchestrator) buildParts(req SpriteRequest, animation bool) []Part {
	parts := []Part{
		TextPart("Sprite Concept: %s", req.Concept),
		TextPart("Game Genre: %s", req.GameGenre),
		TextPart("Game Perspective: %s", req.GamePerspective),
		TextPart("Animation State: %s", req.AnimationState),
	}
	if req.RPGCharacterType != "" {
		parts = append(parts, TextPart("RPG Character Type: %s", req.RPGCharacterType))
	}
	if req.StoryContext != "" {
		parts = append(parts, TextPart(
			"\n--- ACTIVE PROJECT STORY CONTEXT ---\n%s\n--- Guideline: Use the story context to influence the sprite's theme and style.",
			req.StoryContext))
	}
	if animation {
		parts = append(parts, TextPart("Number of Frames: %d", req.FrameCount))
	} else {
		custom := req.CustomInstructions
		if custom == "" {
			custom = "None"
		}
		parts = append(parts, TextPart("Custom Instructions: %s", custom))
		parts = append(parts, TextPart("Variation Type to apply: %s", req.VariationType))
	}
	if len(req.ReferenceImage) > 0 {
		parts = append(parts, Part{ImageData: req.ReferenceImage, ImageMIME: req.ReferenceMIME})
	}
	return parts
}
