package generator

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
)

// MalformedResponseError reports a text-generation response that failed the
// structured-output contract. It is a hard validation gate: missing prompts
// are never silently substituted.
type MalformedResponseError struct {
	Reason string
}

func (e *MalformedResponseError) Error() string {
	return fmt.Sprintf("malformed generation response: %s", e.Reason)
}

// The model sometimes wraps its JSON in a markdown code fence despite the
// JSON response directive.
var fenceRegex = regexp.MustCompile("(?s)^```(?:\\w+)?\\s*\\n?(.*?)\\n?\\s*```$")

// StripFence removes one optional leading/trailing code fence. Unfenced input
// passes through unchanged, so stripping is idempotent.
func StripFence(raw string) string {
	trimmed := strings.TrimSpace(raw)
	if match := fenceRegex.FindStringSubmatch(trimmed); match != nil {
		return strings.TrimSpace(match[1])
	}
	return trimmed
}

// StyleAnalysis carries the model's rendering notes for the whole set.
type StyleAnalysis struct {
	Notes string `json:"notes"`
}

// VariantPrompt is one image prompt within a variant set.
type VariantPrompt struct {
	Prompt string `json:"prompt"`
}

// VariantSet holds the three state-specific prompts of a static asset.
type VariantSet struct {
	Default VariantPrompt `json:"default"`
	Hover   VariantPrompt `json:"hover"`
	Active  VariantPrompt `json:"active"`
}

// VariantDescription is the structured document required from the text model
// in variant mode. Sprite responses carry spriteConcept, item responses
// itemConcept.
type VariantDescription struct {
	SpriteConcept string        `json:"spriteConcept,omitempty"`
	ItemConcept   string        `json:"itemConcept,omitempty"`
	StyleAnalysis StyleAnalysis `json:"styleAnalysis"`
	Variants      *VariantSet   `json:"variants"`
}

// ConceptName returns whichever concept field the model filled in.
func (d *VariantDescription) ConceptName() string {
	if d.SpriteConcept != "" {
		return d.SpriteConcept
	}
	return d.ItemConcept
}

// FramePrompt is one animation frame's prompt, numbered by the model.
type FramePrompt struct {
	Frame  int    `json:"frame"`
	Prompt string `json:"prompt"`
}

// AnimationDescription is the structured document required from the text
// model in animation mode.
type AnimationDescription struct {
	SpriteConcept    string        `json:"spriteConcept"`
	StyleAnalysis    StyleAnalysis `json:"styleAnalysis"`
	AnimationPrompts []FramePrompt `json:"animationPrompts"`
}

// ParseVariantDescription strips an optional code fence, parses the response
// as JSON and validates that all three variant prompts are present.
func ParseVariantDescription(raw string) (*VariantDescription, error) {
	var desc VariantDescription
	if err := json.Unmarshal([]byte(StripFence(raw)), &desc); err != nil {
		return nil, &MalformedResponseError{Reason: fmt.Sprintf("invalid JSON: %v", err)}
	}
	if desc.Variants == nil {
		return nil, &MalformedResponseError{Reason: "missing 'variants' object"}
	}
	var missing []string
	if desc.Variants.Default.Prompt == "" {
		missing = append(missing, "default")
	}
	if desc.Variants.Hover.Prompt == "" {
		missing = append(missing, "hover")
	}
	if desc.Variants.Active.Prompt == "" {
		missing = append(missing, "active")
	}
	if len(missing) > 0 {
		return nil, &MalformedResponseError{
			Reason: fmt.Sprintf("variants missing prompts for: %s", strings.Join(missing, ", ")),
		}
	}
	return &desc, nil
}

// ParseAnimationDescription strips an optional code fence, parses the
// response as JSON and validates that at least one frame prompt came back.
func ParseAnimationDescription(raw string) (*AnimationDescription, error) {
	var desc AnimationDescription
	if err := json.Unmarshal([]byte(StripFence(raw)), &desc); err != nil {
		return nil, &MalformedResponseError{Reason: fmt.Sprintf("invalid JSON: %v", err)}
	}
	if len(desc.AnimationPrompts) == 0 {
		return nil, &MalformedResponseError{Reason: "no animation prompts returned"}
	}
	for _, fp := range desc.AnimationPrompts {
		if fp.Prompt == "" {
			return nil, &MalformedResponseError{Reason: fmt.Sprintf("empty prompt for frame %d", fp.Frame)}
		}
	}
	return &desc, nil
}
