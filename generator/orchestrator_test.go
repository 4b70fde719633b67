package generator

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"strings"
	"sync/atomic"
	"testing"

	"go.uber.org/zap"
)

type fakeText struct {
	calls    int32
	response string
	err      error
	gotParts []Part
}

func (f *fakeText) GenerateDocument(ctx context.Context, systemInstruction string, parts []Part) (string, error) {
	atomic.AddInt32(&f.calls, 1)
	f.gotParts = parts
	return f.response, f.err
}

type fakeImage struct {
	generate func(prompt string) ([]byte, error)
}

func (f *fakeImage) GenerateImage(ctx context.Context, prompt string) ([]byte, error) {
	return f.generate(prompt)
}

func testPNG(t *testing.T, w, h int, c color.Color) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, c)
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("encode test png: %v", err)
	}
	return buf.Bytes()
}

func TestGenerateVariantsSlotMapping(t *testing.T) {
	text := &fakeText{response: "```json\n" + validVariantJSON + "\n```"}
	img := &fakeImage{generate: func(prompt string) ([]byte, error) {
		return []byte(prompt), nil
	}}
	o := New(text, img, zap.NewNop())

	result, err := o.GenerateVariants(context.Background(), "system", SpriteRequest{Concept: "knight"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(result.Images.Default) != "knight standing" {
		t.Fatalf("default slot holds %q", result.Images.Default)
	}
	if string(result.Images.Hover) != "knight glowing" {
		t.Fatalf("hover slot holds %q", result.Images.Hover)
	}
	if string(result.Images.Active) != "knight attacking" {
		t.Fatalf("active slot holds %q", result.Images.Active)
	}
	if result.ImageError != "" {
		t.Fatalf("unexpected image error %q", result.ImageError)
	}
	if got := o.Status().Phase; got != PhaseFullSuccess {
		t.Fatalf("phase = %q, want %q", got, PhaseFullSuccess)
	}
}

func TestGenerateVariantsPartialFailure(t *testing.T) {
	text := &fakeText{response: validVariantJSON}
	img := &fakeImage{generate: func(prompt string) ([]byte, error) {
		if strings.Contains(prompt, "glowing") {
			return nil, errors.New("rate limited")
		}
		return []byte(prompt), nil
	}}
	o := New(text, img, zap.NewNop())

	result, err := o.GenerateVariants(context.Background(), "system", SpriteRequest{Concept: "knight"})
	if err != nil {
		t.Fatalf("partial failure must not be an error, got %v", err)
	}
	if result.Images.Hover != nil {
		t.Fatalf("failed slot should be nil, holds %q", result.Images.Hover)
	}
	if result.Images.Default == nil || result.Images.Active == nil {
		t.Fatal("sibling slots must survive a single slot failure")
	}
	if !strings.Contains(result.ImageError, "hover") {
		t.Fatalf("image error should name the failed slot, got %q", result.ImageError)
	}
	if strings.Contains(result.ImageError, "default") || strings.Contains(result.ImageError, "active") {
		t.Fatalf("image error should name only failed slots, got %q", result.ImageError)
	}
	if got := o.Status().Phase; got != PhasePartialSuccess {
		t.Fatalf("phase = %q, want %q", got, PhasePartialSuccess)
	}
}

func TestGenerateVariantsTotalFailure(t *testing.T) {
	text := &fakeText{response: validVariantJSON}
	img := &fakeImage{generate: func(prompt string) ([]byte, error) {
		return nil, errors.New("quota exhausted")
	}}
	o := New(text, img, zap.NewNop())

	_, err := o.GenerateVariants(context.Background(), "system", SpriteRequest{Concept: "knight"})
	if err == nil {
		t.Fatal("expected error when every slot fails")
	}
	if got := o.Status().Phase; got != PhaseTotalFailure {
		t.Fatalf("phase = %q, want %q", got, PhaseTotalFailure)
	}
}

func TestGenerateVariantsParseFailure(t *testing.T) {
	text := &fakeText{response: `{"spriteConcept": "knight"}`}
	img := &fakeImage{generate: func(prompt string) ([]byte, error) {
		t.Error("image generator must not run after a parse failure")
		return nil, nil
	}}
	o := New(text, img, zap.NewNop())

	_, err := o.GenerateVariants(context.Background(), "system", SpriteRequest{Concept: "knight"})
	var malformed *MalformedResponseError
	if !errors.As(err, &malformed) {
		t.Fatalf("expected MalformedResponseError, got %v", err)
	}
	if got := o.Status().Phase; got != PhaseParseFailed {
		t.Fatalf("phase = %q, want %q", got, PhaseParseFailed)
	}
}

func TestRegenerateImagesSkipsTextStage(t *testing.T) {
	text := &fakeText{response: validVariantJSON}
	img := &fakeImage{generate: func(prompt string) ([]byte, error) {
		return []byte(prompt), nil
	}}
	o := New(text, img, zap.NewNop())

	desc, err := ParseVariantDescription(validVariantJSON)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	result, err := o.RegenerateImages(context.Background(), desc)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if atomic.LoadInt32(&text.calls) != 0 {
		t.Fatalf("text generator ran %d times, want 0", text.calls)
	}
	if string(result.Images.Active) != "knight attacking" {
		t.Fatalf("active slot holds %q", result.Images.Active)
	}
}

func TestRegenerateImagesNoDescription(t *testing.T) {
	o := New(&fakeText{}, &fakeImage{generate: func(string) ([]byte, error) { return nil, nil }}, zap.NewNop())

	var malformed *MalformedResponseError
	if _, err := o.RegenerateImages(context.Background(), nil); !errors.As(err, &malformed) {
		t.Fatalf("expected MalformedResponseError for nil description, got %v", err)
	}
	if _, err := o.RegenerateImages(context.Background(), &VariantDescription{}); !errors.As(err, &malformed) {
		t.Fatalf("expected MalformedResponseError for missing variants, got %v", err)
	}
}

func animationJSON(frames int) string {
	var b strings.Builder
	b.WriteString(`{"spriteConcept": "slime", "animationPrompts": [`)
	for i := 1; i <= frames; i++ {
		if i > 1 {
			b.WriteString(",")
		}
		fmt.Fprintf(&b, `{"frame": %d, "prompt": "pose %d"}`, i, i)
	}
	b.WriteString("]}")
	return b.String()
}

func TestGenerateAnimationSkipsFailedFrames(t *testing.T) {
	text := &fakeText{response: animationJSON(4)}
	red := color.RGBA{R: 255, A: 255}
	img := &fakeImage{generate: func(prompt string) ([]byte, error) {
		if strings.HasSuffix(prompt, "3") {
			return nil, errors.New("boom")
		}
		return testPNG(t, 8, 8, red), nil
	}}
	o := New(text, img, zap.NewNop())

	result, err := o.GenerateAnimation(context.Background(), "system", SpriteRequest{Concept: "slime", FrameCount: 4})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(result.Frames) != 3 {
		t.Fatalf("got %d frames, want 3", len(result.Frames))
	}
	if len(result.FrameErrors) != 1 || !strings.Contains(result.FrameErrors[0], "Frame 3") {
		t.Fatalf("frame errors = %v", result.FrameErrors)
	}
	if result.Sheet == nil {
		t.Fatal("surviving frames should still be stitched")
	}
	if got := o.Status().Phase; got != PhasePartialSuccess {
		t.Fatalf("phase = %q, want %q", got, PhasePartialSuccess)
	}
}

func TestGenerateAnimationAllFramesFail(t *testing.T) {
	text := &fakeText{response: animationJSON(3)}
	img := &fakeImage{generate: func(prompt string) ([]byte, error) {
		return nil, errors.New("boom")
	}}
	o := New(text, img, zap.NewNop())

	result, err := o.GenerateAnimation(context.Background(), "system", SpriteRequest{Concept: "slime", FrameCount: 3})
	if err == nil {
		t.Fatal("expected error when no frame succeeds")
	}
	if len(result.FrameErrors) != 3 {
		t.Fatalf("got %d frame errors, want 3", len(result.FrameErrors))
	}
	if got := o.Status().Phase; got != PhaseTotalFailure {
		t.Fatalf("phase = %q, want %q", got, PhaseTotalFailure)
	}
}

func TestGenerateAnimationClampsFrameCount(t *testing.T) {
	text := &fakeText{response: animationJSON(2)}
	img := &fakeImage{generate: func(prompt string) ([]byte, error) {
		return testPNG(t, 4, 4, color.White), nil
	}}
	o := New(text, img, zap.NewNop())

	if _, err := o.GenerateAnimation(context.Background(), "system", SpriteRequest{Concept: "slime", FrameCount: 50}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !partsContain(text.gotParts, "Number of Frames: 12") {
		t.Fatalf("frame count was not clamped in parts: %v", partTexts(text.gotParts))
	}

	if _, err := o.GenerateAnimation(context.Background(), "system", SpriteRequest{Concept: "slime", FrameCount: 0}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !partsContain(text.gotParts, "Number of Frames: 2") {
		t.Fatalf("frame count was not raised to the minimum: %v", partTexts(text.gotParts))
	}
}

func TestGenerateAnimationStatusProgress(t *testing.T) {
	text := &fakeText{response: animationJSON(3)}
	img := &fakeImage{generate: func(prompt string) ([]byte, error) {
		return testPNG(t, 4, 4, color.White), nil
	}}
	o := New(text, img, zap.NewNop())

	var messages []string
	o.OnStatus(func(s Status) {
		if s.Phase == PhaseImaging {
			messages = append(messages, s.Message)
		}
	})

	if _, err := o.GenerateAnimation(context.Background(), "system", SpriteRequest{Concept: "slime", FrameCount: 3}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []string{
		"Generating frame 1 of 3...",
		"Generating frame 2 of 3...",
		"Generating frame 3 of 3...",
		"Stitching frames into sprite sheet...",
	}
	if len(messages) != len(want) {
		t.Fatalf("got %d imaging messages, want %d: %v", len(messages), len(want), messages)
	}
	for i := range want {
		if messages[i] != want[i] {
			t.Fatalf("message %d = %q, want %q", i, messages[i], want[i])
		}
	}
}

func TestBuildPartsVariantMode(t *testing.T) {
	text := &fakeText{response: validVariantJSON}
	img := &fakeImage{generate: func(prompt string) ([]byte, error) { return []byte(prompt), nil }}
	o := New(text, img, zap.NewNop())

	req := SpriteRequest{
		Concept:         "knight",
		GameGenre:       "Fantasy RPG",
		GamePerspective: "Top-down",
		AnimationState:  "Idle",
		VariationType:   "Color Shift",
		StoryContext:    "A cursed kingdom.",
		ReferenceImage:  []byte{1, 2, 3},
		ReferenceMIME:   "image/png",
	}
	if _, err := o.GenerateVariants(context.Background(), "system", req); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	texts := partTexts(text.gotParts)
	for _, want := range []string{
		"Sprite Concept: knight",
		"Game Genre: Fantasy RPG",
		"Custom Instructions: None",
		"Variation Type to apply: Color Shift",
	} {
		if !partsContain(text.gotParts, want) {
			t.Fatalf("missing part %q in %v", want, texts)
		}
	}
	found := false
	for _, txt := range texts {
		if strings.Contains(txt, "ACTIVE PROJECT STORY CONTEXT") && strings.Contains(txt, "A cursed kingdom.") {
			found = true
		}
	}
	if !found {
		t.Fatalf("story context block missing from %v", texts)
	}
	last := text.gotParts[len(text.gotParts)-1]
	if last.ImageMIME != "image/png" || len(last.ImageData) == 0 {
		t.Fatalf("reference image should be the final part, got %+v", last)
	}
}

func partsContain(parts []Part, text string) bool {
	for _, p := range parts {
		if p.Text == text {
			return true
		}
	}
	return false
}

func partTexts(parts []Part) []string {
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p.Text != "" {
			out = append(out, p.Text)
		}
	}
	return out
}
