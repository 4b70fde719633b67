// Package ai implements the generator's text and image clients on top of the
// Gemini API.
package ai

import (
	"context"
	"fmt"

	"go.uber.org/zap"
	"google.golang.org/genai"

	"spriteforge/config"
	"spriteforge/generator"
)

// Client issues Gemini text and Imagen image calls.
type Client struct {
	client     *genai.Client
	textModel  string
	imageModel string
	log        *zap.Logger
}

// New creates a Gemini client from the environment configuration.
func New(ctx context.Context, log *zap.Logger) (*Client, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey: config.GetGeminiAPIKey(),
	})
	if err != nil {
		return nil, fmt.Errorf("create gemini client: %w", err)
	}
	return &Client{
		client:     client,
		textModel:  config.GetGeminiModel(),
		imageModel: config.GetImagenModel(),
		log:        log,
	}, nil
}

// GenerateDocument issues one text-generation call. A non-empty system
// instruction also switches on the JSON response directive, matching the
// structured-output contracts; plain document prompts go through without it.
func (c *Client) GenerateDocument(ctx context.Context, systemInstruction string, parts []generator.Part) (string, error) {
	genParts := make([]*genai.Part, 0, len(parts))
	for _, p := range parts {
		if len(p.ImageData) > 0 {
			genParts = append(genParts, genai.NewPartFromBytes(p.ImageData, p.ImageMIME))
			continue
		}
		genParts = append(genParts, genai.NewPartFromText(p.Text))
	}
	contents := []*genai.Content{genai.NewContentFromParts(genParts, genai.RoleUser)}

	var genConfig *genai.GenerateContentConfig
	if systemInstruction != "" {
		genConfig = &genai.GenerateContentConfig{
			SystemInstruction: genai.NewContentFromText(systemInstruction, genai.RoleUser),
			ResponseMIMEType:  "application/json",
			Temperature:       genai.Ptr[float32](0.8),
		}
	}

	resp, err := c.client.Models.GenerateContent(ctx, c.textModel, contents, genConfig)
	if err != nil {
		return "", fmt.Errorf("generate content: %w", err)
	}
	return resp.Text(), nil
}

// GenerateImage issues one image-generation call and returns the PNG bytes.
func (c *Client) GenerateImage(ctx context.Context, prompt string) ([]byte, error) {
	if prompt == "" {
		return nil, fmt.Errorf("empty prompt for image generation")
	}
	resp, err := c.client.Models.GenerateImages(ctx, c.imageModel, prompt, &genai.GenerateImagesConfig{
		NumberOfImages: 1,
		OutputMIMEType: "image/png",
	})
	if err != nil {
		return nil, fmt.Errorf("generate image: %w", err)
	}
	if len(resp.GeneratedImages) == 0 || resp.GeneratedImages[0].Image == nil || len(resp.GeneratedImages[0].Image.ImageBytes) == 0 {
		return nil, fmt.Errorf("no image generated")
	}
	return resp.GeneratedImages[0].Image.ImageBytes, nil
}
