package client

import (
	"context"
	"errors"
	"fmt"
	"pawsay/internal/domain/translation/service"
	"pawsay/internal/pkg/config"

	"google.golang.org/genai"
)

// ErrNoAPIKey 未配置 Gemini API key
var ErrNoAPIKey = errors.New("gemini api key is required")

// GenAIClient 基于 Google GenAI 的分类与配图后端
type GenAIClient struct {
	client     *genai.Client
	model      string
	imageModel string
}

func NewGenAIClient(ctx context.Context, cfg config.GeminiConfig) (*GenAIClient, error) {
	if cfg.APIKey == "" {
		return nil, ErrNoAPIKey
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create GenAI client: %w", err)
	}
	return &GenAIClient{client: client, model: cfg.Model, imageModel: cfg.ImageModel}, nil
}

// judgmentSchema 约束模型的 JSON 输出
var judgmentSchema = &genai.Schema{
	Type: genai.TypeObject,
	Properties: map[string]*genai.Schema{
		"detectedSoundType": {Type: genai.TypeString},
		"soundDetected":     {Type: genai.TypeBoolean},
		"emotion":           {Type: genai.TypeString, Nullable: genai.Ptr(true)},
		"explanation":       {Type: genai.TypeString, Nullable: genai.Ptr(true)},
		"advice":            {Type: genai.TypeString, Nullable: genai.Ptr(true)},
	},
	Required: []string{"detectedSoundType", "soundDetected", "emotion", "explanation", "advice"},
}

func (c *GenAIClient) Classify(ctx context.Context, req service.ClassifyRequest) (string, error) {
	contents := []*genai.Content{
		genai.NewContentFromParts([]*genai.Part{
			genai.NewPartFromBytes(req.Audio, req.MIMEType),
			genai.NewPartFromText(req.Prompt),
		}, genai.RoleUser),
	}
	resp, err := c.client.Models.GenerateContent(ctx, c.model, contents, &genai.GenerateContentConfig{
		SystemInstruction: genai.NewContentFromText(req.SystemInstruction, genai.RoleUser),
		ResponseMIMEType:  "application/json",
		ResponseSchema:    judgmentSchema,
	})
	if err != nil {
		return "", fmt.Errorf("GenAI classify failed: %w", err)
	}
	text := resp.Text()
	if text == "" {
		return "", errors.New("empty classification response")
	}
	return text, nil
}

func (c *GenAIClient) GenerateImage(ctx context.Context, prompt string) ([]byte, string, error) {
	resp, err := c.client.Models.GenerateContent(ctx, c.imageModel, genai.Text(prompt), &genai.GenerateContentConfig{
		ImageConfig: &genai.ImageConfig{AspectRatio: "1:1"},
	})
	if err != nil {
		return nil, "", fmt.Errorf("GenAI image failed: %w", err)
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return nil, "", errors.New("no image candidates")
	}
	for _, part := range resp.Candidates[0].Content.Parts {
		if part.InlineData != nil && len(part.InlineData.Data) > 0 {
			mimeType := part.InlineData.MIMEType
			if mimeType == "" {
				mimeType = "image/png"
			}
			return part.InlineData.Data, mimeType, nil
		}
	}
	return nil, "", errors.New("no inline image data")
}

var _ service.Generator = (*GenAIClient)(nil)
