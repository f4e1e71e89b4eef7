package ai

import (
	"context"
	"fmt"

	"google.golang.org/genai"

	"github.com/zhouzirui/hair-care-chat/backend/internal/config"
)

// GeminiGenerator 使用 Google Gemini API 生成文本。
type GeminiGenerator struct {
	client    *genai.Client
	modelName string
}

// NewGeminiGenerator creates a Generator based on the Gemini developer API.
func NewGeminiGenerator(ctx context.Context, cfg config.AIConfig) (*GeminiGenerator, error) {
	if cfg.GoogleAPIKey == "" {
		return nil, &Error{Kind: KindConfiguration, Provider: "gemini", Err: fmt.Errorf("GOOGLE_API_KEY is not set")}
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  cfg.GoogleAPIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, classify("gemini", fmt.Errorf("creating gemini client: %w", err))
	}

	return &GeminiGenerator{client: client, modelName: cfg.GeminiModel}, nil
}

// Generate implements Generator.
func (g *GeminiGenerator) Generate(ctx context.Context, p Prompt) (string, error) {
	var cfg *genai.GenerateContentConfig
	if p.System != "" {
		cfg = &genai.GenerateContentConfig{
			SystemInstruction: genai.NewContentFromText(p.System, genai.RoleUser),
		}
	}

	res, err := g.client.Models.GenerateContent(ctx, g.modelName, genai.Text(p.User), cfg)
	if err != nil {
		return "", classify("gemini", fmt.Errorf("gemini generate content with %s: %w", g.modelName, err))
	}
	return res.Text(), nil
}

// ListModels implements ModelLister.
func (g *GeminiGenerator) ListModels(ctx context.Context) ([]ModelInfo, error) {
	page, err := g.client.Models.List(ctx, &genai.ListModelsConfig{})
	if err != nil {
		return nil, classify("gemini", fmt.Errorf("list gemini models: %w", err))
	}

	models := make([]ModelInfo, 0, len(page.Items))
	for _, m := range page.Items {
		if m == nil {
			continue
		}
		models = append(models, ModelInfo{
			Name:        m.Name,
			DisplayName: m.DisplayName,
			Description: m.Description,
		})
	}
	return models, nil
}
