package utils

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

// GeminiGenerator implements TextGenerator using Google's Gemini models
type GeminiGenerator struct {
	client *genai.Client
	model  string
}

func NewGeminiGenerator(ctx context.Context, apiKey, model string) (*GeminiGenerator, error) {
	if model == "" {
		model = "gemini-1.5-flash"
	}

	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	return &GeminiGenerator{
		client: client,
		model:  model,
	}, nil
}

func (g *GeminiGenerator) Model() string { return g.model }

func (g *GeminiGenerator) Generate(ctx context.Context, prompt string, cfg SamplingConfig) (string, error) {
	m := g.client.GenerativeModel(g.model)
	m.SetTemperature(cfg.Temperature)
	if cfg.TopK > 0 {
		m.SetTopK(cfg.TopK)
	}
	if cfg.TopP > 0 {
		m.SetTopP(cfg.TopP)
	}
	if cfg.MaxOutputTokens > 0 {
		m.SetMaxOutputTokens(cfg.MaxOutputTokens)
	}
	if cfg.JSONOnly {
		m.ResponseMIMEType = "application/json"
	}

	resp, err := m.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		if isTransportFailure(err) {
			return "", fmt.Errorf("%w: gemini: %v", ErrServiceUnavailable, err)
		}
		var blocked *genai.BlockedError
		if errors.As(err, &blocked) {
			return "", fmt.Errorf("%w: gemini blocked the request: %v", ErrServiceError, err)
		}
		return "", fmt.Errorf("%w: gemini: %v", ErrServiceError, err)
	}

	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return "", fmt.Errorf("%w: no content generated by Gemini", ErrServiceError)
	}

	var out strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if txt, ok := part.(genai.Text); ok {
			out.WriteString(string(txt))
		}
	}
	if out.Len() == 0 {
		return "", fmt.Errorf("%w: Gemini reply has no text parts", ErrServiceError)
	}
	return out.String(), nil
}

// Close closes the Gemini client
func (g *GeminiGenerator) Close() error {
	return g.client.Close()
}
