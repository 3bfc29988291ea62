package generator_fx

import (
	"context"
	"fmt"
	"log"

	"go.uber.org/fx"

	"tripcraft/internal/config"
	"tripcraft/pkg/utils"
)

var Module = fx.Provide(ProvideTextGenerator)

// ProvideTextGenerator creates the generator for the configured provider
func ProvideTextGenerator(lc fx.Lifecycle, cfg *config.Config) (utils.TextGenerator, error) {
	gen := cfg.Generation

	switch gen.Provider {
	case "openai":
		log.Printf("Initializing openai generator with model: %s", gen.OpenAIModel)
		return utils.NewOpenAIGenerator(gen.OpenAIAPIKey, gen.OpenAIModel), nil
	case "gemini":
		log.Printf("Initializing gemini generator with model: %s", gen.GeminiModel)
		client, err := utils.NewGeminiGenerator(context.Background(), gen.GeminiAPIKey, gen.GeminiModel)
		if err != nil {
			return nil, fmt.Errorf("failed to create Gemini client: %w", err)
		}
		lc.Append(fx.Hook{
			OnStop: func(ctx context.Context) error {
				return client.Close()
			},
		})
		return client, nil
	default:
		return nil, fmt.Errorf("unsupported generation provider: %s. Use 'openai' or 'gemini'", gen.Provider)
	}
}
