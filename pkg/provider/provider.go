package provider

import (
	"context"
	"fmt"

	"github.com/theapemachine/cpf-explainer/pkg/config"
	"google.golang.org/genai"
)

/*
NewCompleter builds the Completer named by cfg.Completion. Credentials are
assumed to be validated already.
*/
func NewCompleter(ctx context.Context, cfg config.Provider) (Completer, error) {
	creds := cfg.Vendor(cfg.Completion)

	switch cfg.Completion {
	case config.ProviderOpenAI:
		return NewOpenAIProvider(
			WithOpenAIClient(creds.APIKey),
			WithOpenAIModel(creds.Model),
		), nil
	case config.ProviderAnthropic:
		return NewAnthropicProvider(
			WithAnthropicClient(creds.APIKey),
			WithAnthropicModel(creds.Model),
		), nil
	case config.ProviderOllama:
		client, err := newOllamaClient(creds.Host)

		if err != nil {
			return nil, err
		}

		return NewOllamaProvider(
			WithOllamaClient(client),
			WithOllamaModel(creds.Model),
		), nil
	case config.ProviderCohere:
		return NewCohereProvider(
			WithCohereClient(creds.APIKey),
			WithCohereModel(creds.Model),
		), nil
	case config.ProviderDeepseek:
		return NewDeepseekProvider(
			WithDeepseekClient(creds.APIKey),
			WithDeepseekModel(creds.Model),
		), nil
	case config.ProviderGoogle:
		client, err := genai.NewClient(ctx, &genai.ClientConfig{
			APIKey:  creds.APIKey,
			Backend: genai.BackendGeminiAPI,
		})

		if err != nil {
			return nil, fmt.Errorf("failed to create genai client: %w", err)
		}

		return NewGoogleProvider(
			WithGoogleClient(client),
			WithGoogleModel(creds.Model),
		), nil
	}

	return nil, fmt.Errorf("unknown completion provider %q", cfg.Completion)
}

/*
NewEmbedder builds the Embedder named by cfg.Embedding.
*/
func NewEmbedder(cfg config.Provider) (Embedder, error) {
	creds := cfg.Vendor(cfg.Embedding)

	switch cfg.Embedding {
	case config.ProviderOpenAI:
		return NewOpenAIEmbedder(
			WithOpenAIEmbedderClient(newOpenAIClient(creds.APIKey)),
			WithOpenAIEmbedderModel(creds.EmbeddingModel),
		), nil
	case config.ProviderOllama:
		client, err := newOllamaClient(creds.Host)

		if err != nil {
			return nil, err
		}

		return NewOllamaEmbedder(
			WithOllamaEmbedderClient(client),
			WithOllamaEmbedderModel(creds.EmbeddingModel),
		), nil
	case config.ProviderCohere:
		return NewCohereEmbedder(
			WithCohereEmbedderClient(newCohereClient(creds.APIKey)),
			WithCohereEmbedderModel(creds.EmbeddingModel),
		), nil
	}

	return nil, fmt.Errorf("unknown embedding provider %q", cfg.Embedding)
}
