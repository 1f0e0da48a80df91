package provider

import (
	"context"
	"fmt"

	openai "github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"github.com/theapemachine/cpf-explainer/pkg/utils"
)

/*
OpenAIProvider is a Completer backed by the OpenAI chat completions API.
*/
type OpenAIProvider struct {
	client *openai.Client
	model  string
}

type OpenAIProviderOption func(*OpenAIProvider)

func NewOpenAIProvider(options ...OpenAIProviderOption) *OpenAIProvider {
	prvdr := &OpenAIProvider{model: "gpt-4o-mini"}

	for _, option := range options {
		option(prvdr)
	}

	return prvdr
}

func (prvdr *OpenAIProvider) Complete(ctx context.Context, prompt string) (string, error) {
	completion, err := prvdr.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model: openai.ChatModel(prvdr.model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.UserMessage(prompt),
		},
		Temperature: openai.Float(0),
	})

	if err != nil {
		return "", err
	}

	if len(completion.Choices) == 0 {
		return "", fmt.Errorf("openai completion returned no choices")
	}

	return completion.Choices[0].Message.Content, nil
}

type OpenAIEmbedder struct {
	api   openai.Client
	Model string
}

type OpenAIEmbedderOption func(*OpenAIEmbedder)

func NewOpenAIEmbedder(options ...OpenAIEmbedderOption) *OpenAIEmbedder {
	embedder := &OpenAIEmbedder{Model: string(openai.EmbeddingModelTextEmbedding3Small)}

	for _, option := range options {
		option(embedder)
	}

	return embedder
}

func (e *OpenAIEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	out, err := e.EmbedBatch(ctx, []string{text})

	if err != nil {
		return nil, err
	}

	return out[0], nil
}

func (e *OpenAIEmbedder) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return [][]float32{}, nil
	}

	resp, err := e.api.Embeddings.New(ctx, openai.EmbeddingNewParams{
		Model: openai.EmbeddingModel(e.Model),
		Input: openai.EmbeddingNewParamsInputUnion{OfArrayOfStrings: texts},
	})

	if err != nil {
		return nil, err
	}

	if len(resp.Data) != len(texts) {
		return nil, fmt.Errorf("openai returned %d embeddings for %d inputs", len(resp.Data), len(texts))
	}

	out := make([][]float32, len(texts))

	for _, d := range resp.Data {
		if int(d.Index) < len(out) {
			out[d.Index] = utils.ConvertToFloat32(d.Embedding)
		}
	}

	return out, nil
}

func newOpenAIClient(apiKey string) *openai.Client {
	client := openai.NewClient(option.WithAPIKey(apiKey))
	return &client
}

func WithOpenAIClient(apiKey string) OpenAIProviderOption {
	return func(prvdr *OpenAIProvider) {
		prvdr.client = newOpenAIClient(apiKey)
	}
}

func WithOpenAIModel(model string) OpenAIProviderOption {
	return func(prvdr *OpenAIProvider) {
		if model != "" {
			prvdr.model = model
		}
	}
}

func WithOpenAIEmbedderModel(model string) OpenAIEmbedderOption {
	return func(e *OpenAIEmbedder) {
		if model != "" {
			e.Model = model
		}
	}
}

func WithOpenAIEmbedderClient(client *openai.Client) OpenAIEmbedderOption {
	return func(e *OpenAIEmbedder) {
		e.api = *client
	}
}
