package provider

import (
	"context"

	cohere "github.com/cohere-ai/cohere-go/v2"
	cohereclient "github.com/cohere-ai/cohere-go/v2/client"
	"github.com/theapemachine/cpf-explainer/pkg/utils"
)

type CohereProvider struct {
	client *cohereclient.Client
	model  string
}

type CohereProviderOption func(*CohereProvider)

func NewCohereProvider(options ...CohereProviderOption) *CohereProvider {
	prvdr := &CohereProvider{model: "command-r"}

	for _, option := range options {
		option(prvdr)
	}

	return prvdr
}

func (prvdr *CohereProvider) Complete(ctx context.Context, prompt string) (string, error) {
	model := prvdr.model

	response, err := prvdr.client.Chat(ctx, &cohere.ChatRequest{
		Message: prompt,
		Model:   &model,
	})

	if err != nil {
		return "", err
	}

	return response.GetText(), nil
}

type CohereEmbedder struct {
	api   *cohereclient.Client
	Model string
}

type CohereEmbedderOption func(*CohereEmbedder)

func NewCohereEmbedder(options ...CohereEmbedderOption) *CohereEmbedder {
	embedder := &CohereEmbedder{Model: "embed-english-v3.0"}

	for _, option := range options {
		option(embedder)
	}

	return embedder
}

func (e *CohereEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	out, err := e.EmbedBatch(ctx, []string{text})

	if err != nil {
		return nil, err
	}

	return out[0], nil
}

func (e *CohereEmbedder) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return [][]float32{}, nil
	}

	model := e.Model
	resp, err := e.api.Embed(ctx, &cohere.EmbedRequest{
		Model: &model,
		Texts: texts,
	})

	if err != nil {
		return nil, err
	}

	embeddings := resp.GetEmbeddingsFloats().Embeddings
	out := make([][]float32, len(embeddings))

	for i, embedding := range embeddings {
		out[i] = utils.ConvertToFloat32(embedding)
	}

	return out, nil
}

func newCohereClient(apiKey string) *cohereclient.Client {
	return cohereclient.NewClient(cohereclient.WithToken(apiKey))
}

func WithCohereClient(apiKey string) CohereProviderOption {
	return func(prvdr *CohereProvider) {
		prvdr.client = newCohereClient(apiKey)
	}
}

func WithCohereModel(model string) CohereProviderOption {
	return func(prvdr *CohereProvider) {
		if model != "" {
			prvdr.model = model
		}
	}
}

func WithCohereEmbedderModel(model string) CohereEmbedderOption {
	return func(e *CohereEmbedder) {
		if model != "" {
			e.Model = model
		}
	}
}

func WithCohereEmbedderClient(client *cohereclient.Client) CohereEmbedderOption {
	return func(e *CohereEmbedder) {
		e.api = client
	}
}
