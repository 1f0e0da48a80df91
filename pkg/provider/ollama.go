package provider

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/ollama/ollama/api"
)

/*
OllamaProvider runs completions against a local Ollama server. Together with
OllamaEmbedder it lets the whole pipeline run without a hosted vendor.
*/
type OllamaProvider struct {
	client *api.Client
	model  string
}

type OllamaProviderOption func(*OllamaProvider)

func NewOllamaProvider(options ...OllamaProviderOption) *OllamaProvider {
	prvdr := &OllamaProvider{model: "llama3.2"}

	for _, option := range options {
		option(prvdr)
	}

	return prvdr
}

func (prvdr *OllamaProvider) Complete(ctx context.Context, prompt string) (string, error) {
	stream := false
	req := &api.GenerateRequest{
		Model:   prvdr.model,
		Prompt:  prompt,
		Stream:  &stream,
		Options: map[string]any{"temperature": 0},
	}

	var out strings.Builder

	respFunc := func(resp api.GenerateResponse) error {
		out.WriteString(resp.Response)
		return nil
	}

	if err := prvdr.client.Generate(ctx, req, respFunc); err != nil {
		return "", err
	}

	return out.String(), nil
}

type OllamaEmbedder struct {
	api   *api.Client
	Model string
}

type OllamaEmbedderOption func(*OllamaEmbedder)

func NewOllamaEmbedder(options ...OllamaEmbedderOption) *OllamaEmbedder {
	embedder := &OllamaEmbedder{Model: "all-minilm"}

	for _, option := range options {
		option(embedder)
	}

	return embedder
}

func (e *OllamaEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	out, err := e.EmbedBatch(ctx, []string{text})

	if err != nil {
		return nil, err
	}

	return out[0], nil
}

func (e *OllamaEmbedder) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return [][]float32{}, nil
	}

	resp, err := e.api.Embed(ctx, &api.EmbedRequest{
		Model: e.Model,
		Input: texts,
	})

	if err != nil {
		return nil, err
	}

	if len(resp.Embeddings) != len(texts) {
		return nil, fmt.Errorf("ollama returned %d embeddings for %d inputs", len(resp.Embeddings), len(texts))
	}

	return resp.Embeddings, nil
}

func newOllamaClient(host string) (*api.Client, error) {
	if host == "" {
		return api.ClientFromEnvironment()
	}

	base, err := url.Parse(host)

	if err != nil {
		return nil, fmt.Errorf("invalid ollama host %q: %w", host, err)
	}

	return api.NewClient(base, http.DefaultClient), nil
}

func WithOllamaClient(client *api.Client) OllamaProviderOption {
	return func(prvdr *OllamaProvider) {
		prvdr.client = client
	}
}

func WithOllamaModel(model string) OllamaProviderOption {
	return func(prvdr *OllamaProvider) {
		if model != "" {
			prvdr.model = model
		}
	}
}

func WithOllamaEmbedderModel(model string) OllamaEmbedderOption {
	return func(e *OllamaEmbedder) {
		if model != "" {
			e.Model = model
		}
	}
}

func WithOllamaEmbedderClient(client *api.Client) OllamaEmbedderOption {
	return func(e *OllamaEmbedder) {
		e.api = client
	}
}
