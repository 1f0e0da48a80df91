package provider

import (
	"context"

	"google.golang.org/genai"
)

type GoogleProvider struct {
	client *genai.Client
	model  string
}

type GoogleProviderOption func(*GoogleProvider)

func NewGoogleProvider(options ...GoogleProviderOption) *GoogleProvider {
	prvdr := &GoogleProvider{model: "gemini-2.0-flash"}

	for _, option := range options {
		option(prvdr)
	}

	return prvdr
}

func (prvdr *GoogleProvider) Complete(ctx context.Context, prompt string) (string, error) {
	resp, err := prvdr.client.Models.GenerateContent(
		ctx, prvdr.model, genai.Text(prompt),
		&genai.GenerateContentConfig{Temperature: genai.Ptr(float32(0))},
	)

	if err != nil {
		return "", err
	}

	return resp.Text(), nil
}

func WithGoogleClient(client *genai.Client) GoogleProviderOption {
	return func(prvdr *GoogleProvider) {
		prvdr.client = client
	}
}

func WithGoogleModel(model string) GoogleProviderOption {
	return func(prvdr *GoogleProvider) {
		if model != "" {
			prvdr.model = model
		}
	}
}
