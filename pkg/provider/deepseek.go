package provider

import (
	"context"
	"fmt"

	deepseek "github.com/cohesion-org/deepseek-go"
)

type DeepseekProvider struct {
	client *deepseek.Client
	model  string
}

type DeepseekProviderOption func(*DeepseekProvider)

func NewDeepseekProvider(options ...DeepseekProviderOption) *DeepseekProvider {
	prvdr := &DeepseekProvider{model: deepseek.DeepSeekChat}

	for _, option := range options {
		option(prvdr)
	}

	return prvdr
}

func (prvdr *DeepseekProvider) Complete(ctx context.Context, prompt string) (string, error) {
	response, err := prvdr.client.CreateChatCompletion(ctx, &deepseek.ChatCompletionRequest{
		Model: prvdr.model,
		Messages: []deepseek.ChatCompletionMessage{
			{Role: deepseek.ChatMessageRoleUser, Content: prompt},
		},
	})

	if err != nil {
		return "", err
	}

	if len(response.Choices) == 0 {
		return "", fmt.Errorf("deepseek completion returned no choices")
	}

	return response.Choices[0].Message.Content, nil
}

func WithDeepseekClient(apiKey string) DeepseekProviderOption {
	return func(prvdr *DeepseekProvider) {
		prvdr.client = deepseek.NewClient(apiKey)
	}
}

func WithDeepseekModel(model string) DeepseekProviderOption {
	return func(prvdr *DeepseekProvider) {
		if model != "" {
			prvdr.model = model
		}
	}
}
