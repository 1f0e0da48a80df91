package provider

import (
	"context"
	"fmt"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
)

/*
AnthropicProvider is a Completer backed by the Anthropic messages API.
Anthropic has no embedding endpoint, so it only ever fills the completion role.
*/
type AnthropicProvider struct {
	client    *anthropic.Client
	model     string
	maxTokens int64
}

type AnthropicProviderOption func(*AnthropicProvider)

func NewAnthropicProvider(options ...AnthropicProviderOption) *AnthropicProvider {
	prvdr := &AnthropicProvider{
		model:     "claude-3-5-haiku-latest",
		maxTokens: 1024,
	}

	for _, option := range options {
		option(prvdr)
	}

	return prvdr
}

func (prvdr *AnthropicProvider) Complete(ctx context.Context, prompt string) (string, error) {
	message, err := prvdr.client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:       anthropic.Model(prvdr.model),
		MaxTokens:   prvdr.maxTokens,
		Temperature: anthropic.Float(0),
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(prompt)),
		},
	})

	if err != nil {
		return "", err
	}

	var out strings.Builder

	for _, block := range message.Content {
		switch contentBlock := block.AsAny().(type) {
		case anthropic.TextBlock:
			out.WriteString(contentBlock.Text)
		}
	}

	if out.Len() == 0 {
		return "", fmt.Errorf("anthropic message contained no text")
	}

	return out.String(), nil
}

func WithAnthropicClient(apiKey string) AnthropicProviderOption {
	return func(prvdr *AnthropicProvider) {
		client := anthropic.NewClient(
			option.WithAPIKey(apiKey),
		)

		prvdr.client = &client
	}
}

func WithAnthropicModel(model string) AnthropicProviderOption {
	return func(prvdr *AnthropicProvider) {
		if model != "" {
			prvdr.model = model
		}
	}
}
