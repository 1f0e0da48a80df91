package provider

import (
	"context"
)

/*
Completer sends a single prompt to a language model and returns its text.
Validation, prose synthesis, reference resolution and graph extraction all
go through this one shape.
*/
type Completer interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

/*
Embedder turns text into fixed-dimension vectors. Schema terms and questions
must be embedded by the same Embedder so their vectors are comparable.
*/
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
	EmbedBatch(ctx context.Context, texts []string) ([][]float32, error)
}

/*
CompleterFunc adapts a plain function to Completer.
*/
type CompleterFunc func(ctx context.Context, prompt string) (string, error)

func (fn CompleterFunc) Complete(ctx context.Context, prompt string) (string, error) {
	return fn(ctx, prompt)
}
