// Package synth turns anonymised graph context into a cited prose answer.
package synth

import (
	"context"
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/theapemachine/cpf-explainer/pkg/citation"
	"github.com/theapemachine/cpf-explainer/pkg/errors"
	"github.com/theapemachine/cpf-explainer/pkg/prompts"
	"github.com/theapemachine/cpf-explainer/pkg/provider"
)

/*
Answer is the synthesised result before the disclaimer is added.
*/
type Answer struct {
	Prose      string `json:"prose"`
	References string `json:"references"`
}

/*
String renders the answer the way it is shown to the user.
*/
func (answer Answer) String() string {
	return fmt.Sprintf(
		"Generated Response:\n%s\n\nGenerated References Section:\n%s",
		answer.Prose, answer.References,
	)
}

/*
Synthesizer makes two strictly ordered model calls: prose from the context,
then references from that prose and the placeholder map. Raw URLs only ever
reach the second call.
*/
type Synthesizer struct {
	completer provider.Completer
	prompts   *prompts.Manager
}

func New(completer provider.Completer, manager *prompts.Manager) *Synthesizer {
	if manager == nil {
		manager = prompts.Default()
	}

	return &Synthesizer{completer: completer, prompts: manager}
}

func (synth *Synthesizer) Synthesize(
	ctx context.Context,
	question string,
	records []citation.Record,
	placeholders *citation.PlaceholderMap,
) (Answer, error) {
	if len(records) == 0 {
		return Answer{}, errors.ErrEmptyContext
	}

	prosePrompt, err := synth.prompts.Render(prompts.Prose, map[string]string{
		"Question": question,
		"Context":  citation.Render(records),
	})

	if err != nil {
		return Answer{}, err
	}

	prose, err := synth.completer.Complete(ctx, prosePrompt)

	if err != nil {
		return Answer{}, fmt.Errorf("prose generation failed: %w", err)
	}

	referencesPrompt, err := synth.prompts.Render(prompts.References, map[string]string{
		"Prose": prose,
		"URLs":  placeholders.String(),
	})

	if err != nil {
		return Answer{}, err
	}

	references, err := synth.completer.Complete(ctx, referencesPrompt)

	if err != nil {
		return Answer{}, fmt.Errorf("reference resolution failed: %w", err)
	}

	filtered := placeholders.FilterReferences(references)

	if filtered != references {
		log.Warn("dropped references to unknown placeholders", "cited", placeholders.Cited(prose))
	}

	return Answer{Prose: prose, References: filtered}, nil
}
