// Package validator decides whether a question is in scope before any graph
// or web lookup happens.
package validator

import (
	"context"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/theapemachine/cpf-explainer/pkg/prompts"
	"github.com/theapemachine/cpf-explainer/pkg/provider"
)

/*
RejectionMessage is shown to the user for any rejected question.
*/
const RejectionMessage = "Your query is invalid. Please make sure it is about Singapore retirement " +
	"policies and does not contain any irrelevant or harmful content."

/*
Validator asks a classification model whether a question is about Singapore
retirement or CPF policy and free of injection attempts. It fails closed.
*/
type Validator struct {
	completer provider.Completer
	prompts   *prompts.Manager
}

func New(completer provider.Completer, manager *prompts.Manager) *Validator {
	if manager == nil {
		manager = prompts.Default()
	}

	return &Validator{completer: completer, prompts: manager}
}

/*
Validate returns true only when the model's answer contains "Valid" and not
"Invalid". A classifier error is returned alongside a false decision so the
caller can log it and still show the rejection message.
*/
func (validator *Validator) Validate(ctx context.Context, question string) (bool, error) {
	if strings.TrimSpace(question) == "" {
		return false, nil
	}

	prompt, err := validator.prompts.Render(prompts.Validation, map[string]string{
		"Question": question,
	})

	if err != nil {
		return false, err
	}

	answer, err := validator.completer.Complete(ctx, prompt)

	if err != nil {
		log.Warn("validation call failed", "error", err)
		return false, err
	}

	return Accepts(answer), nil
}

/*
Accepts applies the decision rule to a raw classifier answer. "Invalid"
contains "Valid", so it is checked first.
*/
func Accepts(answer string) bool {
	if strings.Contains(answer, "Invalid") {
		return false
	}

	return strings.Contains(answer, "Valid")
}
