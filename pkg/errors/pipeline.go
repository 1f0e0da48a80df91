package errors

import (
	"errors"
	"fmt"
	"strings"
)

/*
ErrValidationRejected marks a question the validator refused. It is a normal
negative outcome, not a failure, and carries no cause.
*/
var ErrValidationRejected = errors.New("query rejected by validator")

/*
ErrEmptyFallback is returned by the web search when it produced no results.
The orchestrator turns it into an explicit "no information" answer.
*/
var ErrEmptyFallback = errors.New("web search returned no results")

/*
ErrEmptyContext is returned by the synthesizer when asked to answer from no
context records. Callers must fall back instead.
*/
var ErrEmptyContext = errors.New("no context records to synthesize from")

/*
NoMatchError reports that no schema term scored above the similarity
threshold, so no traversal query could be built.
*/
type NoMatchError struct {
	Question  string
	Threshold float64
}

func (err *NoMatchError) Error() string {
	return fmt.Sprintf(
		"no schema terms above threshold %.2f for question %q", err.Threshold, err.Question,
	)
}

/*
StoreExecutionError wraps a failure of the graph store while running a query.
*/
type StoreExecutionError struct {
	Statement string
	Cause     error
}

func (err *StoreExecutionError) Error() string {
	return fmt.Sprintf("graph store execution failed: %v", err.Cause)
}

func (err *StoreExecutionError) Unwrap() error {
	return err.Cause
}

/*
PreconditionViolation is a programmer error, such as asking the schema index
for similarities before embeddings exist. It is never recovered from in the
query flow.
*/
type PreconditionViolation struct {
	Operation string
	Requires  string
}

func (err *PreconditionViolation) Error() string {
	return fmt.Sprintf("%s called before %s", err.Operation, err.Requires)
}

/*
MissingCredentialError lists every credential absent at startup.
*/
type MissingCredentialError struct {
	Keys []string
}

func (err *MissingCredentialError) Error() string {
	return "missing required credentials: " + strings.Join(err.Keys, ", ")
}

// IsRecoverable reports whether err should route the query to the web fallback.
func IsRecoverable(err error) bool {
	var (
		noMatch *NoMatchError
		exec    *StoreExecutionError
	)

	return errors.As(err, &noMatch) || errors.As(err, &exec)
}

// Is and As forward to the standard library so callers importing this
// package under its own name keep access to them.
func Is(err, target error) bool {
	return errors.Is(err, target)
}

func As(err error, target any) bool {
	return errors.As(err, target)
}
