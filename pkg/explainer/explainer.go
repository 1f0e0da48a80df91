// Package explainer runs one question through validation, the knowledge
// graph and, when the graph has nothing, the web search fallback.
package explainer

import (
	"context"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"github.com/theapemachine/cpf-explainer/pkg/citation"
	"github.com/theapemachine/cpf-explainer/pkg/cypher"
	"github.com/theapemachine/cpf-explainer/pkg/errors"
	"github.com/theapemachine/cpf-explainer/pkg/graph"
	"github.com/theapemachine/cpf-explainer/pkg/metrics"
	"github.com/theapemachine/cpf-explainer/pkg/schema"
	"github.com/theapemachine/cpf-explainer/pkg/search"
	"github.com/theapemachine/cpf-explainer/pkg/synth"
	"github.com/theapemachine/cpf-explainer/pkg/validator"
)

const DefaultDisclaimer = "This AI system can make mistakes, even with citations. " +
	"Please check your information carefully"

const (
	DefaultThreshold  = 0.5
	DefaultMaxResults = 5
)

type Classifier interface {
	Validate(ctx context.Context, question string) (bool, error)
}

type TermIndex interface {
	FindClosest(ctx context.Context, question string, threshold float64) (schema.Match, error)
}

type Runner interface {
	Run(ctx context.Context, statement string, params map[string]any) graph.Result
}

type Synthesizer interface {
	Synthesize(
		ctx context.Context,
		question string,
		records []citation.Record,
		placeholders *citation.PlaceholderMap,
	) (synth.Answer, error)
}

/*
Outcome is what a query cycle ends with. Text is always displayable.
*/
type Outcome struct {
	CycleID string          `json:"cycle_id"`
	State   State           `json:"state"`
	Text    string          `json:"text"`
	Trail   []State         `json:"trail"`
	Query   string          `json:"query,omitempty"`
	Answer  *synth.Answer   `json:"answer,omitempty"`
	Results []search.Result `json:"results,omitempty"`
}

/*
Explainer sequences the pipeline for a single question at a time. It holds
no per-question state, so one value may serve concurrent callers as long as
its TermIndex does.
*/
type Explainer struct {
	validator  Classifier
	index      TermIndex
	builder    *cypher.Builder
	store      Runner
	synth      Synthesizer
	searcher   search.Searcher
	threshold  float64
	maxResults int
	disclaimer string
}

type ExplainerOption func(*Explainer)

func New(options ...ExplainerOption) *Explainer {
	explainer := &Explainer{
		builder:    cypher.NewBuilder(),
		threshold:  DefaultThreshold,
		maxResults: DefaultMaxResults,
		disclaimer: DefaultDisclaimer,
	}

	for _, option := range options {
		option(explainer)
	}

	return explainer
}

/*
ForIndex returns a copy of the explainer that looks questions up in index.
The HTTP service uses it to give every session its own schema index.
*/
func (explainer *Explainer) ForIndex(index TermIndex) *Explainer {
	clone := *explainer
	clone.index = index

	return &clone
}

/*
Explain runs one question to a terminal state. The returned error is only set
for programmer errors, such as an index whose embeddings were never built;
every other failure is folded into the outcome.
*/
func (explainer *Explainer) Explain(ctx context.Context, question string) (Outcome, error) {
	outcome := Outcome{CycleID: uuid.NewString()}
	logger := log.With("cycle", outcome.CycleID)

	outcome.enter(Validating)
	done := metrics.Stage("validate")
	ok, err := explainer.validator.Validate(ctx, question)
	done()

	if err != nil {
		logger.Warn("validator failed, rejecting", "error", err)
	}

	if !ok {
		outcome.enter(Rejected)
		outcome.Text = validator.RejectionMessage
		metrics.QueriesTotal.WithLabelValues(metrics.OutcomeRejected).Inc()
		logger.Info("question rejected", "reason", errors.ErrValidationRejected)

		return outcome, nil
	}

	outcome.enter(GraphLookup)
	answer, err := explainer.graphLookup(ctx, logger, question, &outcome)

	if err == nil {
		outcome.enter(GraphAnswered)
		outcome.Answer = &answer
		outcome.Text = answer.String() + "\n\n" + explainer.disclaimer
		metrics.QueriesTotal.WithLabelValues(metrics.OutcomeGraphAnswered).Inc()
		logger.Info("answered from graph")

		return outcome, nil
	}

	var violation *errors.PreconditionViolation

	if errors.As(err, &violation) {
		logger.Error("pipeline misconfigured", "error", err)
		return outcome, err
	}

	logger.Info("falling back to web search", "reason", err)

	outcome.enter(WebFallback)
	outcome.Results = explainer.webSearch(ctx, logger, question)
	outcome.Text = search.Render(outcome.Results)
	outcome.enter(Done)

	if len(outcome.Results) == 0 {
		metrics.QueriesTotal.WithLabelValues(metrics.OutcomeNoInformation).Inc()
	} else {
		metrics.QueriesTotal.WithLabelValues(metrics.OutcomeWebFallback).Inc()
	}

	return outcome, nil
}

func (explainer *Explainer) graphLookup(
	ctx context.Context, logger *log.Logger, question string, outcome *Outcome,
) (synth.Answer, error) {
	done := metrics.Stage("schema")
	match, err := explainer.index.FindClosest(ctx, question, explainer.threshold)
	done()

	if err != nil {
		return synth.Answer{}, err
	}

	query, err := explainer.builder.Build(question, explainer.threshold, match)

	if err != nil {
		return synth.Answer{}, err
	}

	outcome.Query = query.Statement
	logger.Debug("traversal built", "statement", query.Statement, "params", len(query.Params))

	done = metrics.Stage("query")
	result := explainer.store.Run(ctx, query.Statement, query.Params)
	done()

	if result.Failed() {
		return synth.Answer{}, result.Failure
	}

	if result.Empty() {
		return synth.Answer{}, errors.ErrEmptyContext
	}

	records, placeholders := citation.Format(result.Rows)
	logger.Debug("context formatted", "records", len(records), "urls", placeholders.Len())

	done = metrics.Stage("synthesize")
	defer done()

	return explainer.synth.Synthesize(ctx, question, records, placeholders)
}

func (explainer *Explainer) webSearch(
	ctx context.Context, logger *log.Logger, question string,
) []search.Result {
	done := metrics.Stage("search")
	defer done()

	results, err := explainer.searcher.Search(ctx, question, explainer.maxResults)

	if err != nil {
		logger.Warn("web search failed", "error", err)
		return nil
	}

	if len(results) == 0 {
		logger.Info("web search empty", "error", errors.ErrEmptyFallback)
	}

	return results
}

func (outcome *Outcome) enter(state State) {
	outcome.State = state
	outcome.Trail = append(outcome.Trail, state)
}
