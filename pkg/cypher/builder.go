// Package cypher builds the bounded traversal query the explainer runs
// against the knowledge graph.
package cypher

import (
	"fmt"
	"strings"

	"github.com/theapemachine/cpf-explainer/pkg/errors"
	"github.com/theapemachine/cpf-explainer/pkg/graph"
	"github.com/theapemachine/cpf-explainer/pkg/schema"
)

const (
	MinHops = 1
	MaxHops = 2
	Limit   = 25
)

/*
Query is a Cypher statement with its parameters.
*/
type Query struct {
	Statement string
	Params    map[string]any
}

/*
LabelStrategy picks the label constraining the start node from the matched
label terms. It returns "" when there is none.
*/
type LabelStrategy func(labels []schema.MatchedTerm) string

/*
LastLabelWins keeps the last matched label in iteration order. Because terms
are sorted best first, this is the lowest scoring label above the threshold.
*/
func LastLabelWins(labels []schema.MatchedTerm) string {
	if len(labels) == 0 {
		return ""
	}

	return labels[len(labels)-1].Value
}

/*
HighestScoreWins keeps the best scoring label; ties go to the earlier one.
*/
func HighestScoreWins(labels []schema.MatchedTerm) string {
	best := -1

	for i, label := range labels {
		if best < 0 || label.Score > labels[best].Score {
			best = i
		}
	}

	if best < 0 {
		return ""
	}

	return labels[best].Value
}

/*
StrategyByName maps the explainer.label_strategy config value to a strategy.
*/
func StrategyByName(name string) LabelStrategy {
	if name == "highest" {
		return HighestScoreWins
	}

	return LastLabelWins
}

type Builder struct {
	strategy LabelStrategy
}

type BuilderOption func(*Builder)

func NewBuilder(options ...BuilderOption) *Builder {
	builder := &Builder{strategy: LastLabelWins}

	for _, option := range options {
		option(builder)
	}

	return builder
}

func WithLabelStrategy(strategy LabelStrategy) BuilderOption {
	return func(builder *Builder) {
		if strategy != nil {
			builder.strategy = strategy
		}
	}
}

/*
Build turns a schema match into a traversal. With no matched terms at all it
returns a NoMatchError instead of scanning the whole graph. Node ids are
passed as parameters, never spliced into the statement.
*/
func (builder *Builder) Build(question string, threshold float64, match schema.Match) (Query, error) {
	if len(match.Terms) == 0 {
		return Query{}, &errors.NoMatchError{Question: question, Threshold: threshold}
	}

	start := "(n)"

	if label := builder.strategy(match.Labels()); label != "" {
		start = "(n:" + graph.QuoteName(label) + ")"
	}

	var (
		sb     strings.Builder
		params = map[string]any{}
	)

	fmt.Fprintf(&sb, "MATCH %s-[edge*%d..%d]-(o)", start, MinHops, MaxHops)

	if len(match.NodeIDs) > 0 {
		conditions := make([]string, len(match.NodeIDs))

		for i, id := range match.NodeIDs {
			name := fmt.Sprintf("id%d", i)
			params[name] = id
			conditions[i] = "n.id = $" + name
		}

		sb.WriteString(" WHERE (" + strings.Join(conditions, " OR ") + ")")
	}

	fmt.Fprintf(
		&sb,
		" RETURN n, [r IN edge | [startNode(r).id, type(r), endNode(r).id]] AS edge, o LIMIT %d",
		Limit,
	)

	return Query{Statement: sb.String(), Params: params}, nil
}
