package cmd

import (
	"context"
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/theapemachine/cpf-explainer/pkg/cypher"
	"github.com/theapemachine/cpf-explainer/pkg/explainer"
	"github.com/theapemachine/cpf-explainer/pkg/graph"
	"github.com/theapemachine/cpf-explainer/pkg/metrics"
	"github.com/theapemachine/cpf-explainer/pkg/provider"
	"github.com/theapemachine/cpf-explainer/pkg/schema"
	"github.com/theapemachine/cpf-explainer/pkg/search"
	"github.com/theapemachine/cpf-explainer/pkg/stores/neo4j"
	"github.com/theapemachine/cpf-explainer/pkg/synth"
	"github.com/theapemachine/cpf-explainer/pkg/validator"
)

/*
pipeline holds the external collaborators shared by the commands that answer
questions.
*/
type pipeline struct {
	store     *graph.Neo4jStore
	completer provider.Completer
	embedder  provider.Embedder
}

func newGraphStore() *graph.Neo4jStore {
	client := neo4j.New(cfg.Neo4j.URI, cfg.Neo4j.Username, cfg.Neo4j.Password).
		WithDatabase(cfg.Neo4j.Database)

	return graph.NewNeo4jStore(client)
}

func newPipeline(ctx context.Context) (*pipeline, error) {
	completer, err := provider.NewCompleter(ctx, cfg.Provider)

	if err != nil {
		return nil, err
	}

	embedder, err := provider.NewEmbedder(cfg.Provider)

	if err != nil {
		return nil, err
	}

	return &pipeline{
		store:     newGraphStore(),
		completer: completer,
		embedder:  embedder,
	}, nil
}

/*
buildIndex reads the graph schema and embeds it. It is the expensive step of
a session and runs once per session.
*/
func (p *pipeline) buildIndex(ctx context.Context) (*schema.Index, error) {
	done := metrics.Stage("index")
	defer done()

	index := schema.NewIndex(p.store, p.embedder)
	terms, err := index.Extract(ctx)

	if err != nil {
		return nil, fmt.Errorf("failed to extract schema: %w", err)
	}

	if err = index.BuildEmbeddings(ctx); err != nil {
		return nil, fmt.Errorf("failed to embed schema: %w", err)
	}

	log.Info("schema index ready", "terms", len(terms))

	return index, nil
}

/*
indexOrFallback builds the schema index once. When the graph cannot be read
the session carries on with an index that sends every question to the web
fallback.
*/
func indexOrFallback(
	ctx context.Context, build func(context.Context) (*schema.Index, error),
) explainer.TermIndex {
	index, err := build(ctx)

	if err != nil {
		log.Warn("schema index unavailable, answering from the web", "error", err)
		return explainer.UnavailableIndex{Err: err}
	}

	return index
}

/*
explainer builds the question pipeline without a schema index; callers bind
one with ForIndex or WithIndex.
*/
func (p *pipeline) explainer(options ...explainer.ExplainerOption) *explainer.Explainer {
	searcher := search.NewTavilyClient(
		cfg.Search.Endpoint, cfg.Search.APIKey, search.WithDepth(cfg.Search.Depth),
	)

	return explainer.New(append([]explainer.ExplainerOption{
		explainer.WithValidator(validator.New(p.completer, nil)),
		explainer.WithBuilder(cypher.NewBuilder(
			cypher.WithLabelStrategy(cypher.StrategyByName(cfg.Explainer.LabelStrategy)),
		)),
		explainer.WithStore(p.store),
		explainer.WithSynthesizer(synth.New(p.completer, nil)),
		explainer.WithSearcher(searcher),
		explainer.WithThreshold(cfg.Explainer.Threshold),
		explainer.WithMaxResults(cfg.Search.MaxResults),
		explainer.WithDisclaimer(cfg.Explainer.Disclaimer),
	}, options...)...)
}
