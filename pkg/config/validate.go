package config

import (
	"slices"

	"github.com/cohesivestack/valgo"
	"github.com/theapemachine/cpf-explainer/pkg/errors"
)

/*
Requirement names an external collaborator a command needs.
*/
type Requirement int

const (
	RequireGraph Requirement = iota
	RequireCompletion
	RequireEmbedding
	RequireSearch
)

/*
RequirePipeline is everything the question answering flow talks to.
*/
var RequirePipeline = []Requirement{
	RequireGraph, RequireCompletion, RequireEmbedding, RequireSearch,
}

var (
	completionProviders = []string{
		ProviderOpenAI, ProviderAnthropic, ProviderOllama,
		ProviderCohere, ProviderDeepseek, ProviderGoogle,
	}
	embeddingProviders = []string{ProviderOpenAI, ProviderOllama, ProviderCohere}
	labelStrategies    = []string{"last", "highest"}
)

/*
Validate checks that every credential the requirements need is present and
that tunables are in range. Missing credentials are reported together in a
MissingCredentialError; range problems as a valgo error.
*/
func (cfg Config) Validate(requirements ...Requirement) error {
	var missing []string

	need := func(value, key string) {
		if value != "" || slices.Contains(missing, key) {
			return
		}

		missing = append(missing, key)
	}

	for _, requirement := range requirements {
		switch requirement {
		case RequireGraph:
			need(cfg.Neo4j.URI, "neo4j.uri (NEO4J_URI)")
		case RequireCompletion:
			cfg.Provider.needVendor(cfg.Provider.Completion, need)
		case RequireEmbedding:
			cfg.Provider.needVendor(cfg.Provider.Embedding, need)
		case RequireSearch:
			need(cfg.Search.APIKey, "search.api_key (TAVILY_API_KEY)")
		}
	}

	if len(missing) > 0 {
		return &errors.MissingCredentialError{Keys: missing}
	}

	val := valgo.Is(
		valgo.String(cfg.Provider.Completion, "provider.completion").InSlice(completionProviders),
	).Is(
		valgo.String(cfg.Provider.Embedding, "provider.embedding").InSlice(embeddingProviders),
	).Is(
		valgo.Number(cfg.Explainer.Threshold, "explainer.threshold").Between(-1.0, 1.0),
	).Is(
		valgo.String(cfg.Explainer.LabelStrategy, "explainer.label_strategy").InSlice(labelStrategies),
	).Is(
		valgo.Number(cfg.Search.MaxResults, "search.max_results").Between(1, 20),
	).Is(
		valgo.Number(cfg.Server.Port, "server.port").Between(1, 65535),
	).Is(
		valgo.Number(cfg.Ingest.ChunkTokens, "ingest.chunk_tokens").GreaterThan(0),
	)

	if !val.Valid() {
		return val.Error()
	}

	return nil
}

func (provider Provider) needVendor(name string, need func(value, key string)) {
	creds := provider.Vendor(name)

	switch name {
	case ProviderOllama:
		// Local server on OLLAMA_HOST or localhost, default models; nothing to check.
	case "":
		need("", "provider name")
	default:
		need(creds.APIKey, "provider."+name+".api_key")
	}
}
