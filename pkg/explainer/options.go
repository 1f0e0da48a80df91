package explainer

import (
	"github.com/theapemachine/cpf-explainer/pkg/cypher"
	"github.com/theapemachine/cpf-explainer/pkg/search"
)

func WithValidator(validator Classifier) ExplainerOption {
	return func(explainer *Explainer) {
		explainer.validator = validator
	}
}

func WithIndex(index TermIndex) ExplainerOption {
	return func(explainer *Explainer) {
		explainer.index = index
	}
}

func WithBuilder(builder *cypher.Builder) ExplainerOption {
	return func(explainer *Explainer) {
		explainer.builder = builder
	}
}

func WithStore(store Runner) ExplainerOption {
	return func(explainer *Explainer) {
		explainer.store = store
	}
}

func WithSynthesizer(synth Synthesizer) ExplainerOption {
	return func(explainer *Explainer) {
		explainer.synth = synth
	}
}

func WithSearcher(searcher search.Searcher) ExplainerOption {
	return func(explainer *Explainer) {
		explainer.searcher = searcher
	}
}

func WithThreshold(threshold float64) ExplainerOption {
	return func(explainer *Explainer) {
		explainer.threshold = threshold
	}
}

func WithMaxResults(maxResults int) ExplainerOption {
	return func(explainer *Explainer) {
		if maxResults > 0 {
			explainer.maxResults = maxResults
		}
	}
}

func WithDisclaimer(disclaimer string) ExplainerOption {
	return func(explainer *Explainer) {
		if disclaimer != "" {
			explainer.disclaimer = disclaimer
		}
	}
}
