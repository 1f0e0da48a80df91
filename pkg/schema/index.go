package schema

import (
	"context"
	"fmt"
	"math"
	"slices"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/theapemachine/cpf-explainer/pkg/errors"
	"gonum.org/v1/gonum/blas/gonum"
)

var blas = gonum.Implementation{}

/*
Index holds the extracted schema terms and their embeddings. Extract must run
before BuildEmbeddings, and BuildEmbeddings before FindClosest. The index is
safe for concurrent lookups; rebuilding takes the write lock.
*/
type Index struct {
	mu        sync.RWMutex
	source    Source
	embedder  Embedder
	terms     []Term
	extracted bool
	embedded  bool
}

func NewIndex(source Source, embedder Embedder) *Index {
	return &Index{
		source:   source,
		embedder: embedder,
	}
}

/*
Extract reads labels, property keys and relationship types from the store, in
that order, and replaces the index's terms with them. Duplicates of the same
(value, kind) are dropped. Previously built embeddings are discarded.
*/
func (index *Index) Extract(ctx context.Context) ([]Term, error) {
	sources := []struct {
		kind  Kind
		fetch func(context.Context) ([]string, error)
	}{
		{Label, index.source.Labels},
		{PropertyKey, index.source.PropertyKeys},
		{RelationshipType, index.source.RelationshipTypes},
	}

	type key struct {
		value string
		kind  Kind
	}

	var (
		terms = []Term{}
		seen  = map[key]bool{}
	)

	for _, src := range sources {
		values, err := src.fetch(ctx)

		if err != nil {
			return nil, fmt.Errorf("failed to extract %s terms: %w", src.kind, err)
		}

		for _, value := range values {
			k := key{value, src.kind}

			if value == "" || seen[k] {
				continue
			}

			seen[k] = true
			terms = append(terms, Term{Value: value, Kind: src.kind})
		}
	}

	index.mu.Lock()
	index.terms = terms
	index.extracted = true
	index.embedded = false
	index.mu.Unlock()

	log.Debug("schema extracted", "terms", len(terms))

	return index.Terms(), nil
}

/*
BuildEmbeddings embeds every distinct term string once and attaches the
vector to each term carrying that string.
*/
func (index *Index) BuildEmbeddings(ctx context.Context) error {
	index.mu.Lock()
	defer index.mu.Unlock()

	if !index.extracted {
		return &errors.PreconditionViolation{
			Operation: "BuildEmbeddings",
			Requires:  "Extract",
		}
	}

	var distinct []string

	for _, term := range index.terms {
		if !slices.Contains(distinct, term.Value) {
			distinct = append(distinct, term.Value)
		}
	}

	vectors, err := index.embedder.EmbedBatch(ctx, distinct)

	if err != nil {
		return fmt.Errorf("failed to embed schema terms: %w", err)
	}

	if len(vectors) != len(distinct) {
		return fmt.Errorf("embedder returned %d vectors for %d terms", len(vectors), len(distinct))
	}

	byValue := make(map[string][]float32, len(distinct))

	for i, value := range distinct {
		byValue[value] = vectors[i]
	}

	for i := range index.terms {
		index.terms[i].Embedding = byValue[index.terms[i].Value]
	}

	index.embedded = true

	return nil
}

/*
FindClosest scores the question against every term and keeps those with a
similarity strictly above threshold, best first. Equal scores keep extraction
order. For each matched label the ids of the nodes carrying it are collected.
*/
func (index *Index) FindClosest(
	ctx context.Context, question string, threshold float64,
) (Match, error) {
	index.mu.RLock()

	if !index.embedded {
		index.mu.RUnlock()

		return Match{}, &errors.PreconditionViolation{
			Operation: "FindClosest",
			Requires:  "BuildEmbeddings",
		}
	}

	terms := slices.Clone(index.terms)
	index.mu.RUnlock()

	vector, err := index.embedder.Embed(ctx, question)

	if err != nil {
		return Match{}, fmt.Errorf("failed to embed question: %w", err)
	}

	scored := make([]MatchedTerm, 0, len(terms))

	for _, term := range terms {
		scored = append(scored, MatchedTerm{
			Term:  term,
			Score: Cosine(vector, term.Embedding),
		})
	}

	slices.SortStableFunc(scored, func(a, b MatchedTerm) int {
		switch {
		case a.Score > b.Score:
			return -1
		case a.Score < b.Score:
			return 1
		}

		return 0
	})

	match := Match{}
	seen := map[string]bool{}

	for _, term := range scored {
		if !(term.Score > threshold) {
			continue
		}

		match.Terms = append(match.Terms, term)

		if term.Kind != Label {
			continue
		}

		ids, err := index.source.NodeIDs(ctx, term.Value)

		if err != nil {
			return Match{}, fmt.Errorf("failed to fetch node ids for %q: %w", term.Value, err)
		}

		for _, id := range ids {
			if id != "" && !seen[id] {
				seen[id] = true
				match.NodeIDs = append(match.NodeIDs, id)
			}
		}
	}

	log.Debug(
		"schema lookup",
		"question", question,
		"threshold", threshold,
		"terms", len(match.Terms),
		"node_ids", len(match.NodeIDs),
	)

	return match, nil
}

/*
Terms returns a copy of the extracted terms in extraction order.
*/
func (index *Index) Terms() []Term {
	index.mu.RLock()
	defer index.mu.RUnlock()

	return slices.Clone(index.terms)
}

/*
Counts returns the number of terms per kind.
*/
func (index *Index) Counts() map[Kind]int {
	index.mu.RLock()
	defer index.mu.RUnlock()

	counts := map[Kind]int{}

	for _, term := range index.terms {
		counts[term.Kind]++
	}

	return counts
}

/*
Cosine returns the cosine similarity of a and b, or 0 when they differ in
length or either has zero magnitude.
*/
func Cosine(a, b []float32) float64 {
	if len(a) == 0 || len(a) != len(b) {
		return 0
	}

	dot := float64(blas.Sdot(len(a), a, 1, b, 1))
	normA := float64(blas.Snrm2(len(a), a, 1))
	normB := float64(blas.Snrm2(len(b), b, 1))

	if normA == 0 || normB == 0 {
		return 0
	}

	return math.Max(-1, math.Min(1, dot/(normA*normB)))
}
