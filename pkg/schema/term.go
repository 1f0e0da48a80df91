// Package schema indexes the knowledge graph's vocabulary (labels, property
// keys and relationship types) by embedding, so a question can be matched to
// the parts of the graph it is most likely about.
package schema

import "context"

/*
Kind is where a schema term came from.
*/
type Kind int

const (
	Label Kind = iota
	PropertyKey
	RelationshipType
)

func (kind Kind) String() string {
	switch kind {
	case Label:
		return "label"
	case PropertyKey:
		return "property"
	case RelationshipType:
		return "relationship"
	}

	return "unknown"
}

/*
Term is one vocabulary item. It is unique by (Value, Kind); the same string
may appear once as a label and once as a property key.
*/
type Term struct {
	Value     string    `json:"value"`
	Kind      Kind      `json:"kind"`
	Embedding []float32 `json:"-"`
}

/*
MatchedTerm is a Term scored against one question.
*/
type MatchedTerm struct {
	Term
	Score float64 `json:"score"`
}

/*
Match is the result of looking a question up in the index. NodeIDs holds, in
first-seen order and without duplicates, the ids of every node carrying one of
the matched labels.
*/
type Match struct {
	Terms   []MatchedTerm `json:"terms"`
	NodeIDs []string      `json:"node_ids"`
}

/*
Labels returns the matched terms of kind Label, in match order.
*/
func (match Match) Labels() []MatchedTerm {
	var labels []MatchedTerm

	for _, term := range match.Terms {
		if term.Kind == Label {
			labels = append(labels, term)
		}
	}

	return labels
}

/*
Source is the part of the graph store the index reads from.
*/
type Source interface {
	Labels(ctx context.Context) ([]string, error)
	PropertyKeys(ctx context.Context) ([]string, error)
	RelationshipTypes(ctx context.Context) ([]string, error)
	NodeIDs(ctx context.Context, label string) ([]string, error)
}

/*
Embedder is the subset of provider.Embedder the index needs.
*/
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
	EmbedBatch(ctx context.Context, texts []string) ([][]float32, error)
}
