package graph

import (
	"context"

	"github.com/charmbracelet/log"
	"github.com/theapemachine/cpf-explainer/pkg/errors"
	"github.com/theapemachine/cpf-explainer/pkg/stores/neo4j"
)

/*
Store is the read side of the knowledge graph used while answering questions.
The query pipeline never writes through it.
*/
type Store interface {
	Labels(ctx context.Context) ([]string, error)
	PropertyKeys(ctx context.Context) ([]string, error)
	RelationshipTypes(ctx context.Context) ([]string, error)
	NodeIDs(ctx context.Context, label string) ([]string, error)
	Run(ctx context.Context, statement string, params map[string]any) Result
}

/*
Neo4jStore implements Store and Writer over the Neo4j HTTP API.
*/
type Neo4jStore struct {
	client *neo4j.Client
}

func NewNeo4jStore(client *neo4j.Client) *Neo4jStore {
	return &Neo4jStore{client: client}
}

func (store *Neo4jStore) Labels(ctx context.Context) ([]string, error) {
	return store.column(ctx, "CALL db.labels()", "label")
}

func (store *Neo4jStore) PropertyKeys(ctx context.Context) ([]string, error) {
	return store.column(ctx, "CALL db.propertyKeys()", "propertyKey")
}

func (store *Neo4jStore) RelationshipTypes(ctx context.Context) ([]string, error) {
	return store.column(ctx, "CALL db.relationshipTypes()", "relationshipType")
}

/*
NodeIDs returns the id of every node carrying label, skipping nodes without one.
*/
func (store *Neo4jStore) NodeIDs(ctx context.Context, label string) ([]string, error) {
	return store.column(ctx, "MATCH (n:"+QuoteName(label)+") RETURN n.id AS id", "id")
}

/*
Run executes a traversal returning the columns n, edge and o. Store failures
come back as an ExecutionFailed result rather than an error so the caller can
fall back without losing the cause.
*/
func (store *Neo4jStore) Run(
	ctx context.Context, statement string, params map[string]any,
) Result {
	result, err := store.client.ExecCypher(ctx, statement, params)

	if err != nil {
		log.Warn("traversal failed", "error", err)
		return ExecutionFailed(&errors.StoreExecutionError{Statement: statement, Cause: err})
	}

	rows := make([]Row, 0, result.Len())

	for i := 0; i < result.Len(); i++ {
		record := result.Record(i)

		rows = append(rows, Row{
			Subject: decodeNode(record["n"]),
			Edges:   decodeEdges(record["edge"]),
			Object:  decodeNode(record["o"]),
		})
	}

	return Rows(rows)
}

func (store *Neo4jStore) column(ctx context.Context, cypher, name string) ([]string, error) {
	result, err := store.client.ExecCypher(ctx, cypher, nil)

	if err != nil {
		return nil, err
	}

	out := make([]string, 0, result.Len())

	for i := 0; i < result.Len(); i++ {
		if value := stringify(result.Record(i)[name]); value != "" {
			out = append(out, value)
		}
	}

	return out, nil
}
