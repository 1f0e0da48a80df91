package graph

import (
	"context"
	"fmt"

	"github.com/theapemachine/cpf-explainer/pkg/stores/neo4j"
)

/*
Writer is the write side used only by corpus ingestion.
*/
type Writer interface {
	WriteDocument(ctx context.Context, doc Document) error
}

/*
Document is a set of nodes and relationships extracted from one source page.
*/
type Document struct {
	Nodes []LabeledNode
	Edges []Edge
}

/*
LabeledNode is a node together with the label it should carry.
*/
type LabeledNode struct {
	Node
	Label string
}

/*
WriteDocument merges all nodes first and then all relationships in a single
transaction, so a relationship never references a node that failed to merge.
*/
func (store *Neo4jStore) WriteDocument(ctx context.Context, doc Document) error {
	statements := make([]neo4j.Statement, 0, len(doc.Nodes)+len(doc.Edges))

	for _, node := range doc.Nodes {
		if node.ID == "" {
			continue
		}

		props := make(map[string]any, len(node.Properties)+1)

		for key, value := range node.Properties {
			props[key] = value
		}

		if node.URL != "" {
			props["url"] = node.URL
		}

		label := node.Label

		if label == "" {
			label = "Entity"
		}

		statements = append(statements, neo4j.Statement{
			Cypher: fmt.Sprintf("MERGE (n:%s {id: $id}) SET n += $props", QuoteName(label)),
			Params: map[string]any{"id": node.ID, "props": props},
		})
	}

	for _, edge := range doc.Edges {
		if edge.From == "" || edge.To == "" || edge.Type == "" {
			continue
		}

		statements = append(statements, neo4j.Statement{
			Cypher: fmt.Sprintf(
				"MATCH (a {id: $from}), (b {id: $to}) MERGE (a)-[:%s]->(b)",
				QuoteName(edge.Type),
			),
			Params: map[string]any{"from": edge.From, "to": edge.To},
		})
	}

	if len(statements) == 0 {
		return nil
	}

	if _, err := store.client.Exec(ctx, statements...); err != nil {
		return fmt.Errorf("failed to write document: %w", err)
	}

	return nil
}
