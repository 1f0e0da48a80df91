// Package graph reads and writes the policy knowledge graph. It owns the
// conversion from raw Neo4j rows into nodes, edges and traversal rows.
package graph

import (
	"fmt"
	"regexp"
	"strings"
)

/*
Node is an entity in the knowledge graph. URL is the provenance link set when
the node was extracted from a scraped page and may be empty.
*/
type Node struct {
	ID         string         `json:"id"`
	URL        string         `json:"url,omitempty"`
	Properties map[string]any `json:"properties,omitempty"`
}

/*
Edge is a directed relationship between two nodes, identified by node id.
*/
type Edge struct {
	From string `json:"from"`
	Type string `json:"type"`
	To   string `json:"to"`
}

func (edge Edge) String() string {
	return fmt.Sprintf("%s -[%s]-> %s", edge.From, edge.Type, edge.To)
}

/*
Row is one traversal result: a subject node, the relationships walked, and
the neighbouring object node.
*/
type Row struct {
	Subject Node   `json:"subject"`
	Edges   []Edge `json:"edges"`
	Object  Node   `json:"object"`
}

/*
Result is the outcome of running a traversal. Exactly one of Rows or Failure
is meaningful; a failed result keeps the cause for logging while letting the
caller route around it.
*/
type Result struct {
	Rows    []Row
	Failure error
}

/*
Rows wraps a successful traversal.
*/
func Rows(rows []Row) Result {
	return Result{Rows: rows}
}

/*
ExecutionFailed wraps a store failure.
*/
func ExecutionFailed(err error) Result {
	return Result{Failure: err}
}

func (result Result) Failed() bool {
	return result.Failure != nil
}

func (result Result) Empty() bool {
	return len(result.Rows) == 0
}

var plainIdentifier = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

/*
QuoteName makes a label or relationship type safe to splice into Cypher.
Plain identifiers are returned untouched; anything else, such as a label with
whitespace, is wrapped in backticks with embedded backticks doubled.
*/
func QuoteName(name string) string {
	if plainIdentifier.MatchString(name) {
		return name
	}

	return "`" + strings.ReplaceAll(name, "`", "``") + "`"
}
