package citation

import (
	"fmt"
	"strings"

	"github.com/theapemachine/cpf-explainer/pkg/graph"
)

/*
NodeRef is a node reduced to its id and its placeholder token.
*/
type NodeRef struct {
	ID  string `json:"id"`
	URL string `json:"url"`
}

/*
Record is the anonymised form of one traversal row.
*/
type Record struct {
	Subject       NodeRef  `json:"subject"`
	Object        NodeRef  `json:"object"`
	Relationships []string `json:"relationships"`
}

/*
Format converts traversal rows into records, in row order, replacing every
provenance URL by its placeholder. The returned map is fresh per call.
*/
func Format(rows []graph.Row) ([]Record, *PlaceholderMap) {
	placeholders := NewPlaceholderMap()
	records := make([]Record, 0, len(rows))

	for _, row := range rows {
		record := Record{
			Subject:       ref(row.Subject, placeholders),
			Object:        ref(row.Object, placeholders),
			Relationships: make([]string, 0, len(row.Edges)),
		}

		for _, edge := range row.Edges {
			record.Relationships = append(record.Relationships, edge.String())
		}

		records = append(records, record)
	}

	return records, placeholders
}

func ref(node graph.Node, placeholders *PlaceholderMap) NodeRef {
	id := node.ID

	if id == "" {
		id = "Unknown"
	}

	return NodeRef{ID: id, URL: placeholders.Token(node.URL)}
}

/*
Render writes records as the numbered detail block of the prose prompt.
*/
func Render(records []Record) string {
	var sb strings.Builder

	for i, record := range records {
		fmt.Fprintf(&sb, "Item %d:\n", i+1)
		fmt.Fprintf(&sb, "Node (n): %s, URL: %s\n", record.Subject.ID, record.Subject.URL)
		fmt.Fprintf(&sb, "Node (o): %s, URL: %s\n", record.Object.ID, record.Object.URL)

		if len(record.Relationships) > 0 {
			sb.WriteString("Relationships:\n")

			for _, rel := range record.Relationships {
				sb.WriteString("- Relationship: " + rel + "\n")
			}
		}

		sb.WriteString("\n")
	}

	return sb.String()
}
