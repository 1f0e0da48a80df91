package graph

import "fmt"

func decodeNode(raw any) Node {
	props, ok := raw.(map[string]any)

	if !ok {
		return Node{}
	}

	node := Node{Properties: make(map[string]any, len(props))}

	for key, value := range props {
		switch key {
		case "id":
			node.ID = stringify(value)
		case "url":
			node.URL = stringify(value)
		default:
			node.Properties[key] = value
		}
	}

	return node
}

// decodeEdges expects the projection [startNode(r).id, type(r), endNode(r).id]
// per relationship. Anything else is skipped.
func decodeEdges(raw any) []Edge {
	list, ok := raw.([]any)

	if !ok {
		return nil
	}

	edges := make([]Edge, 0, len(list))

	for _, item := range list {
		triple, ok := item.([]any)

		if !ok || len(triple) != 3 {
			continue
		}

		edges = append(edges, Edge{
			From: stringifyOr(triple[0], "Unknown"),
			Type: stringify(triple[1]),
			To:   stringifyOr(triple[2], "Unknown"),
		})
	}

	return edges
}

func stringify(value any) string {
	switch v := value.(type) {
	case nil:
		return ""
	case string:
		return v
	default:
		return fmt.Sprintf("%v", v)
	}
}

func stringifyOr(value any, fallback string) string {
	if s := stringify(value); s != "" {
		return s
	}

	return fallback
}
