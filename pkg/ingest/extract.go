package ingest

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/kaptinlin/jsonrepair"
	"github.com/theapemachine/cpf-explainer/pkg/graph"
)

/*
Extraction is the JSON shape the model is asked to produce.
*/
type Extraction struct {
	Nodes []struct {
		ID         string         `json:"id"`
		Type       string         `json:"type"`
		Properties map[string]any `json:"properties"`
	} `json:"nodes"`
	Relationships []struct {
		Source string `json:"source"`
		Target string `json:"target"`
		Type   string `json:"type"`
	} `json:"relationships"`
}

/*
ParseExtraction decodes a model answer, tolerating code fences and the usual
JSON damage (trailing commas, missing brackets, single quotes).
*/
func ParseExtraction(answer string) (Extraction, error) {
	raw := stripFence(answer)

	var out Extraction

	if err := json.Unmarshal([]byte(raw), &out); err == nil {
		return out, nil
	}

	repaired, err := jsonrepair.JSONRepair(raw)

	if err != nil {
		return out, fmt.Errorf("unrepairable extraction: %w", err)
	}

	if err := json.Unmarshal([]byte(repaired), &out); err != nil {
		return out, fmt.Errorf("invalid extraction: %w", err)
	}

	return out, nil
}

func stripFence(answer string) string {
	trimmed := strings.TrimSpace(answer)

	if !strings.HasPrefix(trimmed, "```") {
		return trimmed
	}

	trimmed = strings.TrimPrefix(trimmed, "```")
	trimmed = strings.TrimPrefix(trimmed, "json")
	trimmed = strings.TrimSuffix(strings.TrimSpace(trimmed), "```")

	return strings.TrimSpace(trimmed)
}

/*
Document converts an extraction into graph writes, setting url on every node.
*/
func (extraction Extraction) Document(url string) graph.Document {
	doc := graph.Document{}

	for _, node := range extraction.Nodes {
		doc.Nodes = append(doc.Nodes, graph.LabeledNode{
			Node: graph.Node{
				ID:         strings.TrimSpace(node.ID),
				URL:        url,
				Properties: node.Properties,
			},
			Label: strings.TrimSpace(node.Type),
		})
	}

	for _, rel := range extraction.Relationships {
		doc.Edges = append(doc.Edges, graph.Edge{
			From: strings.TrimSpace(rel.Source),
			Type: strings.ToUpper(strings.ReplaceAll(strings.TrimSpace(rel.Type), " ", "_")),
			To:   strings.TrimSpace(rel.Target),
		})
	}

	return doc
}
