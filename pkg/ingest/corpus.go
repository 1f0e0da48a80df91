// Package ingest builds the policy knowledge graph from scraped pages: each
// page is cleaned, chunked, handed to a language model for entity and
// relationship extraction, and merged into the graph with its URL attached.
package ingest

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

/*
Entry is one scraped page.
*/
type Entry struct {
	URL     string `json:"URL"`
	Content string `json:"Content"`
}

/*
LoadCorpus reads a JSON array of entries.
*/
func LoadCorpus(path string) ([]Entry, error) {
	raw, err := os.ReadFile(path)

	if err != nil {
		return nil, fmt.Errorf("failed to read corpus: %w", err)
	}

	var entries []Entry

	if err := json.Unmarshal(raw, &entries); err != nil {
		return nil, fmt.Errorf("failed to decode corpus: %w", err)
	}

	return entries, nil
}

/*
PlainText strips markup from content that looks like HTML and collapses
whitespace. Plain text passes through with only whitespace normalised.
*/
func PlainText(content string) string {
	if !looksLikeHTML(content) {
		return strings.Join(strings.Fields(content), " ")
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(content))

	if err != nil {
		return strings.Join(strings.Fields(content), " ")
	}

	doc.Find("script, style, noscript, nav, footer").Remove()

	// Text() would glue adjacent block elements together, so collect the
	// text nodes one by one.
	var (
		parts []string
		walk  func(*html.Node)
	)

	walk = func(node *html.Node) {
		if node.Type == html.TextNode {
			parts = append(parts, node.Data)
		}

		for child := node.FirstChild; child != nil; child = child.NextSibling {
			walk(child)
		}
	}

	for _, node := range doc.Find("body").Nodes {
		walk(node)
	}

	return strings.Join(strings.Fields(strings.Join(parts, " ")), " ")
}

func looksLikeHTML(content string) bool {
	trimmed := strings.TrimSpace(content)
	return strings.HasPrefix(trimmed, "<") && strings.Contains(trimmed, ">")
}
