// Package citation keeps raw URLs out of generation prompts. Each distinct
// provenance URL in a query cycle is replaced by a URLn token, and the token
// is resolved back only when building the references section.
package citation

import (
	"fmt"
	"regexp"
	"strings"
)

/*
NoURL marks a node that had no provenance link. It is never mapped.
*/
const NoURL = "No URL available"

/*
PlaceholderMap assigns URL1, URL2, ... to URLs in first-seen order. It
belongs to a single query cycle and must not be reused.
*/
type PlaceholderMap struct {
	tokens map[string]string
	urls   map[string]string
	order  []string
}

func NewPlaceholderMap() *PlaceholderMap {
	return &PlaceholderMap{
		tokens: map[string]string{},
		urls:   map[string]string{},
	}
}

/*
Token returns the placeholder for url, assigning the next one if url has not
been seen. An empty url yields NoURL.
*/
func (pm *PlaceholderMap) Token(url string) string {
	if url == "" || url == NoURL {
		return NoURL
	}

	if token, ok := pm.tokens[url]; ok {
		return token
	}

	token := fmt.Sprintf("URL%d", len(pm.order)+1)
	pm.tokens[url] = token
	pm.urls[token] = url
	pm.order = append(pm.order, token)

	return token
}

/*
Resolve returns the URL behind token.
*/
func (pm *PlaceholderMap) Resolve(token string) (string, bool) {
	url, ok := pm.urls[token]
	return url, ok
}

func (pm *PlaceholderMap) Len() int {
	return len(pm.order)
}

/*
Tokens returns the assigned tokens in assignment order.
*/
func (pm *PlaceholderMap) Tokens() []string {
	return append([]string(nil), pm.order...)
}

/*
String renders the map as "URLn: url" lines, the form handed to the reference
resolution prompt.
*/
func (pm *PlaceholderMap) String() string {
	lines := make([]string, len(pm.order))

	for i, token := range pm.order {
		lines[i] = token + ": " + pm.urls[token]
	}

	return strings.Join(lines, "\n")
}

var tokenPattern = regexp.MustCompile(`\bURL\d+\b`)

/*
Cited returns the tokens mentioned in text that exist in the map, in order of
first mention.
*/
func (pm *PlaceholderMap) Cited(text string) []string {
	var (
		cited []string
		seen  = map[string]bool{}
	)

	for _, token := range tokenPattern.FindAllString(text, -1) {
		if _, ok := pm.urls[token]; ok && !seen[token] {
			seen[token] = true
			cited = append(cited, token)
		}
	}

	return cited
}

/*
FilterReferences drops every line of references that mentions a URLn token
absent from the map, so a model cannot invent a citation. Lines without any
token, such as a heading, are kept.
*/
func (pm *PlaceholderMap) FilterReferences(references string) string {
	var kept []string

	for _, line := range strings.Split(references, "\n") {
		valid := true

		for _, token := range tokenPattern.FindAllString(line, -1) {
			if _, ok := pm.urls[token]; !ok {
				valid = false
				break
			}
		}

		if valid {
			kept = append(kept, line)
		}
	}

	return strings.TrimSpace(strings.Join(kept, "\n"))
}
