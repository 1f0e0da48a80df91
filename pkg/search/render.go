package search

import (
	"fmt"
	"strings"
)

/*
NoInformation is the answer for an empty result list.
*/
const NoInformation = "No information available to generate prose."

/*
Render concatenates the results' content into one paragraph and lists each
source as a numbered reference. It never returns an empty string.
*/
func Render(results []Result) string {
	if len(results) == 0 {
		return NoInformation
	}

	var (
		prose      strings.Builder
		references strings.Builder
	)

	references.WriteString("\nReferences:\n")

	for idx, result := range results {
		prose.WriteString(result.Content + " ")
		fmt.Fprintf(&references, "[%d] %s\n", idx+1, result.URL)
	}

	return fmt.Sprintf(
		"Here is something I found from online: %s\n\n%s",
		strings.TrimSpace(prose.String()), references.String(),
	)
}
