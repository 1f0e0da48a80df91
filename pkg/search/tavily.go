// Package search is the web fallback used when the knowledge graph has
// nothing to say about a question.
package search

import (
	"context"
	"fmt"
	"net/http"

	"github.com/charmbracelet/log"
	fiberClient "github.com/gofiber/fiber/v3/client"
)

/*
Result is one web search hit.
*/
type Result struct {
	Title   string  `json:"title"`
	URL     string  `json:"url"`
	Content string  `json:"content"`
	Score   float64 `json:"score"`
}

/*
Searcher issues a bounded web search.
*/
type Searcher interface {
	Search(ctx context.Context, query string, maxResults int) ([]Result, error)
}

/*
TavilyClient talks to the Tavily search API.
*/
type TavilyClient struct {
	apiKey string
	depth  string
	conn   *fiberClient.Client
}

type TavilyClientOption func(*TavilyClient)

func NewTavilyClient(baseURL, apiKey string, opts ...TavilyClientOption) *TavilyClient {
	client := &TavilyClient{
		apiKey: apiKey,
		depth:  "advanced",
		conn:   fiberClient.New().SetBaseURL(baseURL),
	}

	for _, opt := range opts {
		opt(client)
	}

	return client
}

func WithDepth(depth string) TavilyClientOption {
	return func(client *TavilyClient) {
		if depth != "" {
			client.depth = depth
		}
	}
}

type tavilyRequest struct {
	APIKey            string `json:"api_key"`
	Query             string `json:"query"`
	MaxResults        int    `json:"max_results"`
	SearchDepth       string `json:"search_depth"`
	IncludeAnswer     bool   `json:"include_answer"`
	IncludeRawContent bool   `json:"include_raw_content"`
	IncludeImages     bool   `json:"include_images"`
}

type tavilyResponse struct {
	Answer  string   `json:"answer"`
	Results []Result `json:"results"`
}

/*
Search returns at most maxResults hits in the order the API ranked them. A
bound of zero or less leaves the API's own count in place.
*/
func (client *TavilyClient) Search(
	ctx context.Context, query string, maxResults int,
) ([]Result, error) {
	resp, err := client.conn.Post("/search", fiberClient.Config{
		Ctx: ctx,
		Header: map[string]string{
			"Content-Type":  "application/json",
			"Authorization": "Bearer " + client.apiKey,
		},
		Body: tavilyRequest{
			APIKey:        client.apiKey,
			Query:         query,
			MaxResults:    maxResults,
			SearchDepth:   client.depth,
			IncludeAnswer: true,
		},
	})

	if err != nil {
		log.Error("web search failed", "error", err)
		return nil, err
	}

	if resp.StatusCode() < http.StatusOK || resp.StatusCode() >= http.StatusBadRequest {
		return nil, fmt.Errorf("search returned non-OK status: %d", resp.StatusCode())
	}

	var out tavilyResponse

	if err := resp.JSON(&out); err != nil {
		return nil, fmt.Errorf("failed to decode search response: %w", err)
	}

	if maxResults > 0 && len(out.Results) > maxResults {
		out.Results = out.Results[:maxResults]
	}

	return out.Results, nil
}
