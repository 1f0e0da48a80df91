package neo4j

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"
)

/*
Client talks to the Neo4j transactional HTTP endpoint. It only knows about
statements and rows; graph semantics live in pkg/graph.
*/
type Client struct {
	Endpoint   string
	Database   string
	Username   string
	Password   string
	httpClient *http.Client
}

/*
Statement is one Cypher statement with its parameters.
*/
type Statement struct {
	Cypher string         `json:"statement"`
	Params map[string]any `json:"parameters,omitempty"`
}

/*
Result is the decoded outcome of a single statement.
*/
type Result struct {
	Columns []string `json:"columns"`
	Data    []struct {
		Row []any `json:"row"`
	} `json:"data"`
}

/*
Record returns row i as a column name keyed map.
*/
func (result Result) Record(i int) map[string]any {
	record := make(map[string]any, len(result.Columns))

	for idx, column := range result.Columns {
		if idx < len(result.Data[i].Row) {
			record[column] = result.Data[i].Row[idx]
		}
	}

	return record
}

/*
Len returns the number of rows.
*/
func (result Result) Len() int {
	return len(result.Data)
}

type txResponse struct {
	Results []Result `json:"results"`
	Errors  []struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"errors"`
}

func New(endpoint, user, pass string) *Client {
	return &Client{
		Endpoint:   strings.TrimRight(endpoint, "/"),
		Database:   "neo4j",
		Username:   user,
		Password:   pass,
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
}

/*
WithDatabase selects a database other than the default "neo4j".
*/
func (client *Client) WithDatabase(name string) *Client {
	if name != "" {
		client.Database = name
	}

	return client
}

// ExecCypher sends a single Cypher statement with optional parameters and
// returns its result.
func (client *Client) ExecCypher(
	ctx context.Context, cypher string, params map[string]any,
) (Result, error) {
	results, err := client.Exec(ctx, Statement{Cypher: cypher, Params: params})

	if err != nil {
		return Result{}, err
	}

	if len(results) == 0 {
		return Result{}, nil
	}

	return results[0], nil
}

// Exec runs several statements in one auto-committed transaction.
func (client *Client) Exec(ctx context.Context, statements ...Statement) ([]Result, error) {
	payload := map[string]any{
		"statements": statements,
	}

	b, err := json.Marshal(payload)

	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(
		ctx,
		http.MethodPost,
		fmt.Sprintf("%s/db/%s/tx/commit", client.Endpoint, client.Database),
		bytes.NewReader(b),
	)

	if err != nil {
		return nil, err
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	if client.Username != "" {
		req.SetBasicAuth(client.Username, client.Password)
	}

	resp, err := client.httpClient.Do(req)

	if err != nil {
		return nil, err
	}

	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return nil, fmt.Errorf("neo4j: status %s", resp.Status)
	}

	var out txResponse

	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("neo4j: failed to decode response: %w", err)
	}

	if len(out.Errors) > 0 {
		return nil, fmt.Errorf("neo4j: %s: %s", out.Errors[0].Code, out.Errors[0].Message)
	}

	return out.Results, nil
}

// Ping checks the connection to the Neo4j server.
func (client *Client) Ping(ctx context.Context) error {
	_, err := client.ExecCypher(ctx, "RETURN 1", nil)
	return err
}
