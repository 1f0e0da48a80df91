package service

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	. "github.com/smartystreets/goconvey/convey"
	"github.com/theapemachine/cpf-explainer/pkg/citation"
	"github.com/theapemachine/cpf-explainer/pkg/explainer"
	"github.com/theapemachine/cpf-explainer/pkg/graph"
	"github.com/theapemachine/cpf-explainer/pkg/provider"
	"github.com/theapemachine/cpf-explainer/pkg/schema"
	"github.com/theapemachine/cpf-explainer/pkg/search"
	"github.com/theapemachine/cpf-explainer/pkg/simulator"
	"github.com/theapemachine/cpf-explainer/pkg/synth"
	"github.com/theapemachine/cpf-explainer/pkg/validator"
)

type schemaSource struct{}

func (schemaSource) Labels(context.Context) ([]string, error) { return []string{"Policy"}, nil }
func (schemaSource) PropertyKeys(context.Context) ([]string, error) { return []string{"id"}, nil }
func (schemaSource) RelationshipTypes(context.Context) ([]string, error) {
	return []string{"HAS"}, nil
}
func (schemaSource) NodeIDs(context.Context, string) ([]string, error) {
	return []string{"CPF LIFE"}, nil
}

type unitEmbedder struct{}

func (unitEmbedder) Embed(context.Context, string) ([]float32, error) { return []float32{1, 0}, nil }
func (unitEmbedder) EmbedBatch(_ context.Context, texts []string) ([][]float32, error) {
	out := make([][]float32, len(texts))

	for i := range texts {
		out[i] = []float32{1, 0}
	}

	return out, nil
}

type rowStore struct{}

func (rowStore) Run(context.Context, string, map[string]any) graph.Result {
	return graph.Rows([]graph.Row{{
		Subject: graph.Node{ID: "CPF LIFE", URL: "https://www.cpf.gov.sg/cpf-life"},
		Object:  graph.Node{ID: "Age 65"},
	}})
}

type staticSynth struct{}

func (staticSynth) Synthesize(
	context.Context, string, []citation.Record, *citation.PlaceholderMap,
) (synth.Answer, error) {
	return synth.Answer{Prose: "From age 65 [URL1].", References: "[URL1] https://www.cpf.gov.sg/cpf-life"}, nil
}

type staticSearch struct{}

func (staticSearch) Search(context.Context, string, int) ([]search.Result, error) {
	return []search.Result{{URL: "https://www.cpf.gov.sg", Content: "Found online."}}, nil
}

func newTestServer(buildIndex IndexBuilder) *Server {
	classifier := validator.New(provider.CompleterFunc(func(_ context.Context, prompt string) (string, error) {
		if strings.Contains(prompt, "France") {
			return "Invalid", nil
		}

		return "Valid", nil
	}), nil)

	base := explainer.New(
		explainer.WithValidator(classifier),
		explainer.WithStore(rowStore{}),
		explainer.WithSynthesizer(staticSynth{}),
		explainer.WithSearcher(staticSearch{}),
	)

	return NewServer(base, buildIndex, WithExpenditure(simulator.ExpenditureTable{
		"TRANSPORT": {Type: "TRANSPORT", Quintiles: [5]float64{100, 200, 300, 400, 500}},
	}))
}

func readyIndex(ctx context.Context) (*schema.Index, error) {
	index := schema.NewIndex(schemaSource{}, unitEmbedder{})

	if _, err := index.Extract(ctx); err != nil {
		return nil, err
	}

	return index, index.BuildEmbeddings(ctx)
}

func post(srv *Server, path, body string) (int, map[string]any) {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	resp, err := srv.App().Test(req)
	So(err, ShouldBeNil)

	defer resp.Body.Close()

	raw, _ := io.ReadAll(resp.Body)
	out := map[string]any{}
	_ = json.Unmarshal(raw, &out)

	return resp.StatusCode, out
}

func TestAsk(t *testing.T) {
	Convey("Given a server with a working graph", t, func() {
		builds := 0
		srv := newTestServer(func(ctx context.Context) (*schema.Index, error) {
			builds++
			return readyIndex(ctx)
		})

		Convey("When asking an in-scope question twice in one session", func() {
			status, first := post(srv, "/ask", `{"question":"When does CPF LIFE start?","session_id":"s1"}`)
			_, second := post(srv, "/ask", `{"question":"And the payout?","session_id":"s1"}`)

			Convey("Then the graph should answer and the index be built once", func() {
				So(status, ShouldEqual, http.StatusOK)
				So(first["state"], ShouldEqual, "graph_answered")
				So(first["text"], ShouldContainSubstring, "From age 65 [URL1].")
				So(first["session_id"], ShouldEqual, "s1")
				So(second["state"], ShouldEqual, "graph_answered")
				So(builds, ShouldEqual, 1)
			})
		})

		Convey("When asking an out-of-scope question", func() {
			events, cancel, _ := srv.events.Subscribe()
			defer cancel()

			_, out := post(srv, "/ask", `{"question":"What is the capital of France?"}`)

			Convey("Then the rejection should be returned with a new session id", func() {
				So(out["state"], ShouldEqual, "rejected")
				So(out["text"], ShouldEqual, validator.RejectionMessage)
				So(out["session_id"], ShouldNotBeEmpty)
			})

			Convey("Then the cycle should be published to subscribers", func() {
				var event CycleEvent
				So(json.Unmarshal(<-events, &event), ShouldBeNil)
				So(event.CycleID, ShouldEqual, out["cycle_id"])
				So(event.SessionID, ShouldEqual, out["session_id"])
			})
		})

		Convey("When the question is missing", func() {
			status, out := post(srv, "/ask", `{}`)

			Convey("Then a 400 should be returned", func() {
				So(status, ShouldEqual, http.StatusBadRequest)
				So(out["message"], ShouldEqual, "question is required")
			})
		})
	})

	Convey("Given a server whose graph is down", t, func() {
		srv := newTestServer(func(context.Context) (*schema.Index, error) {
			return nil, errors.New("connection refused")
		})

		_, out := post(srv, "/ask", `{"question":"What is the retirement sum?"}`)

		Convey("Then the question should still be answered from the web", func() {
			So(out["state"], ShouldEqual, "done")
			So(out["text"], ShouldStartWith, "Here is something I found from online:")
		})
	})
}

func TestSimulate(t *testing.T) {
	Convey("Given the simulate endpoint", t, func() {
		srv := newTestServer(readyIndex)

		Convey("When posting a partial profile", func() {
			status, out := post(srv, "/simulate", `{"age":40,"spending":{"transport":210}}`)

			Convey("Then defaults should fill the rest", func() {
				So(status, ShouldEqual, http.StatusOK)
				plan := out["plan"].(map[string]any)
				So(plan["years_until_retirement"], ShouldEqual, 25.0)
				So(out["projection"], ShouldHaveLength, 1+25+20)
				comparison := out["comparison"].(map[string]any)["transport"].(map[string]any)
				So(comparison["closest_income_quintile"], ShouldEqual, simulator.Quintiles[1])
			})
		})

		Convey("When the profile is out of range", func() {
			status, _ := post(srv, "/simulate", `{"cpf_contribution_rate":50}`)
			So(status, ShouldEqual, http.StatusBadRequest)
		})
	})
}

func TestRoot(t *testing.T) {
	Convey("Given the root and metrics endpoints", t, func() {
		srv := newTestServer(readyIndex)

		resp, err := srv.App().Test(httptest.NewRequest(http.MethodGet, "/", nil))
		So(err, ShouldBeNil)
		So(resp.StatusCode, ShouldEqual, http.StatusOK)

		resp, err = srv.App().Test(httptest.NewRequest(http.MethodGet, "/livez", nil))
		So(err, ShouldBeNil)
		So(resp.StatusCode, ShouldEqual, http.StatusOK)

		resp, err = srv.App().Test(httptest.NewRequest(http.MethodGet, "/metrics", nil))
		So(err, ShouldBeNil)

		raw, _ := io.ReadAll(resp.Body)
		So(string(raw), ShouldContainSubstring, "cpf_explainer_http_requests_total")
	})
}
