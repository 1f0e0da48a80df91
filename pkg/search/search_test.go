package search

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	. "github.com/smartystreets/goconvey/convey"
	"github.com/stretchr/testify/assert"
)

func TestTavilyClient(t *testing.T) {
	Convey("Given a Tavily-compatible server", t, func() {
		var (
			gotPath string
			gotBody tavilyRequest
		)

		ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			gotPath = r.URL.Path
			_ = json.NewDecoder(r.Body).Decode(&gotBody)
			w.Header().Set("Content-Type", "application/json")
			fmt.Fprint(w, `{"answer":"","results":[
				{"title":"a","url":"https://a.example","content":"A","score":0.9},
				{"title":"b","url":"https://b.example","content":"B","score":0.8},
				{"title":"c","url":"https://c.example","content":"C","score":0.7}]}`)
		}))
		defer ts.Close()

		client := NewTavilyClient(ts.URL, "tvly-test", WithDepth("basic"))

		Convey("When searching with a bound of two", func() {
			results, err := client.Search(context.Background(), "CPF LIFE payouts", 2)

			Convey("Then the request should carry the query and bound", func() {
				So(err, ShouldBeNil)
				So(gotPath, ShouldEqual, "/search")
				So(gotBody.Query, ShouldEqual, "CPF LIFE payouts")
				So(gotBody.MaxResults, ShouldEqual, 2)
				So(gotBody.SearchDepth, ShouldEqual, "basic")
				So(gotBody.APIKey, ShouldEqual, "tvly-test")
			})

			Convey("Then no more than the bound should be returned", func() {
				So(results, ShouldHaveLength, 2)
				So(results[0].URL, ShouldEqual, "https://a.example")
			})
		})

		Convey("When searching with a negative bound", func() {
			results, err := client.Search(context.Background(), "CPF LIFE payouts", -1)

			Convey("Then every result should be returned", func() {
				So(err, ShouldBeNil)
				So(results, ShouldHaveLength, 3)
			})
		})
	})

	Convey("Given a server rejecting the key", t, func() {
		ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusUnauthorized)
		}))
		defer ts.Close()

		_, err := NewTavilyClient(ts.URL, "bad").Search(context.Background(), "q", 5)

		Convey("Then an error should be returned", func() {
			So(err, ShouldNotBeNil)
		})
	})
}

func TestRender(t *testing.T) {
	assert.Equal(t, NoInformation, Render(nil))

	out := Render([]Result{
		{URL: "https://a.example", Content: "First."},
		{URL: "https://b.example", Content: "Second."},
	})

	assert.Equal(t,
		"Here is something I found from online: First. Second.\n\n"+
			"\nReferences:\n[1] https://a.example\n[2] https://b.example\n",
		out,
	)
}
