package neo4j

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func TestExecCypher(t *testing.T) {
	Convey("Given a neo4j client and a test server", t, func() {
		var (
			gotPath string
			gotUser string
			gotBody map[string]any
		)

		ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			gotPath = r.URL.Path
			gotUser, _, _ = r.BasicAuth()
			_ = json.NewDecoder(r.Body).Decode(&gotBody)
			fmt.Fprint(w, `{"results":[{"columns":["label"],"data":[{"row":["Policy"]},{"row":["Scheme"]}]}],"errors":[]}`)
		}))
		defer ts.Close()

		client := New(ts.URL+"/", "neo4j", "secret")
		result, err := client.ExecCypher(context.Background(), "CALL db.labels()", nil)

		Convey("Then the rows should be decoded by column", func() {
			So(err, ShouldBeNil)
			So(result.Len(), ShouldEqual, 2)
			So(result.Record(0)["label"], ShouldEqual, "Policy")
			So(result.Record(1)["label"], ShouldEqual, "Scheme")
		})

		Convey("Then the request should target the default database with auth", func() {
			So(gotPath, ShouldEqual, "/db/neo4j/tx/commit")
			So(gotUser, ShouldEqual, "neo4j")
			So(gotBody["statements"], ShouldHaveLength, 1)
		})
	})

	Convey("Given a server reporting a statement error", t, func() {
		ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			fmt.Fprint(w, `{"results":[],"errors":[{"code":"Neo.ClientError.Statement.SyntaxError","message":"bad"}]}`)
		}))
		defer ts.Close()

		_, err := New(ts.URL, "", "").ExecCypher(context.Background(), "MATCH", nil)

		Convey("Then the error should carry the neo4j code", func() {
			So(err, ShouldNotBeNil)
			So(err.Error(), ShouldContainSubstring, "SyntaxError")
		})
	})

	Convey("Given a server returning a 5xx status", t, func() {
		ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusServiceUnavailable)
		}))
		defer ts.Close()

		err := New(ts.URL, "", "").Ping(context.Background())

		Convey("Then the call should fail", func() {
			So(err, ShouldNotBeNil)
		})
	})
}
