package citation

import (
	"strings"
	"testing"

	. "github.com/smartystreets/goconvey/convey"
	"github.com/stretchr/testify/assert"
	"github.com/theapemachine/cpf-explainer/pkg/graph"
)

const (
	cpfLife = "https://www.cpf.gov.sg/member/retirement-income/monthly-payouts/cpf-life"
	sums    = "https://www.cpf.gov.sg/member/retirement-income/retirement-sums"
)

func TestPlaceholderMap(t *testing.T) {
	Convey("Given a fresh placeholder map", t, func() {
		pm := NewPlaceholderMap()

		Convey("When the same URL is seen twice", func() {
			first := pm.Token(cpfLife)
			second := pm.Token(cpfLife)

			Convey("Then one token should be reused", func() {
				So(first, ShouldEqual, "URL1")
				So(second, ShouldEqual, "URL1")
				So(pm.Len(), ShouldEqual, 1)
			})
		})

		Convey("When distinct URLs are seen", func() {
			So(pm.Token(sums), ShouldEqual, "URL1")
			So(pm.Token(cpfLife), ShouldEqual, "URL2")
			So(pm.Token(sums), ShouldEqual, "URL1")

			Convey("Then tokens resolve back and render in assignment order", func() {
				url, ok := pm.Resolve("URL2")
				So(ok, ShouldBeTrue)
				So(url, ShouldEqual, cpfLife)
				So(pm.String(), ShouldEqual, "URL1: "+sums+"\nURL2: "+cpfLife)
			})
		})

		Convey("When a URL is missing", func() {
			Convey("Then it is marked unavailable and never mapped", func() {
				So(pm.Token(""), ShouldEqual, NoURL)
				So(pm.Len(), ShouldEqual, 0)
			})
		})
	})
}

func TestFormat(t *testing.T) {
	Convey("Given traversal rows sharing a URL", t, func() {
		rows := []graph.Row{
			{
				Subject: graph.Node{ID: "CPF LIFE", URL: cpfLife},
				Edges:   []graph.Edge{{From: "CPF LIFE", Type: "PROVIDES", To: "Monthly Payout"}},
				Object:  graph.Node{ID: "Monthly Payout"},
			},
			{
				Subject: graph.Node{ID: "Full Retirement Sum", URL: sums},
				Edges:   nil,
				Object:  graph.Node{ID: "CPF LIFE", URL: cpfLife},
			},
		}

		records, pm := Format(rows)

		Convey("Then records should keep row order and carry tokens only", func() {
			So(records, ShouldHaveLength, 2)
			So(records[0].Subject, ShouldResemble, NodeRef{ID: "CPF LIFE", URL: "URL1"})
			So(records[0].Object, ShouldResemble, NodeRef{ID: "Monthly Payout", URL: NoURL})
			So(records[0].Relationships, ShouldResemble, []string{"CPF LIFE -[PROVIDES]-> Monthly Payout"})
			So(records[1].Subject.URL, ShouldEqual, "URL2")
			So(records[1].Object.URL, ShouldEqual, "URL1")
			So(pm.Len(), ShouldEqual, 2)
		})

		Convey("Then the rendered context should contain no raw URL", func() {
			rendered := Render(records)
			So(rendered, ShouldContainSubstring, "Item 1:\nNode (n): CPF LIFE, URL: URL1\n")
			So(rendered, ShouldContainSubstring, "- Relationship: CPF LIFE -[PROVIDES]-> Monthly Payout")
			So(strings.Contains(rendered, "https://"), ShouldBeFalse)
		})
	})
}

func TestFilterReferences(t *testing.T) {
	pm := NewPlaceholderMap()
	pm.Token(cpfLife)
	pm.Token(sums)

	refs := "References:\n[URL1] " + cpfLife + "\n[URL7] https://invented.example\n[URL2] " + sums

	filtered := pm.FilterReferences(refs)
	assert.NotContains(t, filtered, "URL7")
	assert.Contains(t, filtered, "References:")
	assert.Contains(t, filtered, "[URL2]")

	assert.Equal(t, []string{"URL2", "URL1"}, pm.Cited("See URL2, URL9 and URL1, again URL2."))
}
