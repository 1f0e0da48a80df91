package synth

import (
	"context"
	"strings"
	"testing"

	. "github.com/smartystreets/goconvey/convey"
	"github.com/theapemachine/cpf-explainer/pkg/citation"
	"github.com/theapemachine/cpf-explainer/pkg/errors"
	"github.com/theapemachine/cpf-explainer/pkg/graph"
	"github.com/theapemachine/cpf-explainer/pkg/provider"
)

const payoutURL = "https://www.cpf.gov.sg/member/retirement-income/monthly-payouts"

func TestSynthesize(t *testing.T) {
	Convey("Given formatted graph context", t, func() {
		records, placeholders := citation.Format([]graph.Row{{
			Subject: graph.Node{ID: "CPF LIFE", URL: payoutURL},
			Edges:   []graph.Edge{{From: "CPF LIFE", Type: "STARTS_AT", To: "Age 65"}},
			Object:  graph.Node{ID: "Age 65"},
		}})

		var calls []string

		completer := provider.CompleterFunc(func(_ context.Context, prompt string) (string, error) {
			calls = append(calls, prompt)

			if len(calls) == 1 {
				return "CPF LIFE payouts start at 65 [URL1].", nil
			}

			return "References:\n[URL1] " + payoutURL + "\n[URL4] https://made.up", nil
		})

		answer, err := New(completer, nil).Synthesize(
			context.Background(), "When do payouts start?", records, placeholders,
		)

		Convey("Then two calls should be made in order", func() {
			So(err, ShouldBeNil)
			So(calls, ShouldHaveLength, 2)
			So(calls[1], ShouldContainSubstring, "CPF LIFE payouts start at 65 [URL1].")
		})

		Convey("Then the prose prompt should carry placeholders and no raw URL", func() {
			So(calls[0], ShouldContainSubstring, "When do payouts start?")
			So(calls[0], ShouldContainSubstring, "URL: URL1")
			So(strings.Contains(calls[0], payoutURL), ShouldBeFalse)
		})

		Convey("Then the reference prompt should carry the resolved map", func() {
			So(calls[1], ShouldContainSubstring, "URL1: "+payoutURL)
		})

		Convey("Then references should only cite mapped placeholders", func() {
			So(answer.Prose, ShouldEqual, "CPF LIFE payouts start at 65 [URL1].")
			So(answer.References, ShouldContainSubstring, "[URL1]")
			So(answer.References, ShouldNotContainSubstring, "URL4")
			So(answer.String(), ShouldStartWith, "Generated Response:\n")
		})
	})

	Convey("Given no context records", t, func() {
		called := false
		completer := provider.CompleterFunc(func(context.Context, string) (string, error) {
			called = true
			return "", nil
		})

		_, err := New(completer, nil).Synthesize(
			context.Background(), "q", nil, citation.NewPlaceholderMap(),
		)

		Convey("Then synthesis should be skipped", func() {
			So(errors.Is(err, errors.ErrEmptyContext), ShouldBeTrue)
			So(called, ShouldBeFalse)
		})
	})
}
