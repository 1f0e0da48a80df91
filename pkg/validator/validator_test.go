package validator

import (
	"context"
	"errors"
	"strings"
	"testing"

	. "github.com/smartystreets/goconvey/convey"
	"github.com/stretchr/testify/assert"
	"github.com/theapemachine/cpf-explainer/pkg/provider"
)

func classifier(answer string, err error, seen *string) provider.Completer {
	return provider.CompleterFunc(func(_ context.Context, prompt string) (string, error) {
		if seen != nil {
			*seen = prompt
		}

		return answer, err
	})
}

func TestValidate(t *testing.T) {
	Convey("Given a validator", t, func() {
		ctx := context.Background()

		Convey("When the classifier answers Valid", func() {
			var prompt string
			ok, err := New(classifier("Valid", nil, &prompt), nil).Validate(ctx, "When can I withdraw my CPF savings?")

			Convey("Then the question should be accepted", func() {
				So(err, ShouldBeNil)
				So(ok, ShouldBeTrue)
				So(prompt, ShouldContainSubstring, "When can I withdraw my CPF savings?")
			})
		})

		Convey("When the classifier answers Invalid", func() {
			ok, err := New(classifier("\nInvalid", nil, nil), nil).Validate(ctx, "What is the capital of France?")

			Convey("Then the question should be rejected", func() {
				So(err, ShouldBeNil)
				So(ok, ShouldBeFalse)
			})
		})

		Convey("When the classifier fails", func() {
			ok, err := New(classifier("", errors.New("timeout"), nil), nil).Validate(ctx, "CPF LIFE?")

			Convey("Then the question should be rejected and the error surfaced", func() {
				So(ok, ShouldBeFalse)
				So(err, ShouldNotBeNil)
			})
		})

		Convey("When the question is blank", func() {
			called := false
			completer := provider.CompleterFunc(func(context.Context, string) (string, error) {
				called = true
				return "Valid", nil
			})

			ok, _ := New(completer, nil).Validate(ctx, "   ")

			Convey("Then no model call should be made", func() {
				So(ok, ShouldBeFalse)
				So(called, ShouldBeFalse)
			})
		})
	})
}

func TestAccepts(t *testing.T) {
	cases := map[string]bool{
		"Valid":                 true,
		"Valid.":                true,
		"The query is Valid":    true,
		"Invalid":               false,
		"valid":                 false,
		"":                      false,
		"I cannot answer that.": false,
	}

	for answer, want := range cases {
		assert.Equal(t, want, Accepts(answer), strings.TrimSpace(answer))
	}
}
