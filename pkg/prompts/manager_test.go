package prompts

import (
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func TestManager(t *testing.T) {
	Convey("Given the default prompt manager", t, func() {
		m := NewManager()

		Convey("Then every pipeline prompt should be registered", func() {
			for _, name := range []string{Validation, Prose, References, Extraction} {
				_, err := m.Get(name)
				So(err, ShouldBeNil)
			}
		})

		Convey("When rendering the validation prompt", func() {
			out, err := m.Render(Validation, map[string]string{"Question": "What is CPF LIFE?"})

			Convey("Then the question should be embedded", func() {
				So(err, ShouldBeNil)
				So(out, ShouldContainSubstring, `Here is the query: "What is CPF LIFE?"`)
				So(out, ShouldContainSubstring, `"Valid" or "Invalid"`)
			})
		})

		Convey("When a key is missing from the data", func() {
			_, err := m.Render(References, map[string]string{"Prose": "x"})

			Convey("Then rendering should fail", func() {
				So(err, ShouldNotBeNil)
			})
		})

		Convey("When overriding a prompt", func() {
			So(m.Set(Prompt{Name: Validation, Content: "Is {{.Question}} ok?"}), ShouldBeNil)
			out, err := m.Render(Validation, map[string]string{"Question": "this"})

			Convey("Then the override should be used", func() {
				So(err, ShouldBeNil)
				So(out, ShouldEqual, "Is this ok?")
			})
		})

		Convey("When asking for an unknown prompt", func() {
			_, err := m.Render("nope", nil)
			So(err, ShouldHaveSameTypeAs, ErrorPromptNotFound{})
		})

		Convey("When setting an unparsable template", func() {
			So(m.Set(Prompt{Name: "bad", Content: "{{.Broken"}), ShouldNotBeNil)
		})
	})
}
