package config

import (
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"
	"github.com/spf13/viper"
	"github.com/theapemachine/cpf-explainer/pkg/errors"
)

func newViper() *viper.Viper {
	v := viper.New()
	BindEnv(v)
	return v
}

func TestLoad(t *testing.T) {
	Convey("Given a viper instance with only defaults", t, func() {
		cfg := Load(newViper())

		Convey("Then the documented defaults should apply", func() {
			So(cfg.Explainer.Threshold, ShouldEqual, 0.5)
			So(cfg.Explainer.LabelStrategy, ShouldEqual, "last")
			So(cfg.Search.MaxResults, ShouldEqual, 5)
			So(cfg.Provider.Completion, ShouldEqual, ProviderOpenAI)
			So(cfg.Neo4j.Database, ShouldEqual, "neo4j")
			So(cfg.Server.SessionTTL, ShouldEqual, 24*time.Hour)
			So(cfg.Simulator.Expenditure, ShouldBeEmpty)
		})
	})

	Convey("Given credentials in the environment", t, func() {
		t.Setenv("OPENAI_API_KEY", "sk-test")
		t.Setenv("NEO4J_URI", "http://localhost:7474")
		t.Setenv("TAVILY_API_KEY", "tvly-test")

		cfg := Load(newViper())

		Convey("Then they should be bound onto the config", func() {
			So(cfg.Provider.OpenAI.APIKey, ShouldEqual, "sk-test")
			So(cfg.Neo4j.URI, ShouldEqual, "http://localhost:7474")
			So(cfg.Search.APIKey, ShouldEqual, "tvly-test")
			So(cfg.Validate(RequirePipeline...), ShouldBeNil)
		})
	})
}

func TestValidate(t *testing.T) {
	Convey("Given a config missing every credential", t, func() {
		t.Setenv("OPENAI_API_KEY", "")
		t.Setenv("NEO4J_URI", "")
		t.Setenv("TAVILY_API_KEY", "")

		cfg := Load(newViper())
		err := cfg.Validate(RequirePipeline...)

		Convey("Then all missing keys should be reported at once", func() {
			var missing *errors.MissingCredentialError
			So(errors.As(err, &missing), ShouldBeTrue)
			So(missing.Keys, ShouldHaveLength, 3)
		})

		Convey("Then a command needing nothing should still pass", func() {
			So(cfg.Validate(), ShouldBeNil)
		})
	})

	Convey("Given an out of range threshold", t, func() {
		v := newViper()
		v.Set("explainer.threshold", 1.5)
		v.Set("explainer.label_strategy", "random")

		err := Load(v).Validate()

		Convey("Then validation should fail", func() {
			So(err, ShouldNotBeNil)
		})
	})

	Convey("Given ollama for both roles", t, func() {
		v := newViper()
		v.Set("provider.completion", ProviderOllama)
		v.Set("provider.embedding", ProviderOllama)
		v.Set("provider.ollama.model", "llama3.2")
		v.Set("provider.ollama.embedding_model", "all-minilm")

		err := Load(v).Validate(RequireCompletion, RequireEmbedding)

		Convey("Then no api key should be required", func() {
			So(err, ShouldBeNil)
		})
	})

	Convey("Given ollama with no models configured", t, func() {
		v := newViper()
		v.Set("provider.completion", ProviderOllama)
		v.Set("provider.embedding", ProviderOllama)

		err := Load(v).Validate(RequireCompletion, RequireEmbedding)

		Convey("Then the built-in model defaults should be enough", func() {
			So(err, ShouldBeNil)
		})
	})
}
