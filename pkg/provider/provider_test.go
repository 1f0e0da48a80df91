package provider

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/ollama/ollama/api"
	openai "github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	. "github.com/smartystreets/goconvey/convey"
	"github.com/stretchr/testify/assert"
	"github.com/theapemachine/cpf-explainer/pkg/config"
)

func newTestOpenAIClient(endpoint string) *openai.Client {
	client := openai.NewClient(
		option.WithAPIKey("test"),
		option.WithBaseURL(endpoint+"/"),
		option.WithMaxRetries(0),
	)

	return &client
}

func TestOpenAIProvider(t *testing.T) {
	Convey("Given an OpenAI provider pointed at a fake server", t, func() {
		var gotBody map[string]any

		ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_ = json.NewDecoder(r.Body).Decode(&gotBody)
			w.Header().Set("Content-Type", "application/json")

			switch r.URL.Path {
			case "/chat/completions":
				fmt.Fprint(w, `{"id":"c1","object":"chat.completion","created":1,"model":"gpt-4o-mini",
					"choices":[{"index":0,"finish_reason":"stop","message":{"role":"assistant","content":"Valid"}}]}`)
			case "/embeddings":
				fmt.Fprint(w, `{"object":"list","model":"text-embedding-3-small",
					"usage":{"prompt_tokens":2,"total_tokens":2},
					"data":[{"object":"embedding","index":1,"embedding":[0,1]},
					        {"object":"embedding","index":0,"embedding":[1,0]}]}`)
			default:
				w.WriteHeader(http.StatusNotFound)
			}
		}))
		defer ts.Close()

		client := newTestOpenAIClient(ts.URL)

		Convey("When completing a prompt", func() {
			prvdr := NewOpenAIProvider(WithOpenAIModel("gpt-4o-mini"))
			prvdr.client = client

			text, err := prvdr.Complete(context.Background(), "Is CPF in scope?")

			Convey("Then the first choice should be returned", func() {
				So(err, ShouldBeNil)
				So(text, ShouldEqual, "Valid")
				So(gotBody["model"], ShouldEqual, "gpt-4o-mini")
			})
		})

		Convey("When embedding a batch", func() {
			embedder := NewOpenAIEmbedder(WithOpenAIEmbedderClient(client))
			vectors, err := embedder.EmbedBatch(context.Background(), []string{"Policy", "Scheme"})

			Convey("Then vectors should follow input order, not response order", func() {
				So(err, ShouldBeNil)
				So(vectors, ShouldHaveLength, 2)
				So(vectors[0], ShouldResemble, []float32{1, 0})
				So(vectors[1], ShouldResemble, []float32{0, 1})
			})
		})
	})
}

func TestOllamaProvider(t *testing.T) {
	Convey("Given an Ollama server", t, func() {
		ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")

			switch r.URL.Path {
			case "/api/generate":
				fmt.Fprint(w, `{"model":"llama3.2","response":"Invalid","done":true}`)
			case "/api/embed":
				fmt.Fprint(w, `{"model":"all-minilm","embeddings":[[0.5,0.5]]}`)
			default:
				w.WriteHeader(http.StatusNotFound)
			}
		}))
		defer ts.Close()

		base, _ := url.Parse(ts.URL)
		client := api.NewClient(base, http.DefaultClient)

		Convey("Then completions should return the generated text", func() {
			text, err := NewOllamaProvider(WithOllamaClient(client)).Complete(context.Background(), "q")
			So(err, ShouldBeNil)
			So(text, ShouldEqual, "Invalid")
		})

		Convey("Then embeddings should be returned as-is", func() {
			vector, err := NewOllamaEmbedder(WithOllamaEmbedderClient(client)).Embed(context.Background(), "q")
			So(err, ShouldBeNil)
			So(vector, ShouldResemble, []float32{0.5, 0.5})
		})
	})
}

func TestFactory(t *testing.T) {
	cfg := config.Provider{
		Completion: config.ProviderOpenAI,
		Embedding:  config.ProviderOllama,
		OpenAI:     config.Credentials{APIKey: "k"},
		Ollama:     config.Credentials{Host: "http://localhost:11434"},
	}

	completer, err := NewCompleter(context.Background(), cfg)
	assert.NoError(t, err)
	assert.IsType(t, &OpenAIProvider{}, completer)

	embedder, err := NewEmbedder(cfg)
	assert.NoError(t, err)
	assert.IsType(t, &OllamaEmbedder{}, embedder)

	cfg.Completion = "mystery"
	_, err = NewCompleter(context.Background(), cfg)
	assert.Error(t, err)

	cfg.Embedding = config.ProviderAnthropic
	_, err = NewEmbedder(cfg)
	assert.Error(t, err)
}

func TestCompleterFunc(t *testing.T) {
	fn := CompleterFunc(func(_ context.Context, prompt string) (string, error) {
		return "echo: " + prompt, nil
	})

	text, err := fn.Complete(context.Background(), "hi")
	assert.NoError(t, err)
	assert.Equal(t, "echo: hi", text)
}
