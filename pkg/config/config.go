// Package config turns the viper key space into a typed Config and checks it
// once at startup, so a missing credential fails the process before the
// first external call is made.
package config

import (
	"time"

	"github.com/spf13/viper"
)

const (
	ProviderOpenAI    = "openai"
	ProviderAnthropic = "anthropic"
	ProviderOllama    = "ollama"
	ProviderCohere    = "cohere"
	ProviderDeepseek  = "deepseek"
	ProviderGoogle    = "google"
)

type Config struct {
	Neo4j     Neo4j
	Provider  Provider
	Search    Search
	Explainer Explainer
	Server    Server
	Simulator Simulator
	Log       Log
	Ingest    Ingest
}

type Neo4j struct {
	URI      string
	Username string
	Password string
	Database string
}

type Provider struct {
	Completion string
	Embedding  string
	OpenAI     Credentials
	Anthropic  Credentials
	Ollama     Credentials
	Cohere     Credentials
	Deepseek   Credentials
	Google     Credentials
}

/*
Credentials configures one LLM vendor. Host is only used by Ollama; APIKey by
the hosted vendors.
*/
type Credentials struct {
	APIKey         string
	Host           string
	Model          string
	EmbeddingModel string
}

type Search struct {
	Endpoint   string
	APIKey     string
	MaxResults int
	Depth      string
}

type Explainer struct {
	Threshold     float64
	LabelStrategy string
	Disclaimer    string
}

type Server struct {
	Host       string
	Port       int
	SessionTTL time.Duration
}

/*
Simulator points at the household expenditure workbook. Comparison is
skipped when it is empty.
*/
type Simulator struct {
	Expenditure string
}

type Log struct {
	Level  string
	File   string
	Format string
}

type Ingest struct {
	ChunkTokens int
	Encoding    string
}

/*
envBindings maps config keys onto the environment variable names each
vendor documents.
*/
var envBindings = map[string]string{
	"neo4j.uri":                  "NEO4J_URI",
	"neo4j.username":             "NEO4J_USERNAME",
	"neo4j.password":             "NEO4J_PASSWORD",
	"provider.openai.api_key":    "OPENAI_API_KEY",
	"provider.anthropic.api_key": "ANTHROPIC_API_KEY",
	"provider.ollama.host":       "OLLAMA_HOST",
	"provider.cohere.api_key":    "COHERE_API_KEY",
	"provider.deepseek.api_key":  "DEEPSEEK_API_KEY",
	"provider.google.api_key":    "GOOGLE_API_KEY",
	"search.api_key":             "TAVILY_API_KEY",
}

/*
BindEnv registers the environment overrides and the defaults on v.
*/
func BindEnv(v *viper.Viper) {
	for key, env := range envBindings {
		_ = v.BindEnv(key, env)
	}

	v.SetDefault("neo4j.database", "neo4j")
	v.SetDefault("provider.completion", ProviderOpenAI)
	v.SetDefault("provider.embedding", ProviderOpenAI)
	v.SetDefault("provider.openai.model", "gpt-4o-mini")
	v.SetDefault("provider.openai.embedding_model", "text-embedding-3-small")
	v.SetDefault("search.endpoint", "https://api.tavily.com")
	v.SetDefault("search.max_results", 5)
	v.SetDefault("search.depth", "advanced")
	v.SetDefault("explainer.threshold", 0.5)
	v.SetDefault("explainer.label_strategy", "last")
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 3210)
	v.SetDefault("server.session_ttl", 24*time.Hour)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")
	v.SetDefault("ingest.chunk_tokens", 2000)
	v.SetDefault("ingest.encoding", "cl100k_base")
}

/*
Load reads the typed configuration out of v. It does not validate.
*/
func Load(v *viper.Viper) Config {
	return Config{
		Neo4j: Neo4j{
			URI:      v.GetString("neo4j.uri"),
			Username: v.GetString("neo4j.username"),
			Password: v.GetString("neo4j.password"),
			Database: v.GetString("neo4j.database"),
		},
		Provider: Provider{
			Completion: v.GetString("provider.completion"),
			Embedding:  v.GetString("provider.embedding"),
			OpenAI:     credentials(v, ProviderOpenAI),
			Anthropic:  credentials(v, ProviderAnthropic),
			Ollama:     credentials(v, ProviderOllama),
			Cohere:     credentials(v, ProviderCohere),
			Deepseek:   credentials(v, ProviderDeepseek),
			Google:     credentials(v, ProviderGoogle),
		},
		Search: Search{
			Endpoint:   v.GetString("search.endpoint"),
			APIKey:     v.GetString("search.api_key"),
			MaxResults: v.GetInt("search.max_results"),
			Depth:      v.GetString("search.depth"),
		},
		Explainer: Explainer{
			Threshold:     v.GetFloat64("explainer.threshold"),
			LabelStrategy: v.GetString("explainer.label_strategy"),
			Disclaimer:    v.GetString("explainer.disclaimer"),
		},
		Server: Server{
			Host:       v.GetString("server.host"),
			Port:       v.GetInt("server.port"),
			SessionTTL: v.GetDuration("server.session_ttl"),
		},
		Simulator: Simulator{
			Expenditure: v.GetString("simulator.expenditure"),
		},
		Log: Log{
			Level:  v.GetString("log.level"),
			File:   v.GetString("log.file"),
			Format: v.GetString("log.format"),
		},
		Ingest: Ingest{
			ChunkTokens: v.GetInt("ingest.chunk_tokens"),
			Encoding:    v.GetString("ingest.encoding"),
		},
	}
}

func credentials(v *viper.Viper, name string) Credentials {
	prefix := "provider." + name + "."

	return Credentials{
		APIKey:         v.GetString(prefix + "api_key"),
		Host:           v.GetString(prefix + "host"),
		Model:          v.GetString(prefix + "model"),
		EmbeddingModel: v.GetString(prefix + "embedding_model"),
	}
}

/*
Vendor returns the credentials block for a provider name.
*/
func (provider Provider) Vendor(name string) Credentials {
	switch name {
	case ProviderOpenAI:
		return provider.OpenAI
	case ProviderAnthropic:
		return provider.Anthropic
	case ProviderOllama:
		return provider.Ollama
	case ProviderCohere:
		return provider.Cohere
	case ProviderDeepseek:
		return provider.Deepseek
	case ProviderGoogle:
		return provider.Google
	}

	return Credentials{}
}
