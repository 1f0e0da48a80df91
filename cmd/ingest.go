package cmd

import (
	"encoding/json"

	"github.com/spf13/cobra"
	"github.com/theapemachine/cpf-explainer/pkg/config"
	"github.com/theapemachine/cpf-explainer/pkg/ingest"
	"github.com/theapemachine/cpf-explainer/pkg/provider"
)

var (
	corpusFlag string

	ingestCmd = &cobra.Command{
		Use:   "ingest",
		Short: "Build the knowledge graph from scraped pages",
		Long:  longIngest,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := cfg.Validate(config.RequireGraph, config.RequireCompletion); err != nil {
				return err
			}

			entries, err := ingest.LoadCorpus(corpusFlag)

			if err != nil {
				return err
			}

			completer, err := provider.NewCompleter(cmd.Context(), cfg.Provider)

			if err != nil {
				return err
			}

			ingester := ingest.New(
				completer,
				newGraphStore(),
				ingest.NewChunker(cfg.Ingest.ChunkTokens, cfg.Ingest.Encoding),
				nil,
			)

			report, err := ingester.Run(cmd.Context(), entries)

			if err != nil {
				return err
			}

			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")

			if err := enc.Encode(report); err != nil {
				return err
			}

			return report.Err()
		},
	}
)

func init() {
	rootCmd.AddCommand(ingestCmd)
	ingestCmd.Flags().StringVarP(&corpusFlag, "corpus", "c", "data.json", "JSON array of {URL, Content} entries")
}

var longIngest = `
Read scraped pages, clean and chunk them, extract entities and relationships
with the configured language model and merge them into Neo4j. Every node and
relationship carries the URL of the page it came from.

Examples:
  cpf-explainer ingest --corpus data.json
`
