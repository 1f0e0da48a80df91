package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/theapemachine/cpf-explainer/pkg/config"
	"github.com/theapemachine/cpf-explainer/pkg/schema"
)

var (
	questionFlag string

	schemaCmd = &cobra.Command{
		Use:   "schema",
		Short: "Show the graph schema terms and how a question matches them",
		Long:  longSchema,
		RunE: func(cmd *cobra.Command, args []string) error {
			requirements := []config.Requirement{config.RequireGraph}

			if questionFlag != "" {
				requirements = append(requirements, config.RequireEmbedding)
			}

			if err := cfg.Validate(requirements...); err != nil {
				return err
			}

			ctx := cmd.Context()
			out := cmd.OutOrStdout()

			if questionFlag == "" {
				terms, err := schema.NewIndex(newGraphStore(), nil).Extract(ctx)

				if err != nil {
					return err
				}

				for _, term := range terms {
					fmt.Fprintf(out, "%-12s %s\n", term.Kind, term.Value)
				}

				return nil
			}

			p, err := newPipeline(ctx)

			if err != nil {
				return err
			}

			index, err := p.buildIndex(ctx)

			if err != nil {
				return err
			}

			match, err := index.FindClosest(ctx, questionFlag, cfg.Explainer.Threshold)

			if err != nil {
				return err
			}

			for _, term := range match.Terms {
				fmt.Fprintf(out, "%.4f  %-12s %s\n", term.Score, term.Kind, term.Value)
			}

			fmt.Fprintf(out, "\n%d node ids\n", len(match.NodeIDs))

			return nil
		},
	}
)

func init() {
	rootCmd.AddCommand(schemaCmd)
	schemaCmd.Flags().StringVarP(&questionFlag, "question", "q", "", "Rank schema terms against this question")
}

var longSchema = `
List the labels, property keys and relationship types of the knowledge graph.
With --question, embed the schema and show which terms clear the similarity
threshold for that question, best first.

Examples:
  cpf-explainer schema
  cpf-explainer schema --question "What is the basic retirement sum?"
`
