package cmd

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/theapemachine/cpf-explainer/pkg/config"
	"github.com/theapemachine/cpf-explainer/pkg/explainer"
)

var (
	showQueryFlag bool

	askCmd = &cobra.Command{
		Use:   "ask [question]",
		Short: "Ask a question about CPF retirement policy",
		Long:  longAsk,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := cfg.Validate(config.RequirePipeline...); err != nil {
				return err
			}

			ctx := cmd.Context()
			p, err := newPipeline(ctx)

			if err != nil {
				return err
			}

			exp := p.explainer(explainer.WithIndex(indexOrFallback(ctx, p.buildIndex)))

			answer := func(question string) error {
				outcome, err := exp.Explain(ctx, question)

				if err != nil {
					return err
				}

				if showQueryFlag && outcome.Query != "" {
					fmt.Fprintf(cmd.ErrOrStderr(), "%s\n\n", outcome.Query)
				}

				fmt.Fprintln(cmd.OutOrStdout(), outcome.Text)

				return nil
			}

			if len(args) > 0 {
				return answer(strings.Join(args, " "))
			}

			scanner := bufio.NewScanner(os.Stdin)
			fmt.Fprint(cmd.OutOrStdout(), "> ")

			for scanner.Scan() {
				if question := strings.TrimSpace(scanner.Text()); question != "" {
					if err := answer(question); err != nil {
						return err
					}
				}

				fmt.Fprint(cmd.OutOrStdout(), "\n> ")
			}

			return scanner.Err()
		},
	}
)

func init() {
	rootCmd.AddCommand(askCmd)
	askCmd.Flags().BoolVar(&showQueryFlag, "show-query", false, "Print the generated Cypher traversal")
}

var longAsk = `
Ask one question, or start an interactive session when no question is given.
The graph schema is read and embedded once at the start of the session.

Examples:
  cpf-explainer ask "When can I start receiving CPF LIFE payouts?"
  cpf-explainer ask --show-query
`
