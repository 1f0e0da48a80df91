package cmd

import (
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/theapemachine/cpf-explainer/pkg/config"
	"github.com/theapemachine/cpf-explainer/pkg/service"
	"github.com/theapemachine/cpf-explainer/pkg/simulator"
)

var (
	portFlag int
	hostFlag string

	serveCmd = &cobra.Command{
		Use:   "serve",
		Short: "Serve the explainer and simulator over HTTP",
		Long:  longServe,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := cfg.Validate(config.RequirePipeline...); err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			p, err := newPipeline(ctx)

			if err != nil {
				return err
			}

			if !cmd.Flags().Changed("port") {
				portFlag = cfg.Server.Port
			}

			if !cmd.Flags().Changed("host") {
				hostFlag = cfg.Server.Host
			}

			options := []service.ServerOption{
				service.WithAddr(hostFlag, portFlag),
				service.WithSessionTTL(cfg.Server.SessionTTL),
			}

			if cfg.Simulator.Expenditure != "" {
				table, err := simulator.LoadExpenditure(cfg.Simulator.Expenditure)

				if err != nil {
					return err
				}

				options = append(options, service.WithExpenditure(table))
			}

			return service.NewServer(p.explainer(), p.buildIndex, options...).Start(ctx)
		},
	}
)

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().IntVarP(&portFlag, "port", "p", 3210, "Port to serve on")
	serveCmd.Flags().StringVarP(&hostFlag, "host", "H", "0.0.0.0", "Host address to bind to")
}

var longServe = `
Serve the HTTP API:

  POST /ask        {"question": "...", "session_id": "..."}
  POST /simulate   a retirement profile; missing fields take their defaults
  GET  /events     server-sent events, one per finished question
  GET  /metrics    prometheus metrics
  GET  /livez      liveness probe

Each session id gets its own schema index, built on its first question.

Examples:
  cpf-explainer serve --port 8080
`
