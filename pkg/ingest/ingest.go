package ingest

import (
	"context"
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"github.com/theapemachine/cpf-explainer/pkg/errors"
	"github.com/theapemachine/cpf-explainer/pkg/graph"
	"github.com/theapemachine/cpf-explainer/pkg/prompts"
	"github.com/theapemachine/cpf-explainer/pkg/provider"
)

/*
Report summarises an ingestion run.
*/
type Report struct {
	RunID   string `json:"run_id"`
	Entries int    `json:"entries"`
	Chunks  int    `json:"chunks"`
	Nodes   int    `json:"nodes"`
	Edges   int    `json:"edges"`
	Failed  int    `json:"failed"`

	failures []error
}

/*
Err aggregates the chunk failures of the run, or returns nil when every
chunk was written.
*/
func (report Report) Err() error {
	if len(report.failures) == 0 {
		return nil
	}

	errs := []any{fmt.Sprintf("%d of %d chunks failed", report.Failed, report.Chunks)}

	for _, failure := range report.failures {
		errs = append(errs, failure)
	}

	return errors.NewError(errs...)
}

/*
Ingester turns corpus entries into graph writes.
*/
type Ingester struct {
	completer provider.Completer
	writer    graph.Writer
	chunker   *Chunker
	prompts   *prompts.Manager
}

func New(
	completer provider.Completer, writer graph.Writer, chunker *Chunker, manager *prompts.Manager,
) *Ingester {
	if manager == nil {
		manager = prompts.Default()
	}

	return &Ingester{
		completer: completer,
		writer:    writer,
		chunker:   chunker,
		prompts:   manager,
	}
}

/*
Run processes entries in order. A chunk that fails extraction or writing is
logged and counted, and the run carries on; only a cancelled context stops it.
The failures are available afterwards from Report.Err.
*/
func (ingester *Ingester) Run(ctx context.Context, entries []Entry) (Report, error) {
	report := Report{RunID: uuid.NewString()}
	logger := log.With("run", report.RunID)

	for idx, entry := range entries {
		if err := ctx.Err(); err != nil {
			return report, err
		}

		report.Entries++
		chunks := ingester.chunker.Split(PlainText(entry.Content))

		for _, chunk := range chunks {
			report.Chunks++
			doc, err := ingester.extract(ctx, chunk, entry.URL)

			if err == nil {
				err = ingester.writer.WriteDocument(ctx, doc)
			}

			if err != nil {
				report.Failed++
				report.failures = append(report.failures, fmt.Errorf("%s: %w", entry.URL, err))
				logger.Warn("chunk skipped", "url", entry.URL, "error", err)

				continue
			}

			report.Nodes += len(doc.Nodes)
			report.Edges += len(doc.Edges)
		}

		logger.Info("entry ingested", "n", idx+1, "of", len(entries), "url", entry.URL, "chunks", len(chunks))
	}

	return report, nil
}

func (ingester *Ingester) extract(ctx context.Context, chunk, url string) (graph.Document, error) {
	prompt, err := ingester.prompts.Render(prompts.Extraction, map[string]string{"Content": chunk})

	if err != nil {
		return graph.Document{}, err
	}

	answer, err := ingester.completer.Complete(ctx, prompt)

	if err != nil {
		return graph.Document{}, fmt.Errorf("extraction call failed: %w", err)
	}

	extraction, err := ParseExtraction(answer)

	if err != nil {
		return graph.Document{}, err
	}

	return extraction.Document(url), nil
}
