package cli

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/ppiankov/lacuna/internal/ingest"
	"github.com/ppiankov/lacuna/internal/worker"
)

var (
	batchFile     string
	ingestWorkers int
	ingestTimeout time.Duration
)

// ingestCmd represents the ingest command
var ingestCmd = &cobra.Command{
	Use:   "ingest <file-or-url>...",
	Short: "Ingest papers and extract their claims",
	Long: `Ingest reads one or more papers (PDF, plain text, HTML, or URL),
extracts their text and metadata, splits them into overlapping chunks,
and extracts structured claims from every chunk with the LLM.

Ingested papers are persisted in the local store and become part of
the next analysis run.

Example:
  lacuna ingest paper.pdf
  lacuna ingest paper.pdf notes.txt https://arxiv.org/abs/2301.00001
  lacuna ingest --batch papers.txt --workers 4
  lacuna ingest paper.pdf --llm-provider anthropic`,
	RunE: runIngest,
}

func init() {
	rootCmd.AddCommand(ingestCmd)

	ingestCmd.Flags().StringVar(&batchFile, "batch", "", "file listing paper sources, one per line")
	ingestCmd.Flags().IntVar(&ingestWorkers, "workers", 0, "concurrent paper ingestions (default from config)")
	ingestCmd.Flags().DurationVar(&ingestTimeout, "timeout", 30*time.Minute, "total ingestion timeout")

	// LLM flags
	ingestCmd.Flags().StringVar(&llmProvider, "llm-provider", "", "LLM provider (openai, anthropic, ollama)")
	ingestCmd.Flags().StringVar(&llmModel, "llm-model", "", "LLM model name")
	ingestCmd.Flags().BoolVar(&noCache, "no-cache", false, "disable completion cache")
}

func runIngest(cmd *cobra.Command, args []string) error {
	if len(args) == 0 && batchFile == "" {
		return fmt.Errorf("nothing to ingest: pass paper sources or --batch <file>")
	}

	ctx, cancel := context.WithTimeout(context.Background(), ingestTimeout)
	defer cancel()

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if ingestWorkers > 0 {
		cfg.Ingest.Workers = ingestWorkers
	}

	ex, err := newExtractor(cfg)
	if err != nil {
		return err
	}

	st, err := openStore(cfg)
	if err != nil {
		return err
	}

	sources := args
	if batchFile != "" {
		fromFile, err := worker.ReadSourcesFromFile(batchFile)
		if err != nil {
			return err
		}
		sources = append(sources, fromFile...)
	}

	if verbose {
		fmt.Fprintf(os.Stderr, "Ingesting %d sources with %d workers\n\n", len(sources), cfg.Ingest.Workers)
	}

	pipeline := ingest.NewPipeline(st, ex, cfg)
	processor := worker.NewBatchProcessor(pipeline, cfg.Ingest.Workers)
	results := processor.ProcessSources(ctx, sources)

	successCount := 0
	failureCount := 0

	for _, result := range results {
		if result.Error != nil {
			failureCount++
			fmt.Fprintf(os.Stderr, "✗ %s: %v\n", result.Source, result.Error)
			continue
		}

		successCount++
		fmt.Fprintf(os.Stderr, "✓ %s (%s, %d chunks, %d claims)\n",
			result.Paper.Title, result.Paper.ID, len(result.Paper.Chunks), len(result.Paper.ClaimIDs))
	}

	fmt.Fprintf(os.Stderr, "\nIngested %d of %d papers\n", successCount, len(results))

	if failureCount > 0 {
		return fmt.Errorf("%d of %d papers failed", failureCount, len(results))
	}
	return nil
}
