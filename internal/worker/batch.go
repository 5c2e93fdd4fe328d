package worker

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/ppiankov/lacuna/internal/model"
)

// Ingester defines the interface for ingesting a single paper source
// (a file path or URL)
type Ingester interface {
	IngestSource(ctx context.Context, source string) (*model.Paper, error)
}

// IngestJob represents one paper ingestion job
type IngestJob struct {
	Source   string
	Ingester Ingester
}

// Execute executes the ingestion job
func (j *IngestJob) Execute(ctx context.Context) Result {
	paper, err := j.Ingester.IngestSource(ctx, j.Source)
	return &IngestResult{
		Source: j.Source,
		Paper:  paper,
		Error:  err,
	}
}

// IngestResult represents the result of an ingestion job
type IngestResult struct {
	Source string
	Paper  *model.Paper
	Error  error
}

// GetError returns the error from the ingestion result
func (r *IngestResult) GetError() error {
	return r.Error
}

// BatchProcessor ingests multiple paper sources concurrently
type BatchProcessor struct {
	ingester    Ingester
	concurrency int
}

// NewBatchProcessor creates a new batch processor
func NewBatchProcessor(ingester Ingester, concurrency int) *BatchProcessor {
	return &BatchProcessor{
		ingester:    ingester,
		concurrency: concurrency,
	}
}

// ProcessSources ingests multiple sources concurrently
func (b *BatchProcessor) ProcessSources(ctx context.Context, sources []string) []*IngestResult {
	if len(sources) == 0 {
		return []*IngestResult{}
	}

	pool := NewPool(b.concurrency)
	pool.Start()

	for _, source := range sources {
		pool.Submit(&IngestJob{
			Source:   source,
			Ingester: b.ingester,
		})
	}

	results := pool.Wait()

	ingestResults := make([]*IngestResult, len(results))
	for i, result := range results {
		ingestResults[i] = result.(*IngestResult)
	}

	return ingestResults
}

// ProcessFile reads sources from a list file and ingests them concurrently
func (b *BatchProcessor) ProcessFile(ctx context.Context, listPath string) ([]*IngestResult, error) {
	sources, err := ReadSourcesFromFile(listPath)
	if err != nil {
		return nil, fmt.Errorf("read sources: %w", err)
	}

	return b.ProcessSources(ctx, sources), nil
}

// ReadSourcesFromFile reads paper sources from a file (one per line).
// Empty lines and lines starting with # are skipped; duplicates are dropped.
func ReadSourcesFromFile(listPath string) ([]string, error) {
	file, err := os.Open(listPath)
	if err != nil {
		return nil, fmt.Errorf("open file: %w", err)
	}
	defer func() { _ = file.Close() }()

	var sources []string
	seen := make(map[string]bool)

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())

		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		if !seen[line] {
			seen[line] = true
			sources = append(sources, line)
		}
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scan file: %w", err)
	}

	return sources, nil
}
