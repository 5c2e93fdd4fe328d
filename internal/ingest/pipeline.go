package ingest

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/ppiankov/lacuna/internal/llm"
	"github.com/ppiankov/lacuna/internal/model"
	"github.com/ppiankov/lacuna/internal/store"
	"github.com/ppiankov/lacuna/internal/util"
)

type metadataResponse struct {
	Title    string   `json:"title"`
	Authors  []string `json:"authors"`
	Abstract string   `json:"abstract"`
}

// Validate checks the extracted metadata shape
func (r metadataResponse) Validate() error {
	if strings.TrimSpace(r.Title) == "" {
		return fmt.Errorf("empty title")
	}
	return nil
}

// Pipeline drives a paper through ingestion: text extraction, metadata
// extraction, chunking, and batched claim extraction. The paper's status
// advances uploading → extracting_text → chunking → extracting_claims →
// ready, or to error on any failure.
type Pipeline struct {
	store        *store.Store
	ex           *llm.Extractor
	claims       *ClaimExtractor
	pdf          TextExtractor
	fetcher      *Fetcher
	batchSize    int
	maxFileBytes int64
	verbose      bool
}

// NewPipeline creates an ingestion pipeline
func NewPipeline(st *store.Store, ex *llm.Extractor, cfg *model.Config) *Pipeline {
	var robots *util.RobotsChecker
	if cfg.HTTP.RespectRobots {
		robots = util.NewRobotsChecker(cfg.HTTP.UserAgent, 10*time.Second)
	}

	batchSize := cfg.Ingest.ChunkBatchSize
	if batchSize <= 0 {
		batchSize = 3
	}

	return &Pipeline{
		store:        st,
		ex:           ex,
		claims:       NewClaimExtractor(ex),
		pdf:          NewPDFExtractor(),
		fetcher:      NewFetcher(cfg.HTTP.Timeout, cfg.HTTP.UserAgent, cfg.HTTP.MaxBodyBytes, robots),
		batchSize:    batchSize,
		maxFileBytes: cfg.Ingest.MaxFileBytes,
		verbose:      cfg.Output.Verbose,
	}
}

// Input is one paper source handed to the pipeline
type Input struct {
	Data       []byte
	Filename   string
	SourceType model.SourceType
}

// IngestSource ingests a file path or URL. It satisfies the batch
// worker's Ingester interface.
func (p *Pipeline) IngestSource(ctx context.Context, source string) (*model.Paper, error) {
	if strings.HasPrefix(source, "http://") || strings.HasPrefix(source, "https://") {
		return p.ingestURL(ctx, source)
	}
	return p.IngestFile(ctx, source)
}

// IngestFile ingests a paper from a local file
func (p *Pipeline) IngestFile(ctx context.Context, path string) (*model.Paper, error) {
	sourceType, err := sourceTypeForFile(path)
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read file: %w", err)
	}

	return p.Ingest(ctx, Input{
		Data:       data,
		Filename:   filepath.Base(path),
		SourceType: sourceType,
	})
}

func (p *Pipeline) ingestURL(ctx context.Context, rawURL string) (*model.Paper, error) {
	result, err := p.fetcher.Fetch(ctx, rawURL)
	if err != nil {
		return nil, err
	}

	sourceType := model.SourceHTML
	switch {
	case strings.Contains(result.ContentType, "pdf"):
		sourceType = model.SourcePDF
	case strings.HasPrefix(result.ContentType, "text/plain"):
		sourceType = model.SourceText
	}

	return p.Ingest(ctx, Input{
		Data:       result.Body,
		Filename:   result.FinalURL,
		SourceType: sourceType,
	})
}

// Ingest runs the full ingestion pipeline for one paper
func (p *Pipeline) Ingest(ctx context.Context, in Input) (*model.Paper, error) {
	if len(in.Data) == 0 {
		return nil, &ValidationError{Reason: "input is empty"}
	}
	if p.maxFileBytes > 0 && int64(len(in.Data)) > p.maxFileBytes {
		return nil, &ValidationError{Reason: fmt.Sprintf("input exceeds %d bytes", p.maxFileBytes)}
	}

	paperID := util.NewID("paper")
	paper := model.Paper{
		ID:         paperID,
		Filename:   in.Filename,
		Title:      in.Filename,
		Authors:    []string{},
		UploadedAt: time.Now().UTC().Format(time.RFC3339),
		SourceType: in.SourceType,
		Chunks:     []model.Chunk{},
		ClaimIDs:   []string{},
		Status:     model.StatusUploading,
	}
	if err := p.store.AddPaper(paper); err != nil {
		return nil, err
	}

	result, err := p.run(ctx, paperID, in)
	if err != nil {
		if _, uerr := p.store.UpdatePaper(paperID, func(pp *model.Paper) {
			pp.Status = model.StatusError
		}); uerr != nil {
			fmt.Fprintf(os.Stderr, "Warning: failed to mark paper %s as errored: %v\n", paperID, uerr)
		}
		return nil, err
	}

	return result, nil
}

func (p *Pipeline) run(ctx context.Context, paperID string, in Input) (*model.Paper, error) {
	// 1. Extract raw text
	if _, err := p.store.UpdatePaper(paperID, func(pp *model.Paper) {
		pp.Status = model.StatusExtractingText
	}); err != nil {
		return nil, err
	}

	rawText, pageCount, err := p.extractText(in)
	if err != nil {
		return nil, err
	}

	if _, err := p.store.UpdatePaper(paperID, func(pp *model.Paper) {
		pp.RawText = rawText
		pp.PageCount = pageCount
	}); err != nil {
		return nil, err
	}

	// 2. Extract metadata via the oracle
	meta, err := llm.Extract[metadataResponse](ctx, p.ex, llm.Request{
		Prompt:       metadataExtractionPrompt(rawText),
		SystemPrompt: metadataExtractionSystem,
	})
	if err != nil {
		return nil, fmt.Errorf("extract metadata: %w", err)
	}

	paper, err := p.store.UpdatePaper(paperID, func(pp *model.Paper) {
		pp.Title = meta.Title
		pp.Authors = meta.Authors
		pp.Abstract = meta.Abstract
	})
	if err != nil {
		return nil, err
	}

	// 3. Chunk the text
	if _, err := p.store.UpdatePaper(paperID, func(pp *model.Paper) {
		pp.Status = model.StatusChunking
	}); err != nil {
		return nil, err
	}

	chunks := ChunkText(rawText, paperID)

	if _, err := p.store.UpdatePaper(paperID, func(pp *model.Paper) {
		pp.Chunks = chunks
	}); err != nil {
		return nil, err
	}

	if p.verbose {
		fmt.Fprintf(os.Stderr, "Paper %s: %d chunks\n", paperID, len(chunks))
	}

	// 4. Extract claims in concurrent batches. All chunks in a batch are
	// dispatched together and awaited before the next batch starts,
	// bounding in-flight oracle calls.
	if _, err := p.store.UpdatePaper(paperID, func(pp *model.Paper) {
		pp.Status = model.StatusExtractingClaims
	}); err != nil {
		return nil, err
	}

	paperCtx := PaperContext{Title: paper.Title, Authors: paper.Authors}
	var allClaims []model.Claim

	for start := 0; start < len(chunks); start += p.batchSize {
		end := start + p.batchSize
		if end > len(chunks) {
			end = len(chunks)
		}
		batch := chunks[start:end]

		results := make([][]model.Claim, len(batch))
		g, gctx := errgroup.WithContext(ctx)
		for i, chunk := range batch {
			i, chunk := i, chunk
			g.Go(func() error {
				claims, err := p.claims.Extract(gctx, chunk, paperCtx)
				if err != nil {
					return err
				}
				results[i] = claims
				return nil
			})
		}
		if err := g.Wait(); err != nil {
			return nil, err
		}

		for _, claims := range results {
			if err := p.store.AddClaims(claims); err != nil {
				return nil, err
			}
			allClaims = append(allClaims, claims...)
		}
	}

	claimIDs := make([]string, 0, len(allClaims))
	for _, c := range allClaims {
		claimIDs = append(claimIDs, c.ID)
	}

	paper, err = p.store.UpdatePaper(paperID, func(pp *model.Paper) {
		pp.ClaimIDs = claimIDs
		pp.Status = model.StatusReady
	})
	if err != nil {
		return nil, err
	}

	return &paper, nil
}

func (p *Pipeline) extractText(in Input) (string, int, error) {
	switch in.SourceType {
	case model.SourcePDF:
		result, err := p.pdf.ExtractText(in.Data)
		if err != nil {
			return "", 0, err
		}
		return result.Text, result.PageCount, nil

	case model.SourceHTML, model.SourceURL:
		text, err := VisibleText(string(in.Data))
		if err != nil {
			return "", 0, err
		}
		if strings.TrimSpace(text) == "" {
			return "", 0, &ExtractionError{Reason: "HTML contains no visible text"}
		}
		return text, 0, nil

	case model.SourceText:
		text := string(in.Data)
		if strings.TrimSpace(text) == "" {
			return "", 0, &ExtractionError{Reason: "text file is empty"}
		}
		return text, 0, nil

	default:
		return "", 0, &ValidationError{Reason: fmt.Sprintf("unsupported source type: %s", in.SourceType)}
	}
}

func sourceTypeForFile(path string) (model.SourceType, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".pdf":
		return model.SourcePDF, nil
	case ".txt", ".md":
		return model.SourceText, nil
	case ".html", ".htm":
		return model.SourceHTML, nil
	default:
		return "", &ValidationError{Reason: fmt.Sprintf("unsupported file type: %s", filepath.Ext(path))}
	}
}
