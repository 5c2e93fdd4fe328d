package ingest

import "fmt"

// ValidationError indicates malformed external input (unsupported file
// type, oversized or empty input). It is caller-facing and not retryable.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string {
	return e.Reason
}

// ExtractionError indicates text could not be extracted from a source
// document
type ExtractionError struct {
	Reason string
	Err    error
}

func (e *ExtractionError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Reason, e.Err)
	}
	return e.Reason
}

func (e *ExtractionError) Unwrap() error {
	return e.Err
}

// ClaimExtractionError wraps a claim extraction failure with the chunk
// it happened on. It aborts the whole paper's ingestion.
type ClaimExtractionError struct {
	ChunkID string
	Err     error
}

func (e *ClaimExtractionError) Error() string {
	return fmt.Sprintf("extract claims from chunk %s: %v", e.ChunkID, e.Err)
}

func (e *ClaimExtractionError) Unwrap() error {
	return e.Err
}
