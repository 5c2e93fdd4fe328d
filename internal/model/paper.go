package model

// PaperStatus tracks a paper through the ingestion pipeline
type PaperStatus string

const (
	StatusUploading        PaperStatus = "uploading"
	StatusExtractingText   PaperStatus = "extracting_text"
	StatusChunking         PaperStatus = "chunking"
	StatusExtractingClaims PaperStatus = "extracting_claims"
	StatusReady            PaperStatus = "ready"
	StatusError            PaperStatus = "error"
)

// SourceType identifies how a paper's text was obtained
type SourceType string

const (
	SourcePDF  SourceType = "pdf"
	SourceText SourceType = "text"
	SourceHTML SourceType = "html"
	SourceURL  SourceType = "url"
)

// Chunk is a bounded-size segment of a paper's text.
// Chunks are immutable once created and ordered by ChunkIndex;
// overlap regions share offsets with the neighboring chunk.
type Chunk struct {
	ID            string `json:"id"`
	PaperID       string `json:"paper_id"`
	Content       string `json:"content"`
	StartOffset   int    `json:"start_offset"`
	EndOffset     int    `json:"end_offset"`
	ChunkIndex    int    `json:"chunk_index"`
	TokenEstimate int    `json:"token_estimate"`
}

// Paper represents an ingested academic paper
type Paper struct {
	ID         string      `json:"id"`
	Filename   string      `json:"filename"`
	Title      string      `json:"title"`
	Authors    []string    `json:"authors"`
	Abstract   string      `json:"abstract"`
	UploadedAt string      `json:"uploaded_at"` // RFC 3339
	SourceType SourceType  `json:"source_type"`
	RawText    string      `json:"raw_text"`
	PageCount  int         `json:"page_count,omitempty"`
	Chunks     []Chunk     `json:"chunks"`
	ClaimIDs   []string    `json:"claim_ids"`
	Status     PaperStatus `json:"status"`
}
