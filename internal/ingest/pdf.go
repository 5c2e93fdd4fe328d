package ingest

import (
	"bytes"
	"io"
	"strings"

	"github.com/ledongthuc/pdf"
)

// TextExtraction is the result of extracting plain text from a document
type TextExtraction struct {
	Text      string
	PageCount int
}

// TextExtractor extracts plain text from raw document bytes
type TextExtractor interface {
	ExtractText(data []byte) (*TextExtraction, error)
}

// PDFExtractor implements TextExtractor for PDF documents
type PDFExtractor struct{}

// NewPDFExtractor creates a new PDF text extractor
func NewPDFExtractor() *PDFExtractor {
	return &PDFExtractor{}
}

// ExtractText extracts the plain text of a PDF, failing if the document
// contains no extractable text (e.g. scanned images)
func (e *PDFExtractor) ExtractText(data []byte) (*TextExtraction, error) {
	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, &ExtractionError{Reason: "parse PDF", Err: err}
	}

	plain, err := reader.GetPlainText()
	if err != nil {
		return nil, &ExtractionError{Reason: "extract PDF text", Err: err}
	}

	var buf bytes.Buffer
	if _, err := io.Copy(&buf, plain); err != nil {
		return nil, &ExtractionError{Reason: "read PDF text", Err: err}
	}

	text := buf.String()
	if strings.TrimSpace(text) == "" {
		return nil, &ExtractionError{Reason: "PDF contains no extractable text"}
	}

	return &TextExtraction{
		Text:      text,
		PageCount: reader.NumPage(),
	}, nil
}
