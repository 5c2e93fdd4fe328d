package ingest

import (
	"regexp"
	"strings"

	"github.com/ppiankov/lacuna/internal/model"
	"github.com/ppiankov/lacuna/internal/util"
)

// Token estimates use a fixed 4-characters-per-token heuristic; exact
// tokenizer counts are not needed for chunk sizing.
const (
	targetTokens  = 800
	overlapTokens = 100
	charsPerToken = 4

	targetChars  = targetTokens * charsPerToken
	overlapChars = overlapTokens * charsPerToken
)

var paragraphSplit = regexp.MustCompile(`\n\s*\n`)

// ChunkText splits raw document text into overlapping bounded-size
// chunks. Paragraphs (blank-line delimited) are accumulated greedily;
// when the next paragraph would push the buffer past the target size
// the buffer is closed out and the last ~100 tokens seed the next
// chunk to preserve context continuity. Offsets index into text and
// are best-effort: overlap regions share offsets with the neighbor.
func ChunkText(text, paperID string) []model.Chunk {
	if strings.TrimSpace(text) == "" {
		return nil
	}

	var paragraphs []string
	for _, p := range paragraphSplit.Split(text, -1) {
		if strings.TrimSpace(p) != "" {
			paragraphs = append(paragraphs, p)
		}
	}
	if len(paragraphs) == 0 {
		return nil
	}

	var chunks []model.Chunk
	current := ""
	currentStart := 0
	chunkIndex := 0
	offset := 0

	for _, paragraph := range paragraphs {
		paragraphStart := -1
		if idx := strings.Index(text[offset:], paragraph); idx >= 0 {
			paragraphStart = offset + idx
			offset = paragraphStart
		}

		if len(current) > 0 && len(current)+len(paragraph) > targetChars {
			chunks = append(chunks, newChunk(current, currentStart, paperID, chunkIndex))
			chunkIndex++

			overlap := current
			if len(overlap) > overlapChars {
				overlap = overlap[len(overlap)-overlapChars:]
			}
			currentStart = currentStart + len(current) - len(overlap)
			current = overlap
		}

		if len(current) == 0 {
			if paragraphStart >= 0 {
				currentStart = paragraphStart
			} else {
				currentStart = offset
			}
			current = paragraph
		} else {
			current += "\n\n" + paragraph
		}
	}

	if strings.TrimSpace(current) != "" {
		chunks = append(chunks, newChunk(current, currentStart, paperID, chunkIndex))
	}

	return chunks
}

func newChunk(content string, startOffset int, paperID string, chunkIndex int) model.Chunk {
	return model.Chunk{
		ID:            util.NewID("chunk"),
		PaperID:       paperID,
		Content:       content,
		StartOffset:   startOffset,
		EndOffset:     startOffset + len(content),
		ChunkIndex:    chunkIndex,
		TokenEstimate: (len(content) + charsPerToken - 1) / charsPerToken,
	}
}
