package ingest

import (
	"fmt"
	"strings"
)

const claimExtractionSystem = "You are an expert academic researcher. Extract claims precisely from the provided text. Return valid JSON only."

const metadataExtractionSystem = "You are an expert at parsing academic papers. Extract metadata precisely. Return valid JSON only."

func claimExtractionPrompt(chunkText, paperTitle string, authors []string) string {
	return fmt.Sprintf(`Extract all distinct claims from the following text chunk of the paper %q by %s.

For each claim, identify:
- type: one of "assertion", "methodology", "finding", or "citation"
- statement: the core claim in one sentence
- evidence: the supporting text from the chunk
- confidence: "high", "medium", or "low" based on how strongly the text supports the claim
- metadata: optional fields including section, cited_sources (array of cited references), and methodology

Return a JSON array of claims. If no claims can be extracted, return an empty array.

Text chunk:
"""
%s
"""

Respond with ONLY a JSON object in this exact format:
{
  "claims": [
    {
      "type": "finding",
      "statement": "...",
      "evidence": "...",
      "confidence": "high",
      "metadata": {
        "section": "...",
        "cited_sources": ["..."],
        "methodology": "..."
      }
    }
  ]
}`, paperTitle, strings.Join(authors, ", "), chunkText)
}

func metadataExtractionPrompt(text string) string {
	preview := text
	if len(preview) > 3000 {
		preview = preview[:3000]
	}

	return fmt.Sprintf(`Extract the metadata from the beginning of this academic paper.

Text (first ~3000 characters):
"""
%s
"""

Respond with ONLY a JSON object in this exact format:
{
  "title": "The full title of the paper",
  "authors": ["Author One", "Author Two"],
  "abstract": "The full abstract text, or empty string if not found"
}`, preview)
}
