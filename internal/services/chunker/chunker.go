package chunker

import (
	"regexp"
	"strings"

	"github.com/ternarybob/lectio/internal/common"
	"github.com/ternarybob/lectio/internal/models"
)

var (
	paragraphSplit = regexp.MustCompile(`\n\s*\n`)
	whitespaceRun  = regexp.MustCompile(`\s+`)
	disallowed     = regexp.MustCompile(`[^\w\s.,!?;:'-]`)
)

// Chunker splits per-page text into overlapping, size-bounded chunks while
// preserving 1-based page numbers for citation.
type Chunker struct {
	chunkSize int
	overlap   int
}

// New creates a chunker from chunking configuration
func New(cfg common.ChunkingConfig) *Chunker {
	size := cfg.ChunkSize
	if size <= 0 {
		size = 300
	}
	overlap := cfg.ChunkOverlap
	if overlap < 0 || overlap >= size {
		overlap = 0
	}
	return &Chunker{
		chunkSize: size,
		overlap:   overlap,
	}
}

// Clean normalizes whitespace to single spaces and strips characters outside
// the allow-list (word characters and common punctuation).
func Clean(text string) string {
	text = disallowed.ReplaceAllString(text, "")
	text = whitespaceRun.ReplaceAllString(text, " ")
	return strings.TrimSpace(text)
}

// Split chunks an ordered sequence of raw page texts. Pages are split on
// blank-line boundaries into paragraphs before cleaning, so paragraph
// structure survives whitespace normalization. Empty pages and paragraphs
// that clean to nothing produce no chunks; an empty document produces an
// empty slice, not an error.
func (c *Chunker) Split(pages []string) []models.Chunk {
	chunks := []models.Chunk{}

	for i, page := range pages {
		pageNumber := i + 1

		for _, paragraph := range paragraphSplit.Split(page, -1) {
			cleaned := Clean(paragraph)
			if cleaned == "" {
				continue
			}

			if len(cleaned) <= c.chunkSize {
				chunks = append(chunks, models.Chunk{Text: cleaned, PageNumber: pageNumber})
				continue
			}

			chunks = append(chunks, c.slide(cleaned, pageNumber)...)
		}
	}

	return chunks
}

// slide greedily slices an over-length paragraph into windows of chunkSize,
// breaking at the last whitespace at or before the window end and advancing
// by chunkSize-overlap so consecutive chunks share an overlap region.
func (c *Chunker) slide(paragraph string, pageNumber int) []models.Chunk {
	var chunks []models.Chunk

	start := 0
	for start < len(paragraph) {
		end := start + c.chunkSize
		if end < len(paragraph) {
			// Prefer a whitespace boundary; fall back to a hard cut when a
			// single word spans the whole window.
			if cut := strings.LastIndex(paragraph[start:end], " "); cut > 0 {
				end = start + cut
			}
		} else {
			end = len(paragraph)
		}

		if text := strings.TrimSpace(paragraph[start:end]); text != "" {
			chunks = append(chunks, models.Chunk{Text: text, PageNumber: pageNumber})
		}

		if end >= len(paragraph) {
			break
		}

		next := end - c.overlap
		if next <= start {
			// Overlap would not advance the cursor; move to the window end
			next = end
		}
		start = next
	}

	return chunks
}
