// -----------------------------------------------------------------------
// PDF Extractor Service - Extract text content from PDF documents
// Uses pdfcpu for Go-native PDF processing
// -----------------------------------------------------------------------

package pdf

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
	"github.com/ternarybob/arbor"
	"github.com/ternarybob/lectio/internal/common"
	"github.com/ternarybob/lectio/internal/interfaces"
)

// Extractor implements the PDFExtractor interface using pdfcpu
type Extractor struct {
	logger  arbor.ILogger
	tempDir string
}

// Compile-time interface assertion
var _ interfaces.PDFExtractor = (*Extractor)(nil)

// NewExtractor creates a new PDF extractor service
func NewExtractor(logger arbor.ILogger) *Extractor {
	// Create a temp directory for PDF processing
	tempDir := filepath.Join(os.TempDir(), "lectio-pdf")
	os.MkdirAll(tempDir, 0755)

	return &Extractor{
		logger:  logger,
		tempDir: tempDir,
	}
}

// PageCount returns the number of pages in the PDF.
func (e *Extractor) PageCount(ctx context.Context, data []byte) (int, error) {
	workDir, err := os.MkdirTemp(e.tempDir, "count_")
	if err != nil {
		return 0, common.WrapError(common.KindStorage, "failed to create temp directory", err)
	}
	defer os.RemoveAll(workDir)

	tempFile := filepath.Join(workDir, "input.pdf")
	if err := os.WriteFile(tempFile, data, 0644); err != nil {
		return 0, common.WrapError(common.KindStorage, "failed to write temp PDF file", err)
	}

	pdfCtx, err := api.ReadContextFile(tempFile)
	if err != nil {
		return 0, common.WrapError(common.KindInvalidInput, "failed to read PDF", err)
	}

	return pdfCtx.PageCount, nil
}

// ExtractPages extracts text content by page from PDF bytes. Pages with no
// extractable text are returned with empty text so page numbering stays
// aligned with the source document.
func (e *Extractor) ExtractPages(ctx context.Context, data []byte) ([]interfaces.PDFPageContent, error) {
	workDir, err := os.MkdirTemp(e.tempDir, "extract_")
	if err != nil {
		return nil, common.WrapError(common.KindStorage, "failed to create temp directory", err)
	}
	defer os.RemoveAll(workDir)

	tempFile := filepath.Join(workDir, "input.pdf")
	if err := os.WriteFile(tempFile, data, 0644); err != nil {
		return nil, common.WrapError(common.KindStorage, "failed to write temp PDF file", err)
	}

	conf := model.NewDefaultConfiguration()
	pdfCtx, err := api.ReadContextFile(tempFile)
	if err != nil {
		return nil, common.WrapError(common.KindInvalidInput, "failed to read PDF", err)
	}

	pageCount := pdfCtx.PageCount
	pages := make([]interfaces.PDFPageContent, 0, pageCount)

	// pdfcpu has no direct text extraction, so extract the raw content
	// streams per page and decode the text operators ourselves.
	outDir := filepath.Join(workDir, "pages")
	os.MkdirAll(outDir, 0755)

	if err := api.ExtractContentFile(tempFile, outDir, nil, conf); err != nil {
		e.logger.Warn().Err(err).Msg("Failed to extract PDF content, returning empty pages")
		for pageNum := 1; pageNum <= pageCount; pageNum++ {
			pages = append(pages, interfaces.PDFPageContent{
				PageNumber: pageNum,
				Text:       "",
			})
		}
		return pages, nil
	}

	files, _ := os.ReadDir(outDir)
	pageTexts := make(map[int]string)
	for _, file := range files {
		if file.IsDir() {
			continue
		}
		content, err := os.ReadFile(filepath.Join(outDir, file.Name()))
		if err != nil {
			continue
		}
		pageNum, ok := pageNumberFromName(file.Name())
		if !ok {
			continue
		}
		pageTexts[pageNum] = decodeContentText(content)
	}

	for pageNum := 1; pageNum <= pageCount; pageNum++ {
		pages = append(pages, interfaces.PDFPageContent{
			PageNumber: pageNum,
			Text:       pageTexts[pageNum],
		})
	}

	return pages, nil
}

// pageNumberFromName parses the page number out of a pdfcpu content dump
// filename. pdfcpu prefixes each output file with the input file's basename,
// e.g. "input_Content_page_2.txt", so the "page_" marker is located anywhere
// in the name rather than at the start.
func pageNumberFromName(name string) (int, bool) {
	idx := strings.LastIndex(name, "page_")
	if idx < 0 {
		return 0, false
	}
	var pageNum int
	if _, err := fmt.Sscanf(name[idx:], "page_%d", &pageNum); err != nil {
		return 0, false
	}
	return pageNum, true
}

// decodeContentText pulls the literal strings shown by Tj/TJ/'/" operators
// out of a PDF content stream. Hex strings and CID-encoded fonts are not
// decoded; standard-encoded text (the common case for generated reports)
// comes through intact.
func decodeContentText(content []byte) string {
	var out strings.Builder
	var current strings.Builder
	inString := false
	depth := 0
	escaped := false

	flush := func() {
		text := current.String()
		current.Reset()
		if strings.TrimSpace(text) == "" {
			return
		}
		if out.Len() > 0 {
			out.WriteByte(' ')
		}
		out.WriteString(text)
	}

	for i := 0; i < len(content); i++ {
		c := content[i]
		if !inString {
			if c == '(' {
				inString = true
				depth = 1
			}
			continue
		}
		if escaped {
			switch c {
			case 'n':
				current.WriteByte('\n')
			case 't':
				current.WriteByte('\t')
			case 'r', 'b', 'f':
				// Ignored control escapes
			default:
				current.WriteByte(c)
			}
			escaped = false
			continue
		}
		switch c {
		case '\\':
			escaped = true
		case '(':
			depth++
			current.WriteByte(c)
		case ')':
			depth--
			if depth == 0 {
				inString = false
				flush()
			} else {
				current.WriteByte(c)
			}
		default:
			current.WriteByte(c)
		}
	}

	return out.String()
}
