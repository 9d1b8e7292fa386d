package interfaces

import "context"

// PDFPageContent represents extracted content from a single PDF page
type PDFPageContent struct {
	PageNumber int    `json:"page_number"`
	Text       string `json:"text"`
}

// PDFExtractor extracts text content from PDF documents. The interface
// abstracts the extraction backend so implementations can be swapped.
type PDFExtractor interface {
	// ExtractPages extracts per-page text from raw PDF bytes, in page order
	ExtractPages(ctx context.Context, data []byte) ([]PDFPageContent, error)

	// PageCount returns the number of pages without extracting text
	PageCount(ctx context.Context, data []byte) (int, error)
}
