package models

// RetrievalResult is one ranked chunk returned from a vector search.
// Distance is ascending: lower means more similar.
type RetrievalResult struct {
	ChunkID    string  `json:"chunk_id"`
	DocumentID string  `json:"document_id"`
	PageNumber int     `json:"page_number"`
	Text       string  `json:"text"`
	Distance   float64 `json:"distance"`
}

// Reference ties part of an answer back to a specific document and page
type Reference struct {
	DocumentID string `json:"document_id"`
	Filename   string `json:"filename"`
	PageNumber int    `json:"page_number"`
	Content    string `json:"content"`
}

// Answer is the generated response plus the references it was grounded on
type Answer struct {
	Text       string      `json:"answer"`
	References []Reference `json:"references"`
}
