package models

import "time"

// Document holds the metadata for one uploaded file. Created on upload,
// immutable afterwards except deletion.
type Document struct {
	ID        string    `json:"id" badgerhold:"key"`
	Filename  string    `json:"filename"`
	Size      int64     `json:"size"`
	PageCount int       `json:"page_count"`
	CreatedAt time.Time `json:"created_at"`
}

// Chunk is a bounded span of cleaned page text produced by the chunker,
// before embedding. PageNumber is 1-based.
type Chunk struct {
	Text       string `json:"text"`
	PageNumber int    `json:"page_number"`
}

// ChunkRecord is a chunk as persisted in the vector index. ID is derived as
// "{document_id}_chunk_{index}" and is stable across re-ingestion.
type ChunkRecord struct {
	ID         string    `json:"id" badgerhold:"key"`
	DocumentID string    `json:"document_id" badgerhold:"index"`
	Index      int       `json:"index"`
	PageNumber int       `json:"page_number"`
	Text       string    `json:"text"`
	Embedding  []float32 `json:"embedding"`
}
