package model

// RawDocument is the extracted text of one ingested PDF.
type RawDocument struct {
	Source string `json:"source"`
	Order  int    `json:"order"`
	Pages  int    `json:"pages"`
	Text   string `json:"-"`
}

// TextChunk is a bounded slice of a single RawDocument.
type TextChunk struct {
	Source      string `json:"source"`
	DocumentIdx int    `json:"document_index"`
	ChunkIdx    int    `json:"chunk_index"`
	Offset      int    `json:"offset"` // in runes, from the start of the document text
	Content     string `json:"content"`
}

// RetrievedChunk is a TextChunk returned by a similarity query.
type RetrievedChunk struct {
	TextChunk
	Score float32 `json:"score"`
}
