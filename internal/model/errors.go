package model

import "errors"

// Error taxonomy shared by every component. Callers classify with errors.Is.
var (
	ErrConfiguration     = errors.New("configuration error")
	ErrIngestion         = errors.New("ingestion error")
	ErrEmbeddingService  = errors.New("embedding service error")
	ErrCompletionService = errors.New("completion service error")
	ErrPrecondition      = errors.New("precondition error")
)
