package app

import "errors"

var ErrInvalidInput = errors.New("invalid input")

// PreconditionMessage is shown when a question arrives before the index exists.
const PreconditionMessage = "Please initialize the document embeddings first by clicking the 'Documents Embedding' button."
