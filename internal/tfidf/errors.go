package tfidf

import "errors"

var (
	// ErrEmptyCorpus is returned when IDF is requested over zero documents.
	ErrEmptyCorpus = errors.New("tfidf: corpus has no documents")
	// ErrEmptyDocument is returned when a zero-token sentence reaches the
	// density computation. Callers must drop such sentences beforehand.
	ErrEmptyDocument = errors.New("tfidf: document has no tokens")
	// ErrInvalidLimit is returned for a non-positive result count.
	ErrInvalidLimit = errors.New("tfidf: result limit must be positive")
)
