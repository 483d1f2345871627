package domain

import "context"

// Document represents a single text file loaded from the corpus directory.
type Document struct {
	Name    string
	Path    string
	Content string
}

// Loader reads every eligible document of a corpus directory.
// Documents are returned in a stable order; that order is the tie-break
// order of the file ranking.
type Loader interface {
	Load(ctx context.Context, dir string) ([]Document, error)
}

// Splitter is the lexical collaborator: it splits text into word tokens
// and into sentences without any normalization. Segments returns the word
// boundary pieces of text, whitespace included.
type Splitter interface {
	Segments(text string) []string
	SplitWords(text string) []string
	SplitSentences(text string) []string
}

// FileMatch is a ranked corpus file.
type FileMatch struct {
	Name  string
	Score float64
}

// SentenceMatch is a ranked sentence taken from one of the winning files.
type SentenceMatch struct {
	Text       string
	File       string
	MatchedIDF float64
	Density    float64
}

// Answer is the result of running one query through both ranking phases.
type Answer struct {
	Query     []string
	Files     []FileMatch
	Sentences []SentenceMatch
}

// Texts returns the winning sentence texts in rank order.
func (a Answer) Texts() []string {
	out := make([]string, 0, len(a.Sentences))
	for _, s := range a.Sentences {
		out = append(out, s.Text)
	}
	return out
}
