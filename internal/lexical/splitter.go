package lexical

import (
	"fmt"
	"strings"

	"github.com/neurosnap/sentences"
	"github.com/neurosnap/sentences/english"
	"github.com/rivo/uniseg"
)

// Splitter splits raw text into words and sentences. It does no case
// folding or filtering; that is the normalizer's job.
type Splitter struct {
	sentences *sentences.DefaultSentenceTokenizer
}

// NewSplitter returns a splitter that segments words on Unicode word
// boundaries and sentences with the English punkt model, which knows
// common abbreviations such as "Dr." and "e.g.".
func NewSplitter() (*Splitter, error) {
	tok, err := english.NewSentenceTokenizer(nil)
	if err != nil {
		return nil, fmt.Errorf("load english sentence model: %w", err)
	}
	return &Splitter{sentences: tok}, nil
}

// Segments returns every word-boundary segment of text, whitespace
// included, so that joining the result gives back text.
func (s *Splitter) Segments(text string) []string {
	var out []string
	state := -1
	var seg string
	for len(text) > 0 {
		seg, text, state = uniseg.FirstWordInString(text, state)
		out = append(out, seg)
	}
	return out
}

// SplitWords returns the word and punctuation tokens of text in order.
// Inner apostrophes ("don't") and numeric separators ("3.14", "1,000")
// stay inside a word; every punctuation mark is a token of its own.
func (s *Splitter) SplitWords(text string) []string {
	var out []string
	for _, seg := range s.Segments(text) {
		if strings.TrimSpace(seg) == "" {
			continue
		}
		out = append(out, seg)
	}
	return out
}

// SplitSentences splits text into passages on line breaks and each passage
// into sentences. Sentences are trimmed; empty ones are dropped.
func (s *Splitter) SplitSentences(text string) []string {
	var out []string
	for _, passage := range strings.Split(text, "\n") {
		if strings.TrimSpace(passage) == "" {
			continue
		}
		for _, sent := range s.sentences.Tokenize(passage) {
			if t := strings.TrimSpace(sent.Text); t != "" {
				out = append(out, t)
			}
		}
	}
	return out
}
