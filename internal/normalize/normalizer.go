package normalize

import (
	"strings"
	"unicode"

	"questions/internal/domain"
	"questions/internal/language"
	"questions/internal/tfidf"
)

// Normalizer turns raw text into the token sequence both ranking phases
// compare: case-folded words with stopwords and punctuation removed.
// It holds no mutable state and is safe for concurrent use.
type Normalizer struct {
	splitter domain.Splitter
	profile  *language.Profile
}

// Segment is one word-boundary piece of a text and the token it
// normalizes to. Token is empty for whitespace, punctuation and stopwords.
type Segment struct {
	Text  string
	Token tfidf.Token
}

// New returns a normalizer using the given splitter and language profile.
func New(splitter domain.Splitter, profile *language.Profile) *Normalizer {
	return &Normalizer{splitter: splitter, profile: profile}
}

// Profile returns the language profile the normalizer filters against.
func (n *Normalizer) Profile() *language.Profile { return n.profile }

// Normalize folds text, splits it into words and drops stopwords and
// punctuation-only tokens. Order and repetition are preserved.
func (n *Normalizer) Normalize(text string) []tfidf.Token {
	if text == "" {
		return nil
	}
	var out []tfidf.Token
	for _, w := range n.splitter.SplitWords(n.profile.Fold(text)) {
		if n.drop(w) {
			continue
		}
		out = append(out, tfidf.Token(w))
	}
	return out
}

// Segments splits text on word boundaries and pairs each piece with the
// token Normalize would produce for it, so callers can map tokens back to
// the original spelling.
func (n *Normalizer) Segments(text string) []Segment {
	segs := n.splitter.Segments(text)
	out := make([]Segment, len(segs))
	for i, seg := range segs {
		out[i].Text = seg
		if w := n.profile.Fold(seg); !n.drop(w) {
			out[i].Token = tfidf.Token(w)
		}
	}
	return out
}

// Query normalizes text into a deduplicated query.
func (n *Normalizer) Query(text string) tfidf.Query {
	return tfidf.NewQuery(n.Normalize(text))
}

func (n *Normalizer) drop(w string) bool {
	return strings.TrimSpace(w) == "" || isPunctuation(w) || n.profile.IsStopword(w)
}

func isPunctuation(s string) bool {
	for _, r := range s {
		if !unicode.IsPunct(r) && !unicode.IsSymbol(r) {
			return false
		}
	}
	return true
}
