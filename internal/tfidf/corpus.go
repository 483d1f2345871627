package tfidf

import "sort"

// Token is a normalized word.
type Token string

// Document is a keyed token multiset. Token counts are computed once at
// construction; the document is read-only afterwards.
type Document struct {
	key    string
	tokens []Token
	counts map[Token]int
}

func newDocument(key string, tokens []Token) Document {
	own := make([]Token, len(tokens))
	copy(own, tokens)
	counts := make(map[Token]int, len(own))
	for _, t := range own {
		counts[t]++
	}
	return Document{key: key, tokens: own, counts: counts}
}

// Key returns the document identifier (file name or sentence text).
func (d Document) Key() string { return d.key }

// Len returns the number of tokens, counting repeats.
func (d Document) Len() int { return len(d.tokens) }

// Count returns how many times t occurs in the document.
func (d Document) Count(t Token) int { return d.counts[t] }

// Contains reports whether t occurs at least once.
func (d Document) Contains(t Token) bool { return d.counts[t] > 0 }

// Entry is one keyed token sequence used to build a Corpus.
type Entry struct {
	Key    string
	Tokens []Token
}

// Corpus is an ordered set of documents with unique keys. Insertion order
// is preserved and is the tie-break order for ranking.
type Corpus struct {
	docs []Document
}

// NewCorpus builds a corpus from entries in order. A repeated key replaces
// the earlier tokens but keeps the earlier position.
func NewCorpus(entries []Entry) *Corpus {
	b := NewCorpusBuilder()
	for _, e := range entries {
		b.Add(e.Key, e.Tokens)
	}
	return b.Build()
}

// CorpusBuilder accumulates documents for a Corpus.
type CorpusBuilder struct {
	entries []Entry
	index   map[string]int
}

// NewCorpusBuilder returns an empty builder.
func NewCorpusBuilder() *CorpusBuilder {
	return &CorpusBuilder{index: make(map[string]int)}
}

// Add appends a document, or replaces the tokens of an existing key in place.
func (b *CorpusBuilder) Add(key string, tokens []Token) {
	if i, ok := b.index[key]; ok {
		b.entries[i].Tokens = tokens
		return
	}
	b.index[key] = len(b.entries)
	b.entries = append(b.entries, Entry{Key: key, Tokens: tokens})
}

// Build freezes the accumulated documents into a Corpus. The builder may
// keep being used; later additions do not affect the returned corpus.
func (b *CorpusBuilder) Build() *Corpus {
	c := &Corpus{docs: make([]Document, len(b.entries))}
	for i, e := range b.entries {
		c.docs[i] = newDocument(e.Key, e.Tokens)
	}
	return c
}

// Len returns the number of documents.
func (c *Corpus) Len() int { return len(c.docs) }

// Query is a deduplicated set of tokens. Tokens are kept sorted so that
// score sums are always accumulated in the same order.
type Query struct {
	tokens []Token
}

// NewQuery builds a query from tokens, dropping duplicates and empty tokens.
func NewQuery(tokens []Token) Query {
	seen := make(map[Token]struct{}, len(tokens))
	out := make([]Token, 0, len(tokens))
	for _, t := range tokens {
		if t == "" {
			continue
		}
		if _, ok := seen[t]; ok {
			continue
		}
		seen[t] = struct{}{}
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return Query{tokens: out}
}

// Tokens returns the query tokens in sorted order.
func (q Query) Tokens() []Token {
	out := make([]Token, len(q.tokens))
	copy(out, q.tokens)
	return out
}

// Len returns the number of distinct query tokens.
func (q Query) Len() int { return len(q.tokens) }

// Empty reports whether the query has no tokens.
func (q Query) Empty() bool { return len(q.tokens) == 0 }
