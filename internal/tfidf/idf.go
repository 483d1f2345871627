package tfidf

import (
	"context"
	"math"

	"golang.org/x/sync/errgroup"
)

// IDFTable maps every token observed in a corpus to ln(N / df).
// It is scoped to the corpus it was computed over and is read-only.
type IDFTable struct {
	values map[Token]float64
	docs   int
}

// Lookup returns the IDF of t. ok is false when t never occurred in the
// corpus; such tokens score zero.
func (t IDFTable) Lookup(tok Token) (float64, bool) {
	v, ok := t.values[tok]
	return v, ok
}

// Len returns the vocabulary size.
func (t IDFTable) Len() int { return len(t.values) }

// Documents returns the number of documents the table was computed over.
func (t IDFTable) Documents() int { return t.docs }

// ComputeIDF computes the inverse document frequency of every token in c.
// Document frequency counts documents, not occurrences.
func ComputeIDF(c *Corpus) (IDFTable, error) {
	if c == nil || c.Len() == 0 {
		return IDFTable{}, ErrEmptyCorpus
	}
	return newIDFTable(documentFrequency(c.docs), c.Len()), nil
}

// ComputeIDFConcurrent computes the same table as ComputeIDF, splitting the
// documents across up to workers goroutines. Each worker counts document
// frequencies into its own map and the maps are summed afterwards.
func ComputeIDFConcurrent(ctx context.Context, c *Corpus, workers int) (IDFTable, error) {
	if c == nil || c.Len() == 0 {
		return IDFTable{}, ErrEmptyCorpus
	}
	if workers <= 1 || c.Len() < 2 {
		return ComputeIDF(c)
	}
	if workers > c.Len() {
		workers = c.Len()
	}

	partials := make([]map[Token]int, workers)
	size := (c.Len() + workers - 1) / workers
	g, ctx := errgroup.WithContext(ctx)
	for w := 0; w < workers; w++ {
		w := w
		lo := w * size
		hi := min(lo+size, c.Len())
		if lo >= hi {
			continue
		}
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			partials[w] = documentFrequency(c.docs[lo:hi])
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return IDFTable{}, err
	}

	df := make(map[Token]int)
	for _, p := range partials {
		for tok, n := range p {
			df[tok] += n
		}
	}
	return newIDFTable(df, c.Len()), nil
}

func documentFrequency(docs []Document) map[Token]int {
	df := make(map[Token]int)
	for _, d := range docs {
		// counts holds each distinct token once
		for tok := range d.counts {
			df[tok]++
		}
	}
	return df
}

func newIDFTable(df map[Token]int, docs int) IDFTable {
	n := float64(docs)
	values := make(map[Token]float64, len(df))
	for tok, f := range df {
		values[tok] = math.Log(n / float64(f))
	}
	return IDFTable{values: values, docs: docs}
}
