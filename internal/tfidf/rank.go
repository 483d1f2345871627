package tfidf

import (
	"fmt"
	"sort"
)

// FileScore is a file key with its summed TF-IDF score.
type FileScore struct {
	Key   string
	Score float64
}

// SentenceScore is a sentence key with both of its ranking keys.
type SentenceScore struct {
	Key        string
	MatchedIDF float64
	Density    float64
}

// RankFiles scores every file by the sum, over query tokens known to idf,
// of term frequency times IDF, and returns the best n in descending score
// order. Equal scores keep corpus order.
func RankFiles(q Query, files *Corpus, idf IDFTable, n int) ([]FileScore, error) {
	if n < 1 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidLimit, n)
	}
	if files == nil {
		return nil, nil
	}
	scores := make([]FileScore, len(files.docs))
	for i, d := range files.docs {
		score := 0.0
		for _, tok := range q.tokens {
			v, ok := idf.Lookup(tok)
			if !ok {
				continue
			}
			score += float64(d.Count(tok)) * v
		}
		scores[i] = FileScore{Key: d.Key(), Score: score}
	}
	sort.SliceStable(scores, func(i, j int) bool { return scores[i].Score > scores[j].Score })
	return scores[:min(n, len(scores))], nil
}

// TopFiles returns the keys of the n best files for q.
func TopFiles(q Query, files *Corpus, idf IDFTable, n int) ([]string, error) {
	ranked, err := RankFiles(q, files, idf, n)
	if err != nil {
		return nil, err
	}
	out := make([]string, len(ranked))
	for i, r := range ranked {
		out[i] = r.Key
	}
	return out, nil
}

// RankSentences scores every sentence by the summed IDF of the distinct
// query tokens it contains, breaking ties by query term density (query
// token occurrences over sentence length). Sentences equal on both keys
// keep corpus order. Every sentence must have at least one token.
func RankSentences(q Query, sentences *Corpus, idf IDFTable, n int) ([]SentenceScore, error) {
	if n < 1 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidLimit, n)
	}
	if sentences == nil {
		return nil, nil
	}
	for _, d := range sentences.docs {
		if d.Len() == 0 {
			return nil, fmt.Errorf("%w: %q", ErrEmptyDocument, d.Key())
		}
	}

	scores := make([]SentenceScore, len(sentences.docs))
	for i, d := range sentences.docs {
		matched := 0.0
		hits := 0
		for _, tok := range q.tokens {
			if !d.Contains(tok) {
				continue
			}
			hits += d.Count(tok)
			if v, ok := idf.Lookup(tok); ok {
				matched += v
			}
		}
		scores[i] = SentenceScore{
			Key:        d.Key(),
			MatchedIDF: matched,
			Density:    float64(hits) / float64(d.Len()),
		}
	}
	sort.SliceStable(scores, func(i, j int) bool {
		if scores[i].MatchedIDF != scores[j].MatchedIDF {
			return scores[i].MatchedIDF > scores[j].MatchedIDF
		}
		return scores[i].Density > scores[j].Density
	})
	return scores[:min(n, len(scores))], nil
}

// TopSentences returns the keys of the n best sentences for q.
func TopSentences(q Query, sentences *Corpus, idf IDFTable, n int) ([]string, error) {
	ranked, err := RankSentences(q, sentences, idf, n)
	if err != nil {
		return nil, err
	}
	out := make([]string, len(ranked))
	for i, r := range ranked {
		out[i] = r.Key
	}
	return out, nil
}
