package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"questions/internal/domain"
	"questions/internal/normalize"
	"questions/internal/tfidf"
)

// ErrNotLoaded is returned by Answer before a corpus has been loaded.
var ErrNotLoaded = errors.New("no corpus loaded")

// Options are the tunables of the two ranking phases.
type Options struct {
	FileMatches     int
	SentenceMatches int
	Workers         int
}

// Summary describes a loaded corpus.
type Summary struct {
	Dir        string
	Files      int
	Vocabulary int
	Elapsed    time.Duration
}

func (s Summary) String() string {
	return fmt.Sprintf("%d files, %d distinct terms from %s (%s)", s.Files, s.Vocabulary, s.Dir, s.Elapsed.Round(time.Millisecond))
}

// QAService runs the two-phase retrieval: files are ranked by TF-IDF over
// the whole corpus, then the sentences of the winning files are ranked
// against an IDF table computed over just those sentences.
type QAService struct {
	loader     domain.Loader
	normalizer *normalize.Normalizer
	splitter   domain.Splitter
	opts       Options
	logger     *slog.Logger

	mu    sync.RWMutex
	state *fileIndex
}

// fileIndex is the file phase: it depends only on the corpus, so it is
// built once per Load and shared by every query.
type fileIndex struct {
	summary  Summary
	contents map[string]string
	files    *tfidf.Corpus
	idf      tfidf.IDFTable
}

// NewQAService assembles the pipeline. Non-positive match counts fall back to 1.
func NewQAService(loader domain.Loader, normalizer *normalize.Normalizer, splitter domain.Splitter, opts Options, logger *slog.Logger) *QAService {
	if opts.FileMatches <= 0 {
		opts.FileMatches = 1
	}
	if opts.SentenceMatches <= 0 {
		opts.SentenceMatches = 1
	}
	if opts.Workers <= 0 {
		opts.Workers = 1
	}
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &QAService{loader: loader, normalizer: normalizer, splitter: splitter, opts: opts, logger: logger}
}

// Load reads and normalizes every document of dir and computes the
// file-scoped IDF table. A successful Load replaces any previous corpus.
func (s *QAService) Load(ctx context.Context, dir string) (Summary, error) {
	start := time.Now()
	docs, err := s.loader.Load(ctx, dir)
	if err != nil {
		return Summary{}, err
	}

	tokens := make([][]tfidf.Token, len(docs))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.opts.Workers)
	for i := range docs {
		i := i
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			tokens[i] = s.normalizer.Normalize(docs[i].Content)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return Summary{}, err
	}

	b := tfidf.NewCorpusBuilder()
	contents := make(map[string]string, len(docs))
	for i, d := range docs {
		b.Add(d.Name, tokens[i])
		contents[d.Name] = d.Content
	}
	files := b.Build()
	idf, err := tfidf.ComputeIDFConcurrent(ctx, files, s.opts.Workers)
	if err != nil {
		return Summary{}, fmt.Errorf("compute file IDF: %w", err)
	}

	summary := Summary{Dir: dir, Files: files.Len(), Vocabulary: idf.Len(), Elapsed: time.Since(start)}
	s.mu.Lock()
	s.state = &fileIndex{summary: summary, contents: contents, files: files, idf: idf}
	s.mu.Unlock()

	profile := s.normalizer.Profile()
	s.logger.Info("corpus loaded", "dir", dir, "files", summary.Files, "terms", summary.Vocabulary,
		"language", profile.Name(), "tag", profile.Tag(), "stopwords", profile.Len(), "elapsed", summary.Elapsed)
	return summary, nil
}

// Summary returns the summary of the loaded corpus.
func (s *QAService) Summary() (Summary, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.state == nil {
		return Summary{}, false
	}
	return s.state.summary, true
}

// Answer ranks the loaded files against query, then ranks the sentences of
// the winning files and returns the best ones.
func (s *QAService) Answer(ctx context.Context, query string) (domain.Answer, error) {
	s.mu.RLock()
	state := s.state
	s.mu.RUnlock()
	if state == nil {
		return domain.Answer{}, ErrNotLoaded
	}

	q := s.normalizer.Query(query)
	if q.Empty() {
		s.logger.Debug("query has no searchable words; every score is zero", "query", query)
	}
	answer := domain.Answer{Query: make([]string, 0, q.Len())}
	for _, tok := range q.Tokens() {
		answer.Query = append(answer.Query, string(tok))
	}

	rankedFiles, err := tfidf.RankFiles(q, state.files, state.idf, s.opts.FileMatches)
	if err != nil {
		return domain.Answer{}, fmt.Errorf("rank files: %w", err)
	}
	for _, f := range rankedFiles {
		answer.Files = append(answer.Files, domain.FileMatch{Name: f.Key, Score: f.Score})
	}
	s.logger.Debug("files ranked", "query", answer.Query, "files", answer.Files)

	if err := ctx.Err(); err != nil {
		return domain.Answer{}, err
	}

	sentences, source := s.sentenceCorpus(state, rankedFiles)
	if sentences.Len() == 0 {
		s.logger.Debug("winning files contain no sentences")
		return answer, nil
	}
	idf, err := tfidf.ComputeIDF(sentences)
	if err != nil {
		return domain.Answer{}, fmt.Errorf("compute sentence IDF: %w", err)
	}
	rankedSentences, err := tfidf.RankSentences(q, sentences, idf, s.opts.SentenceMatches)
	if err != nil {
		return domain.Answer{}, fmt.Errorf("rank sentences: %w", err)
	}
	for _, r := range rankedSentences {
		answer.Sentences = append(answer.Sentences, domain.SentenceMatch{
			Text:       r.Key,
			File:       source[r.Key],
			MatchedIDF: r.MatchedIDF,
			Density:    r.Density,
		})
	}
	s.logger.Debug("sentences ranked", "candidates", idf.Documents(), "returned", len(answer.Sentences))
	return answer, nil
}

// sentenceCorpus splits the winning files into sentences and keeps the ones
// with at least one token. A sentence text seen twice is kept once; source
// records the first file it came from.
func (s *QAService) sentenceCorpus(state *fileIndex, files []tfidf.FileScore) (*tfidf.Corpus, map[string]string) {
	b := tfidf.NewCorpusBuilder()
	source := make(map[string]string)
	for _, f := range files {
		for _, sentence := range s.splitter.SplitSentences(state.contents[f.Key]) {
			tokens := s.normalizer.Normalize(sentence)
			if len(tokens) == 0 {
				continue
			}
			b.Add(sentence, tokens)
			if _, ok := source[sentence]; !ok {
				source[sentence] = f.Key
			}
		}
	}
	return b.Build(), source
}
