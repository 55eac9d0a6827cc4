// Package corpus holds the aggregate term statistics of a chunked text: one
// term-frequency table per document plus the corpus-wide document frequency
// of every term. Documents are appended in input order and never removed.
package corpus

import (
	"fmt"

	"github.com/Adithya-Monish-Kumar-K/chunk-tfidf/internal/tokenizer"
	apperrors "github.com/Adithya-Monish-Kumar-K/chunk-tfidf/pkg/errors"
)

// TermCounts maps a term to its number of occurrences in one document.
type TermCounts map[string]int

// Statistics is owned by a single ingesting goroutine until Seal is called;
// after that it is read-only and safe to share between scorers.
type Statistics struct {
	documentFrequency map[string]int
	termFrequencies   []TermCounts
	nDocuments        int
	nTokens           int64
	sealed            bool
}

func New() *Statistics {
	return &Statistics{
		documentFrequency: make(map[string]int),
	}
}

// Ingest tokenizes text as the next document and folds it into the corpus.
// A term occurring many times in text adds one to its document frequency.
func (s *Statistics) Ingest(text string) error {
	if s.sealed {
		return fmt.Errorf("ingesting document %d: %w", s.nDocuments+1, apperrors.ErrCorpusSealed)
	}
	tokens := tokenizer.Tokenize(text)

	counts := make(TermCounts)
	for _, term := range tokens {
		counts[term]++
	}
	for term := range counts {
		s.documentFrequency[term]++
	}
	s.termFrequencies = append(s.termFrequencies, counts)
	s.nDocuments++
	s.nTokens += int64(len(tokens))
	return nil
}

// Seal closes the corpus. Further Ingest calls fail. Sealing twice is a no-op.
func (s *Statistics) Seal() {
	s.sealed = true
}

func (s *Statistics) Sealed() bool {
	return s.sealed
}

func (s *Statistics) NDocuments() int {
	return s.nDocuments
}

// NTokens is the total number of tokens ingested across all documents.
func (s *Statistics) NTokens() int64 {
	return s.nTokens
}

// UniqueTerms is the number of distinct terms seen in the whole corpus.
func (s *Statistics) UniqueTerms() int {
	return len(s.documentFrequency)
}

// DocumentFrequency returns how many documents contain term.
func (s *Statistics) DocumentFrequency(term string) (int, bool) {
	df, ok := s.documentFrequency[term]
	return df, ok
}

// TermFrequencies returns the table of document i (0-based). The table must
// not be modified by the caller.
func (s *Statistics) TermFrequencies(i int) TermCounts {
	return s.termFrequencies[i]
}

// Validate checks the structural invariants of the aggregate: one table per
// document, and every document frequency equal to the number of tables that
// contain the term.
func (s *Statistics) Validate() error {
	if len(s.termFrequencies) != s.nDocuments {
		return fmt.Errorf("%w: %d term tables for %d documents",
			apperrors.ErrInvariant, len(s.termFrequencies), s.nDocuments)
	}
	observed := make(map[string]int, len(s.documentFrequency))
	for _, counts := range s.termFrequencies {
		for term, n := range counts {
			if n < 1 {
				return fmt.Errorf("%w: term %q recorded with count %d", apperrors.ErrInvariant, term, n)
			}
			observed[term]++
		}
	}
	if len(observed) != len(s.documentFrequency) {
		return fmt.Errorf("%w: %d terms in tables, %d in document frequency",
			apperrors.ErrInvariant, len(observed), len(s.documentFrequency))
	}
	for term, df := range s.documentFrequency {
		if df > s.nDocuments {
			return fmt.Errorf("%w: term %q has document frequency %d above %d documents",
				apperrors.ErrInvariant, term, df, s.nDocuments)
		}
		if observed[term] != df {
			return fmt.Errorf("%w: term %q has document frequency %d but appears in %d documents",
				apperrors.ErrInvariant, term, df, observed[term])
		}
	}
	return nil
}
