package scorer

import (
	"context"
	"fmt"
	"math"

	"github.com/Adithya-Monish-Kumar-K/chunk-tfidf/internal/corpus"
	apperrors "github.com/Adithya-Monish-Kumar-K/chunk-tfidf/pkg/errors"
)

// Table maps a term to its TF-IDF score within one document. Terms absent
// from the document are absent from the table.
type Table map[string]float64

// Score computes one Table per document, in document order. The corpus must
// be sealed. An empty corpus yields nil without error. ctx is checked between
// documents so a long scoring pass can be cancelled.
func Score(ctx context.Context, stats *corpus.Statistics) ([]Table, error) {
	if !stats.Sealed() {
		return nil, fmt.Errorf("scoring %d documents: %w", stats.NDocuments(), apperrors.ErrCorpusOpen)
	}
	n := stats.NDocuments()
	if n == 0 {
		return nil, nil
	}
	tables := make([]Table, n)
	for i := 0; i < n; i++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		table, err := scoreDocument(stats, i)
		if err != nil {
			return nil, err
		}
		tables[i] = table
	}
	return tables, nil
}

// IDF is ln(nDocuments / documentFrequency).
func IDF(nDocuments, documentFrequency int) float64 {
	return math.Log(float64(nDocuments) / float64(documentFrequency))
}

func scoreDocument(stats *corpus.Statistics, i int) (Table, error) {
	counts := stats.TermFrequencies(i)
	n := stats.NDocuments()
	table := make(Table, len(counts))
	for term, freq := range counts {
		df, ok := stats.DocumentFrequency(term)
		if !ok || df < 1 {
			return nil, fmt.Errorf("%w: document %d term %q has no document frequency",
				apperrors.ErrInvariant, i+1, term)
		}
		table[term] = float64(freq) * IDF(n, df)
	}
	return table, nil
}
