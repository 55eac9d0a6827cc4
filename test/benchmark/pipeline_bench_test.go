package benchmark

import (
	"context"
	"fmt"
	"math/rand"
	"strings"
	"testing"

	"github.com/Adithya-Monish-Kumar-K/chunk-tfidf/internal/corpus"
	"github.com/Adithya-Monish-Kumar-K/chunk-tfidf/internal/pipeline"
	"github.com/Adithya-Monish-Kumar-K/chunk-tfidf/internal/ranker"
	"github.com/Adithya-Monish-Kumar-K/chunk-tfidf/internal/scorer"
	"github.com/Adithya-Monish-Kumar-K/chunk-tfidf/pkg/config"
)

// syntheticCorpus returns lines drawn from a vocabulary of the given size,
// skewed so that low word ids are common.
func syntheticCorpus(lines, vocab int) string {
	rng := rand.New(rand.NewSource(42))
	var sb strings.Builder
	for i := 0; i < lines; i++ {
		for w := 0; w < 12; w++ {
			id := int(rng.ExpFloat64()*float64(vocab)/8) % vocab
			fmt.Fprintf(&sb, "word%d ", id)
		}
		sb.WriteByte('\n')
	}
	return sb.String()
}

func sealedCorpus(b *testing.B, docs, vocab int) *corpus.Statistics {
	b.Helper()
	text := syntheticCorpus(docs*100, vocab)
	lines := strings.SplitAfter(text, "\n")
	stats := corpus.New()
	for d := 0; d < docs; d++ {
		if err := stats.Ingest(strings.Join(lines[d*100:(d+1)*100], "")); err != nil {
			b.Fatal(err)
		}
	}
	stats.Seal()
	return stats
}

func BenchmarkIngest(b *testing.B) {
	doc := syntheticCorpus(1000, 5000)
	b.ReportAllocs()
	b.SetBytes(int64(len(doc)))
	for i := 0; i < b.N; i++ {
		stats := corpus.New()
		if err := stats.Ingest(doc); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkScore(b *testing.B) {
	for _, docs := range []int{16, 64, 256} {
		stats := sealedCorpus(b, docs, 5000)
		b.Run(fmt.Sprintf("docs_%d", docs), func(b *testing.B) {
			b.ReportAllocs()
			for i := 0; i < b.N; i++ {
				if _, err := scorer.Score(context.Background(), stats); err != nil {
					b.Fatal(err)
				}
			}
		})
	}
}

func BenchmarkTopK(b *testing.B) {
	for _, size := range []int{100, 1000, 10000} {
		table := make(scorer.Table, size)
		for i := 0; i < size; i++ {
			table[fmt.Sprintf("term%d", i)] = float64(i%97) * 0.13
		}
		b.Run(fmt.Sprintf("terms_%d", size), func(b *testing.B) {
			b.ReportAllocs()
			for i := 0; i < b.N; i++ {
				_ = ranker.TopK(table, 10)
			}
		})
	}
}

func BenchmarkPipelineRun(b *testing.B) {
	text := syntheticCorpus(10000, 20000)
	cfg := *config.Default()
	b.ReportAllocs()
	b.SetBytes(int64(len(text)))
	for i := 0; i < b.N; i++ {
		if _, err := pipeline.New(cfg, nil).Run(context.Background(), strings.NewReader(text), "bench"); err != nil {
			b.Fatal(err)
		}
	}
}
