// Package pipeline runs the two-phase analysis: every document is ingested
// into the corpus statistics first, the corpus is sealed, and only then are
// TF-IDF scores computed and ranked.
package pipeline

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/Adithya-Monish-Kumar-K/chunk-tfidf/internal/chunker"
	"github.com/Adithya-Monish-Kumar-K/chunk-tfidf/internal/corpus"
	"github.com/Adithya-Monish-Kumar-K/chunk-tfidf/internal/ranker"
	"github.com/Adithya-Monish-Kumar-K/chunk-tfidf/internal/report"
	"github.com/Adithya-Monish-Kumar-K/chunk-tfidf/internal/scorer"
	"github.com/Adithya-Monish-Kumar-K/chunk-tfidf/pkg/config"
	"github.com/Adithya-Monish-Kumar-K/chunk-tfidf/pkg/logger"
	"github.com/Adithya-Monish-Kumar-K/chunk-tfidf/pkg/metrics"
	"github.com/Adithya-Monish-Kumar-K/chunk-tfidf/pkg/tracing"
)

const (
	PhaseIngest = "ingest"
	PhaseScore  = "score"
	PhaseRank   = "rank"
)

// Result is a finished run.
type Result struct {
	RunID      string
	Source     string
	StartedAt  time.Time
	FinishedAt time.Time
	Phases     map[string]time.Duration
	Report     *report.Report
}

type Pipeline struct {
	cfg     config.Config
	metrics *metrics.Metrics
	logger  *slog.Logger
}

// New creates a Pipeline. m may be nil.
func New(cfg config.Config, m *metrics.Metrics) *Pipeline {
	return &Pipeline{
		cfg:     cfg,
		metrics: m,
		logger:  logger.WithComponent("pipeline"),
	}
}

// Run reads r to the end, chunking it into documents, and returns the
// ranked report. source only labels the run.
func (p *Pipeline) Run(ctx context.Context, r io.Reader, source string) (*Result, error) {
	res := &Result{
		RunID:     uuid.NewString(),
		Source:    source,
		StartedAt: time.Now().UTC(),
	}
	log := p.logger.With("run_id", res.RunID)
	ctx, root := tracing.StartRun(ctx, res.RunID)
	defer func() {
		root.End()
		root.Log(log)
	}()

	n := p.cfg.Chunking.LinesPerDocument
	log.Info("run started", "source", source, "lines_per_document", n)

	stats, lastLines, err := p.ingest(ctx, r, log)
	if err != nil {
		return nil, err
	}

	tables, err := p.score(ctx, stats, log)
	if err != nil {
		return nil, err
	}

	rep := p.rank(ctx, stats, tables, lastLines)
	res.Report = rep
	res.Phases = root.Phases()
	res.FinishedAt = time.Now().UTC()
	root.Set("documents", rep.Summary.Documents)
	log.Info("run finished",
		"documents", rep.Summary.Documents,
		"unique_terms", rep.Summary.UniqueTerms,
		"duration", res.FinishedAt.Sub(res.StartedAt),
	)
	return res, nil
}

// ingest folds every document into a fresh corpus and seals it. It returns
// the actual last line of each document for reporting.
func (p *Pipeline) ingest(ctx context.Context, r io.Reader, log *slog.Logger) (*corpus.Statistics, []int, error) {
	_, span := tracing.Start(ctx, PhaseIngest)
	defer p.finish(span)

	ch, err := chunker.New(r, p.cfg.Chunking.LinesPerDocument)
	if err != nil {
		return nil, nil, err
	}
	stats := corpus.New()
	var lastLines []int
	err = ch.Each(func(doc chunker.Document) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		before := stats.NTokens()
		if err := stats.Ingest(doc.Text); err != nil {
			return fmt.Errorf("ingesting document %d: %w", doc.Index, err)
		}
		lastLines = append(lastLines, doc.EndLine)
		if p.metrics != nil {
			p.metrics.DocumentsIngestedTotal.Inc()
			p.metrics.TokensTotal.Add(float64(stats.NTokens() - before))
		}
		log.Debug("document ingested",
			"document", doc.Index,
			"start_line", doc.StartLine,
			"end_line", doc.EndLine,
			"distinct_terms", len(stats.TermFrequencies(doc.Index-1)),
		)
		return nil
	})
	if err != nil {
		return nil, nil, err
	}
	stats.Seal()

	span.Set("documents", stats.NDocuments())
	span.Set("tokens", stats.NTokens())
	if p.metrics != nil {
		p.metrics.UniqueTerms.Set(float64(stats.UniqueTerms()))
	}
	log.Info("corpus sealed",
		"documents", stats.NDocuments(),
		"tokens", stats.NTokens(),
		"unique_terms", stats.UniqueTerms(),
	)
	return stats, lastLines, nil
}

func (p *Pipeline) score(ctx context.Context, stats *corpus.Statistics, log *slog.Logger) ([]scorer.Table, error) {
	ctx, span := tracing.Start(ctx, PhaseScore)
	defer p.finish(span)

	if stats.NDocuments() == 0 {
		log.Info("empty corpus, skipping scoring")
		return nil, nil
	}
	tables, err := scorer.Score(ctx, stats)
	if err != nil {
		return nil, fmt.Errorf("scoring corpus: %w", err)
	}
	return tables, nil
}

func (p *Pipeline) rank(ctx context.Context, stats *corpus.Statistics, tables []scorer.Table, lastLines []int) *report.Report {
	_, span := tracing.Start(ctx, PhaseRank)
	defer p.finish(span)

	n := p.cfg.Chunking.LinesPerDocument
	rep := &report.Report{
		Documents: make([]report.DocumentReport, 0, len(tables)),
		Summary: report.Summary{
			Documents:        stats.NDocuments(),
			UniqueTerms:      stats.UniqueTerms(),
			LinesPerDocument: n,
		},
	}
	for i, table := range tables {
		index := i + 1
		startLine, endLine := report.Window(index, n)
		rep.Documents = append(rep.Documents, report.DocumentReport{
			Index:         index,
			StartLine:     startLine,
			EndLine:       endLine,
			ActualEndLine: lastLines[i],
			Terms:         ranker.TopK(table, p.cfg.Report.TopK),
		})
	}
	return rep
}

// finish ends a phase span and records its duration.
func (p *Pipeline) finish(span *tracing.Span) {
	d := span.End()
	if p.metrics != nil {
		p.metrics.PhaseDuration.WithLabelValues(span.Name()).Observe(d.Seconds())
	}
}
