// Package export publishes finished runs to optional external stores. Only
// the final report leaves the process; corpus statistics never do.
package export

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"github.com/Adithya-Monish-Kumar-K/chunk-tfidf/internal/pipeline"
	"github.com/Adithya-Monish-Kumar-K/chunk-tfidf/pkg/config"
	"github.com/Adithya-Monish-Kumar-K/chunk-tfidf/pkg/database"
	apperrors "github.com/Adithya-Monish-Kumar-K/chunk-tfidf/pkg/errors"
	"github.com/Adithya-Monish-Kumar-K/chunk-tfidf/pkg/kafka"
	"github.com/Adithya-Monish-Kumar-K/chunk-tfidf/pkg/logger"
	"github.com/Adithya-Monish-Kumar-K/chunk-tfidf/pkg/metrics"
	"github.com/Adithya-Monish-Kumar-K/chunk-tfidf/pkg/redis"
	"github.com/Adithya-Monish-Kumar-K/chunk-tfidf/pkg/resilience"
)

type Sink interface {
	Name() string
	Export(ctx context.Context, res *pipeline.Result) error
	Close() error
}

// FromConfig connects every enabled sink. On failure the sinks already
// opened are closed again.
func FromConfig(ctx context.Context, cfg config.ExportConfig) ([]Sink, error) {
	var sinks []Sink
	fail := func(err error) ([]Sink, error) {
		for _, s := range sinks {
			s.Close()
		}
		return nil, fmt.Errorf("%w: %w", apperrors.ErrExport, err)
	}

	if cfg.SQL.Enabled {
		db, err := database.New(ctx, cfg)
		if err != nil {
			return fail(err)
		}
		sink, err := NewSQLSink(ctx, db)
		if err != nil {
			db.Close()
			return fail(err)
		}
		sinks = append(sinks, sink)
	}
	if cfg.Redis.Enabled {
		client, err := redis.NewClient(ctx, cfg.Redis)
		if err != nil {
			return fail(err)
		}
		sinks = append(sinks, NewRedisSink(client, cfg.Redis.TTL))
	}
	if cfg.Kafka.Enabled {
		sinks = append(sinks, NewKafkaSink(kafka.NewProducer(cfg.Kafka)))
	}
	return sinks, nil
}

// Exporter fans a result out to every sink, retrying each one on its own.
type Exporter struct {
	sinks       []Sink
	policy      resilience.Policy
	concurrency int
	metrics     *metrics.Metrics
	logger      *slog.Logger
}

// NewExporter wraps sinks. concurrency caps parallel sink writes, zero means
// no cap. m may be nil.
func NewExporter(sinks []Sink, policy resilience.Policy, concurrency int, m *metrics.Metrics) *Exporter {
	return &Exporter{
		sinks:       sinks,
		policy:      policy,
		concurrency: concurrency,
		metrics:     m,
		logger:      logger.WithComponent("export"),
	}
}

// Export writes res to every sink, even when some of them fail. The returned
// error joins all sink failures and matches ErrExport.
func (e *Exporter) Export(ctx context.Context, res *pipeline.Result) error {
	log := e.logger.With("run_id", res.RunID)
	errs := make([]error, len(e.sinks))

	var g errgroup.Group
	if e.concurrency > 0 {
		g.SetLimit(e.concurrency)
	}
	for i, sink := range e.sinks {
		i, sink := i, sink
		g.Go(func() error {
			errs[i] = e.exportOne(ctx, log, sink, res)
			return nil
		})
	}
	g.Wait()

	if err := errors.Join(errs...); err != nil {
		return fmt.Errorf("%w: %w", apperrors.ErrExport, err)
	}
	return nil
}

func (e *Exporter) exportOne(ctx context.Context, log *slog.Logger, sink Sink, res *pipeline.Result) error {
	err := resilience.Retry(ctx, "export "+sink.Name(), e.policy, func(ctx context.Context) error {
		return sink.Export(ctx, res)
	})
	status := "ok"
	if err != nil {
		status = "error"
		log.Error("export failed", "sink", sink.Name(), "error", err)
		err = fmt.Errorf("sink %s: %w", sink.Name(), err)
	} else {
		log.Info("run exported", "sink", sink.Name())
	}
	if e.metrics != nil {
		e.metrics.ExportTotal.WithLabelValues(sink.Name(), status).Inc()
	}
	return err
}

func (e *Exporter) Close() error {
	var errs []error
	for _, sink := range e.sinks {
		if err := sink.Close(); err != nil {
			errs = append(errs, fmt.Errorf("closing %s: %w", sink.Name(), err))
		}
	}
	return errors.Join(errs...)
}
