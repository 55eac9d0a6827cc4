package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Adithya-Monish-Kumar-K/chunk-tfidf/internal/export"
	"github.com/Adithya-Monish-Kumar-K/chunk-tfidf/internal/pipeline"
	"github.com/Adithya-Monish-Kumar-K/chunk-tfidf/internal/report"
	"github.com/Adithya-Monish-Kumar-K/chunk-tfidf/internal/source"
	"github.com/Adithya-Monish-Kumar-K/chunk-tfidf/pkg/config"
	apperrors "github.com/Adithya-Monish-Kumar-K/chunk-tfidf/pkg/errors"
	"github.com/Adithya-Monish-Kumar-K/chunk-tfidf/pkg/logger"
	"github.com/Adithya-Monish-Kumar-K/chunk-tfidf/pkg/metrics"
	"github.com/Adithya-Monish-Kumar-K/chunk-tfidf/pkg/resilience"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("tfidf", flag.ContinueOnError)
	fs.SetOutput(stderr)
	configPath := fs.String("config", "", "path to config file (built-in defaults when empty)")
	fs.Usage = func() {
		fmt.Fprintln(fs.Output(), "usage: tfidf [-config path] <input>")
		fmt.Fprintln(fs.Output(), "  input is a file path, file://, s3:// or minio:// URL; .zst and .lz4 are decompressed")
		fs.PrintDefaults()
	}
	if err := parseArgs(fs, args); err != nil {
		fmt.Fprintf(stderr, "%v\n", err)
		return apperrors.ExitCode(err)
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(stderr, "failed to load config: %v\n", err)
		return apperrors.ExitCode(err)
	}
	logger.Setup(cfg.Logging.Level, cfg.Logging.Format, stderr)

	if err := analyze(ctx, cfg, fs.Arg(0), stdout); err != nil {
		slog.Error("run failed", "input", fs.Arg(0), "error", err)
		return apperrors.ExitCode(err)
	}
	return apperrors.ExitOK
}

// parseArgs parses the command line and requires exactly one input.
// Failures carry ErrUsage.
func parseArgs(fs *flag.FlagSet, args []string) error {
	if err := fs.Parse(args); err != nil {
		return apperrors.Newf(apperrors.ErrUsage, apperrors.ExitUsage, "%v", err)
	}
	if fs.NArg() != 1 {
		fs.Usage()
		return apperrors.Newf(apperrors.ErrUsage, apperrors.ExitUsage, "expected exactly one input, got %d", fs.NArg())
	}
	return nil
}

func analyze(ctx context.Context, cfg *config.Config, input string, stdout io.Writer) error {
	m := metrics.New()
	if cfg.Metrics.Enabled {
		shutdown := m.StartServer(cfg.Metrics.Port)
		defer func() {
			sctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			shutdown(sctx)
		}()
	}
	if cfg.Metrics.PushURL != "" {
		defer func() {
			pctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			if err := m.Push(pctx, cfg.Metrics.PushURL, cfg.Metrics.Job); err != nil {
				slog.Warn("metrics push failed", "error", err)
			}
		}()
	}

	in, err := source.NewResolver(cfg.Source).Open(ctx, input)
	if err != nil {
		return err
	}
	defer in.Close()

	res, err := pipeline.New(*cfg, m).Run(ctx, in, input)
	if err != nil {
		return err
	}
	if err := report.Write(stdout, cfg.Report.Format, res.Report); err != nil {
		return fmt.Errorf("writing report: %w: %w", apperrors.ErrIO, err)
	}

	sinks, err := export.FromConfig(ctx, cfg.Export)
	if err != nil {
		return err
	}
	if len(sinks) == 0 {
		return nil
	}
	exporter := export.NewExporter(sinks, resilience.FromConfig(cfg.Export.Retry), cfg.Export.Concurrency, m)
	defer exporter.Close()
	return exporter.Export(logger.WithRunID(ctx, res.RunID), res)
}
