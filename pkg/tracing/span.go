// Package tracing times the phases of a run. A run span is stored in the
// context and every phase started under it becomes a child; when the run
// ends the tree is written to slog and the phase durations can be read back.
package tracing

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

type spanKey struct{}

// Span is one timed phase. It is safe for concurrent use.
type Span struct {
	name  string
	runID string
	start time.Time

	mu       sync.Mutex
	end      time.Time
	attrs    []slog.Attr
	children []*Span
}

// StartRun opens the root span of a run.
func StartRun(ctx context.Context, runID string) (context.Context, *Span) {
	s := &Span{name: "run", runID: runID, start: time.Now()}
	return context.WithValue(ctx, spanKey{}, s), s
}

// Start opens a span under the one in ctx. Without one the span is a
// detached root with no run id.
func Start(ctx context.Context, name string) (context.Context, *Span) {
	s := &Span{name: name, start: time.Now()}
	if parent := FromContext(ctx); parent != nil {
		s.runID = parent.runID
		parent.mu.Lock()
		parent.children = append(parent.children, s)
		parent.mu.Unlock()
	}
	return context.WithValue(ctx, spanKey{}, s), s
}

func FromContext(ctx context.Context) *Span {
	s, _ := ctx.Value(spanKey{}).(*Span)
	return s
}

func (s *Span) Name() string { return s.name }

// End stops the clock and returns the span duration. Only the first call
// counts.
func (s *Span) End() time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.end.IsZero() {
		s.end = time.Now()
	}
	return s.end.Sub(s.start)
}

// Duration is the elapsed time so far for a span that has not ended.
func (s *Span) Duration() time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.end.IsZero() {
		return time.Since(s.start)
	}
	return s.end.Sub(s.start)
}

func (s *Span) Set(key string, value any) {
	s.mu.Lock()
	s.attrs = append(s.attrs, slog.Any(key, value))
	s.mu.Unlock()
}

// Phases returns the duration of every direct child by name. A phase that
// ran more than once reports its total.
func (s *Span) Phases() map[string]time.Duration {
	s.mu.Lock()
	children := append([]*Span(nil), s.children...)
	s.mu.Unlock()

	out := make(map[string]time.Duration, len(children))
	for _, c := range children {
		out[c.name] += c.Duration()
	}
	return out
}

// Log writes one debug record per span, depth first.
func (s *Span) Log(logger *slog.Logger) {
	s.log(logger, 0)
}

func (s *Span) log(logger *slog.Logger, depth int) {
	s.mu.Lock()
	attrs := append([]slog.Attr{
		slog.String("run_id", s.runID),
		slog.String("span", s.name),
		slog.Int("depth", depth),
	}, s.attrs...)
	children := append([]*Span(nil), s.children...)
	s.mu.Unlock()
	attrs = append(attrs, slog.Duration("duration", s.Duration()))

	logger.LogAttrs(context.Background(), slog.LevelDebug, "span", attrs...)
	for _, c := range children {
		c.log(logger, depth+1)
	}
}
