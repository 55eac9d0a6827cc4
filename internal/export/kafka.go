package export

import (
	"context"
	"strconv"

	"github.com/Adithya-Monish-Kumar-K/chunk-tfidf/internal/pipeline"
	"github.com/Adithya-Monish-Kumar-K/chunk-tfidf/internal/ranker"
	"github.com/Adithya-Monish-Kumar-K/chunk-tfidf/internal/report"
	"github.com/Adithya-Monish-Kumar-K/chunk-tfidf/pkg/kafka"
)

// DocumentEvent is published once per document.
type DocumentEvent struct {
	RunID     string              `json:"run_id"`
	Index     int                 `json:"index"`
	StartLine int                 `json:"start_line"`
	EndLine   int                 `json:"end_line"`
	Terms     []ranker.ScoredTerm `json:"terms"`
}

// SummaryEvent closes a run on the topic.
type SummaryEvent struct {
	RunID   string         `json:"run_id"`
	Source  string         `json:"source"`
	Summary report.Summary `json:"summary"`
}

// SummaryKey is the message key of a run's SummaryEvent.
const SummaryKey = "summary"

// Publisher is satisfied by *kafka.Producer.
type Publisher interface {
	PublishBatch(ctx context.Context, events []kafka.Event) error
	Close() error
}

type KafkaSink struct {
	producer Publisher
}

func NewKafkaSink(p Publisher) *KafkaSink {
	return &KafkaSink{producer: p}
}

func (s *KafkaSink) Name() string { return "kafka" }

// Export publishes the document events keyed by index, then the summary.
func (s *KafkaSink) Export(ctx context.Context, res *pipeline.Result) error {
	events := make([]kafka.Event, 0, len(res.Report.Documents)+1)
	for _, doc := range res.Report.Documents {
		events = append(events, kafka.Event{
			Key: strconv.Itoa(doc.Index),
			Value: DocumentEvent{
				RunID:     res.RunID,
				Index:     doc.Index,
				StartLine: doc.StartLine,
				EndLine:   doc.EndLine,
				Terms:     doc.Terms,
			},
		})
	}
	events = append(events, kafka.Event{
		Key:   SummaryKey,
		Value: SummaryEvent{RunID: res.RunID, Source: res.Source, Summary: res.Report.Summary},
	})
	return s.producer.PublishBatch(ctx, events)
}

func (s *KafkaSink) Close() error {
	return s.producer.Close()
}
