package export

import (
	"time"

	"github.com/Adithya-Monish-Kumar-K/chunk-tfidf/internal/pipeline"
	"github.com/Adithya-Monish-Kumar-K/chunk-tfidf/internal/report"
)

// runRecord is the JSON shape stored under RunKey.
type runRecord struct {
	RunID      string           `json:"run_id"`
	Source     string           `json:"source"`
	StartedAt  time.Time        `json:"started_at"`
	FinishedAt time.Time        `json:"finished_at"`
	PhasesMS   map[string]int64 `json:"phases_ms"`
	Report     *report.Report   `json:"report"`
}

func newRunRecord(res *pipeline.Result) runRecord {
	phases := make(map[string]int64, len(res.Phases))
	for name, d := range res.Phases {
		phases[name] = d.Milliseconds()
	}
	return runRecord{
		RunID:      res.RunID,
		Source:     res.Source,
		StartedAt:  res.StartedAt,
		FinishedAt: res.FinishedAt,
		PhasesMS:   phases,
		Report:     res.Report,
	}
}
