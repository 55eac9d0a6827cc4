package pipeline

import (
	"bytes"
	"context"
	"fmt"
	"math"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Adithya-Monish-Kumar-K/chunk-tfidf/internal/report"
	"github.com/Adithya-Monish-Kumar-K/chunk-tfidf/pkg/config"
	"github.com/Adithya-Monish-Kumar-K/chunk-tfidf/pkg/metrics"
)

func testConfig(linesPerDocument int) config.Config {
	cfg := config.Default()
	cfg.Chunking.LinesPerDocument = linesPerDocument
	return *cfg
}

func TestRunThreeDocumentsWithShortTail(t *testing.T) {
	var sb strings.Builder
	for i := 1; i <= 2500; i++ {
		fmt.Fprintf(&sb, "line %d block%d\n", i, (i-1)/1000)
	}
	p := New(testConfig(1000), nil)
	res, err := p.Run(context.Background(), strings.NewReader(sb.String()), "generated")
	require.NoError(t, err)

	rep := res.Report
	require.Len(t, rep.Documents, 3)
	assert.Equal(t, 3, rep.Summary.Documents)
	assert.Equal(t, 1000, rep.Summary.LinesPerDocument)

	third := rep.Documents[2]
	assert.Equal(t, 3, third.Index)
	assert.Equal(t, 2001, third.StartLine)
	assert.Equal(t, 3000, third.EndLine, "header uses the configured window")
	assert.Equal(t, 2500, third.ActualEndLine)

	// "line" is in every document and scores 0; each blockN term is unique to one document
	for _, doc := range rep.Documents {
		require.Len(t, doc.Terms, 10)
		for i := 1; i < len(doc.Terms); i++ {
			assert.GreaterOrEqual(t, doc.Terms[i-1].Score, doc.Terms[i].Score)
		}
	}
	top := rep.Documents[2].Terms[0]
	assert.Equal(t, "block2", top.Term)
	assert.InDelta(t, 500*math.Log(3), top.Score, 1e-9)
	assert.NotEmpty(t, res.RunID)
}

func TestRunTermInEveryDocumentScoresZero(t *testing.T) {
	input := "shared alpha\nshared beta\nshared gamma\n"
	res, err := New(testConfig(1), nil).Run(context.Background(), strings.NewReader(input), "t")
	require.NoError(t, err)
	require.Len(t, res.Report.Documents, 3)
	for _, doc := range res.Report.Documents {
		require.Len(t, doc.Terms, 2)
		assert.InDelta(t, math.Log(3), doc.Terms[0].Score, 1e-12)
		assert.Equal(t, "shared", doc.Terms[1].Term)
		assert.Equal(t, 0.0, doc.Terms[1].Score)
	}
	assert.Equal(t, 4, res.Report.Summary.UniqueTerms)
}

func TestRunEmptyInput(t *testing.T) {
	m := metrics.New()
	res, err := New(testConfig(1000), m).Run(context.Background(), strings.NewReader(""), "empty")
	require.NoError(t, err)
	assert.Empty(t, res.Report.Documents)
	assert.Equal(t, report.Summary{Documents: 0, UniqueTerms: 0, LinesPerDocument: 1000}, res.Report.Summary)
	assert.Equal(t, 0.0, testutil.ToFloat64(m.DocumentsIngestedTotal))

	var buf bytes.Buffer
	require.NoError(t, report.WriteText(&buf, res.Report))
	assert.NotContains(t, buf.String(), "Document 1")
	assert.Contains(t, buf.String(), "Total documents processed: 0")
}

func TestRunRecordsMetrics(t *testing.T) {
	m := metrics.New()
	input := "a b c\nd e\nf\n"
	res, err := New(testConfig(2), m).Run(context.Background(), strings.NewReader(input), "m")
	require.NoError(t, err)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.DocumentsIngestedTotal))
	assert.Equal(t, 6.0, testutil.ToFloat64(m.TokensTotal))
	assert.Equal(t, 6.0, testutil.ToFloat64(m.UniqueTerms))
	assert.Contains(t, res.Phases, PhaseIngest)
	assert.Contains(t, res.Phases, PhaseScore)
	assert.Contains(t, res.Phases, PhaseRank)
	assert.Len(t, res.Phases, 3)
	assert.Equal(t, 3, testutil.CollectAndCount(m.PhaseDuration))
}

func TestRunTopKConfigured(t *testing.T) {
	cfg := testConfig(1)
	cfg.Report.TopK = 2
	input := "a b c d\ne\n"
	res, err := New(cfg, nil).Run(context.Background(), strings.NewReader(input), "k")
	require.NoError(t, err)
	require.Len(t, res.Report.Documents[0].Terms, 2)
	assert.Equal(t, "a", res.Report.Documents[0].Terms[0].Term)
	assert.Equal(t, "b", res.Report.Documents[0].Terms[1].Term)
}

func TestRunCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := New(testConfig(1), nil).Run(ctx, strings.NewReader("a\nb\n"), "c")
	assert.ErrorIs(t, err, context.Canceled)
}
