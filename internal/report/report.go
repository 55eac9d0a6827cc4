// Package report renders the per-document top terms and corpus summary of a
// run, either in the plain-text layout or as JSON.
package report

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"

	"github.com/Adithya-Monish-Kumar-K/chunk-tfidf/internal/ranker"
	apperrors "github.com/Adithya-Monish-Kumar-K/chunk-tfidf/pkg/errors"
)

// Report is the complete output of one run.
type Report struct {
	Documents []DocumentReport `json:"documents"`
	Summary   Summary          `json:"summary"`
}

// DocumentReport describes one document. StartLine and EndLine are the
// configured window (i-1)*N+1 .. i*N, even for a shorter final document;
// ActualEndLine is the last line really read.
type DocumentReport struct {
	Index         int                 `json:"index"`
	StartLine     int                 `json:"start_line"`
	EndLine       int                 `json:"end_line"`
	ActualEndLine int                 `json:"actual_end_line"`
	Terms         []ranker.ScoredTerm `json:"terms"`
}

type Summary struct {
	Documents        int `json:"documents"`
	UniqueTerms      int `json:"unique_terms"`
	LinesPerDocument int `json:"lines_per_document"`
}

// Window returns the configured line range of the 1-based document index.
func Window(index, linesPerDocument int) (start, end int) {
	return (index-1)*linesPerDocument + 1, index * linesPerDocument
}

// Write renders rep in the given format ("text" or "json").
func Write(w io.Writer, format string, rep *Report) error {
	switch format {
	case "", "text":
		return WriteText(w, rep)
	case "json":
		return WriteJSON(w, rep)
	default:
		return apperrors.Newf(apperrors.ErrInvalidInput, apperrors.ExitFailure, "unknown report format %q", format)
	}
}

func WriteText(w io.Writer, rep *Report) error {
	bw := bufio.NewWriter(w)
	fmt.Fprintln(bw, "\nTF-IDF Scores by Document:")
	for _, doc := range rep.Documents {
		fmt.Fprintf(bw, "\nDocument %d (Lines %d-%d)\n", doc.Index, doc.StartLine, doc.EndLine)
		for _, st := range doc.Terms {
			fmt.Fprintf(bw, "%-20s %.4f\n", st.Term, st.Score)
		}
	}
	fmt.Fprintln(bw, "\nProcessing Summary:")
	fmt.Fprintf(bw, "Total documents processed: %d\n", rep.Summary.Documents)
	fmt.Fprintf(bw, "Total unique terms: %d\n", rep.Summary.UniqueTerms)
	fmt.Fprintf(bw, "Lines per document: %d\n", rep.Summary.LinesPerDocument)
	if err := bw.Flush(); err != nil {
		return fmt.Errorf("writing text report: %w", err)
	}
	return nil
}

func WriteJSON(w io.Writer, rep *Report) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(rep); err != nil {
		return fmt.Errorf("writing json report: %w", err)
	}
	return nil
}
