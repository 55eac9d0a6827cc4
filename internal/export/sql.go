package export

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/Adithya-Monish-Kumar-K/chunk-tfidf/internal/pipeline"
	"github.com/Adithya-Monish-Kumar-K/chunk-tfidf/pkg/database"
)

var schema = []string{
	`CREATE TABLE IF NOT EXISTS tfidf_runs (
		run_id             TEXT PRIMARY KEY,
		source             TEXT NOT NULL,
		started_at         TIMESTAMP NOT NULL,
		finished_at        TIMESTAMP NOT NULL,
		documents          INTEGER NOT NULL,
		unique_terms       INTEGER NOT NULL,
		lines_per_document INTEGER NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS tfidf_top_terms (
		run_id         TEXT NOT NULL,
		document_index INTEGER NOT NULL,
		term_rank      INTEGER NOT NULL,
		term           TEXT NOT NULL,
		score          DOUBLE PRECISION NOT NULL,
		PRIMARY KEY (run_id, document_index, term_rank)
	)`,
}

// SQLSink stores each run as one tfidf_runs row plus its ranked terms.
type SQLSink struct {
	db *database.Client
}

// NewSQLSink creates the tables if they are missing.
func NewSQLSink(ctx context.Context, db *database.Client) (*SQLSink, error) {
	for _, stmt := range schema {
		if _, err := db.DB.ExecContext(ctx, stmt); err != nil {
			return nil, fmt.Errorf("creating export schema: %w", err)
		}
	}
	return &SQLSink{db: db}, nil
}

func (s *SQLSink) Name() string { return "sql" }

// Export replaces any earlier rows of the same run, so a retried export
// leaves exactly one copy.
func (s *SQLSink) Export(ctx context.Context, res *pipeline.Result) error {
	rep := res.Report
	return s.db.InTx(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, s.db.Rebind(`DELETE FROM tfidf_top_terms WHERE run_id = ?`), res.RunID); err != nil {
			return fmt.Errorf("clearing terms of run %s: %w", res.RunID, err)
		}
		if _, err := tx.ExecContext(ctx, s.db.Rebind(`DELETE FROM tfidf_runs WHERE run_id = ?`), res.RunID); err != nil {
			return fmt.Errorf("clearing run %s: %w", res.RunID, err)
		}
		_, err := tx.ExecContext(ctx, s.db.Rebind(
			`INSERT INTO tfidf_runs (run_id, source, started_at, finished_at, documents, unique_terms, lines_per_document)
			 VALUES (?, ?, ?, ?, ?, ?, ?)`),
			res.RunID, res.Source, res.StartedAt, res.FinishedAt,
			rep.Summary.Documents, rep.Summary.UniqueTerms, rep.Summary.LinesPerDocument,
		)
		if err != nil {
			return fmt.Errorf("inserting run %s: %w", res.RunID, err)
		}

		stmt, err := tx.PrepareContext(ctx, s.db.Rebind(
			`INSERT INTO tfidf_top_terms (run_id, document_index, term_rank, term, score) VALUES (?, ?, ?, ?, ?)`))
		if err != nil {
			return fmt.Errorf("preparing term insert: %w", err)
		}
		defer stmt.Close()
		for _, doc := range rep.Documents {
			for rank, st := range doc.Terms {
				if _, err := stmt.ExecContext(ctx, res.RunID, doc.Index, rank+1, st.Term, st.Score); err != nil {
					return fmt.Errorf("inserting term %q of document %d: %w", st.Term, doc.Index, err)
				}
			}
		}
		return nil
	})
}

func (s *SQLSink) Close() error {
	return s.db.Close()
}
