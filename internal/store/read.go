package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/roach88/quadrature/internal/ir"
)

// ErrNotFound is returned when a requested run or study does not exist.
var ErrNotFound = errors.New("not found")

// Run is the summary row of a stored run.
type Run struct {
	ID             string  `json:"id"`
	StudyID        string  `json:"study_id"`
	StudyName      string  `json:"study_name"`
	Batch          string  `json:"batch"`
	Seq            int64   `json:"seq"`
	Exact          float64 `json:"exact"`
	Passed         bool    `json:"passed"`
	LibraryVersion string  `json:"library_version"`
}

// ListRuns returns stored runs in write order. An empty studyName lists
// every study.
//
// Returns an empty slice (not nil) when nothing matches.
func (s *Store) ListRuns(ctx context.Context, studyName string) ([]Run, error) {
	query := `
		SELECT r.id, r.study_id, st.name, r.batch, r.seq, r.exact, r.passed, r.library_version
		FROM runs r
		JOIN studies st ON r.study_id = st.id
	`
	var args []any
	if studyName != "" {
		query += ` WHERE st.name = ?`
		args = append(args, studyName)
	}
	query += ` ORDER BY r.seq ASC, r.id COLLATE BINARY ASC`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
	}
	defer rows.Close()

	runs := []Run{}
	for rows.Next() {
		var r Run
		if err := rows.Scan(&r.ID, &r.StudyID, &r.StudyName, &r.Batch, &r.Seq, &r.Exact, &r.Passed, &r.LibraryVersion); err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		runs = append(runs, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate runs: %w", err)
	}
	return runs, nil
}

// ReadRun reassembles the full StudyResult of a run.
func (s *Store) ReadRun(ctx context.Context, id string) (*ir.StudyResult, error) {
	var (
		studyID  string
		exact    float64
		fitsJSON string
	)
	err := s.db.QueryRowContext(ctx, `
		SELECT study_id, exact, fits FROM runs WHERE id = ?
	`, id).Scan(&studyID, &exact, &fitsJSON)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("run %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("read run %s: %w", id, err)
	}

	spec, err := s.ReadStudy(ctx, studyID)
	if err != nil {
		return nil, err
	}
	fits, err := unmarshalFits(fitsJSON)
	if err != nil {
		return nil, fmt.Errorf("read run %s: %w", id, err)
	}
	ms, err := s.ReadMeasurements(ctx, id)
	if err != nil {
		return nil, err
	}

	return &ir.StudyResult{
		StudyID:      studyID,
		Study:        spec,
		Exact:        exact,
		Measurements: ms,
		Fits:         fits,
	}, nil
}

// ReadStudy returns the spec stored under a study ID.
func (s *Store) ReadStudy(ctx context.Context, studyID string) (ir.StudySpec, error) {
	var specJSON string
	err := s.db.QueryRowContext(ctx, `SELECT spec FROM studies WHERE id = ?`, studyID).Scan(&specJSON)
	if errors.Is(err, sql.ErrNoRows) {
		return ir.StudySpec{}, fmt.Errorf("study %s: %w", studyID, ErrNotFound)
	}
	if err != nil {
		return ir.StudySpec{}, fmt.Errorf("read study %s: %w", studyID, err)
	}
	return unmarshalSpec(specJSON)
}

// ReadMeasurements returns the measurements of a run in the order they
// were recorded.
func (s *Store) ReadMeasurements(ctx context.Context, runID string) ([]ir.Measurement, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT method, n, value, abs_error
		FROM measurements
		WHERE run_id = ?
		ORDER BY seq ASC
	`, runID)
	if err != nil {
		return nil, fmt.Errorf("query measurements: %w", err)
	}
	defer rows.Close()

	ms := []ir.Measurement{}
	for rows.Next() {
		var m ir.Measurement
		if err := rows.Scan(&m.Method, &m.N, &m.Value, &m.AbsError); err != nil {
			return nil, fmt.Errorf("scan measurement: %w", err)
		}
		ms = append(ms, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate measurements: %w", err)
	}
	return ms, nil
}
