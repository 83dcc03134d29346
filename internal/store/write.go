package store

import (
	"context"
	"fmt"

	"github.com/roach88/quadrature/internal/ir"
)

// WriteRun stores a study result under batch and returns its run ID (the
// result fingerprint). If a run with the same fingerprint already exists
// nothing is written and inserted is false.
//
// The study row, the run row and its measurements go in one transaction.
func (s *Store) WriteRun(ctx context.Context, batch string, result *ir.StudyResult) (id string, inserted bool, err error) {
	id, err = ir.ResultFingerprint(*result)
	if err != nil {
		return "", false, fmt.Errorf("write run: %w", err)
	}
	studyID, err := ir.StudyID(result.Study)
	if err != nil {
		return "", false, fmt.Errorf("write run: %w", err)
	}
	if result.StudyID != "" && result.StudyID != studyID {
		return "", false, fmt.Errorf("write run: result carries study id %s but its spec hashes to %s", result.StudyID, studyID)
	}

	specJSON, err := marshalSpec(result.Study)
	if err != nil {
		return "", false, fmt.Errorf("write run: %w", err)
	}
	fitsJSON, err := marshalFits(result.Fits)
	if err != nil {
		return "", false, fmt.Errorf("write run: %w", err)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return "", false, fmt.Errorf("write run: begin tx: %w", err)
	}
	defer tx.Rollback() // No-op if committed

	if _, err := tx.ExecContext(ctx, `
		INSERT INTO studies (id, name, spec, ir_version)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(id) DO NOTHING
	`, studyID, result.Study.Name, specJSON, ir.IRVersion); err != nil {
		return "", false, fmt.Errorf("write run: insert study: %w", err)
	}

	var seq int64
	if err := tx.QueryRowContext(ctx, `SELECT COALESCE(MAX(seq), 0) + 1 FROM runs`).Scan(&seq); err != nil {
		return "", false, fmt.Errorf("write run: next seq: %w", err)
	}

	res, err := tx.ExecContext(ctx, `
		INSERT INTO runs (id, study_id, batch, seq, exact, passed, fits, library_version)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO NOTHING
	`, id, studyID, batch, seq, result.Exact, result.Passed(), fitsJSON, ir.LibraryVersion)
	if err != nil {
		return "", false, fmt.Errorf("write run: insert run: %w", err)
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return "", false, fmt.Errorf("write run: rows affected: %w", err)
	}
	if rows == 0 {
		// Already stored; the existing measurements are identical by
		// construction of the fingerprint.
		return id, false, tx.Commit()
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO measurements (run_id, seq, method, n, value, abs_error)
		VALUES (?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return "", false, fmt.Errorf("write run: prepare measurements: %w", err)
	}
	defer stmt.Close()

	for i, m := range result.Measurements {
		if _, err := stmt.ExecContext(ctx, id, i+1, m.Method, m.N, m.Value, m.AbsError); err != nil {
			return "", false, fmt.Errorf("write run: insert measurement %d: %w", i+1, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return "", false, fmt.Errorf("write run: commit: %w", err)
	}
	return id, true, nil
}
