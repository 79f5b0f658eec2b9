package analyses

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
)

// PGRepo implements Repo using Postgres.
type PGRepo struct {
	DB *sql.DB
}

// Create inserts a new analysis.
func (r *PGRepo) Create(ctx context.Context, analysis Analysis) error {
	const query = `
INSERT INTO analyses (id, identification_code, provider, model, outcome, result, sheet_status, created_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	resultPayload, err := json.Marshal(analysis.Result)
	if err != nil {
		return err
	}
	_, err = r.DB.ExecContext(ctx, query,
		analysis.ID,
		analysis.IdentificationCode,
		analysis.Provider,
		analysis.Model,
		analysis.Outcome,
		resultPayload,
		analysis.SheetStatus,
		analysis.CreatedAt,
	)
	return err
}

// GetByID returns an analysis by ID.
func (r *PGRepo) GetByID(ctx context.Context, analysisID string) (Analysis, error) {
	const query = `
SELECT id, identification_code, provider, model, outcome, result, sheet_status, created_at
FROM analyses
WHERE id = $1
LIMIT 1`
	row := r.DB.QueryRowContext(ctx, query, analysisID)
	analysis, err := scanAnalysis(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Analysis{}, ErrNotFound
	}
	return analysis, err
}

// ListRecent returns analyses newest first, with limit/offset.
func (r *PGRepo) ListRecent(ctx context.Context, limit, offset int) ([]Analysis, error) {
	if limit <= 0 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	const query = `
SELECT id, identification_code, provider, model, outcome, result, sheet_status, created_at
FROM analyses
ORDER BY created_at DESC
LIMIT $1 OFFSET $2`
	rows, err := r.DB.QueryContext(ctx, query, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	analyses := []Analysis{}
	for rows.Next() {
		analysis, err := scanAnalysis(rows)
		if err != nil {
			return nil, err
		}
		analyses = append(analyses, analysis)
	}
	return analyses, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanAnalysis(row rowScanner) (Analysis, error) {
	var a Analysis
	var resultPayload sql.NullString
	err := row.Scan(
		&a.ID,
		&a.IdentificationCode,
		&a.Provider,
		&a.Model,
		&a.Outcome,
		&resultPayload,
		&a.SheetStatus,
		&a.CreatedAt,
	)
	if err != nil {
		return Analysis{}, err
	}
	if resultPayload.Valid && resultPayload.String != "" {
		if err := json.Unmarshal([]byte(resultPayload.String), &a.Result); err != nil {
			return Analysis{}, err
		}
	}
	return a, nil
}

var _ Repo = (*PGRepo)(nil)
