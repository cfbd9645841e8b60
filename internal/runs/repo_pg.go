package runs

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"idea-analyzer/internal/scoring"
	"idea-analyzer/internal/submission"
)

// PGRepo implements Repo using Postgres.
type PGRepo struct {
	DB *sql.DB
}

// Create inserts a run.
func (r *PGRepo) Create(ctx context.Context, run Run) error {
	const query = `
INSERT INTO analysis_runs (
	id, user_id, idea_id, input_kind, status, error_code, duration_ms,
	band, overall_score, defaulted_fields, created_at
)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`
	fields, err := marshalJSONB(run.DefaultedFields)
	if err != nil {
		return err
	}
	var score any
	if run.OverallScore != nil {
		score = *run.OverallScore
	}
	_, err = r.DB.ExecContext(ctx, query,
		run.ID,
		run.UserID,
		nullString(run.IdeaID),
		string(run.InputKind),
		run.Status,
		nullString(run.ErrorCode),
		run.DurationMs,
		nullString(string(run.Band)),
		score,
		fields,
		run.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert analysis run: %w", err)
	}
	return nil
}

// ListRecent returns up to limit runs, newest first.
func (r *PGRepo) ListRecent(ctx context.Context, limit int) ([]Run, error) {
	if limit <= 0 {
		limit = 100
	}
	const query = `
SELECT id, user_id, idea_id, input_kind, status, error_code, duration_ms,
       band, overall_score, defaulted_fields, created_at
FROM analysis_runs
ORDER BY created_at DESC
LIMIT $1`
	rows, err := r.DB.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("list analysis runs: %w", err)
	}
	defer rows.Close()

	out := []Run{}
	for rows.Next() {
		var run Run
		var ideaID, errorCode, band sql.NullString
		var score sql.NullInt64
		var fields []byte
		var kind string
		if err := rows.Scan(
			&run.ID,
			&run.UserID,
			&ideaID,
			&kind,
			&run.Status,
			&errorCode,
			&run.DurationMs,
			&band,
			&score,
			&fields,
			&run.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan analysis run: %w", err)
		}
		run.IdeaID = ideaID.String
		run.ErrorCode = errorCode.String
		run.InputKind = submission.Kind(kind)
		run.Band = scoring.Band(band.String)
		if score.Valid {
			v := int(score.Int64)
			run.OverallScore = &v
		}
		run.DefaultedFields = []string{}
		if len(fields) > 0 {
			if err := json.Unmarshal(fields, &run.DefaultedFields); err != nil {
				return nil, fmt.Errorf("decode defaulted_fields: %w", err)
			}
		}
		out = append(out, run)
	}
	return out, rows.Err()
}

func marshalJSONB(v any) ([]byte, error) {
	if v == nil {
		return []byte("[]"), nil
	}
	b, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("marshal jsonb: %w", err)
	}
	if string(b) == "null" {
		return []byte("[]"), nil
	}
	return b, nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
