// Package postgres provides the durable archive of strategy runs. The full
// recommendation is stored as a JSON document with a few indexed columns for
// listing and filtering.
package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/ignite/content-strategist/internal/strategy"
)

// ErrNotFound is returned when no recommendation exists for an id.
var ErrNotFound = errors.New("postgres: recommendation not found")

// ListFilter narrows List results.
type ListFilter struct {
	Objective string
	Limit     int
	Offset    int
}

// RecommendationSummary is one row of a List result.
type RecommendationSummary struct {
	ID         string  `json:"id"`
	Objective  string  `json:"objective"`
	Confidence float64 `json:"confidence"`
	Degraded   bool    `json:"degraded"`
	CreatedAt  string  `json:"created_at"`
}

// RecommendationRepo archives strategy recommendations in PostgreSQL.
type RecommendationRepo struct{ db *sql.DB }

// NewRecommendationRepo creates a Postgres-backed recommendation archive.
func NewRecommendationRepo(db *sql.DB) *RecommendationRepo { return &RecommendationRepo{db: db} }

// Save upserts a recommendation document.
func (r *RecommendationRepo) Save(ctx context.Context, rec strategy.StrategicRecommendation) error {
	doc, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("marshal recommendation %s: %w", rec.ID, err)
	}
	_, err = r.db.ExecContext(ctx, `
		INSERT INTO strategy_recommendations (id, objective, confidence, degraded, document, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (id) DO UPDATE SET
			objective = EXCLUDED.objective,
			confidence = EXCLUDED.confidence,
			degraded = EXCLUDED.degraded,
			document = EXCLUDED.document,
			updated_at = EXCLUDED.updated_at
	`, rec.ID, string(rec.Objective), rec.Confidence, rec.Degraded, doc, rec.CreatedAt, rec.UpdatedAt)
	if err != nil {
		return fmt.Errorf("save recommendation %s: %w", rec.ID, err)
	}
	return nil
}

// Get loads a recommendation document by id.
func (r *RecommendationRepo) Get(ctx context.Context, id string) (strategy.StrategicRecommendation, error) {
	var doc []byte
	err := r.db.QueryRowContext(ctx, `
		SELECT document FROM strategy_recommendations WHERE id = $1
	`, id).Scan(&doc)
	if err == sql.ErrNoRows {
		return strategy.StrategicRecommendation{}, ErrNotFound
	}
	if err != nil {
		return strategy.StrategicRecommendation{}, fmt.Errorf("get recommendation %s: %w", id, err)
	}
	var rec strategy.StrategicRecommendation
	if err := json.Unmarshal(doc, &rec); err != nil {
		return strategy.StrategicRecommendation{}, fmt.Errorf("unmarshal recommendation %s: %w", id, err)
	}
	return rec, nil
}

// List returns recommendation summaries, newest first.
func (r *RecommendationRepo) List(ctx context.Context, f ListFilter) ([]RecommendationSummary, int, error) {
	limit := f.Limit
	if limit <= 0 {
		limit = 50
	}

	countQ := `SELECT COUNT(*) FROM strategy_recommendations`
	args := []interface{}{}
	idx := 1
	if f.Objective != "" {
		countQ += fmt.Sprintf(" WHERE objective = $%d", idx)
		args = append(args, f.Objective)
		idx++
	}

	var total int
	if err := r.db.QueryRowContext(ctx, countQ, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count recommendations: %w", err)
	}

	q := `SELECT id, objective, confidence, degraded, created_at::text FROM strategy_recommendations`
	qArgs := []interface{}{}
	qIdx := 1
	if f.Objective != "" {
		q += fmt.Sprintf(" WHERE objective = $%d", qIdx)
		qArgs = append(qArgs, f.Objective)
		qIdx++
	}
	q += fmt.Sprintf(" ORDER BY created_at DESC LIMIT $%d OFFSET $%d", qIdx, qIdx+1)
	qArgs = append(qArgs, limit, f.Offset)

	rows, err := r.db.QueryContext(ctx, q, qArgs...)
	if err != nil {
		return nil, 0, fmt.Errorf("list recommendations: %w", err)
	}
	defer rows.Close()

	var out []RecommendationSummary
	for rows.Next() {
		var s RecommendationSummary
		if err := rows.Scan(&s.ID, &s.Objective, &s.Confidence, &s.Degraded, &s.CreatedAt); err != nil {
			return nil, 0, fmt.Errorf("scan recommendation: %w", err)
		}
		out = append(out, s)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterate recommendations: %w", err)
	}
	return out, total, nil
}

// Delete removes a recommendation by id.
func (r *RecommendationRepo) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM strategy_recommendations WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete recommendation %s: %w", id, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}
