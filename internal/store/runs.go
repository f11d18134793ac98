// Package store persists simulation runs and sweeps in PostgreSQL.
package store

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/jmoiron/sqlx/types"
	"github.com/playmatatu/billiards/internal/models"
)

var ErrNotFound = errors.New("not found")

const runColumns = `id, variant, dim1, dim2, start_x, start_y, angle_deg, reflections, completed, key_scalar, error, result, created_by, created_at`

// InsertRun stores r and fills in its ID and CreatedAt.
func InsertRun(db *sqlx.DB, r *models.Run) error {
	if db == nil {
		return fmt.Errorf("db is nil")
	}
	row := db.QueryRowx(`
		INSERT INTO runs (variant, dim1, dim2, start_x, start_y, angle_deg, reflections, completed, key_scalar, error, result, created_by, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, NOW())
		RETURNING id, created_at
	`, r.Variant, r.Dim1, r.Dim2, r.StartX, r.StartY, r.AngleDeg, r.Reflections, r.Completed, r.KeyScalar, r.Error, nullJSON(r.Result), r.CreatedBy)
	return row.Scan(&r.ID, &r.CreatedAt)
}

// GetRun returns a run including its full result.
func GetRun(db *sqlx.DB, id int64) (*models.Run, error) {
	if db == nil {
		return nil, fmt.Errorf("db is nil")
	}
	var r models.Run
	err := db.Get(&r, `SELECT `+runColumns+` FROM runs WHERE id=$1`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &r, nil
}

// ListRuns returns run summaries, newest first. Result is left empty.
func ListRuns(db *sqlx.DB, limit, offset int) ([]models.Run, error) {
	if db == nil {
		return nil, fmt.Errorf("db is nil")
	}
	runs := []models.Run{}
	err := db.Select(&runs, `
		SELECT id, variant, dim1, dim2, start_x, start_y, angle_deg, reflections, completed, key_scalar, error, created_by, created_at
		FROM runs
		ORDER BY created_at DESC, id DESC
		LIMIT $1 OFFSET $2
	`, limit, offset)
	return runs, err
}

// nullJSON maps an empty document to SQL NULL.
func nullJSON(b types.JSONText) interface{} {
	if len(b) == 0 {
		return nil
	}
	return []byte(b)
}
