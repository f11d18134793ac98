package store

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/playmatatu/billiards/internal/models"
)

const sweepColumns = `id, status, samples, reflections, bins, seed, variant, dim1, dim2, done, failed, mean, stddev, histogram, error, created_by, created_at, completed_at`

// InsertSweep stores a running sweep and fills in its ID and CreatedAt.
func InsertSweep(db *sqlx.DB, s *models.Sweep) error {
	if db == nil {
		return fmt.Errorf("db is nil")
	}
	if s.Status == "" {
		s.Status = models.SweepRunning
	}
	row := db.QueryRowx(`
		INSERT INTO sweeps (status, samples, reflections, bins, seed, variant, dim1, dim2, created_by, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, NOW())
		RETURNING id, created_at
	`, s.Status, s.Samples, s.Reflections, s.Bins, s.Seed, s.Variant, s.Dim1, s.Dim2, s.CreatedBy)
	return row.Scan(&s.ID, &s.CreatedAt)
}

// UpdateSweepProgress records how many samples have finished.
func UpdateSweepProgress(db *sqlx.DB, id int64, done int) error {
	if db == nil {
		return fmt.Errorf("db is nil")
	}
	_, err := db.Exec(`UPDATE sweeps SET done=$2 WHERE id=$1 AND status=$3`, id, done, models.SweepRunning)
	return err
}

// CompleteSweep stores the final statistics.
func CompleteSweep(db *sqlx.DB, id int64, done, failed int, mean, stddev float64, histogram interface{}) error {
	if db == nil {
		return fmt.Errorf("db is nil")
	}
	hist, err := json.Marshal(histogram)
	if err != nil {
		return fmt.Errorf("marshal histogram: %w", err)
	}
	_, err = db.Exec(`
		UPDATE sweeps
		SET status=$2, done=$3, failed=$4, mean=$5, stddev=$6, histogram=$7, completed_at=NOW()
		WHERE id=$1
	`, id, models.SweepDone, done, failed, mean, stddev, hist)
	return err
}

// FailSweep marks a sweep as failed with reason.
func FailSweep(db *sqlx.DB, id int64, reason string) error {
	if db == nil {
		return fmt.Errorf("db is nil")
	}
	_, err := db.Exec(`UPDATE sweeps SET status=$2, error=$3, completed_at=NOW() WHERE id=$1`, id, models.SweepFailed, reason)
	return err
}

func GetSweep(db *sqlx.DB, id int64) (*models.Sweep, error) {
	if db == nil {
		return nil, fmt.Errorf("db is nil")
	}
	var s models.Sweep
	err := db.Get(&s, `SELECT `+sweepColumns+` FROM sweeps WHERE id=$1`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &s, nil
}
