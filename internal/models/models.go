package models

import (
	"database/sql"
	"time"

	"github.com/jmoiron/sqlx/types"
	"github.com/lib/pq"
)

// Sweep statuses
const (
	SweepRunning = "running"
	SweepDone    = "done"
	SweepFailed  = "failed"
)

// Run is a persisted simulation summary. Result holds the full JSON response.
type Run struct {
	ID          int64           `db:"id" json:"id"`
	Variant     string          `db:"variant" json:"variant"`
	Dim1        float64         `db:"dim1" json:"dim1"`
	Dim2        float64         `db:"dim2" json:"dim2"`
	StartX      float64         `db:"start_x" json:"start_x"`
	StartY      float64         `db:"start_y" json:"start_y"`
	AngleDeg    float64         `db:"angle_deg" json:"angle_deg"`
	Reflections int             `db:"reflections" json:"reflections"`
	Completed   int             `db:"completed" json:"completed"`
	KeyScalar   sql.NullFloat64 `db:"key_scalar" json:"key_scalar,omitempty"`
	Error       sql.NullString  `db:"error" json:"error,omitempty"`
	Result      types.JSONText  `db:"result" json:"result,omitempty"`
	CreatedBy   string          `db:"created_by" json:"created_by"`
	CreatedAt   time.Time       `db:"created_at" json:"created_at"`
}

// Sweep is a persisted key-distribution sweep. Histogram holds the JSON
// encoded bins once the sweep is done.
type Sweep struct {
	ID          int64           `db:"id" json:"id"`
	Status      string          `db:"status" json:"status"`
	Samples     int             `db:"samples" json:"samples"`
	Reflections int             `db:"reflections" json:"reflections"`
	Bins        int             `db:"bins" json:"bins"`
	Seed        int64           `db:"seed" json:"seed"`
	Variant     sql.NullString  `db:"variant" json:"variant,omitempty"`
	Dim1        sql.NullFloat64 `db:"dim1" json:"dim1,omitempty"`
	Dim2        sql.NullFloat64 `db:"dim2" json:"dim2,omitempty"`
	Done        int             `db:"done" json:"done"`
	Failed      int             `db:"failed" json:"failed"`
	Mean        sql.NullFloat64 `db:"mean" json:"mean,omitempty"`
	StdDev      sql.NullFloat64 `db:"stddev" json:"stddev,omitempty"`
	Histogram   types.JSONText  `db:"histogram" json:"histogram,omitempty"`
	Error       sql.NullString  `db:"error" json:"error,omitempty"`
	CreatedBy   string          `db:"created_by" json:"created_by"`
	CreatedAt   time.Time       `db:"created_at" json:"created_at"`
	CompletedAt sql.NullTime    `db:"completed_at" json:"completed_at,omitempty"`
}

// AdminAccount may issue API tokens.
type AdminAccount struct {
	Phone       string         `db:"phone" json:"phone"`
	DisplayName string         `db:"display_name" json:"display_name"`
	TokenHash   string         `db:"token_hash" json:"-"`
	Roles       pq.StringArray `db:"roles" json:"roles"`
	CreatedAt   time.Time      `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time      `db:"updated_at" json:"updated_at"`
}

// AdminAudit records an admin action
type AdminAudit struct {
	ID         int64          `db:"id" json:"id"`
	AdminPhone string         `db:"admin_phone" json:"admin_phone"`
	IP         string         `db:"ip" json:"ip"`
	Route      string         `db:"route" json:"route"`
	Action     string         `db:"action" json:"action"`
	Details    types.JSONText `db:"details" json:"details"`
	Success    bool           `db:"success" json:"success"`
	CreatedAt  time.Time      `db:"created_at" json:"created_at"`
}
