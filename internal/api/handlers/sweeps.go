package handlers

import (
	"database/sql"
	"fmt"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"
	"github.com/playmatatu/billiards/internal/admin"
	"github.com/playmatatu/billiards/internal/config"
	"github.com/playmatatu/billiards/internal/middleware"
	"github.com/playmatatu/billiards/internal/models"
	"github.com/playmatatu/billiards/internal/service"
	"github.com/playmatatu/billiards/internal/store"
	"github.com/playmatatu/billiards/internal/sweep"
	"github.com/playmatatu/billiards/internal/worker"
	"github.com/redis/go-redis/v9"
)

const sweepTimeout = 30 * time.Minute

type sweepRequest struct {
	Samples     int                `json:"samples"`
	Reflections int                `json:"reflections"`
	Bins        int                `json:"bins"`
	Seed        *uint64            `json:"seed"`
	Table       *service.TableSpec `json:"table"`
}

// spec validates the request against the configured limits.
func (r sweepRequest) spec(cfg *config.Config) (sweep.Spec, error) {
	spec := sweep.Spec{
		Samples:     r.Samples,
		Reflections: r.Reflections,
		Bins:        r.Bins,
		Workers:     cfg.SweepWorkers,
	}
	if spec.Reflections == 0 {
		spec.Reflections = cfg.KeyReflections
	}
	if r.Seed != nil {
		spec.Seed = *r.Seed
	} else {
		spec.Seed = uint64(time.Now().UnixNano())
	}
	if r.Table != nil {
		t, err := r.Table.Build()
		if err != nil {
			return spec, err
		}
		spec.Table = t
	}
	if cfg.SweepMaxSamples > 0 && spec.Samples > cfg.SweepMaxSamples {
		return spec, fmt.Errorf("%w: samples capped at %d", sweep.ErrInvalidSpec, cfg.SweepMaxSamples)
	}
	if cfg.MaxReflections > 0 && spec.Reflections > cfg.MaxReflections {
		return spec, fmt.Errorf("%w: reflections capped at %d", sweep.ErrInvalidSpec, cfg.MaxReflections)
	}
	return spec, spec.Validate()
}

// StartSweep persists a sweep and runs it in the background
func StartSweep(db *sqlx.DB, rdb *redis.Client, cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req sweepRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
			return
		}
		spec, err := req.spec(cfg)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		row := &models.Sweep{
			Samples:     spec.Samples,
			Reflections: spec.Reflections,
			Bins:        spec.Bins,
			Seed:        int64(spec.Seed),
			CreatedBy:   c.GetString(middleware.AdminPhoneKey),
		}
		if spec.Table != nil {
			d1, d2 := spec.Table.Dims()
			row.Variant = sql.NullString{String: string(spec.Table.Variant()), Valid: true}
			row.Dim1 = sql.NullFloat64{Float64: d1, Valid: true}
			row.Dim2 = sql.NullFloat64{Float64: d2, Valid: true}
		}
		if err := store.InsertSweep(db, row); err != nil {
			log.Printf("[DB] insert sweep failed: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create sweep"})
			return
		}

		admin.LogAdminAction(db, row.CreatedBy, c.ClientIP(), c.FullPath(), "start_sweep",
			map[string]interface{}{"sweep_id": row.ID, "samples": row.Samples}, true)
		worker.StartSweepJob(db, rdb, worker.SweepJob{ID: row.ID, Spec: spec}, sweepTimeout)

		c.JSON(http.StatusAccepted, gin.H{
			"sweep": row,
			"ws":    "/api/v1/sweeps/" + strconv.FormatInt(row.ID, 10) + "/ws",
		})
	}
}

// GetSweep returns a sweep's status and, once done, its statistics
func GetSweep(db *sqlx.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := idParam(c)
		if !ok {
			return
		}
		s, err := store.GetSweep(db, id)
		if err != nil {
			c.JSON(statusFor(err), gin.H{"error": "sweep not found"})
			return
		}
		c.JSON(http.StatusOK, s)
	}
}
