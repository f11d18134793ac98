package handlers

import (
	"database/sql"
	"encoding/json"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"
	"github.com/playmatatu/billiards/internal/admin"
	"github.com/playmatatu/billiards/internal/middleware"
	"github.com/playmatatu/billiards/internal/models"
	"github.com/playmatatu/billiards/internal/service"
	"github.com/playmatatu/billiards/internal/store"
)

// CreateRun simulates and persists the result
func CreateRun(db *sqlx.DB, sim *service.Simulator) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req service.Request
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
			return
		}

		resp, err := sim.Simulate(c.Request.Context(), req)
		if resp == nil {
			c.JSON(statusFor(err), gin.H{"error": err.Error()})
			return
		}

		run, merr := runFromResponse(req, resp)
		if merr != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
			return
		}
		run.CreatedBy = c.GetString(middleware.AdminPhoneKey)
		if err := store.InsertRun(db, run); err != nil {
			log.Printf("[DB] insert run failed: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to save run"})
			return
		}

		admin.LogAdminAction(db, run.CreatedBy, c.ClientIP(), c.FullPath(), "create_run",
			map[string]interface{}{"run_id": run.ID, "variant": run.Variant, "reflections": run.Reflections}, err == nil)
		status := http.StatusCreated
		if err != nil {
			status = statusFor(err)
		}
		c.JSON(status, run)
	}
}

// GetRun returns one run with its full result
func GetRun(db *sqlx.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := idParam(c)
		if !ok {
			return
		}
		run, err := store.GetRun(db, id)
		if err != nil {
			c.JSON(statusFor(err), gin.H{"error": "run not found"})
			return
		}
		c.JSON(http.StatusOK, run)
	}
}

// ListRuns returns recent run summaries
func ListRuns(db *sqlx.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		limit, offset := pagination(c)
		runs, err := store.ListRuns(db, limit, offset)
		if err != nil {
			log.Printf("[DB] list runs failed: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list runs"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"runs": runs, "limit": limit, "offset": offset})
	}
}

func runFromResponse(req service.Request, resp *service.Response) (*models.Run, error) {
	result, err := json.Marshal(resp)
	if err != nil {
		return nil, err
	}
	tbl, err := resp.Table.Build()
	if err != nil {
		return nil, err
	}
	d1, d2 := tbl.Dims()
	run := &models.Run{
		Variant:     resp.Table.Variant,
		Dim1:        d1,
		Dim2:        d2,
		StartX:      req.X,
		StartY:      req.Y,
		AngleDeg:    req.Angle,
		Reflections: req.Reflections,
		Completed:   resp.Reflections,
		Result:      result,
	}
	if resp.KeyScalar != nil {
		run.KeyScalar = sql.NullFloat64{Float64: *resp.KeyScalar, Valid: true}
	}
	if resp.Error != "" {
		run.Error = sql.NullString{String: resp.Error, Valid: true}
	}
	return run, nil
}
