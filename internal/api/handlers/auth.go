package handlers

import (
	"errors"
	"log"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"
	"github.com/playmatatu/billiards/internal/admin"
	"github.com/playmatatu/billiards/internal/config"
	"github.com/playmatatu/billiards/internal/middleware"
)

// IssueToken exchanges an admin phone and token for a bearer JWT
func IssueToken(db *sqlx.DB, cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req struct {
			Phone string `json:"phone"`
			Token string `json:"token"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "phone and token required"})
			return
		}
		phone := strings.TrimSpace(req.Phone)
		token := strings.TrimSpace(req.Token)
		if phone == "" || token == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "phone and token required"})
			return
		}
		if db == nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": "accounts unavailable"})
			return
		}

		acct, err := admin.ValidateAdminPhoneAndToken(db, phone, token)
		if err != nil {
			if errors.Is(err, admin.ErrAccountNotFound) || errors.Is(err, admin.ErrInvalidToken) {
				c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid credentials"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
			return
		}

		signed, exp, err := middleware.IssueToken(cfg, acct.Phone, acct.Roles)
		if err != nil {
			log.Printf("[AUTH] Failed to sign token: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
			return
		}

		admin.LogAdminAction(db, acct.Phone, c.ClientIP(), c.FullPath(), "issue_token", nil, true)
		c.JSON(http.StatusOK, gin.H{"token": signed, "expires_at": exp, "admin": acct})
	}
}
