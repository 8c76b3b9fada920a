package controllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/KienPC1234/TerraSync-sub000/models"
)

// ListAlerts returns alerts filtered by hub_id and level, newest first.
func (a *API) ListAlerts(c *gin.Context) {
	level := c.Query("level")
	if level != "" && !models.ValidLevel(level) {
		c.JSON(http.StatusBadRequest, gin.H{"status": "error", "message": "level must be info, warning or critical"})
		return
	}

	limit := 0
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			c.JSON(http.StatusBadRequest, gin.H{"status": "error", "message": "limit must be a non-negative integer"})
			return
		}
		limit = n
	}

	recs, err := a.queries.Alerts(c.Query("hub_id"), level, limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"status": "error", "message": "failed to fetch alerts"})
		return
	}
	if recs == nil {
		recs = []map[string]any{}
	}
	c.JSON(http.StatusOK, gin.H{
		"status": "success",
		"alerts": recs,
		"count":  len(recs),
	})
}

// Health is the liveness probe.
func (a *API) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "success", "message": "healthy"})
}
