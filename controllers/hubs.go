package controllers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/KienPC1234/TerraSync-sub000/models"
	"github.com/KienPC1234/TerraSync-sub000/store"
)

// RegisterHub registers a gateway device. Idempotent on hub_id: a
// duplicate registration answers with a warning, not an error.
func (a *API) RegisterHub(c *gin.Context) {
	var hub models.HubRecord
	if err := c.ShouldBindJSON(&hub); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"status": "error", "message": "invalid JSON payload"})
		return
	}
	if hub.HubID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"status": "error", "message": "hub_id is required"})
		return
	}

	existing, err := a.store.Get(store.Hubs, store.Record{"hub_id": hub.HubID})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"status": "error", "message": "failed to check registration"})
		return
	}
	if len(existing) > 0 {
		c.JSON(http.StatusOK, gin.H{
			"status":  "warning",
			"message": "hub already registered",
			"hub":     existing[0],
		})
		return
	}

	hub.Status = "registered"
	hub.RegisteredAt = time.Now().UTC().Format(time.RFC3339)
	raw, err := models.ToRecord(hub)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"status": "error", "message": "failed to encode hub"})
		return
	}
	stored, err := a.store.Add(store.Hubs, raw)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"status": "error", "message": "failed to register hub"})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"status":  "success",
		"message": "hub registered",
		"hub":     stored,
	})
}

// RegisterSensor registers a sensor node. Idempotent on node_id.
func (a *API) RegisterSensor(c *gin.Context) {
	var sensor models.SensorRecord
	if err := c.ShouldBindJSON(&sensor); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"status": "error", "message": "invalid JSON payload"})
		return
	}
	if sensor.NodeID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"status": "error", "message": "node_id is required"})
		return
	}
	if sensor.HubID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"status": "error", "message": "hub_id is required"})
		return
	}

	existing, err := a.store.Get(store.Sensors, store.Record{"node_id": sensor.NodeID})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"status": "error", "message": "failed to check registration"})
		return
	}
	if len(existing) > 0 {
		c.JSON(http.StatusOK, gin.H{
			"status":  "warning",
			"message": "sensor already registered",
			"sensor":  existing[0],
		})
		return
	}

	sensor.RegisteredAt = time.Now().UTC().Format(time.RFC3339)
	raw, err := models.ToRecord(sensor)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"status": "error", "message": "failed to encode sensor"})
		return
	}
	stored, err := a.store.Add(store.Sensors, raw)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"status": "error", "message": "failed to register sensor"})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"status":  "success",
		"message": "sensor registered",
		"sensor":  stored,
	})
}

// HubStatus returns the composite hub view: registration record,
// sensors and the most recent telemetry sample.
func (a *API) HubStatus(c *gin.Context) {
	statuses, err := a.queries.HubStatuses(c.Query("hub_id"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"status": "error", "message": "failed to fetch hub status"})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"status": "success",
		"hubs":   statuses,
		"count":  len(statuses),
	})
}
