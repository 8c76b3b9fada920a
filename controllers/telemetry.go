package controllers

import (
	"encoding/csv"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/KienPC1234/TerraSync-sub000/ingest"
	"github.com/KienPC1234/TerraSync-sub000/models"
)

// Ingest accepts one telemetry payload. The 202 response is sent before
// storage or alert evaluation complete.
func (a *API) Ingest(c *gin.Context) {
	var payload models.TelemetryPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"status": "error", "message": "invalid JSON payload"})
		return
	}

	receipt, err := a.pipeline.Accept(payload)
	if err != nil {
		var verr *ingest.ValidationError
		if errors.As(err, &verr) {
			c.JSON(http.StatusBadRequest, gin.H{"status": "error", "message": verr.Reason})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"status": "error", "message": "failed to accept telemetry"})
		return
	}

	c.JSON(http.StatusAccepted, gin.H{
		"status":      "success",
		"message":     "telemetry accepted for processing",
		"hub_id":      receipt.HubID,
		"received_at": receipt.ReceivedAt,
	})
}

// LatestTelemetry returns the newest sample for a hub, or across all
// hubs when hub_id is omitted.
func (a *API) LatestTelemetry(c *gin.Context) {
	rec, ok, err := a.queries.Latest(c.Query("hub_id"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"status": "error", "message": "failed to fetch telemetry"})
		return
	}
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"status": "error", "message": "no telemetry data found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "success", "telemetry": rec})
}

// TelemetryHistory returns a limited page of samples, newest first,
// with the total match count.
func (a *API) TelemetryHistory(c *gin.Context) {
	limit := 0
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			c.JSON(http.StatusBadRequest, gin.H{"status": "error", "message": "limit must be a non-negative integer"})
			return
		}
		limit = n
	}

	items, total, err := a.queries.History(c.Query("hub_id"), limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"status": "error", "message": "failed to fetch history"})
		return
	}
	if items == nil {
		items = []map[string]any{}
	}
	c.JSON(http.StatusOK, gin.H{
		"status":         "success",
		"items":          items,
		"total_count":    total,
		"returned_count": len(items),
	})
}

// ExportTelemetryCSV streams telemetry history as a CSV attachment.
func (a *API) ExportTelemetryCSV(c *gin.Context) {
	items, _, err := a.queries.History(c.Query("hub_id"), -1)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"status": "error", "message": "failed to fetch history"})
		return
	}

	c.Header("Content-Type", "text/csv")
	c.Header("Content-Disposition", "attachment; filename=telemetry.csv")
	writer := csv.NewWriter(c.Writer)
	defer writer.Flush()

	writer.Write([]string{"timestamp", "hub_id", "node_id", "kind", "sensor", "value"})
	for _, item := range items {
		var rec models.TelemetryRecord
		if err := models.FromRecord(item, &rec); err != nil {
			continue
		}
		for _, soil := range rec.Data.Soil {
			writeCSVRow(writer, rec, soil.NodeID, "soil", "soil_moisture", soil.SoilMoisture)
			writeCSVRow(writer, rec, soil.NodeID, "soil", "soil_temperature", soil.SoilTemperature)
		}
		if atmo := rec.Data.Atmospheric; atmo != nil {
			writeCSVRow(writer, rec, atmo.NodeID, "atmospheric", "air_temperature", atmo.AirTemperature)
			writeCSVRow(writer, rec, atmo.NodeID, "atmospheric", "air_humidity", atmo.AirHumidity)
			writeCSVRow(writer, rec, atmo.NodeID, "atmospheric", "rain_intensity", atmo.RainIntensity)
			writeCSVRow(writer, rec, atmo.NodeID, "atmospheric", "wind_speed", atmo.WindSpeed)
			writeCSVRow(writer, rec, atmo.NodeID, "atmospheric", "light_intensity", atmo.LightIntensity)
			writeCSVRow(writer, rec, atmo.NodeID, "atmospheric", "barometric_pressure", atmo.BarometricPressure)
		}
	}
}

func writeCSVRow(w *csv.Writer, rec models.TelemetryRecord, nodeID, kind, sensor string, value float64) {
	w.Write([]string{
		rec.Timestamp,
		rec.HubID,
		nodeID,
		kind,
		sensor,
		fmt.Sprintf("%.2f", value),
	})
}
