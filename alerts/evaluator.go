package alerts

import (
	"fmt"
	"time"

	"github.com/KienPC1234/TerraSync-sub000/models"
)

// Evaluator maps one telemetry sample to zero or more alerts. It is a
// pure function of its input and the supplied evaluation instant.
type Evaluator struct {
	t Thresholds
}

func NewEvaluator(t Thresholds) *Evaluator {
	return &Evaluator{t: t}
}

// Evaluate checks every soil node and the atmospheric node of one
// sample. Distinct sensor values fire independently; within a single
// value's ladder only the first matching band fires, checked
// high-severity-first.
func (e *Evaluator) Evaluate(hubID string, data models.TelemetryData, now time.Time) []models.Alert {
	createdAt := now.UTC().Format(time.RFC3339)
	var out []models.Alert

	emit := func(nodeID, level, message string) {
		out = append(out, models.Alert{
			HubID:     hubID,
			NodeID:    nodeID,
			Message:   message,
			Level:     level,
			CreatedAt: createdAt,
		})
	}

	for _, soil := range data.Soil {
		m := soil.SoilMoisture
		switch {
		case m < e.t.SoilMoistureCriticalBelow:
			emit(soil.NodeID, models.LevelCritical,
				fmt.Sprintf("Soil moisture %.1f%% — urgent irrigation needed", m))
		case m < e.t.SoilMoistureWarningBelow:
			emit(soil.NodeID, models.LevelWarning,
				fmt.Sprintf("Soil moisture %.1f%% — plan irrigation soon", m))
		case m > e.t.SoilMoistureInfoAbove:
			emit(soil.NodeID, models.LevelInfo,
				fmt.Sprintf("Soil moisture %.1f%% — waterlogging risk", m))
		}

		st := soil.SoilTemperature
		switch {
		case st > e.t.SoilTempCriticalAbove:
			emit(soil.NodeID, models.LevelCritical,
				fmt.Sprintf("Soil temperature %.1f°C — root damage risk", st))
		case st > e.t.SoilTempWarningAbove:
			emit(soil.NodeID, models.LevelWarning,
				fmt.Sprintf("Soil temperature %.1f°C — heat stress", st))
		case st < e.t.SoilTempCriticalBelow:
			emit(soil.NodeID, models.LevelCritical,
				fmt.Sprintf("Soil temperature %.1f°C — freeze risk", st))
		case st < e.t.SoilTempWarningBelow:
			emit(soil.NodeID, models.LevelWarning,
				fmt.Sprintf("Soil temperature %.1f°C — frost risk", st))
		}
	}

	atmo := data.Atmospheric
	if atmo == nil {
		return out
	}

	switch {
	case atmo.WindSpeed > e.t.WindCriticalAbove:
		emit(atmo.NodeID, models.LevelCritical,
			fmt.Sprintf("Wind speed %.1f m/s — secure equipment and structures", atmo.WindSpeed))
	case atmo.WindSpeed > e.t.WindWarningAbove:
		emit(atmo.NodeID, models.LevelWarning,
			fmt.Sprintf("Wind speed %.1f m/s — strong wind conditions", atmo.WindSpeed))
	}

	switch {
	case atmo.RainIntensity > e.t.RainCriticalAbove:
		emit(atmo.NodeID, models.LevelCritical,
			fmt.Sprintf("Rain intensity %.1f mm/h — flooding risk", atmo.RainIntensity))
	case atmo.RainIntensity > e.t.RainInfoAbove:
		emit(atmo.NodeID, models.LevelInfo,
			fmt.Sprintf("Rain intensity %.1f mm/h — heavy rainfall", atmo.RainIntensity))
	}

	switch {
	case atmo.AirTemperature > e.t.AirTempCriticalAbove:
		emit(atmo.NodeID, models.LevelCritical,
			fmt.Sprintf("Air temperature %.1f°C — extreme heat", atmo.AirTemperature))
	case atmo.AirTemperature < e.t.AirTempCriticalBelow:
		emit(atmo.NodeID, models.LevelCritical,
			fmt.Sprintf("Air temperature %.1f°C — freezing conditions", atmo.AirTemperature))
	}

	if atmo.AirHumidity > e.t.HumidityInfoAbove {
		emit(atmo.NodeID, models.LevelInfo,
			fmt.Sprintf("Air humidity %.1f%% — fungal disease risk", atmo.AirHumidity))
	}

	return out
}
