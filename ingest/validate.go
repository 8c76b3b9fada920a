package ingest

import (
	"fmt"

	"github.com/KienPC1234/TerraSync-sub000/models"
)

// ValidationError marks a payload rejection. It is the only error
// Accept returns; handlers map it to a 400 response.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string {
	return e.Reason
}

func invalid(format string, args ...any) error {
	return &ValidationError{Reason: fmt.Sprintf(format, args...)}
}

// Validate checks a payload before any persistence happens. It fails
// fast: the first violated constraint is reported.
func Validate(p models.TelemetryPayload) error {
	if p.HubID == "" {
		return invalid("hub_id is required")
	}
	if p.Timestamp == "" {
		return invalid("timestamp is required")
	}
	if _, err := models.ParseTimestamp(p.Timestamp); err != nil {
		return invalid("invalid timestamp: %v", err)
	}
	if p.Data.Atmospheric == nil {
		return invalid("data.atmospheric is required")
	}

	for i, soil := range p.Data.Soil {
		if soil.SoilMoisture < 0 || soil.SoilMoisture > 100 {
			return invalid("soil[%d]: soil_moisture %.1f out of range [0,100]", i, soil.SoilMoisture)
		}
	}

	atmo := p.Data.Atmospheric
	if atmo.AirHumidity < 0 || atmo.AirHumidity > 100 {
		return invalid("atmospheric: air_humidity %.1f out of range [0,100]", atmo.AirHumidity)
	}
	for _, v := range []struct {
		name  string
		value float64
	}{
		{"rain_intensity", atmo.RainIntensity},
		{"wind_speed", atmo.WindSpeed},
		{"light_intensity", atmo.LightIntensity},
		{"barometric_pressure", atmo.BarometricPressure},
	} {
		if v.value < 0 {
			return invalid("atmospheric: %s must be non-negative, got %.1f", v.name, v.value)
		}
	}
	return nil
}
