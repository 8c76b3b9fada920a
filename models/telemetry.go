package models

// Location is an optional lat/lon pair attached to a telemetry sample.
type Location struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// SoilReading holds the sensors of one soil node.
type SoilReading struct {
	NodeID          string  `json:"node_id"`
	SoilMoisture    float64 `json:"soil_moisture"`
	SoilTemperature float64 `json:"soil_temperature"`
}

// AtmosphericReading holds the sensors of the hub's atmospheric node.
type AtmosphericReading struct {
	NodeID             string  `json:"node_id"`
	AirTemperature     float64 `json:"air_temperature"`
	AirHumidity        float64 `json:"air_humidity"`
	RainIntensity      float64 `json:"rain_intensity"`
	WindSpeed          float64 `json:"wind_speed"`
	LightIntensity     float64 `json:"light_intensity"`
	BarometricPressure float64 `json:"barometric_pressure"`
}

// TelemetryData is one batch of readings: zero-or-more soil nodes and
// exactly one atmospheric node.
type TelemetryData struct {
	Soil        []SoilReading       `json:"soil"`
	Atmospheric *AtmosphericReading `json:"atmospheric"`
}

// TelemetryPayload is the wire format accepted by POST /ingest.
// Timestamp is caller-supplied ISO-8601; it is normalized to UTC on store.
type TelemetryPayload struct {
	HubID     string        `json:"hub_id"`
	Timestamp string        `json:"timestamp"`
	Location  *Location     `json:"location,omitempty"`
	Data      TelemetryData `json:"data"`
}

// TelemetryRecord is the persisted form of an accepted payload.
// Immutable once written; deleted only by the retention sweeper.
type TelemetryRecord struct {
	ID         string        `json:"id,omitempty"`
	HubID      string        `json:"hub_id"`
	Timestamp  string        `json:"timestamp"`
	ReceivedAt string        `json:"received_at"`
	Location   *Location     `json:"location,omitempty"`
	Data       TelemetryData `json:"data"`
}
