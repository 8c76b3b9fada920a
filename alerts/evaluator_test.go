package alerts

import (
	"testing"
	"time"

	"github.com/KienPC1234/TerraSync-sub000/models"
)

var evalTime = time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC)

func quietAtmospheric() *models.AtmosphericReading {
	return &models.AtmosphericReading{
		NodeID:             "A1",
		AirTemperature:     22,
		AirHumidity:        50,
		RainIntensity:      0,
		WindSpeed:          5,
		LightIntensity:     40000,
		BarometricPressure: 1013,
	}
}

func soilSample(moisture, temp float64) models.TelemetryData {
	return models.TelemetryData{
		Soil: []models.SoilReading{
			{NodeID: "S1", SoilMoisture: moisture, SoilTemperature: temp},
		},
		Atmospheric: quietAtmospheric(),
	}
}

func countLevel(alerts []models.Alert, level string) int {
	n := 0
	for _, a := range alerts {
		if a.Level == level {
			n++
		}
	}
	return n
}

func TestSoilMoistureBands(t *testing.T) {
	e := NewEvaluator(DefaultThresholds())

	cases := []struct {
		name     string
		moisture float64
		level    string // empty means no moisture alert
	}{
		{"zero", 0, models.LevelCritical},
		{"just below critical bound", 19.9, models.LevelCritical},
		{"critical bound is warning", 20, models.LevelWarning},
		{"mid warning band", 25, models.LevelWarning},
		{"just below warning bound", 29.9, models.LevelWarning},
		{"low normal", 30, ""},
		{"high normal", 90, ""},
		{"waterlogged", 90.1, models.LevelInfo},
		{"saturated", 100, models.LevelInfo},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			alerts := e.Evaluate("H1", soilSample(tc.moisture, 21), evalTime)
			if tc.level == "" {
				if len(alerts) != 0 {
					t.Fatalf("expected no alerts, got %v", alerts)
				}
				return
			}
			if len(alerts) != 1 {
				t.Fatalf("expected exactly one alert, got %d: %v", len(alerts), alerts)
			}
			if alerts[0].Level != tc.level {
				t.Errorf("expected level %s, got %s", tc.level, alerts[0].Level)
			}
			if alerts[0].NodeID != "S1" {
				t.Errorf("expected node S1, got %s", alerts[0].NodeID)
			}
			if alerts[0].HubID != "H1" {
				t.Errorf("expected hub H1, got %s", alerts[0].HubID)
			}
		})
	}
}

func TestSoilTemperatureBands(t *testing.T) {
	e := NewEvaluator(DefaultThresholds())

	cases := []struct {
		name  string
		temp  float64
		level string
	}{
		{"root damage", 50.1, models.LevelCritical},
		{"heat stress upper", 50, models.LevelWarning},
		{"heat stress", 45, models.LevelWarning},
		{"normal upper", 40, ""},
		{"normal lower", 5, ""},
		{"frost", 4.9, models.LevelWarning},
		{"frost near freeze", 0, models.LevelWarning},
		{"freeze", -0.1, models.LevelCritical},
		{"deep freeze", -10, models.LevelCritical},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			alerts := e.Evaluate("H1", soilSample(50, tc.temp), evalTime)
			if tc.level == "" {
				if len(alerts) != 0 {
					t.Fatalf("expected no alerts, got %v", alerts)
				}
				return
			}
			if len(alerts) != 1 {
				t.Fatalf("expected exactly one alert, got %d: %v", len(alerts), alerts)
			}
			if alerts[0].Level != tc.level {
				t.Errorf("expected level %s, got %s", tc.level, alerts[0].Level)
			}
		})
	}
}

func TestMoistureAndTemperatureFireIndependently(t *testing.T) {
	e := NewEvaluator(DefaultThresholds())

	alerts := e.Evaluate("H1", soilSample(10, 55), evalTime)
	if len(alerts) != 2 {
		t.Fatalf("expected 2 alerts (moisture + temperature), got %d: %v", len(alerts), alerts)
	}
	if countLevel(alerts, models.LevelCritical) != 2 {
		t.Errorf("expected both critical, got %v", alerts)
	}
}

func TestAtmosphericRules(t *testing.T) {
	e := NewEvaluator(DefaultThresholds())

	cases := []struct {
		name   string
		mutate func(*models.AtmosphericReading)
		level  string
	}{
		{"storm wind", func(a *models.AtmosphericReading) { a.WindSpeed = 26 }, models.LevelCritical},
		{"strong wind", func(a *models.AtmosphericReading) { a.WindSpeed = 20 }, models.LevelWarning},
		{"wind warning upper bound", func(a *models.AtmosphericReading) { a.WindSpeed = 25 }, models.LevelWarning},
		{"wind normal bound", func(a *models.AtmosphericReading) { a.WindSpeed = 15 }, ""},
		{"flooding rain", func(a *models.AtmosphericReading) { a.RainIntensity = 51 }, models.LevelCritical},
		{"heavy rain", func(a *models.AtmosphericReading) { a.RainIntensity = 30 }, models.LevelInfo},
		{"rain info upper bound", func(a *models.AtmosphericReading) { a.RainIntensity = 50 }, models.LevelInfo},
		{"rain normal bound", func(a *models.AtmosphericReading) { a.RainIntensity = 10 }, ""},
		{"extreme heat", func(a *models.AtmosphericReading) { a.AirTemperature = 46 }, models.LevelCritical},
		{"freezing air", func(a *models.AtmosphericReading) { a.AirTemperature = -2 }, models.LevelCritical},
		{"humid", func(a *models.AtmosphericReading) { a.AirHumidity = 96 }, models.LevelInfo},
		{"humidity bound", func(a *models.AtmosphericReading) { a.AirHumidity = 95 }, ""},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			atmo := quietAtmospheric()
			tc.mutate(atmo)
			data := models.TelemetryData{Atmospheric: atmo}

			alerts := e.Evaluate("H1", data, evalTime)
			if tc.level == "" {
				if len(alerts) != 0 {
					t.Fatalf("expected no alerts, got %v", alerts)
				}
				return
			}
			if len(alerts) != 1 {
				t.Fatalf("expected exactly one alert, got %d: %v", len(alerts), alerts)
			}
			if alerts[0].Level != tc.level {
				t.Errorf("expected level %s, got %s", tc.level, alerts[0].Level)
			}
			if alerts[0].NodeID != "A1" {
				t.Errorf("atmospheric alert should carry the atmospheric node id, got %s", alerts[0].NodeID)
			}
		})
	}
}

func TestQuietSampleProducesNoAlerts(t *testing.T) {
	e := NewEvaluator(DefaultThresholds())
	data := models.TelemetryData{
		Soil:        []models.SoilReading{{NodeID: "S1", SoilMoisture: 50, SoilTemperature: 20}},
		Atmospheric: quietAtmospheric(),
	}
	if alerts := e.Evaluate("H1", data, evalTime); len(alerts) != 0 {
		t.Fatalf("expected zero alerts, got %v", alerts)
	}
}

func TestEveryAlertStampsEvaluationInstantUTC(t *testing.T) {
	e := NewEvaluator(DefaultThresholds())
	local := time.Date(2026, 3, 14, 20, 0, 0, 0, time.FixedZone("UTC+8", 8*3600))

	alerts := e.Evaluate("H1", soilSample(10, 55), local)
	want := "2026-03-14T12:00:00Z"
	for _, a := range alerts {
		if a.CreatedAt != want {
			t.Errorf("expected created_at %s, got %s", want, a.CreatedAt)
		}
	}
}

func TestMultipleSoilNodesEvaluatedSeparately(t *testing.T) {
	e := NewEvaluator(DefaultThresholds())
	data := models.TelemetryData{
		Soil: []models.SoilReading{
			{NodeID: "S1", SoilMoisture: 15, SoilTemperature: 20},
			{NodeID: "S2", SoilMoisture: 50, SoilTemperature: 20},
			{NodeID: "S3", SoilMoisture: 25, SoilTemperature: 20},
		},
		Atmospheric: quietAtmospheric(),
	}

	alerts := e.Evaluate("H1", data, evalTime)
	if len(alerts) != 2 {
		t.Fatalf("expected 2 alerts, got %d: %v", len(alerts), alerts)
	}
	byNode := map[string]string{}
	for _, a := range alerts {
		byNode[a.NodeID] = a.Level
	}
	if byNode["S1"] != models.LevelCritical {
		t.Errorf("S1: expected critical, got %s", byNode["S1"])
	}
	if byNode["S3"] != models.LevelWarning {
		t.Errorf("S3: expected warning, got %s", byNode["S3"])
	}
}

func TestConfigurableThresholds(t *testing.T) {
	custom := DefaultThresholds()
	custom.SoilMoistureCriticalBelow = 40
	custom.SoilMoistureWarningBelow = 60
	e := NewEvaluator(custom)

	alerts := e.Evaluate("H1", soilSample(35, 20), evalTime)
	if len(alerts) != 1 || alerts[0].Level != models.LevelCritical {
		t.Fatalf("expected critical under custom thresholds, got %v", alerts)
	}
}
