package alerts

// Thresholds carries every alert-rule boundary. Values are configurable
// (config `alerts.*` keys) so per-crop tuning stays possible; the
// defaults match the platform's baseline agronomy rules.
type Thresholds struct {
	SoilMoistureCriticalBelow float64 `mapstructure:"soil_moisture_critical_below"`
	SoilMoistureWarningBelow  float64 `mapstructure:"soil_moisture_warning_below"`
	SoilMoistureInfoAbove     float64 `mapstructure:"soil_moisture_info_above"`

	SoilTempCriticalAbove float64 `mapstructure:"soil_temp_critical_above"`
	SoilTempWarningAbove  float64 `mapstructure:"soil_temp_warning_above"`
	SoilTempCriticalBelow float64 `mapstructure:"soil_temp_critical_below"`
	SoilTempWarningBelow  float64 `mapstructure:"soil_temp_warning_below"`

	WindCriticalAbove float64 `mapstructure:"wind_critical_above"`
	WindWarningAbove  float64 `mapstructure:"wind_warning_above"`

	RainCriticalAbove float64 `mapstructure:"rain_critical_above"`
	RainInfoAbove     float64 `mapstructure:"rain_info_above"`

	AirTempCriticalAbove float64 `mapstructure:"air_temp_critical_above"`
	AirTempCriticalBelow float64 `mapstructure:"air_temp_critical_below"`

	HumidityInfoAbove float64 `mapstructure:"humidity_info_above"`
}

// DefaultThresholds returns the baseline rule boundaries.
func DefaultThresholds() Thresholds {
	return Thresholds{
		SoilMoistureCriticalBelow: 20,
		SoilMoistureWarningBelow:  30,
		SoilMoistureInfoAbove:     90,
		SoilTempCriticalAbove:     50,
		SoilTempWarningAbove:      40,
		SoilTempCriticalBelow:     0,
		SoilTempWarningBelow:      5,
		WindCriticalAbove:         25,
		WindWarningAbove:          15,
		RainCriticalAbove:         50,
		RainInfoAbove:             10,
		AirTempCriticalAbove:      45,
		AirTempCriticalBelow:      0,
		HumidityInfoAbove:         95,
	}
}
