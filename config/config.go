package config

import (
	"log"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/KienPC1234/TerraSync-sub000/alerts"
)

// Config is the full service configuration, read once at startup from
// an optional config.yaml with TERRASYNC_* environment overrides.
type Config struct {
	Server struct {
		Port string `mapstructure:"port"`
	} `mapstructure:"server"`
	Store struct {
		Path string `mapstructure:"path"`
	} `mapstructure:"store"`
	Retention struct {
		AlertDays     int           `mapstructure:"alert_days"`
		TelemetryDays int           `mapstructure:"telemetry_days"`
		SweepInterval time.Duration `mapstructure:"sweep_interval"`
	} `mapstructure:"retention"`
	CORS struct {
		Origins []string `mapstructure:"origins"`
	} `mapstructure:"cors"`
	Alerts alerts.Thresholds `mapstructure:"alerts"`
}

// AlertWindow is the retention window for alert records.
func (c *Config) AlertWindow() time.Duration {
	return time.Duration(c.Retention.AlertDays) * 24 * time.Hour
}

// TelemetryWindow is the retention window for telemetry records.
func (c *Config) TelemetryWindow() time.Duration {
	return time.Duration(c.Retention.TelemetryDays) * 24 * time.Hour
}

// Load reads configuration from path (directory containing config.yaml)
// and the environment. A missing config file is fine; defaults apply.
func Load(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(path)
	v.SetEnvPrefix("terrasync")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			log.Printf("config: error reading config file: %v, continuing with defaults", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", "8080")
	v.SetDefault("store.path", "terrasync.db.json")
	v.SetDefault("retention.alert_days", 30)
	v.SetDefault("retention.telemetry_days", 90)
	v.SetDefault("retention.sweep_interval", "24h")
	v.SetDefault("cors.origins", []string{"*"})

	t := alerts.DefaultThresholds()
	v.SetDefault("alerts.soil_moisture_critical_below", t.SoilMoistureCriticalBelow)
	v.SetDefault("alerts.soil_moisture_warning_below", t.SoilMoistureWarningBelow)
	v.SetDefault("alerts.soil_moisture_info_above", t.SoilMoistureInfoAbove)
	v.SetDefault("alerts.soil_temp_critical_above", t.SoilTempCriticalAbove)
	v.SetDefault("alerts.soil_temp_warning_above", t.SoilTempWarningAbove)
	v.SetDefault("alerts.soil_temp_critical_below", t.SoilTempCriticalBelow)
	v.SetDefault("alerts.soil_temp_warning_below", t.SoilTempWarningBelow)
	v.SetDefault("alerts.wind_critical_above", t.WindCriticalAbove)
	v.SetDefault("alerts.wind_warning_above", t.WindWarningAbove)
	v.SetDefault("alerts.rain_critical_above", t.RainCriticalAbove)
	v.SetDefault("alerts.rain_info_above", t.RainInfoAbove)
	v.SetDefault("alerts.air_temp_critical_above", t.AirTempCriticalAbove)
	v.SetDefault("alerts.air_temp_critical_below", t.AirTempCriticalBelow)
	v.SetDefault("alerts.humidity_info_above", t.HumidityInfoAbove)
}
