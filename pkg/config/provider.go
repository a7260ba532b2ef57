package config

import (
	"fmt"

	"github.com/chrissnell/fuelmoisture/pkg/fuelmoisture"
)

// ConfigProvider defines the interface for configuration data sources
type ConfigProvider interface {
	// Load complete configuration
	LoadConfig() (*ConfigData, error)

	// Get specific configuration sections
	GetModelConfig() (*ModelData, error)
	GetServerConfig() (*ServerData, error)

	IsReadOnly() bool
	Close() error
}

// ConfigData represents the complete configuration structure
type ConfigData struct {
	Model  ModelData  `json:"model" yaml:"model"`
	Server ServerData `json:"server" yaml:"server"`
}

// ModelData holds the defaults the service hands to the moisture model.
// Nil fields fall back to the model's own defaults; an explicit zero is kept.
type ModelData struct {
	DefaultPeriodHours *float64 `json:"default_period_hours,omitempty" yaml:"default_period_hours,omitempty"`
	CriticalThreshold  *float64 `json:"critical_threshold,omitempty" yaml:"critical_threshold,omitempty"`
	LabelPrefix        string   `json:"label_prefix,omitempty" yaml:"label_prefix,omitempty"`
	Resolution         string   `json:"resolution,omitempty" yaml:"resolution,omitempty"`
	InterpolateMissing *bool    `json:"interpolate_missing,omitempty" yaml:"interpolate_missing,omitempty"`
	MaxWindReduction   *float64 `json:"max_wind_reduction,omitempty" yaml:"max_wind_reduction,omitempty"`
	WindCapMPH         *float64 `json:"wind_cap_mph,omitempty" yaml:"wind_cap_mph,omitempty"`
	DefaultFuelClass   string   `json:"default_fuel_class,omitempty" yaml:"default_fuel_class,omitempty"`
}

// ServerData holds the REST server settings
type ServerData struct {
	ListenAddr  string `json:"listen_addr,omitempty" yaml:"listen_addr,omitempty"`
	Port        int    `json:"port,omitempty" yaml:"port,omitempty"`
	TLSCertPath string `json:"tls_cert_path,omitempty" yaml:"tls_cert_path,omitempty"`
	TLSKeyPath  string `json:"tls_key_path,omitempty" yaml:"tls_key_path,omitempty"`
	EnableCORS  bool   `json:"enable_cors,omitempty" yaml:"enable_cors,omitempty"`
}

// ForecastParams returns the forecast driver parameters with configured
// values laid over fuelmoisture.DefaultForecastParams.
func (m ModelData) ForecastParams() fuelmoisture.ForecastParams {
	p := fuelmoisture.DefaultForecastParams()
	if m.DefaultPeriodHours != nil {
		p.DefaultPeriodHours = *m.DefaultPeriodHours
	}
	if m.CriticalThreshold != nil {
		p.CriticalThreshold = *m.CriticalThreshold
	}
	if m.LabelPrefix != "" {
		p.LabelPrefix = m.LabelPrefix
	}
	return p
}

// TrendOptions returns the trend predictor options with configured values
// laid over fuelmoisture.DefaultTrendOptions.
func (m ModelData) TrendOptions() fuelmoisture.TrendOptions {
	o := fuelmoisture.DefaultTrendOptions()
	if m.Resolution != "" {
		o.Resolution = fuelmoisture.Resolution(m.Resolution)
	}
	if m.InterpolateMissing != nil {
		o.InterpolateMissing = *m.InterpolateMissing
	}
	if m.CriticalThreshold != nil {
		o.CriticalThreshold = *m.CriticalThreshold
	}
	if m.MaxWindReduction != nil {
		o.MaxWindReduction = *m.MaxWindReduction
	}
	if m.WindCapMPH != nil {
		o.WindCapMPH = *m.WindCapMPH
	}
	return o
}

// FuelClass returns the class used when a request names neither a time lag
// nor a fuel class. It defaults to the 10-hour class.
func (m ModelData) FuelClass() (fuelmoisture.FuelClass, error) {
	if m.DefaultFuelClass == "" {
		return fuelmoisture.TenHour, nil
	}
	return fuelmoisture.ParseFuelClass(m.DefaultFuelClass)
}

// Validate checks that the configured model settings are usable.
func (m ModelData) Validate() error {
	if err := m.ForecastParams().Validate(); err != nil {
		return fmt.Errorf("model: %w", err)
	}
	if err := m.TrendOptions().Validate(); err != nil {
		return fmt.Errorf("model: %w", err)
	}
	if _, err := m.FuelClass(); err != nil {
		return fmt.Errorf("model: %w", err)
	}
	return nil
}

// Validate checks the server settings.
func (s ServerData) Validate() error {
	if s.Port < 0 || s.Port > 65535 {
		return fmt.Errorf("server: port %d out of range", s.Port)
	}
	if (s.TLSCertPath == "") != (s.TLSKeyPath == "") {
		return fmt.Errorf("server: tls_cert_path and tls_key_path must be set together")
	}
	return nil
}

// Validate checks every section.
func (c *ConfigData) Validate() error {
	if err := c.Model.Validate(); err != nil {
		return err
	}
	return c.Server.Validate()
}
