package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/chrissnell/fuelmoisture/pkg/fuelmoisture"
)

const sampleYAML = `model:
  default_period_hours: 24
  critical_threshold: 0
  label_prefix: Day
  resolution: hourly
  interpolate_missing: false
  wind_cap_mph: 25
  default_fuel_class: 1-hr
server:
  listen_addr: 127.0.0.1
  port: 9090
  enable_cors: true
`

func writeFile(t *testing.T, name, data string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}

func TestYAMLProviderLoadConfig(t *testing.T) {
	provider := NewYAMLProvider(writeFile(t, "config.yaml", sampleYAML))
	cfg, err := provider.LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}

	params := cfg.Model.ForecastParams()
	if params.DefaultPeriodHours != 24 || params.LabelPrefix != "Day" {
		t.Errorf("forecast params = %+v", params)
	}
	if params.CriticalThreshold != 0 {
		t.Errorf("explicit threshold 0 became %v", params.CriticalThreshold)
	}

	opts := cfg.Model.TrendOptions()
	checks := []struct {
		name string
		got  any
		want any
	}{
		{"resolution", opts.Resolution, fuelmoisture.ResolutionHourly},
		{"interpolate_missing", opts.InterpolateMissing, false},
		{"wind_cap_mph", opts.WindCapMPH, 25.0},
		{"max_wind_reduction default", opts.MaxWindReduction, 0.2},
		{"listen_addr", cfg.Server.ListenAddr, "127.0.0.1"},
		{"port", cfg.Server.Port, 9090},
		{"enable_cors", cfg.Server.EnableCORS, true},
	}
	for _, c := range checks {
		if c.got != c.want {
			t.Errorf("%s = %v, expected %v", c.name, c.got, c.want)
		}
	}

	class, err := cfg.Model.FuelClass()
	if err != nil || class != fuelmoisture.OneHour {
		t.Errorf("fuel class = %v, %v", class, err)
	}

	server, err := provider.GetServerConfig()
	if err != nil || server.Port != 9090 {
		t.Errorf("GetServerConfig = %+v, %v", server, err)
	}
	if !provider.IsReadOnly() {
		t.Error("YAML provider should be read-only")
	}
}

func TestYAMLProviderDefaults(t *testing.T) {
	cfg, err := NewYAMLProvider(writeFile(t, "empty.yaml", "server: {}\n")).LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if got := cfg.Model.ForecastParams(); got != fuelmoisture.DefaultForecastParams() {
		t.Errorf("forecast params = %+v", got)
	}
	if got := cfg.Model.TrendOptions(); got != fuelmoisture.DefaultTrendOptions() {
		t.Errorf("trend options = %+v", got)
	}
	if class, _ := cfg.Model.FuelClass(); class != fuelmoisture.TenHour {
		t.Errorf("default fuel class = %v", class)
	}
}

func TestYAMLProviderRejectsInvalid(t *testing.T) {
	tests := []struct {
		name    string
		data    string
		wantErr error
	}{
		{"negative period hours", "model:\n  default_period_hours: -1\n", fuelmoisture.ErrInvalidInput},
		{"unknown resolution", "model:\n  resolution: weekly\n", fuelmoisture.ErrInvalidInput},
		{"unknown fuel class", "model:\n  default_fuel_class: 7-hr\n", fuelmoisture.ErrInvalidTimeLag},
		{"wind reduction too large", "model:\n  max_wind_reduction: 1\n", fuelmoisture.ErrInvalidInput},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewYAMLProvider(writeFile(t, "bad.yaml", tt.data)).LoadConfig()
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("error = %v, expected %v", err, tt.wantErr)
			}
		})
	}

	if _, err := NewYAMLProvider(writeFile(t, "typo.yaml", "model:\n  threshold: 5\n")).LoadConfig(); err == nil {
		t.Error("expected unknown key to be rejected")
	}
	if _, err := NewYAMLProvider(writeFile(t, "tls.yaml", "server:\n  tls_cert_path: a.pem\n")).LoadConfig(); err == nil {
		t.Error("expected cert without key to be rejected")
	}
	if _, err := NewYAMLProvider(filepath.Join(t.TempDir(), "missing.yaml")).LoadConfig(); err == nil {
		t.Error("expected missing file to fail")
	}
}

func TestSQLiteProviderRoundTrip(t *testing.T) {
	yamlCfg, err := NewYAMLProvider(writeFile(t, "config.yaml", sampleYAML)).LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}

	dbPath := filepath.Join(t.TempDir(), "config.db")
	provider, err := NewSQLiteProvider(dbPath)
	if err != nil {
		t.Fatalf("NewSQLiteProvider: %v", err)
	}
	defer provider.Close()

	if err := provider.SaveConfig(yamlCfg); err != nil {
		t.Fatalf("SaveConfig: %v", err)
	}
	cfg, err := provider.LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}

	if cfg.Model.ForecastParams() != yamlCfg.Model.ForecastParams() {
		t.Errorf("forecast params = %+v, expected %+v", cfg.Model.ForecastParams(), yamlCfg.Model.ForecastParams())
	}
	if cfg.Model.TrendOptions() != yamlCfg.Model.TrendOptions() {
		t.Errorf("trend options = %+v, expected %+v", cfg.Model.TrendOptions(), yamlCfg.Model.TrendOptions())
	}
	if cfg.Model.MaxWindReduction != nil {
		t.Errorf("unset max_wind_reduction came back as %v", *cfg.Model.MaxWindReduction)
	}
	if cfg.Model.CriticalThreshold == nil || *cfg.Model.CriticalThreshold != 0 {
		t.Errorf("explicit threshold 0 lost: %v", cfg.Model.CriticalThreshold)
	}
	if cfg.Server != yamlCfg.Server {
		t.Errorf("server = %+v, expected %+v", cfg.Server, yamlCfg.Server)
	}
	if provider.IsReadOnly() {
		t.Error("SQLite provider should be writable")
	}
}

func TestSQLiteProviderEmptyDatabase(t *testing.T) {
	provider, err := NewSQLiteProvider(filepath.Join(t.TempDir(), "empty.db"))
	if err != nil {
		t.Fatalf("NewSQLiteProvider: %v", err)
	}
	defer provider.Close()

	cfg, err := provider.LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.Model.ForecastParams() != fuelmoisture.DefaultForecastParams() {
		t.Errorf("expected defaults, got %+v", cfg.Model.ForecastParams())
	}
	if cfg.Server != (ServerData{}) {
		t.Errorf("expected empty server config, got %+v", cfg.Server)
	}
}

func TestSQLiteProviderReopen(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "config.db")
	class := "100-hr"

	first, err := NewSQLiteProvider(dbPath)
	if err != nil {
		t.Fatalf("NewSQLiteProvider: %v", err)
	}
	if err := first.SaveConfig(&ConfigData{Model: ModelData{DefaultFuelClass: class}}); err != nil {
		t.Fatalf("SaveConfig: %v", err)
	}
	first.Close()

	// Reopening an up-to-date database must not reapply migrations
	second, err := NewSQLiteProvider(dbPath)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer second.Close()

	model, err := second.GetModelConfig()
	if err != nil {
		t.Fatalf("GetModelConfig: %v", err)
	}
	if fc, _ := model.FuelClass(); fc != fuelmoisture.HundredHour {
		t.Errorf("fuel class = %v, expected %s", fc, class)
	}
}
