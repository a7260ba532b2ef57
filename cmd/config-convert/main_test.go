package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/chrissnell/fuelmoisture/pkg/config"
)

const testConfig = `model:
  critical_threshold: 7
  default_fuel_class: 100-hr
server:
  port: 9000
`

func TestConvert(t *testing.T) {
	dir := t.TempDir()
	yamlPath := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(yamlPath, []byte(testConfig), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	dbPath := filepath.Join(dir, "out", "config.db")

	if err := convert(yamlPath, dbPath, false, true); err != nil {
		t.Fatalf("dry run: %v", err)
	}
	if _, err := os.Stat(dbPath); !os.IsNotExist(err) {
		t.Fatal("dry run created a database")
	}

	if err := convert(yamlPath, dbPath, false, false); err != nil {
		t.Fatalf("convert: %v", err)
	}
	if err := convert(yamlPath, dbPath, false, false); err == nil {
		t.Error("expected an error converting over an existing database without -force")
	}
	if err := convert(yamlPath, dbPath, true, false); err != nil {
		t.Fatalf("forced convert: %v", err)
	}

	provider, err := config.NewSQLiteProvider(dbPath)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer provider.Close()

	cfg, err := provider.LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.Server.Port != 9000 || cfg.Model.ForecastParams().CriticalThreshold != 7 {
		t.Errorf("config = %+v", cfg)
	}
	if cfg.Model.DefaultFuelClass != "100-hr" {
		t.Errorf("fuel class = %q", cfg.Model.DefaultFuelClass)
	}
}

func TestConvertMissingYAML(t *testing.T) {
	dir := t.TempDir()
	if err := convert(filepath.Join(dir, "nope.yaml"), filepath.Join(dir, "config.db"), false, false); err == nil {
		t.Error("expected an error for a missing YAML file")
	}
}
