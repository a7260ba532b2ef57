package config

import (
	"database/sql"
	"embed"
	"errors"
	"fmt"

	"github.com/chrissnell/fuelmoisture/pkg/migrate"
	_ "modernc.org/sqlite"
)

//go:embed migrations/*.sql
var migrations embed.FS

// SQLiteProvider implements ConfigProvider for SQLite database configuration.
// Each section lives in a single-row table; NULL columns take model defaults.
type SQLiteProvider struct {
	db     *sql.DB
	dbPath string
}

// NewSQLiteProvider opens (creating if needed) a SQLite configuration database
// and brings its schema up to date
func NewSQLiteProvider(dbPath string) (*SQLiteProvider, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open SQLite database: %w", err)
	}

	// Test the connection
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping SQLite database: %w", err)
	}

	migrator := migrate.NewMigrator(db, migrate.NewFSProvider(migrations, "migrations", "schema_migrations"), nil)
	if err := migrator.MigrateUp(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate configuration schema: %w", err)
	}

	return &SQLiteProvider{
		db:     db,
		dbPath: dbPath,
	}, nil
}

// LoadConfig loads and validates the complete configuration from the database
func (s *SQLiteProvider) LoadConfig() (*ConfigData, error) {
	model, err := s.GetModelConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to load model config: %w", err)
	}
	server, err := s.GetServerConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to load server config: %w", err)
	}

	config := &ConfigData{Model: *model, Server: *server}
	if err := config.Validate(); err != nil {
		return nil, err
	}
	return config, nil
}

// GetModelConfig returns the model configuration row
func (s *SQLiteProvider) GetModelConfig() (*ModelData, error) {
	query := `
		SELECT default_period_hours, critical_threshold, label_prefix, resolution,
		       interpolate_missing, max_wind_reduction, wind_cap_mph, default_fuel_class
		FROM model_config WHERE id = 1
	`

	var (
		periodHours, threshold, windReduction, windCap sql.NullFloat64
		labelPrefix, resolution, fuelClass             sql.NullString
		interpolate                                    sql.NullBool
	)
	err := s.db.QueryRow(query).Scan(&periodHours, &threshold, &labelPrefix, &resolution,
		&interpolate, &windReduction, &windCap, &fuelClass)
	if errors.Is(err, sql.ErrNoRows) {
		return &ModelData{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query model config: %w", err)
	}

	model := &ModelData{
		DefaultPeriodHours: floatPtr(periodHours),
		CriticalThreshold:  floatPtr(threshold),
		LabelPrefix:        labelPrefix.String,
		Resolution:         resolution.String,
		MaxWindReduction:   floatPtr(windReduction),
		WindCapMPH:         floatPtr(windCap),
		DefaultFuelClass:   fuelClass.String,
	}
	if interpolate.Valid {
		v := interpolate.Bool
		model.InterpolateMissing = &v
	}
	return model, nil
}

// GetServerConfig returns the REST server configuration row
func (s *SQLiteProvider) GetServerConfig() (*ServerData, error) {
	query := `
		SELECT listen_addr, port, tls_cert_path, tls_key_path, enable_cors
		FROM server_config WHERE id = 1
	`

	var (
		listenAddr, cert, key sql.NullString
		port                  sql.NullInt64
		cors                  sql.NullBool
	)
	err := s.db.QueryRow(query).Scan(&listenAddr, &port, &cert, &key, &cors)
	if errors.Is(err, sql.ErrNoRows) {
		return &ServerData{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query server config: %w", err)
	}

	return &ServerData{
		ListenAddr:  listenAddr.String,
		Port:        int(port.Int64),
		TLSCertPath: cert.String,
		TLSKeyPath:  key.String,
		EnableCORS:  cors.Bool,
	}, nil
}

// SaveConfig replaces the stored configuration with cfg in one transaction
func (s *SQLiteProvider) SaveConfig(cfg *ConfigData) error {
	if err := cfg.Validate(); err != nil {
		return err
	}

	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	m := cfg.Model
	_, err = tx.Exec(`
		INSERT OR REPLACE INTO model_config (id, default_period_hours, critical_threshold,
			label_prefix, resolution, interpolate_missing, max_wind_reduction, wind_cap_mph,
			default_fuel_class)
		VALUES (1, ?, ?, ?, ?, ?, ?, ?, ?)`,
		nullFloat(m.DefaultPeriodHours), nullFloat(m.CriticalThreshold),
		nullString(m.LabelPrefix), nullString(m.Resolution), nullBool(m.InterpolateMissing),
		nullFloat(m.MaxWindReduction), nullFloat(m.WindCapMPH), nullString(m.DefaultFuelClass))
	if err != nil {
		return fmt.Errorf("failed to save model config: %w", err)
	}

	srv := cfg.Server
	_, err = tx.Exec(`
		INSERT OR REPLACE INTO server_config (id, listen_addr, port, tls_cert_path, tls_key_path, enable_cors)
		VALUES (1, ?, ?, ?, ?, ?)`,
		nullString(srv.ListenAddr), srv.Port, nullString(srv.TLSCertPath),
		nullString(srv.TLSKeyPath), srv.EnableCORS)
	if err != nil {
		return fmt.Errorf("failed to save server config: %w", err)
	}

	return tx.Commit()
}

// IsReadOnly returns false since the database can be written with SaveConfig
func (s *SQLiteProvider) IsReadOnly() bool {
	return false
}

// Close closes the database connection
func (s *SQLiteProvider) Close() error {
	return s.db.Close()
}

func floatPtr(v sql.NullFloat64) *float64 {
	if !v.Valid {
		return nil
	}
	f := v.Float64
	return &f
}

func nullFloat(p *float64) any {
	if p == nil {
		return nil
	}
	return *p
}

func nullBool(p *bool) any {
	if p == nil {
		return nil
	}
	return *p
}

func nullString(s string) any {
	if s == "" {
		return nil
	}
	return s
}
