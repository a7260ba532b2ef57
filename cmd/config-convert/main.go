package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"github.com/chrissnell/fuelmoisture/pkg/config"
)

func main() {
	var (
		yamlFile   = flag.String("yaml", "", "Path to YAML configuration file (required)")
		sqliteFile = flag.String("sqlite", "", "Path to SQLite database file (required)")
		force      = flag.Bool("force", false, "Overwrite existing SQLite database")
		dryRun     = flag.Bool("dry-run", false, "Show what would be done without executing")
	)
	flag.Parse()

	if *yamlFile == "" || *sqliteFile == "" {
		fmt.Fprintf(os.Stderr, "Usage: %s -yaml <config.yaml> -sqlite <config.db>\n", os.Args[0])
		flag.PrintDefaults()
		os.Exit(1)
	}

	if err := convert(*yamlFile, *sqliteFile, *force, *dryRun); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func convert(yamlFile, sqliteFile string, force, dryRun bool) error {
	// Check if YAML file exists
	if _, err := os.Stat(yamlFile); os.IsNotExist(err) {
		return fmt.Errorf("YAML file does not exist: %s", yamlFile)
	}

	// Check if SQLite file already exists
	if _, err := os.Stat(sqliteFile); err == nil && !force {
		return fmt.Errorf("SQLite file already exists: %s (use -force to overwrite or choose a different filename)", sqliteFile)
	}

	fmt.Printf("Converting YAML configuration to SQLite...\n")
	fmt.Printf("  Source: %s\n", yamlFile)
	fmt.Printf("  Target: %s\n", sqliteFile)

	configData, err := config.NewYAMLProvider(yamlFile).LoadConfig()
	if err != nil {
		return fmt.Errorf("loading YAML configuration: %w", err)
	}

	if dryRun {
		printConfigSummary(configData)
		fmt.Println("DRY RUN complete - no database created")
		return nil
	}

	// Remove existing SQLite file if force is specified
	if force {
		if err := os.Remove(sqliteFile); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("removing existing SQLite file: %w", err)
		}
	}

	if err := os.MkdirAll(filepath.Dir(sqliteFile), 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

	// Opening the provider applies the schema migrations
	provider, err := config.NewSQLiteProvider(sqliteFile)
	if err != nil {
		return fmt.Errorf("creating SQLite database: %w", err)
	}
	defer provider.Close()

	if err := provider.SaveConfig(configData); err != nil {
		return fmt.Errorf("failed to save configuration: %w", err)
	}

	fmt.Printf("Conversion completed successfully!\n")
	fmt.Printf("You can now use the SQLite backend with: -config-backend sqlite -config %s\n", sqliteFile)
	return nil
}

func printConfigSummary(configData *config.ConfigData) {
	params := configData.Model.ForecastParams()
	opts := configData.Model.TrendOptions()
	class, _ := configData.Model.FuelClass()

	fmt.Println("\nConfiguration Summary:")
	fmt.Printf("Model:\n")
	fmt.Printf("  - period hours: %g, label prefix: %q\n", params.DefaultPeriodHours, params.LabelPrefix)
	fmt.Printf("  - critical threshold: %g%%\n", params.CriticalThreshold)
	fmt.Printf("  - trend: %s, interpolate %t, wind reduction %g up to %g mph\n",
		opts.Resolution, opts.InterpolateMissing, opts.MaxWindReduction, opts.WindCapMPH)
	fmt.Printf("  - default fuel class: %s\n", class)

	srv := configData.Server
	fmt.Printf("\nServer:\n")
	fmt.Printf("  - listen: %s:%d (TLS %t, CORS %t)\n", srv.ListenAddr, srv.Port, srv.TLSCertPath != "", srv.EnableCORS)
}
