package main

import (
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
	"text/tabwriter"

	"github.com/chrissnell/fuelmoisture/pkg/fuelmoisture"
	"gopkg.in/yaml.v2"
)

// runFile is the YAML document fuel-forecast reads. Forecast mode uses
// initial, periods and params; trend mode uses the rest.
type runFile struct {
	Initial map[fuelmoisture.FuelClass]float64 `yaml:"initial"`
	Periods []fuelmoisture.ForecastPeriod      `yaml:"periods"`
	Params  fuelmoisture.ForecastParams        `yaml:"params"`

	CurrentMoisture *float64                     `yaml:"current_moisture"`
	Historical      []fuelmoisture.WeatherSample `yaml:"historical"`
	Forecast        []fuelmoisture.WeatherSample `yaml:"forecast"`
	TimeLag         *float64                     `yaml:"time_lag"`
	FuelClass       string                       `yaml:"fuel_class"`
	Options         fuelmoisture.TrendOptions    `yaml:"options"`
}

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("fuel-forecast", flag.ContinueOnError)
	fs.SetOutput(stderr)
	file := fs.String("file", "", "Path to YAML run file (required)")
	mode := fs.String("mode", "forecast", "Model to run: 'forecast' or 'trend'")
	asJSON := fs.Bool("json", false, "Print the full result as JSON instead of a table")
	if err := fs.Parse(args); err != nil {
		return 2
	}

	if *file == "" {
		fmt.Fprintf(stderr, "Usage: fuel-forecast -file <run.yaml> [-mode forecast|trend] [-json]\n")
		fs.PrintDefaults()
		return 2
	}

	rf, err := loadRunFile(*file)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}

	var result any
	switch *mode {
	case "forecast":
		result, err = fuelmoisture.RunModel(rf.Initial, rf.Periods, rf.Params)
	case "trend":
		result, err = runTrend(rf)
	default:
		err = fmt.Errorf("unknown mode %q. Use 'forecast' or 'trend'", *mode)
	}
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}

	if *asJSON {
		enc := json.NewEncoder(stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(result); err != nil {
			fmt.Fprintf(stderr, "Error: %v\n", err)
			return 1
		}
		return 0
	}

	switch r := result.(type) {
	case *fuelmoisture.ForecastResult:
		printForecast(stdout, r)
	case *fuelmoisture.TrendPrediction:
		printTrend(stdout, r)
	}
	return 0
}

func loadRunFile(path string) (*runFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading run file: %w", err)
	}

	rf := &runFile{
		Params:  fuelmoisture.DefaultForecastParams(),
		Options: fuelmoisture.DefaultTrendOptions(),
	}
	if err := yaml.UnmarshalStrict(data, rf); err != nil {
		return nil, fmt.Errorf("parsing run file %s: %w", path, err)
	}
	return rf, nil
}

func runTrend(rf *runFile) (*fuelmoisture.TrendPrediction, error) {
	if rf.CurrentMoisture == nil {
		return nil, errors.New("trend mode needs current_moisture")
	}

	timeLag := fuelmoisture.TenHour.TimeLag()
	switch {
	case rf.TimeLag != nil:
		timeLag = *rf.TimeLag
	case rf.FuelClass != "":
		class, err := fuelmoisture.ParseFuelClass(rf.FuelClass)
		if err != nil {
			return nil, err
		}
		timeLag = class.TimeLag()
	}

	return fuelmoisture.PredictDryingTrend(*rf.CurrentMoisture, rf.Historical, rf.Forecast, timeLag, rf.Options)
}

func printForecast(w io.Writer, r *fuelmoisture.ForecastResult) {
	var classes []fuelmoisture.FuelClass
	for class := range r.Summary.Final {
		classes = append(classes, class)
	}
	sort.Slice(classes, func(i, j int) bool { return classes[i] < classes[j] })

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', tabwriter.AlignRight)
	header := []string{"PERIOD", "HOURS", "TEMP", "RH", "EMC"}
	for _, class := range classes {
		header = append(header, class.String())
	}
	fmt.Fprintln(tw, strings.Join(header, "\t")+"\t")

	for _, p := range r.Periods {
		row := []string{
			p.Label,
			fmt.Sprintf("%g", p.Hours),
			fmt.Sprintf("%.1f", p.Temperature),
			fmt.Sprintf("%.1f", p.RelativeHumidity),
			fmt.Sprintf("%.1f", p.EMC),
		}
		for _, class := range classes {
			cell := fmt.Sprintf("%.1f", p.Moisture[class])
			if r.Summary.FirstCritical[class] == p.Label {
				cell += "*"
			}
			row = append(row, cell)
		}
		fmt.Fprintln(tw, strings.Join(row, "\t")+"\t")
	}
	tw.Flush()

	fmt.Fprintf(w, "\nCritical threshold: %.1f%%\n", r.Summary.CriticalThreshold)
	for _, class := range classes {
		if label, ok := r.Summary.FirstCritical[class]; ok {
			fmt.Fprintf(w, "  %s first critical: %s\n", class, label)
		} else {
			fmt.Fprintf(w, "  %s never critical (final %.1f%%)\n", class, r.Summary.Final[class])
		}
	}
}

func printTrend(w io.Writer, r *fuelmoisture.TrendPrediction) {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintln(tw, "SAMPLE\tPHASE\tTEMP\tRH\tEMC\tTAU\tMOISTURE\t")
	for _, e := range r.Trend {
		fmt.Fprintf(tw, "%s\t%s\t%.1f\t%.1f\t%.1f\t%.1f\t%.1f\t\n",
			e.Label, e.Phase, e.Temperature, e.RelativeHumidity, e.EMC, e.EffectiveTimeLag, e.Moisture)
	}
	tw.Flush()

	s := r.Summary
	fmt.Fprintf(w, "\nMoisture %.1f%% -> %.1f%% (net %+.1f), drying %.3f%%/h\n",
		s.StartingMoisture, s.EndingMoisture, s.NetChange, s.DryingRatePerHour)
	if s.CriticalTime != nil {
		fmt.Fprintf(w, "Reaches %.1f%% at %s (%s)\n", r.Metadata.CriticalThreshold, *s.CriticalTime, s.CriticalPhase)
	} else {
		fmt.Fprintf(w, "Stays above %.1f%%\n", r.Metadata.CriticalThreshold)
	}
}
