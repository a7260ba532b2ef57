package fuelmoisture

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Resolution is the spacing between consecutive samples of a trend series.
type Resolution string

const (
	ResolutionHourly Resolution = "hourly"
	ResolutionDaily  Resolution = "daily"
)

// Hours returns the number of hours a single sample covers.
func (r Resolution) Hours() (float64, error) {
	switch r {
	case ResolutionHourly:
		return 1, nil
	case ResolutionDaily, "":
		return 24, nil
	}
	return 0, fmt.Errorf("%w: unknown resolution %q", ErrInvalidInput, string(r))
}

// Trend phases.
const (
	PhaseHistorical = "historical"
	PhaseForecast   = "forecast"
)

// TrendOptions tunes PredictDryingTrend.
type TrendOptions struct {
	// Resolution sets the hours per sample. Empty means daily.
	Resolution Resolution `json:"resolution" yaml:"resolution"`

	// InterpolateMissing fills temperature and humidity gaps in both series
	// before the fold.
	InterpolateMissing bool `json:"interpolate_missing" yaml:"interpolate_missing"`

	// CriticalThreshold is the moisture percentage that marks a crossing.
	CriticalThreshold float64 `json:"critical_threshold" yaml:"critical_threshold"`

	// MaxWindReduction is the largest fraction by which wind shortens the
	// time lag, reached at WindCapMPH.
	MaxWindReduction float64 `json:"max_wind_reduction" yaml:"max_wind_reduction"`

	// WindCapMPH is the wind speed beyond which drying stops speeding up.
	WindCapMPH float64 `json:"wind_cap_mph" yaml:"wind_cap_mph"`
}

// DefaultTrendOptions returns daily resolution with interpolation on, a 6%
// threshold and at most a 20% time-lag reduction at 30 mph.
func DefaultTrendOptions() TrendOptions {
	return TrendOptions{
		Resolution:         ResolutionDaily,
		InterpolateMissing: true,
		CriticalThreshold:  DefaultCriticalThreshold,
		MaxWindReduction:   0.2,
		WindCapMPH:         30,
	}
}

// Validate reports whether the options can drive a trend prediction.
func (o TrendOptions) Validate() error {
	if _, err := o.Resolution.Hours(); err != nil {
		return err
	}
	if err := requireFinite("critical threshold", o.CriticalThreshold); err != nil {
		return err
	}
	if !isFinite(o.MaxWindReduction) || o.MaxWindReduction < 0 || o.MaxWindReduction >= 1 {
		return fmt.Errorf("%w: max wind reduction must be in [0, 1), got %v", ErrInvalidInput, o.MaxWindReduction)
	}
	if !isFinite(o.WindCapMPH) || o.WindCapMPH <= 0 {
		return fmt.Errorf("%w: wind cap must be a positive speed, got %v", ErrInvalidInput, o.WindCapMPH)
	}
	return nil
}

// EffectiveTimeLag shortens timeLag for wind speed wind (mph). The reduction
// grows linearly up to o.MaxWindReduction at o.WindCapMPH and stays there;
// negative wind counts as calm.
func (o TrendOptions) EffectiveTimeLag(timeLag, wind float64) float64 {
	w := math.Max(0, math.Min(wind, o.WindCapMPH))
	return timeLag * (1 - o.MaxWindReduction*w/o.WindCapMPH)
}

// TrendEntry is the fuel moisture at the end of one sample.
type TrendEntry struct {
	Index            int      `json:"index"`
	Phase            string   `json:"phase"`
	Label            string   `json:"label"`
	Temperature      float64  `json:"temp"`
	RelativeHumidity float64  `json:"rh"`
	Wind             *float64 `json:"wind,omitempty"`
	EMC              float64  `json:"emc"`
	EffectiveTimeLag float64  `json:"effective_time_lag"`
	ElapsedHours     float64  `json:"elapsed_hours"`
	Moisture         float64  `json:"moisture"`
}

// TrendMetadata echoes the inputs and settings a prediction was made with.
type TrendMetadata struct {
	CurrentMoisture    float64    `json:"current_moisture"`
	TimeLag            float64    `json:"time_lag"`
	Resolution         Resolution `json:"resolution"`
	HoursPerSample     float64    `json:"hours_per_sample"`
	InterpolateMissing bool       `json:"interpolate_missing"`
	CriticalThreshold  float64    `json:"critical_threshold"`
	MaxWindReduction   float64    `json:"max_wind_reduction"`
	WindCapMPH         float64    `json:"wind_cap_mph"`
	HistoricalSamples  int        `json:"historical_samples"`
	ForecastSamples    int        `json:"forecast_samples"`
	InterpolatedValues int        `json:"interpolated_values"`
}

// TrendSummary condenses a trend. CriticalTime is the label of the first entry
// at or below the threshold, nil if moisture never got there. DryingRatePerHour
// is the least-squares moisture loss per elapsed hour; it is negative while
// fuel is wetting.
type TrendSummary struct {
	StartingMoisture  float64 `json:"starting_moisture"`
	EndingMoisture    float64 `json:"ending_moisture"`
	NetChange         float64 `json:"net_change"`
	BelowCritical     bool    `json:"below_critical"`
	CriticalTime      *string `json:"critical_time"`
	CriticalPhase     string  `json:"critical_phase,omitempty"`
	MinMoisture       float64 `json:"min_moisture"`
	MaxMoisture       float64 `json:"max_moisture"`
	MeanMoisture      float64 `json:"mean_moisture"`
	DryingRatePerHour float64 `json:"drying_rate_per_hour"`
}

// TrendPrediction is the outcome of PredictDryingTrend.
type TrendPrediction struct {
	Metadata TrendMetadata `json:"metadata"`
	Trend    []TrendEntry  `json:"trend"`
	Summary  TrendSummary  `json:"summary"`
}

// PredictDryingTrend starts from current moisture, folds the time-lag model
// through the historical series and then through the forecast series, and
// reports where moisture first reaches opts.CriticalThreshold. Samples that
// carry wind dry against a shortened time lag (see EffectiveTimeLag).
func PredictDryingTrend(current float64, historical, forecast []WeatherSample, timeLag float64, opts TrendOptions) (*TrendPrediction, error) {
	if err := requireFinite("current moisture", current); err != nil {
		return nil, err
	}
	if current < 0 || current > 100 {
		return nil, fmt.Errorf("%w: current moisture must be within [0, 100], got %v", ErrOutOfRange, current)
	}
	if err := requireTimeLag(timeLag); err != nil {
		return nil, err
	}
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	if len(historical) == 0 {
		return nil, fmt.Errorf("%w: historical series is empty", ErrInvalidSeries)
	}
	if len(forecast) == 0 {
		return nil, fmt.Errorf("%w: forecast series is empty", ErrInvalidSeries)
	}
	hoursPerSample, _ := opts.Resolution.Hours()
	resolution := opts.Resolution
	if resolution == "" {
		resolution = ResolutionDaily
	}

	interpolated := 0
	if opts.InterpolateMissing {
		var n int
		historical, n = interpolateSeries(historical)
		interpolated += n
		forecast, n = interpolateSeries(forecast)
		interpolated += n
	}
	if err := checkTrendSeries(PhaseHistorical, historical); err != nil {
		return nil, err
	}
	if err := checkTrendSeries(PhaseForecast, forecast); err != nil {
		return nil, err
	}

	pred := &TrendPrediction{
		Metadata: TrendMetadata{
			CurrentMoisture:    current,
			TimeLag:            timeLag,
			Resolution:         resolution,
			HoursPerSample:     hoursPerSample,
			InterpolateMissing: opts.InterpolateMissing,
			CriticalThreshold:  opts.CriticalThreshold,
			MaxWindReduction:   opts.MaxWindReduction,
			WindCapMPH:         opts.WindCapMPH,
			HistoricalSamples:  len(historical),
			ForecastSamples:    len(forecast),
			InterpolatedValues: interpolated,
		},
		Trend: make([]TrendEntry, 0, len(historical)+len(forecast)),
	}

	moisture := current
	elapsed := 0.0
	fold := func(phase, prefix string, series []WeatherSample) {
		for i, s := range series {
			tau := timeLag
			var wind *float64
			if s.Wind != nil {
				wind = Float(*s.Wind)
				tau = opts.EffectiveTimeLag(timeLag, *s.Wind)
			}
			rh := clampHumidity(*s.RelativeHumidity)
			e := emc(*s.Temperature, rh)
			moisture = step(moisture, e, hoursPerSample, tau)
			elapsed += hoursPerSample

			label := s.Label
			if label == "" {
				label = fmt.Sprintf("%s %d", prefix, i+1)
			}
			pred.Trend = append(pred.Trend, TrendEntry{
				Index:            len(pred.Trend),
				Phase:            phase,
				Label:            label,
				Temperature:      *s.Temperature,
				RelativeHumidity: rh,
				Wind:             wind,
				EMC:              e,
				EffectiveTimeLag: tau,
				ElapsedHours:     elapsed,
				Moisture:         moisture,
			})
		}
	}
	fold(PhaseHistorical, "Historical", historical)
	fold(PhaseForecast, "Forecast", forecast)

	pred.Summary = summarizeTrend(current, pred.Trend, opts.CriticalThreshold)
	return pred, nil
}

func checkTrendSeries(phase string, series []WeatherSample) error {
	for i, s := range series {
		if !present(s.Temperature) || !present(s.RelativeHumidity) {
			return fmt.Errorf("%w: %s sample %d needs a finite temp and rh", ErrInvalidSeries, phase, i+1)
		}
		if s.Wind != nil {
			if err := requireFinite(fmt.Sprintf("%s sample %d wind", phase, i+1), *s.Wind); err != nil {
				return err
			}
		}
	}
	return nil
}

func summarizeTrend(start float64, trend []TrendEntry, threshold float64) TrendSummary {
	moisture := make([]float64, len(trend))
	hours := make([]float64, len(trend))
	for i, e := range trend {
		moisture[i] = e.Moisture
		hours[i] = e.ElapsedHours
	}

	end := moisture[len(moisture)-1]
	s := TrendSummary{
		StartingMoisture: start,
		EndingMoisture:   end,
		NetChange:        round1(end - start),
		MinMoisture:      floats.Min(moisture),
		MaxMoisture:      floats.Max(moisture),
		MeanMoisture:     round1(stat.Mean(moisture, nil)),
	}
	if len(trend) > 1 {
		_, slope := stat.LinearRegression(hours, moisture, nil, false)
		s.DryingRatePerHour = math.Round(-slope*1000) / 1000
	}
	for _, e := range trend {
		if e.Moisture <= threshold {
			label := e.Label
			s.BelowCritical = true
			s.CriticalTime = &label
			s.CriticalPhase = e.Phase
			break
		}
	}
	return s
}
