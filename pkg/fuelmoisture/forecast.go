package fuelmoisture

import (
	"fmt"
	"sort"
)

// DefaultCriticalThreshold is the moisture percentage at or below which fine
// fuels are treated as a significant fire-danger indicator.
const DefaultCriticalThreshold = 6.0

// ForecastParams tunes RunModel.
type ForecastParams struct {
	// DefaultPeriodHours is used for periods that carry no Hours value.
	DefaultPeriodHours float64 `json:"default_period_hours" yaml:"default_period_hours"`

	// CriticalThreshold is the moisture percentage that marks a critical period.
	CriticalThreshold float64 `json:"critical_threshold" yaml:"critical_threshold"`

	// LabelPrefix names unlabeled periods, e.g. "Period" gives "Period 1".
	LabelPrefix string `json:"label_prefix" yaml:"label_prefix"`
}

// DefaultForecastParams returns 12-hour periods, a 6% critical threshold and
// "Period N" labels.
func DefaultForecastParams() ForecastParams {
	return ForecastParams{
		DefaultPeriodHours: 12,
		CriticalThreshold:  DefaultCriticalThreshold,
		LabelPrefix:        "Period",
	}
}

// PeriodResult is the model state at the end of one forecast period.
type PeriodResult struct {
	Label            string                `json:"label"`
	Temperature      float64               `json:"temp"`
	RelativeHumidity float64               `json:"rh"`
	Wind             *float64              `json:"wind,omitempty"`
	Hours            float64               `json:"hours"`
	EMC              float64               `json:"emc"`
	Moisture         map[FuelClass]float64 `json:"moisture"`
}

// ForecastSummary condenses a forecast run. FirstCritical only holds classes
// that reached the threshold.
type ForecastSummary struct {
	CriticalThreshold float64               `json:"critical_threshold"`
	FirstCritical     map[FuelClass]string  `json:"first_critical"`
	Final             map[FuelClass]float64 `json:"final"`
}

// ForecastResult is the outcome of RunModel.
type ForecastResult struct {
	Periods []PeriodResult  `json:"periods"`
	Summary ForecastSummary `json:"summary"`
}

// RunModel folds StepMoisture over periods for every fuel class in initial,
// carrying each class's moisture from one period into the next. EMC is
// computed once per period and shared by all classes. The first period whose
// moisture is at or below params.CriticalThreshold is recorded per class and
// the fold always continues to the last period.
func RunModel(initial map[FuelClass]float64, periods []ForecastPeriod, params ForecastParams) (*ForecastResult, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}
	if len(initial) == 0 {
		return nil, fmt.Errorf("%w: at least one fuel class needs an initial moisture", ErrInvalidInput)
	}
	classes := make([]FuelClass, 0, len(initial))
	for class, m := range initial {
		if !class.Valid() {
			return nil, fmt.Errorf("%w: unknown fuel class %d", ErrInvalidTimeLag, int(class))
		}
		if err := requireFinite(class.String()+" initial moisture", m); err != nil {
			return nil, err
		}
		classes = append(classes, class)
	}
	sort.Slice(classes, func(i, j int) bool { return classes[i] < classes[j] })

	if len(periods) == 0 {
		return nil, fmt.Errorf("%w: no forecast periods supplied", ErrInvalidSeries)
	}
	for i, p := range periods {
		if !present(p.Temperature) || !present(p.RelativeHumidity) {
			return nil, fmt.Errorf("%w: period %d needs a finite temp and rh", ErrInvalidSeries, i+1)
		}
		if p.Hours != nil {
			if err := requireDuration(fmt.Sprintf("period %d hours", i+1), *p.Hours); err != nil {
				return nil, err
			}
		}
		if p.Wind != nil {
			if err := requireFinite(fmt.Sprintf("period %d wind", i+1), *p.Wind); err != nil {
				return nil, err
			}
		}
	}

	current := make(map[FuelClass]float64, len(classes))
	for _, class := range classes {
		current[class] = initial[class]
	}
	result := &ForecastResult{
		Periods: make([]PeriodResult, 0, len(periods)),
		Summary: ForecastSummary{
			CriticalThreshold: params.CriticalThreshold,
			FirstCritical:     make(map[FuelClass]string),
		},
	}

	for i, p := range periods {
		hours := params.DefaultPeriodHours
		if p.Hours != nil {
			hours = *p.Hours
		}
		label := p.Label
		if label == "" {
			label = fmt.Sprintf("%s %d", params.LabelPrefix, i+1)
		}
		rh := clampHumidity(*p.RelativeHumidity)
		e := emc(*p.Temperature, rh)

		moisture := make(map[FuelClass]float64, len(classes))
		for _, class := range classes {
			m := step(current[class], e, hours, class.TimeLag())
			current[class] = m
			moisture[class] = m
			if _, seen := result.Summary.FirstCritical[class]; !seen && m <= params.CriticalThreshold {
				result.Summary.FirstCritical[class] = label
			}
		}

		var wind *float64
		if p.Wind != nil {
			wind = Float(*p.Wind)
		}
		result.Periods = append(result.Periods, PeriodResult{
			Label:            label,
			Temperature:      *p.Temperature,
			RelativeHumidity: rh,
			Wind:             wind,
			Hours:            hours,
			EMC:              e,
			Moisture:         moisture,
		})
	}

	result.Summary.Final = current
	return result, nil
}

// Validate reports whether the parameters can drive a forecast.
func (p ForecastParams) Validate() error {
	if err := requireDuration("default period hours", p.DefaultPeriodHours); err != nil {
		return err
	}
	return requireFinite("critical threshold", p.CriticalThreshold)
}
