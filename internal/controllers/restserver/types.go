package restserver

import "github.com/chrissnell/fuelmoisture/pkg/fuelmoisture"

type contextKey string

const runIDContextKey contextKey = "run_id"

// ConvertRequest converts a temperature between scales
type ConvertRequest struct {
	Value *float64 `json:"value"`
	From  string   `json:"from"`
}

// ConvertResponse carries a temperature on both scales
type ConvertResponse struct {
	Celsius    float64 `json:"celsius"`
	Fahrenheit float64 `json:"fahrenheit"`
}

// EMCRequest asks for the equilibrium moisture content. Unit is "f" (default) or "c".
type EMCRequest struct {
	Temperature      *float64 `json:"temp"`
	RelativeHumidity *float64 `json:"rh"`
	Unit             string   `json:"unit,omitempty"`
}

// EMCResponse is the equilibrium moisture content for the requested conditions
type EMCResponse struct {
	TemperatureF     float64 `json:"temp_f"`
	RelativeHumidity float64 `json:"rh"`
	EMC              float64 `json:"emc"`
}

// StepRequest advances one moisture value. TimeLag wins over FuelClass; with
// neither the configured default class is used.
type StepRequest struct {
	Initial   *float64 `json:"initial"`
	EMC       *float64 `json:"emc"`
	Hours     *float64 `json:"hours"`
	TimeLag   *float64 `json:"time_lag,omitempty"`
	FuelClass string   `json:"fuel_class,omitempty"`
}

// StepResponse is the moisture after the step
type StepResponse struct {
	TimeLag  float64 `json:"time_lag"`
	Moisture float64 `json:"moisture"`
}

// ForecastRequest runs the multi-period model. Params fields that are absent
// keep the configured defaults.
type ForecastRequest struct {
	Initial map[fuelmoisture.FuelClass]float64 `json:"initial"`
	Periods []fuelmoisture.ForecastPeriod      `json:"periods"`
	Params  *fuelmoisture.ForecastParams       `json:"params,omitempty"`
}

// InterpolateRequest fills gaps in a weather series
type InterpolateRequest struct {
	Samples []fuelmoisture.WeatherSample `json:"samples"`
}

// InterpolateResponse is the gap-filled series
type InterpolateResponse struct {
	Samples []fuelmoisture.WeatherSample `json:"samples"`
}

// TrendRequest runs the drying trend predictor. Options fields that are absent
// keep the configured defaults.
type TrendRequest struct {
	CurrentMoisture *float64                     `json:"current_moisture"`
	Historical      []fuelmoisture.WeatherSample `json:"historical"`
	Forecast        []fuelmoisture.WeatherSample `json:"forecast"`
	TimeLag         *float64                     `json:"time_lag,omitempty"`
	FuelClass       string                       `json:"fuel_class,omitempty"`
	Options         *fuelmoisture.TrendOptions   `json:"options,omitempty"`
}

// FuelClassInfo describes one supported fuel class
type FuelClassInfo struct {
	Class   fuelmoisture.FuelClass `json:"class"`
	TimeLag float64                `json:"time_lag"`
}
