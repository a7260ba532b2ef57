package restserver

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/chrissnell/fuelmoisture/internal/metrics"
	"github.com/chrissnell/fuelmoisture/pkg/config"
	"github.com/chrissnell/fuelmoisture/pkg/fuelmoisture"
	"github.com/chrissnell/fuelmoisture/pkg/responseformat"
	"go.uber.org/zap"
)

// maxBodyBytes caps the size of a request body
const maxBodyBytes = 1 << 20

// Handlers contains all HTTP handlers for the REST server
type Handlers struct {
	formatter    *responseformat.Formatter
	logger       *zap.SugaredLogger
	metrics      *metrics.Recorder
	params       fuelmoisture.ForecastParams
	trendOptions fuelmoisture.TrendOptions
	fuelClass    fuelmoisture.FuelClass
}

// NewHandlers creates a new handlers instance whose requests fall back to the
// configured model defaults
func NewHandlers(model config.ModelData, enableCORS bool, logger *zap.SugaredLogger, recorder *metrics.Recorder) (*Handlers, error) {
	if err := model.Validate(); err != nil {
		return nil, err
	}
	class, err := model.FuelClass()
	if err != nil {
		return nil, err
	}
	return &Handlers{
		formatter:    responseformat.NewFormatter(enableCORS),
		logger:       logger,
		metrics:      recorder,
		params:       model.ForecastParams(),
		trendOptions: model.TrendOptions(),
		fuelClass:    class,
	}, nil
}

func runID(req *http.Request) string {
	if id, ok := req.Context().Value(runIDContextKey).(string); ok {
		return id
	}
	return ""
}

func (h *Handlers) respond(w http.ResponseWriter, req *http.Request, data any) {
	env := responseformat.Envelope{RunID: runID(req), Data: data}
	if err := h.formatter.WriteResponse(w, req, http.StatusOK, env); err != nil {
		h.logger.Errorf("error encoding response: %v", err)
	}
}

// fail maps model errors onto HTTP status codes and writes an error envelope
func (h *Handlers) fail(w http.ResponseWriter, req *http.Request, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, fuelmoisture.ErrOutOfRange):
		status = http.StatusUnprocessableEntity
	case errors.Is(err, fuelmoisture.ErrInvalidInput),
		errors.Is(err, fuelmoisture.ErrInvalidSeries),
		errors.Is(err, fuelmoisture.ErrInvalidTimeLag),
		errors.Is(err, errBadRequest):
		status = http.StatusBadRequest
	}
	if status == http.StatusInternalServerError {
		h.logger.Errorf("request %s failed: %v", runID(req), err)
	}

	env := responseformat.Envelope{RunID: runID(req), Error: err.Error()}
	if werr := h.formatter.WriteResponse(w, req, status, env); werr != nil {
		h.logger.Errorf("error encoding error response: %v", werr)
	}
}

var errBadRequest = errors.New("bad request")

// decode reads a single JSON document into v, rejecting unknown fields
func decode(w http.ResponseWriter, req *http.Request, v any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, req.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return fmt.Errorf("%w: invalid request body: %v", errBadRequest, err)
	}
	if _, err := dec.Token(); err != io.EOF {
		return fmt.Errorf("%w: trailing data after request body", errBadRequest)
	}
	return nil
}

func required(name string, v *float64) (float64, error) {
	if v == nil {
		return 0, fmt.Errorf("%w: %s is required", fuelmoisture.ErrInvalidInput, name)
	}
	return *v, nil
}

// timeLag resolves an explicit time lag, then a named class, then the default class
func (h *Handlers) timeLag(explicit *float64, class string) (float64, error) {
	if explicit != nil {
		return *explicit, nil
	}
	if class != "" {
		c, err := fuelmoisture.ParseFuelClass(class)
		if err != nil {
			return 0, err
		}
		return c.TimeLag(), nil
	}
	return h.fuelClass.TimeLag(), nil
}

// Health reports that the server is up
func (h *Handlers) Health(w http.ResponseWriter, req *http.Request) {
	h.respond(w, req, map[string]string{"status": "ok"})
}

// FuelClasses lists the supported fuel classes and their time lags
func (h *Handlers) FuelClasses(w http.ResponseWriter, req *http.Request) {
	classes := make([]FuelClassInfo, 0, len(fuelmoisture.FuelClasses))
	for _, c := range fuelmoisture.FuelClasses {
		classes = append(classes, FuelClassInfo{Class: c, TimeLag: c.TimeLag()})
	}
	h.respond(w, req, classes)
}

// Convert converts a temperature between Celsius and Fahrenheit
func (h *Handlers) Convert(w http.ResponseWriter, req *http.Request) {
	var body ConvertRequest
	if err := decode(w, req, &body); err != nil {
		h.fail(w, req, err)
		return
	}
	v, err := required("value", body.Value)
	if err != nil {
		h.fail(w, req, err)
		return
	}

	var resp ConvertResponse
	switch strings.ToLower(body.From) {
	case "c", "celsius":
		resp.Celsius = v
		resp.Fahrenheit, err = fuelmoisture.CelsiusToFahrenheit(v)
	case "f", "fahrenheit":
		resp.Fahrenheit = v
		resp.Celsius, err = fuelmoisture.FahrenheitToCelsius(v)
	default:
		err = fmt.Errorf("%w: from must be \"c\" or \"f\", got %q", fuelmoisture.ErrInvalidInput, body.From)
	}
	if err != nil {
		h.fail(w, req, err)
		return
	}
	h.respond(w, req, resp)
}

// EMC computes the equilibrium moisture content
func (h *Handlers) EMC(w http.ResponseWriter, req *http.Request) {
	var body EMCRequest
	if err := decode(w, req, &body); err != nil {
		h.fail(w, req, err)
		return
	}
	temp, err := required("temp", body.Temperature)
	if err != nil {
		h.fail(w, req, err)
		return
	}
	rh, err := required("rh", body.RelativeHumidity)
	if err != nil {
		h.fail(w, req, err)
		return
	}

	switch strings.ToLower(body.Unit) {
	case "", "f":
	case "c":
		if temp, err = fuelmoisture.CelsiusToFahrenheit(temp); err != nil {
			h.fail(w, req, err)
			return
		}
	default:
		h.fail(w, req, fmt.Errorf("%w: unit must be \"f\" or \"c\", got %q", fuelmoisture.ErrInvalidInput, body.Unit))
		return
	}

	e, err := fuelmoisture.ComputeEMC(temp, rh)
	h.metrics.ObserveRun("emc", err, false)
	if err != nil {
		h.fail(w, req, err)
		return
	}
	h.respond(w, req, EMCResponse{TemperatureF: temp, RelativeHumidity: rh, EMC: e})
}

// Step advances one moisture value toward an EMC
func (h *Handlers) Step(w http.ResponseWriter, req *http.Request) {
	var body StepRequest
	if err := decode(w, req, &body); err != nil {
		h.fail(w, req, err)
		return
	}
	initial, err := required("initial", body.Initial)
	if err != nil {
		h.fail(w, req, err)
		return
	}
	emc, err := required("emc", body.EMC)
	if err != nil {
		h.fail(w, req, err)
		return
	}
	hours, err := required("hours", body.Hours)
	if err != nil {
		h.fail(w, req, err)
		return
	}
	tl, err := h.timeLag(body.TimeLag, body.FuelClass)
	if err != nil {
		h.fail(w, req, err)
		return
	}

	m, err := fuelmoisture.StepMoisture(initial, emc, hours, tl)
	h.metrics.ObserveRun("step", err, false)
	if err != nil {
		h.fail(w, req, err)
		return
	}
	h.respond(w, req, StepResponse{TimeLag: tl, Moisture: m})
}

// Forecast runs the multi-period moisture model
func (h *Handlers) Forecast(w http.ResponseWriter, req *http.Request) {
	params := h.params
	body := ForecastRequest{Params: &params}
	if err := decode(w, req, &body); err != nil {
		h.fail(w, req, err)
		return
	}
	if body.Params == nil {
		body.Params = &h.params
	}

	result, err := fuelmoisture.RunModel(body.Initial, body.Periods, *body.Params)
	h.metrics.ObserveRun("forecast", err, err == nil && len(result.Summary.FirstCritical) > 0)
	if err != nil {
		h.fail(w, req, err)
		return
	}
	h.logger.Debugw("forecast complete", "run_id", runID(req), "periods", len(result.Periods))
	h.respond(w, req, result)
}

// Interpolate fills temperature and humidity gaps in a series
func (h *Handlers) Interpolate(w http.ResponseWriter, req *http.Request) {
	var body InterpolateRequest
	if err := decode(w, req, &body); err != nil {
		h.fail(w, req, err)
		return
	}
	samples := fuelmoisture.InterpolateSeries(body.Samples)
	h.metrics.ObserveRun("interpolate", nil, false)
	h.respond(w, req, InterpolateResponse{Samples: samples})
}

// Trend predicts the drying trend across historical and forecast weather
func (h *Handlers) Trend(w http.ResponseWriter, req *http.Request) {
	opts := h.trendOptions
	body := TrendRequest{Options: &opts}
	if err := decode(w, req, &body); err != nil {
		h.fail(w, req, err)
		return
	}
	if body.Options == nil {
		body.Options = &h.trendOptions
	}
	current, err := required("current_moisture", body.CurrentMoisture)
	if err != nil {
		h.fail(w, req, err)
		return
	}
	tl, err := h.timeLag(body.TimeLag, body.FuelClass)
	if err != nil {
		h.fail(w, req, err)
		return
	}

	pred, err := fuelmoisture.PredictDryingTrend(current, body.Historical, body.Forecast, tl, *body.Options)
	h.metrics.ObserveRun("trend", err, err == nil && pred.Summary.BelowCritical)
	if err != nil {
		h.fail(w, req, err)
		return
	}
	h.logger.Debugw("trend complete", "run_id", runID(req), "entries", len(pred.Trend))
	h.respond(w, req, pred)
}
