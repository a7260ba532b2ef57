// Package fuelmoisture estimates dead fuel moisture for fire-weather forecasting.
//
// Equilibrium moisture content (EMC) is derived from air temperature and
// relative humidity, and fuel moisture is moved toward it with the time-lag
// exponential model. On top of those two primitives the package runs
// multi-period forecasts across fuel size classes, fills gaps in weather
// series and extrapolates drying trends from a historical window into a
// forecast window.
//
// Temperatures are degrees Fahrenheit, humidity and moisture are percent, wind
// is miles per hour and durations are hours. Every function is pure and safe
// for concurrent use.
package fuelmoisture

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// FuelClass identifies a dead fuel size class by its nominal time lag in hours.
type FuelClass int

const (
	OneHour      FuelClass = 1
	TenHour      FuelClass = 10
	HundredHour  FuelClass = 100
	ThousandHour FuelClass = 1000
)

// FuelClasses lists the supported classes from fastest to slowest responding.
var FuelClasses = []FuelClass{OneHour, TenHour, HundredHour, ThousandHour}

// Valid reports whether c is one of the supported fuel classes.
func (c FuelClass) Valid() bool {
	switch c {
	case OneHour, TenHour, HundredHour, ThousandHour:
		return true
	}
	return false
}

// TimeLag returns the time-lag constant τ for the class, in hours.
func (c FuelClass) TimeLag() float64 {
	return float64(c)
}

func (c FuelClass) String() string {
	return strconv.Itoa(int(c)) + "-hr"
}

// MarshalText renders the class as "1-hr", "10-hr" and so on. It also makes
// FuelClass usable as a JSON map key.
func (c FuelClass) MarshalText() ([]byte, error) {
	if !c.Valid() {
		return nil, fmt.Errorf("%w: unknown fuel class %d", ErrInvalidTimeLag, int(c))
	}
	return []byte(c.String()), nil
}

// UnmarshalText accepts anything ParseFuelClass does.
func (c *FuelClass) UnmarshalText(text []byte) error {
	parsed, err := ParseFuelClass(string(text))
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}

// ParseFuelClass parses "1-hr", "1hr", "1h" or a bare "1" (and likewise for
// 10, 100 and 1000).
func ParseFuelClass(s string) (FuelClass, error) {
	v := strings.ToLower(strings.TrimSpace(s))
	for _, suffix := range []string{"-hr", "hr", "-h", "h"} {
		if strings.HasSuffix(v, suffix) {
			v = strings.TrimSuffix(v, suffix)
			break
		}
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("%w: unknown fuel class %q", ErrInvalidTimeLag, s)
	}
	c := FuelClass(n)
	if !c.Valid() {
		return 0, fmt.Errorf("%w: unknown fuel class %q", ErrInvalidTimeLag, s)
	}
	return c, nil
}

// WeatherSample is one weather observation or forecast value. Nil fields are
// absent; an explicit zero is a real reading.
type WeatherSample struct {
	Temperature      *float64 `json:"temp" yaml:"temp"`
	RelativeHumidity *float64 `json:"rh" yaml:"rh"`
	Wind             *float64 `json:"wind,omitempty" yaml:"wind,omitempty"`
	Label            string   `json:"label,omitempty" yaml:"label,omitempty"`
}

// ForecastPeriod is a weather sample that lasts Hours. A nil Hours takes the
// configured default period length.
type ForecastPeriod struct {
	WeatherSample `yaml:",inline"`
	Hours         *float64 `json:"hours,omitempty" yaml:"hours,omitempty"`
}

// Float returns a pointer to v, for filling optional sample fields.
func Float(v float64) *float64 {
	return &v
}

// clampHumidity forces relative humidity into [0, 100].
func clampHumidity(rh float64) float64 {
	return math.Max(0, math.Min(100, rh))
}

// round1 rounds to one decimal place.
func round1(v float64) float64 {
	return math.Round(v*10) / 10
}

// present reports whether p holds a usable finite value.
func present(p *float64) bool {
	return p != nil && isFinite(*p)
}
