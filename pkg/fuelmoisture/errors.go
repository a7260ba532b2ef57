package fuelmoisture

import (
	"errors"
	"fmt"
	"math"
)

// Error kinds returned by the model. Every error produced by this package wraps
// exactly one of these, so callers can branch with errors.Is.
var (
	// ErrInvalidInput means a required numeric argument is missing or non-finite.
	ErrInvalidInput = errors.New("invalid input")

	// ErrInvalidTimeLag means a time-lag constant is zero, negative or unknown.
	// It points at a configuration or programming mistake rather than bad data.
	ErrInvalidTimeLag = errors.New("invalid time lag")

	// ErrInvalidSeries means a weather series is empty or holds a malformed element.
	ErrInvalidSeries = errors.New("invalid series")

	// ErrOutOfRange means a finite value lies outside its physical range.
	ErrOutOfRange = errors.New("value out of range")
)

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

func requireFinite(name string, v float64) error {
	if !isFinite(v) {
		return fmt.Errorf("%w: %s must be a finite number, got %v", ErrInvalidInput, name, v)
	}
	return nil
}

func requireTimeLag(timeLag float64) error {
	if !isFinite(timeLag) || timeLag <= 0 {
		return fmt.Errorf("%w: time lag must be a positive number of hours, got %v", ErrInvalidTimeLag, timeLag)
	}
	return nil
}

func requireDuration(name string, hours float64) error {
	if err := requireFinite(name, hours); err != nil {
		return err
	}
	if hours < 0 {
		return fmt.Errorf("%w: %s cannot be negative, got %v", ErrInvalidInput, name, hours)
	}
	return nil
}
