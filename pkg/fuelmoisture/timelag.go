package fuelmoisture

import "math"

// StepMoisture advances fuel moisture toward emc over hours elapsed, for a fuel
// with time-lag constant timeLag (hours):
//
//	M(t) = EMC + (M0 - EMC) * exp(-hours / timeLag)
//
// The result is rounded to one decimal place, except that zero elapsed time
// returns initial untouched and a fuel already at equilibrium stays at emc.
// Negative hours are rejected. A negative initial moisture is not.
func StepMoisture(initial, emc, hours, timeLag float64) (float64, error) {
	if err := requireFinite("initial moisture", initial); err != nil {
		return 0, err
	}
	if err := requireFinite("emc", emc); err != nil {
		return 0, err
	}
	if err := requireDuration("hours", hours); err != nil {
		return 0, err
	}
	if err := requireTimeLag(timeLag); err != nil {
		return 0, err
	}
	return step(initial, emc, hours, timeLag), nil
}

// step expects validated inputs.
func step(initial, emc, hours, timeLag float64) float64 {
	if hours == 0 {
		return initial
	}
	if initial == emc {
		return emc
	}
	return round1(emc + (initial-emc)*math.Exp(-hours/timeLag))
}
