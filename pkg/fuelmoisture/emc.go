package fuelmoisture

import "math"

const (
	// EMCFloor is the lowest EMC ever returned. Dead fuel never fully desiccates.
	EMCFloor = 0.1

	// EMCCeiling is the highest EMC ever returned.
	EMCCeiling = 30.0

	lowHumidityEdge  = 10.0
	highHumidityEdge = 50.0
)

// ComputeEMC returns the equilibrium moisture content, in percent, for an air
// temperature in °F and a relative humidity in percent. Humidity outside
// [0, 100] is clamped, not rejected.
//
// The estimate is the NFDRS three-band regression (Simard, 1968). Each upper
// band is floored at the band below evaluated on their shared edge, which keeps
// EMC non-decreasing in humidity across the 10% and 50% boundaries. EMC is
// non-increasing in temperature everywhere and non-decreasing in humidity for
// temperatures up to 200 °F.
func ComputeEMC(tempF, rh float64) (float64, error) {
	if err := requireFinite("temperature", tempF); err != nil {
		return 0, err
	}
	if err := requireFinite("relative humidity", rh); err != nil {
		return 0, err
	}
	return emc(tempF, clampHumidity(rh)), nil
}

// emc expects finite, already clamped inputs.
func emc(t, h float64) float64 {
	var v float64
	switch {
	case h < lowHumidityEdge:
		v = emcDry(t, h)
	case h <= highHumidityEdge:
		v = emcMid(t, h)
	default:
		v = emcHumid(t, h)
	}
	return round1(math.Max(EMCFloor, math.Min(EMCCeiling, v)))
}

func emcDry(t, h float64) float64 {
	return 0.03229 + 0.281073*h - 0.000578*h*t
}

func emcMid(t, h float64) float64 {
	raw := 2.22749 + 0.160107*h - 0.014784*t
	return math.Max(raw, emcDry(t, lowHumidityEdge))
}

func emcHumid(t, h float64) float64 {
	raw := 21.0606 + 0.005565*h*h - 0.00035*h*t - 0.483199*h
	return math.Max(raw, emcMid(t, highHumidityEdge))
}
