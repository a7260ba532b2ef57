package fuelmoisture

// InterpolateSeries returns a copy of samples with missing temperature and
// humidity values filled in. A value is missing when it is nil or non-finite.
// Each field is filled on its own with InterpolateValues. Wind and labels are
// copied through unchanged, and the input is never modified.
func InterpolateSeries(samples []WeatherSample) []WeatherSample {
	out, _ := interpolateSeries(samples)
	return out
}

// interpolateSeries also reports how many values were filled.
func interpolateSeries(samples []WeatherSample) ([]WeatherSample, int) {
	out := make([]WeatherSample, len(samples))
	if len(samples) == 0 {
		return out, 0
	}

	temps := make([]*float64, len(samples))
	rhs := make([]*float64, len(samples))
	for i, s := range samples {
		temps[i] = s.Temperature
		rhs[i] = s.RelativeHumidity
	}
	temps, filledT := InterpolateValues(temps)
	rhs, filledRH := InterpolateValues(rhs)

	for i, s := range samples {
		out[i] = WeatherSample{
			Temperature:      temps[i],
			RelativeHumidity: rhs[i],
			Label:            s.Label,
		}
		if s.Wind != nil {
			out[i].Wind = Float(*s.Wind)
		}
	}
	return out, filledT + filledRH
}

// InterpolateValues fills gaps in a single series by linear interpolation on
// the index axis. A run of missing values at the start copies the first valid
// value forward and a run at the end copies the last valid value back. If no
// value is valid the series comes back still missing. The returned slice holds
// fresh pointers and the count of values that were filled.
func InterpolateValues(values []*float64) ([]*float64, int) {
	out := make([]*float64, len(values))
	first, last := -1, -1
	for i, v := range values {
		if present(v) {
			out[i] = Float(*v)
			if first < 0 {
				first = i
			}
			last = i
		}
	}
	if first < 0 {
		return out, 0
	}

	filled := 0
	for i := 0; i < first; i++ {
		out[i] = Float(*out[first])
		filled++
	}
	for i := last + 1; i < len(out); i++ {
		out[i] = Float(*out[last])
		filled++
	}

	prev := first
	for i := first + 1; i <= last; i++ {
		if out[i] == nil {
			continue
		}
		if gap := i - prev; gap > 1 {
			lo, hi := *out[prev], *out[i]
			for j := prev + 1; j < i; j++ {
				w := float64(j-prev) / float64(gap)
				out[j] = Float(lo + (hi-lo)*w)
				filled++
			}
		}
		prev = i
	}
	return out, filled
}
