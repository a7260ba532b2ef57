package fuelmoisture

import (
	"errors"
	"math"
	"testing"
)

func mustEMC(t *testing.T, temp, rh float64) float64 {
	t.Helper()
	v, err := ComputeEMC(temp, rh)
	if err != nil {
		t.Fatalf("ComputeEMC(%v, %v): %v", temp, rh, err)
	}
	return v
}

func TestComputeEMC(t *testing.T) {
	tests := []struct {
		name     string
		temp     float64
		rh       float64
		expected float64
	}{
		{"dry band", 90, 5, 1.2},
		{"middle band", 75, 40, 7.5},
		{"hot and dry", 95, 15, 3.2},
		{"mild", 75, 50, 9.1},
		{"cool and humid", 55, 80, 16.5},
		{"saturated cold air hits ceiling", -40, 100, 29.8},
		{"bone dry air hits floor", 100, 0, EMCFloor},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := mustEMC(t, tt.temp, tt.rh)
			if math.Abs(got-tt.expected) > 1e-9 {
				t.Errorf("ComputeEMC(%v, %v) = %v, expected %v", tt.temp, tt.rh, got, tt.expected)
			}
		})
	}
}

func TestComputeEMCBounds(t *testing.T) {
	for temp := -60.0; temp <= 140; temp += 5 {
		for rh := -20.0; rh <= 120; rh += 2.5 {
			v := mustEMC(t, temp, rh)
			if v < EMCFloor || v > EMCCeiling {
				t.Errorf("ComputeEMC(%v, %v) = %v, outside [%v, %v]", temp, rh, v, EMCFloor, EMCCeiling)
			}
		}
	}
	if v := mustEMC(t, -1e9, 100); v != EMCCeiling {
		t.Errorf("extreme cold gave %v, expected ceiling", v)
	}
	if v := mustEMC(t, 1e9, 100); v != EMCFloor {
		t.Errorf("extreme heat gave %v, expected floor", v)
	}
}

func TestComputeEMCClampsHumidity(t *testing.T) {
	for _, temp := range []float64{-20, 32, 70, 104} {
		if low, zero := mustEMC(t, temp, -50), mustEMC(t, temp, 0); low != zero {
			t.Errorf("T=%v: rh -50 gave %v, rh 0 gave %v", temp, low, zero)
		}
		if high, full := mustEMC(t, temp, 500), mustEMC(t, temp, 100); high != full {
			t.Errorf("T=%v: rh 500 gave %v, rh 100 gave %v", temp, high, full)
		}
	}
}

func TestComputeEMCMonotonic(t *testing.T) {
	// Fine steps straddle both band edges.
	for temp := -40.0; temp <= 200; temp += 2 {
		prev := -1.0
		for rh := 0.0; rh <= 100; rh += 0.25 {
			v := mustEMC(t, temp, rh)
			if v < prev {
				t.Fatalf("T=%v: EMC fell from %v to %v as rh rose to %v", temp, prev, v, rh)
			}
			prev = v
		}
	}
	for rh := 0.0; rh <= 100; rh += 0.5 {
		prev := math.Inf(1)
		for temp := -40.0; temp <= 200; temp += 1 {
			v := mustEMC(t, temp, rh)
			if v > prev {
				t.Fatalf("rh=%v: EMC rose from %v to %v as T rose to %v", rh, prev, v, temp)
			}
			prev = v
		}
	}
}

func TestComputeEMCConditionOrdering(t *testing.T) {
	hotDry := mustEMC(t, 95, 15)
	mild := mustEMC(t, 75, 50)
	coolHumid := mustEMC(t, 55, 80)

	if hotDry >= 5 {
		t.Errorf("hot/dry EMC = %v, expected under 5", hotDry)
	}
	if coolHumid <= 12 {
		t.Errorf("cool/humid EMC = %v, expected over 12", coolHumid)
	}
	if !(hotDry < mild && mild < coolHumid) {
		t.Errorf("expected %v < %v < %v", hotDry, mild, coolHumid)
	}
}

func TestComputeEMCRejectsNonFinite(t *testing.T) {
	cases := [][2]float64{
		{math.NaN(), 50},
		{math.Inf(1), 50},
		{70, math.NaN()},
		{70, math.Inf(-1)},
	}
	for _, c := range cases {
		if _, err := ComputeEMC(c[0], c[1]); !errors.Is(err, ErrInvalidInput) {
			t.Errorf("ComputeEMC(%v, %v) error = %v, expected ErrInvalidInput", c[0], c[1], err)
		}
	}
}
