package nbody

import (
	"math"
	"testing"

	"github.com/gonum/floats"
)

func TestKeplerDriftCircularOrbitPeriod(t *testing.T) {
	mu := 1.0
	r := 1.0
	v := math.Sqrt(mu / r) // circular speed
	r0 := Vec3{r, 0, 0}
	v0 := Vec3{0, v, 0}
	period := 2 * math.Pi * math.Sqrt(r*r*r/mu)
	cfg := DefaultIntegratorConfig()

	r1, v1, err := keplerDrift(r0, v0, mu, period, cfg)
	if err != nil {
		t.Fatalf("keplerDrift: %v", err)
	}
	if !floats.EqualWithinAbs(r1[0], r0[0], 1e-6) || !floats.EqualWithinAbs(r1[1], r0[1], 1e-6) {
		t.Fatalf("one full period should return to the starting point: got %v, want %v", r1, r0)
	}
	if !floats.EqualWithinAbs(v1[0], v0[0], 1e-6) || !floats.EqualWithinAbs(v1[1], v0[1], 1e-6) {
		t.Fatalf("one full period should return to the starting velocity: got %v, want %v", v1, v0)
	}
}

func TestKeplerDriftQuarterOrbit(t *testing.T) {
	mu := 1.0
	r := 1.0
	v := math.Sqrt(mu / r)
	r0 := Vec3{r, 0, 0}
	v0 := Vec3{0, v, 0}
	period := 2 * math.Pi * math.Sqrt(r*r*r/mu)
	cfg := DefaultIntegratorConfig()

	r1, _, err := keplerDrift(r0, v0, mu, period/4, cfg)
	if err != nil {
		t.Fatalf("keplerDrift: %v", err)
	}
	// A quarter circular orbit starting at (r,0) moving +y ends at (0,r).
	if !floats.EqualWithinAbs(r1[0], 0, 1e-6) {
		t.Errorf("x = %v, want ~0", r1[0])
	}
	if !floats.EqualWithinAbs(r1[1], r, 1e-6) {
		t.Errorf("y = %v, want ~%v", r1[1], r)
	}
}

func TestKeplerDriftConservesAngularMomentum(t *testing.T) {
	mu := 5.0
	r0 := Vec3{1.5, 0.3, 0}
	v0 := Vec3{0.1, 1.2, 0.05}
	cfg := DefaultIntegratorConfig()
	h0 := r0.Cross(v0)

	r1, v1, err := keplerDrift(r0, v0, mu, 0.37, cfg)
	if err != nil {
		t.Fatalf("keplerDrift: %v", err)
	}
	h1 := r1.Cross(v1)
	if h1.Sub(h0).Norm() > 1e-8 {
		t.Fatalf("angular momentum should be conserved: %v != %v", h1, h0)
	}
}
