package nbody

import (
	"math"
	"testing"

	kitlog "github.com/go-kit/kit/log"
	"github.com/gonum/floats"
)

func TestIntegrateGRConservesEnergyTwoBody(t *testing.T) {
	s := twoBodyCircularState(t)
	e0 := s.CalculateEnergy()

	status, err := s.IntegrateGR(0, 20, 0.1)
	if err != nil {
		t.Fatalf("IntegrateGR: %v", err)
	}
	if status != StatusOK {
		t.Fatalf("status = %v, want StatusOK", status)
	}
	e1 := s.CalculateEnergy()
	if !floats.EqualWithinAbs(e0, e1, 1e-9) {
		t.Fatalf("energy drifted: %v -> %v", e0, e1)
	}
	if !floats.EqualWithinAbs(s.ModelTime(), 20, 1e-9) {
		t.Fatalf("model time = %v, want 20", s.ModelTime())
	}
}

func TestIntegrateGRMatchesAnalyticQuarterOrbit(t *testing.T) {
	s := twoBodyCircularState(t)
	m := 1.0
	r := 2.0
	period := 2 * math.Pi * math.Sqrt(math.Pow(r, 3)/(m*2))

	status, err := s.IntegrateGR(0, period/4, 0.05)
	if err != nil {
		t.Fatalf("IntegrateGR: %v", err)
	}
	if status != StatusOK {
		t.Fatalf("status = %v, want StatusOK", status)
	}
	pos, _, _, _ := s.GetState()
	// After a quarter of the orbital period the two bodies should have
	// rotated ~90 degrees about their shared center of mass.
	p0 := vecAt(pos, 0)
	if math.Abs(p0[0]) > 1e-3 {
		t.Fatalf("body 0 x = %v, want ~0 after a quarter orbit", p0[0])
	}
}

func TestIntegrateGRRetainsAcceptedStepForNextRun(t *testing.T) {
	s := twoBodyCircularState(t)
	if s.gr != nil {
		t.Fatal("workspace should start nil before the first GR call")
	}
	if _, err := s.IntegrateGR(0, 1, 1e-2); err != nil {
		t.Fatalf("IntegrateGR: %v", err)
	}
	if s.gr == nil || s.gr.h <= 0 {
		t.Fatal("expected a warm-started workspace with a positive accepted step size")
	}
}

func TestIntegrateGRRejectsNonPositiveStep(t *testing.T) {
	s := twoBodyCircularState(t)
	if _, err := s.IntegrateGR(0, 1, 0); err == nil {
		t.Fatal("expected DomainError for dt <= 0")
	}
}

func TestIntegrateGRDetectsCloseEncounter(t *testing.T) {
	s, err := InitializeCode(1, 0, 2, 4, 4, 0)
	if err != nil {
		t.Fatalf("InitializeCode: %v", err)
	}
	s.SetLogger(kitlog.NewNopLogger())
	s.SetCloseEncounterDistance(0.5)
	pos := []float64{0, 0, 0, 1, 0, 0}
	vel := []float64{0, 0, 0, -0.3, 0, 0}
	mass := []float64{1, 1}
	radius := []float64{1e-4, 1e-4}
	if err := s.SetState(pos, vel, mass, radius, 2, 1, 0); err != nil {
		t.Fatalf("SetState: %v", err)
	}
	status, err := s.IntegrateGR(0, 10, 0.05)
	if err != nil {
		t.Fatalf("IntegrateGR: %v", err)
	}
	if status != StatusCloseEncounter {
		t.Fatalf("status = %v, want StatusCloseEncounter", status)
	}
}
