package seed

import (
	"math"
	"testing"
	"time"
)

func TestNineBodyHasSunAtOrigin(t *testing.T) {
	epoch := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	sc := NineBody(epoch, 1.0, "")
	if sc.Names[0] != "Sun" {
		t.Fatalf("Names[0] = %q, want Sun", sc.Names[0])
	}
	for i := 0; i < 3; i++ {
		if sc.Pos[i] != 0 || sc.Vel[i] != 0 {
			t.Fatalf("Sun should be at rest at the origin, got pos %v vel %v", sc.Pos[:3], sc.Vel[:3])
		}
	}
}

func TestNineBodyProducesTenBodies(t *testing.T) {
	epoch := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	sc := NineBody(epoch, 1.0, "")
	if len(sc.Names) != 10 || len(sc.Mass) != 10 || len(sc.Radius) != 10 {
		t.Fatalf("expected the Sun plus nine planets (10 bodies), got %d names / %d masses / %d radii", len(sc.Names), len(sc.Mass), len(sc.Radius))
	}
	if len(sc.Pos) != 30 || len(sc.Vel) != 30 {
		t.Fatalf("expected flat 3N arrays of length 30, got pos=%d vel=%d", len(sc.Pos), len(sc.Vel))
	}
}

func TestNineBodyMassScalesWithG(t *testing.T) {
	epoch := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	sc1 := NineBody(epoch, 1.0, "")
	sc2 := NineBody(epoch, 2.0, "")
	for i := range sc1.Mass {
		want := sc1.Mass[i] / 2
		if math.Abs(sc2.Mass[i]-want) > 1e-9*math.Abs(want) {
			t.Fatalf("mass[%d] with g=2 = %v, want %v (= GM/g)", i, sc2.Mass[i], want)
		}
	}
}

func TestNineBodyPlanetsAreNonzeroDistanceFromSun(t *testing.T) {
	epoch := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	sc := NineBody(epoch, 1.0, "")
	for i := 1; i < 10; i++ {
		o := 3 * i
		r := math.Sqrt(sc.Pos[o]*sc.Pos[o] + sc.Pos[o+1]*sc.Pos[o+1] + sc.Pos[o+2]*sc.Pos[o+2])
		if r < 1e3 {
			t.Fatalf("%s heliocentric distance = %v km, implausibly small", sc.Names[i], r)
		}
	}
}

func TestMeanElementStateMatchesSemiMajorAxisRoughly(t *testing.T) {
	epoch := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	earth := Bodies[3]
	if earth.Name != "Earth" {
		t.Fatalf("Bodies[3] = %q, want Earth", earth.Name)
	}
	pos, _ := meanElementState(earth, Bodies[0].GM, epoch)
	r := math.Sqrt(pos[0]*pos[0] + pos[1]*pos[1] + pos[2]*pos[2])
	// Earth's distance from the Sun should stay within a reasonable
	// band around its semi-major axis even for a near-circular orbit
	// evaluated at an arbitrary epoch.
	lo, hi := earth.a*(1-2*earth.e), earth.a*(1+2*earth.e)
	if r < lo || r > hi {
		t.Fatalf("Earth heliocentric distance = %v, want within [%v, %v]", r, lo, hi)
	}
}

func TestMeanElementStateVelocityConsistentWithVisViva(t *testing.T) {
	epoch := time.Date(2026, 6, 15, 0, 0, 0, 0, time.UTC)
	mars := Bodies[4]
	pos, vel := meanElementState(mars, Bodies[0].GM, epoch)
	r := math.Sqrt(pos[0]*pos[0] + pos[1]*pos[1] + pos[2]*pos[2])
	v := math.Sqrt(vel[0]*vel[0] + vel[1]*vel[1] + vel[2]*vel[2])
	wantV := math.Sqrt(Bodies[0].GM * (2/r - 1/mars.a))
	if math.Abs(v-wantV) > 1e-3*wantV {
		t.Fatalf("speed = %v, want ~%v from vis-viva", v, wantV)
	}
}
