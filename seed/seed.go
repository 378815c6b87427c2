// Package seed builds Sun+planets initial conditions for the N-body
// core's solar-system scenarios. It has no dependency on the nbody
// package itself: callers feed its (pos, vel, mass, radius) arrays
// straight into State.SetState.
package seed

import (
	"math"
	"time"

	"github.com/soniakeys/meeus/julian"
	"github.com/soniakeys/meeus/planetposition"
	"github.com/soniakeys/meeus/pluto"
)

// auKM is one astronomical unit in kilometers.
const auKM = 1.49597870700e8

// Body is one row of the built-in solar-system table: name, GM,
// equatorial radius, heliocentric semi-major axis (for vis-viva), and
// its VSOP87 load index (planetposition.LoadPlanetPath numbering;
// -1 where Meeus' VSOP87 planet files don't cover it and the
// mean-element fallback is always used).
type Body struct {
	Name    string
	GM      float64 // km^3/s^2
	Radius  float64 // km
	a       float64 // heliocentric semi-major axis, km
	e       float64 // eccentricity
	inc     float64 // inclination, degrees
	node    float64 // longitude of ascending node, degrees
	peri    float64 // longitude of perihelion, degrees
	meanLon float64 // mean longitude at J2000.0, degrees
	period  float64 // sidereal orbital period, days (reference value; mean motion is derived from a via vis-viva)
	vsopIdx int
}

// Bodies is the Sun plus the historical nine planets (Mercury through
// Pluto), in the order NineBody expects (index 0 is always the Sun).
var Bodies = []Body{
	{Name: "Sun", GM: 1.32712440017987e11, Radius: 695700, vsopIdx: -1},
	{Name: "Mercury", GM: 2.2031780000e4, Radius: 2439.7, a: 57909050.8, e: 0.20563593, inc: 7.00497902, node: 48.33076593, peri: 77.45779628, meanLon: 252.25032350, period: 87.9691, vsopIdx: 0},
	{Name: "Venus", GM: 3.24858599e5, Radius: 6051.8, a: 108208601, e: 0.006772, inc: 3.39458, node: 76.680, peri: 131.532, meanLon: 181.979, period: 224.701, vsopIdx: 1},
	{Name: "Earth", GM: 3.98600433e5, Radius: 6378.1363, a: 149598023, e: 0.016709, inc: 0.00005, node: -11.260064, peri: 102.937348, meanLon: 100.466449, period: 365.256, vsopIdx: 2},
	{Name: "Mars", GM: 4.28283100e4, Radius: 3396.19, a: 227939282.5616, e: 0.093400, inc: 1.85, node: 49.558093, peri: 336.060234, meanLon: 355.433275, period: 686.980, vsopIdx: 3},
	{Name: "Jupiter", GM: 1.266865361e8, Radius: 71492.0, a: 778298361, e: 0.048498, inc: 1.30326966, node: 100.464441, peri: 14.331309, meanLon: 34.351484, period: 4332.589, vsopIdx: 4},
	{Name: "Saturn", GM: 3.7931208e7, Radius: 60268.0, a: 1429394133, e: 0.055546, inc: 2.485, node: 113.665524, peri: 93.056787, meanLon: 50.077471, period: 10759.22, vsopIdx: -1},
	{Name: "Uranus", GM: 5.7939513e6, Radius: 25559.0, a: 2875038615, e: 0.046381, inc: 0.773, node: 74.005947, peri: 173.005159, meanLon: 314.055005, period: 30685.4, vsopIdx: -1},
	{Name: "Neptune", GM: 6.836529e6, Radius: 24764.0, a: 4498396441, e: 0.00859048, inc: 1.77004347, node: 131.78405702, peri: 46.68158724, meanLon: 304.87997031, period: 60190, vsopIdx: -1},
	{Name: "Pluto", GM: 9.0e2, Radius: 1151.0, a: 5915799000, e: 0.248807, inc: 17.14216667, node: 110.30347, peri: 224.06676, meanLon: 238.92881, period: 90560, vsopIdx: -1},
}

// Scenario is a flattened Sun+planets initial state ready for
// State.SetState: pos and vel are flat 3N (km, km/s), mass is G*M_i/g
// so the whole scenario is consistent with whichever gravitational
// constant g the caller's State uses, and radius is km.
type Scenario struct {
	Names  []string
	Pos    []float64
	Vel    []float64
	Mass   []float64
	Radius []float64
}

// NineBody seeds the Sun plus the historical nine planets, Mercury
// through Pluto, at epoch t. g is the gravitational constant the
// destination State was constructed with (mass_i = GM_i / g, so
// F = g*m_i*m_j/r^2 reproduces the same dynamics regardless of unit
// convention). vsopDir, if non-empty, is passed to
// soniakeys/meeus/planetposition.LoadPlanetPath to use its VSOP87
// series for Mercury, Venus, Earth, Mars and Jupiter; Pluto always
// uses the closed-form pluto package instead; Saturn, Uranus, Neptune
// and any VSOP87 load failure fall back to the low-precision
// mean-element propagation in elements.go.
func NineBody(t time.Time, g float64, vsopDir string) Scenario {
	n := len(Bodies)
	sc := Scenario{
		Names:  make([]string, n),
		Pos:    make([]float64, 3*n),
		Vel:    make([]float64, 3*n),
		Mass:   make([]float64, n),
		Radius: make([]float64, n),
	}
	sunGM := Bodies[0].GM
	for i, b := range Bodies {
		sc.Names[i] = b.Name
		sc.Mass[i] = b.GM / g
		sc.Radius[i] = b.Radius

		var pos, vel [3]float64
		switch {
		case b.Name == "Sun":
			// Heliocentric origin, at rest in this frame by definition.
		case b.Name == "Pluto":
			pos, vel = plutoState(t, sunGM)
		case vsopDir != "" && b.vsopIdx >= 0:
			if p, v, ok := vsopState(b, t, sunGM, vsopDir); ok {
				pos, vel = p, v
			} else {
				pos, vel = meanElementState(b, sunGM, t)
			}
		default:
			pos, vel = meanElementState(b, sunGM, t)
		}
		o := 3 * i
		sc.Pos[o], sc.Pos[o+1], sc.Pos[o+2] = pos[0], pos[1], pos[2]
		sc.Vel[o], sc.Vel[o+1], sc.Vel[o+2] = vel[0], vel[1], vel[2]
	}
	return sc
}

// plutoState uses Meeus' closed-form pluto.Heliocentric series (no
// external data file needed, unlike the VSOP87 planets).
func plutoState(t time.Time, sunGM float64) (pos, vel [3]float64) {
	l, lat, r := pluto.Heliocentric(julian.TimeToJD(t))
	rKM := r * auKM
	return lbrToState(l.Rad(), lat.Rad(), rKM, sunGM, Bodies[len(Bodies)-1].a)
}

// vsopState loads the requested planet's VSOP87 series from vsopDir
// and evaluates its heliocentric L,B,R at t. Returns ok=false if the
// data file can't be loaded, so the caller can fall back.
func vsopState(b Body, t time.Time, sunGM float64, vsopDir string) (pos, vel [3]float64, ok bool) {
	planet, err := planetposition.LoadPlanetPath(b.vsopIdx, vsopDir)
	if err != nil {
		return pos, vel, false
	}
	l, lb, r := planet.Position2000(julian.TimeToJD(t))
	rKM := r * auKM
	pos, vel = lbrToState(l.Rad(), lb.Rad(), rKM, sunGM, b.a)
	return pos, vel, true
}

// lbrToState converts VSOP87-style ecliptic (longitude, latitude,
// radius) into a heliocentric Cartesian state, with the speed fixed
// by vis-viva and the velocity direction taken perpendicular to the
// position in the ecliptic plane (zero z component) — the same construction
// ChristopherRabotin/smd's celestial.go HelioOrbit uses.
func lbrToState(lRad, bRad, r, sunGM, a float64) (pos, vel [3]float64) {
	sB, cB := math.Sincos(bRad)
	sL, cL := math.Sincos(lRad)
	pos = [3]float64{r * cB * cL, r * cB * sL, r * sB}
	v := math.Sqrt(math.Abs(2*sunGM/r - sunGM/a))
	vDir := cross(pos, [3]float64{0, 0, -1})
	n := math.Sqrt(vDir[0]*vDir[0] + vDir[1]*vDir[1] + vDir[2]*vDir[2])
	if n < 1e-300 {
		return pos, vel
	}
	vel = [3]float64{v * vDir[0] / n, v * vDir[1] / n, v * vDir[2] / n}
	return
}

func cross(a, b [3]float64) [3]float64 {
	return [3]float64{
		a[1]*b[2] - a[2]*b[1],
		a[2]*b[0] - a[0]*b[2],
		a[0]*b[1] - a[1]*b[0],
	}
}
