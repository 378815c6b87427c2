package seed

import (
	"math"
	"time"
)

const deg2rad = math.Pi / 180

// meanElementState propagates a body's J2000.0 mean Keplerian elements
// forward to t assuming a fixed mean motion, then solves Kepler's
// equation for the eccentric anomaly. This is the low-precision
// fallback used for Saturn, Uranus and Neptune (no VSOP87 index in
// Bodies), for every planet except Pluto when no VSOP87 directory is
// given, and for any VSOP87 planet whose data file failed to load.
// Pluto never uses it. Accurate to a few arcminutes
// over a span of centuries, which is sufficient for seeding a
// simulation's initial conditions, not for precision ephemeris work.
func meanElementState(b Body, sunGM float64, t time.Time) (pos, vel [3]float64) {
	days := t.Sub(time.Date(2000, 1, 1, 12, 0, 0, 0, time.UTC)).Hours() / 24
	secPerDay := 86400.0
	n := math.Sqrt(sunGM/(b.a*b.a*b.a)) * secPerDay // mean motion, rad/day, from vis-viva
	M := math.Mod(b.meanLon-b.peri, 360)*deg2rad + n*days
	M = math.Mod(M, 2*math.Pi)

	e := b.e
	E := M
	for i := 0; i < 30; i++ {
		dE := (E - e*math.Sin(E) - M) / (1 - e*math.Cos(E))
		E -= dE
		if math.Abs(dE) < 1e-12 {
			break
		}
	}

	// Position in the orbital plane.
	xp := b.a * (math.Cos(E) - e)
	yp := b.a * math.Sqrt(1-e*e) * math.Sin(E)

	// Velocity in the orbital plane, from the vis-viva / eccentric-
	// anomaly-rate relation.
	edot := n / secPerDay / (1 - e*math.Cos(E)) // rad/s, so velocity is km/s
	vxp := -b.a * math.Sin(E) * edot
	vyp := b.a * math.Sqrt(1-e*e) * math.Cos(E) * edot

	node := b.node * deg2rad
	incl := b.inc * deg2rad
	argPeri := (b.peri - b.node) * deg2rad

	pos3, vel3 := rotateToEcliptic(xp, yp, vxp, vyp, node, incl, argPeri)
	return pos3, vel3
}

// rotateToEcliptic applies the standard 3-1-3 Euler rotation (argument
// of periapsis, inclination, longitude of ascending node) taking
// orbital-plane coordinates to the heliocentric ecliptic frame.
func rotateToEcliptic(xp, yp, vxp, vyp, node, incl, argPeri float64) (pos, vel [3]float64) {
	cw, sw := math.Cos(argPeri), math.Sin(argPeri)
	co, so := math.Cos(node), math.Sin(node)
	ci, si := math.Cos(incl), math.Sin(incl)

	rot := func(x, y float64) [3]float64 {
		xw := cw*x - sw*y
		yw := sw*x + cw*y
		xi := xw
		yi := ci * yw
		zi := si * yw
		return [3]float64{
			co*xi - so*yi,
			so*xi + co*yi,
			zi,
		}
	}
	pos = rot(xp, yp)
	vel = rot(vxp, vyp)
	return
}
