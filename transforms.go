package nbody

// Transforms operate in place on caller-owned flat 3N buffers; none
// of them allocate beyond the small fixed-size state they return.
// Round trips return the original state to within 1e-14 relative.

// toHelio subtracts body 0's position from every position, turning
// inertial coordinates into heliocentric ones.
func toHelio(pos []float64, n int) {
	origin := vecAt(pos, 0)
	for i := 0; i < n; i++ {
		setVecAt(pos, i, vecAt(pos, i).Sub(origin))
	}
}

// fromHelio is the inverse of toHelio given the original body-0
// inertial position.
func fromHelio(pos []float64, n int, origin Vec3) {
	for i := 0; i < n; i++ {
		setVecAt(pos, i, vecAt(pos, i).Add(origin))
	}
}

// centerOfMass returns the mass-weighted centroid of pos.
func centerOfMass(pos, mass []float64, n int) Vec3 {
	var com Vec3
	var total float64
	for i := 0; i < n; i++ {
		m := mass[i]
		com = com.Add(vecAt(pos, i).Scale(m))
		total += m
	}
	return com.Scale(1 / total)
}

// toBary subtracts the centre-of-mass position from every position,
// turning the frame into a barycentric one. Returns the centroid that
// was subtracted, so the caller can invert the transform.
func toBary(pos, mass []float64, n int) Vec3 {
	com := centerOfMass(pos, mass, n)
	for i := 0; i < n; i++ {
		setVecAt(pos, i, vecAt(pos, i).Sub(com))
	}
	return com
}

// fromBary is the inverse of toBary given the centroid it returned.
func fromBary(pos []float64, n int, com Vec3) {
	for i := 0; i < n; i++ {
		setVecAt(pos, i, vecAt(pos, i).Add(com))
	}
}

// democraticFrame is the bookkeeping a Wisdom-Holman run needs to
// move between the inertial frame (for event detection and reporting)
// and democratic-heliocentric working coordinates, without ever
// explicitly storing the central body's own trajectory: its inertial
// position is reconstructed on demand from the (conserved, since no
// external accelerations act on the barycentre) centre-of-mass motion
// and the other bodies' heliocentric positions.
type democraticFrame struct {
	t0     float64 // model time at which the frame was established
	com0   Vec3    // centre-of-mass inertial position at t0
	comVel Vec3    // centre-of-mass velocity (constant thereafter)
	mass   float64 // total mass
}

// newDemocraticFrame captures the COM state of an inertial (pos, vel)
// configuration at time t, for later reconstruction.
func newDemocraticFrame(pos, vel, mass []float64, n int, t float64) democraticFrame {
	var p Vec3
	var total float64
	for i := 0; i < n; i++ {
		total += mass[i]
		p = p.Add(vecAt(vel, i).Scale(mass[i]))
	}
	return democraticFrame{
		t0:     t,
		com0:   centerOfMass(pos, mass, n),
		comVel: p.Scale(1 / total),
		mass:   total,
	}
}

// comAt returns the (conserved-velocity) centre-of-mass inertial
// position at time t.
func (f democraticFrame) comAt(t float64) Vec3 {
	return f.com0.Add(f.comVel.Scale(t - f.t0))
}

// helioToDemocratic converts inertial (pos, vel) into democratic-
// heliocentric coordinates in place: positions become heliocentric
// (relative to body 0); velocities are left in the centre-of-mass
// (barycentric) frame, which is the natural working basis for
// Wisdom-Holman's operator splitting. Returns the frame needed to
// invert the transform later.
func helioToDemocratic(pos, vel, mass []float64, n int, t float64) democraticFrame {
	f := newDemocraticFrame(pos, vel, mass, n, t)
	toHelio(pos, n)
	for i := 0; i < n; i++ {
		setVecAt(vel, i, vecAt(vel, i).Sub(f.comVel))
	}
	return f
}

// democraticToInertial reconstructs the inertial-frame (pos, vel) at
// time t from democratic-heliocentric coordinates and the frame
// captured by helioToDemocratic. It does not mutate pos/vel; it
// writes the reconstructed inertial state into outPos/outVel (each
// length 3N), so the working democratic-heliocentric buffers used by
// the integrator are left untouched.
func democraticToInertial(pos, vel, mass []float64, n int, f democraticFrame, t float64, outPos, outVel []float64) {
	var weightedPos, weightedP Vec3
	for i := 1; i < n; i++ {
		weightedPos = weightedPos.Add(vecAt(pos, i).Scale(mass[i]))
		weightedP = weightedP.Add(vecAt(vel, i).Scale(mass[i]))
	}
	r0 := f.comAt(t).Sub(weightedPos.Scale(1 / f.mass))
	// Body 0's democratic-frame velocity is never advanced directly
	// by the kick/drift steps (only bodies 1..N-1 are); it is instead
	// recovered from the zero-total-momentum constraint of the
	// centre-of-mass frame, Σ m_i v_i = 0.
	v0 := weightedP.Scale(-1 / mass[0])
	setVecAt(outPos, 0, r0)
	setVecAt(outVel, 0, v0.Add(f.comVel))
	for i := 1; i < n; i++ {
		setVecAt(outPos, i, vecAt(pos, i).Add(r0))
		setVecAt(outVel, i, vecAt(vel, i).Add(f.comVel))
	}
}
