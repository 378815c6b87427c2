package nbody

// Wisdom-Holman works in democratic-heliocentric coordinates: body 0
// (the central mass) is pinned at the heliocentric origin and never
// advanced directly; its inertial trajectory is reconstructed from
// the centre-of-mass motion once the step loop exits (transforms.go).

// IntegrateWH advances the state from t to tEnd with the 2nd-order
// symplectic Wisdom-Holman map: a half kick from
// mutual planet-planet gravity, a linear jump from the central body's
// barycentric momentum, a per-body Kepler drift about the central
// mass, then the jump and kick mirrored, composed symmetrically for
// time-reversibility. dt is the fixed step size; the final step is
// clipped so t lands exactly on tEnd.
func (s *State) IntegrateWH(t, tEnd, dt float64) (Status, error) {
	if dt <= 0 {
		return StatusOK, &DomainError{Msg: "dt must be positive"}
	}
	n := s.n
	if n < 2 {
		return StatusOK, &DomainError{Msg: "wisdom-holman requires a central body plus at least one other"}
	}

	pos := append([]float64(nil), s.pos[:3*n]...)
	vel := append([]float64(nil), s.vel[:3*n]...)
	mass := s.mass[:n]

	s.t = t
	frame := helioToDemocratic(pos, vel, mass, n, t)
	mu := s.g * mass[0]
	acc := make([]float64, 3*n)
	stepPos := make([]float64, 3*n)
	stepVel := make([]float64, 3*n)

	status := StatusOK
	for s.t < tEnd {
		if stopSentinelPresent() {
			break
		}
		h := dt
		if s.t+h > tEnd {
			h = tEnd - s.t
		}
		if h <= 0 {
			break
		}
		copy(stepPos, pos)
		copy(stepVel, vel)

		interactionAccel(pos, mass, n, s.g, acc)
		whKick(vel, acc, n, h/2)
		whJump(pos, vel, mass, n, h/2)
		if err := whKeplerDrift(pos, vel, mass, n, mu, h, s.cfg); err != nil {
			// Abort the step: report the state of the last completed step.
			democraticToInertial(stepPos, stepVel, mass, n, frame, s.t, s.pos, s.vel)
			return StatusOK, err
		}
		whJump(pos, vel, mass, n, h/2)
		interactionAccel(pos, mass, n, s.g, acc)
		whKick(vel, acc, n, h/2)

		s.t += h

		// pos[0] is always the heliocentric origin, so pairwise
		// separations computed directly on the working buffer equal
		// their inertial-frame counterparts; no reconstruction is
		// needed just to check events.
		if st := detectEvents(pos, s.radius[:n], n, s.ceDist, s.t, s.ceBuf, s.colBuf); st != StatusOK {
			status = st
			break
		}
	}

	democraticToInertial(pos, vel, mass, n, frame, s.t, s.pos, s.vel)
	return status, nil
}

// interactionAccel computes the mutual gravitational acceleration
// among bodies 1..n-1 only (the central body's pull is handled by the
// Kepler drift, not by direct summation). No 1PN term: the symplectic
// splitting here assumes a purely Newtonian interaction Hamiltonian.
func interactionAccel(pos, mass []float64, n int, g float64, acc []float64) {
	for i := range acc[:3*n] {
		acc[i] = 0
	}
	for i := 1; i < n; i++ {
		ri := vecAt(pos, i)
		for j := i + 1; j < n; j++ {
			rj := vecAt(pos, j)
			d := rj.Sub(ri)
			r2 := d.Norm2()
			r := safeSqrt(r2)
			mag := g / (r2 * r)
			addVecAt(acc, i, d.Scale(mag*mass[j]))
			addVecAt(acc, j, d.Scale(-mag*mass[i]))
		}
	}
}

// whKick applies the interaction acceleration for a half (or full)
// step to bodies 1..n-1's democratic velocities.
func whKick(vel, acc []float64, n int, h float64) {
	for i := 1; i < n; i++ {
		setVecAt(vel, i, vecAt(vel, i).Add(vecAt(acc, i).Scale(h)))
	}
}

// whJump linearly drifts every non-central position by minus the
// central body's implied barycentric velocity, -p_0/m_0 = (Σ_{i>=1} p_i)/m_0,
// which heliocentric coordinates would otherwise leave unaccounted
// for (Duncan, Levison & Lee 1998).
func whJump(pos, vel, mass []float64, n int, h float64) {
	var sumP Vec3
	for i := 1; i < n; i++ {
		sumP = sumP.Add(vecAt(vel, i).Scale(mass[i]))
	}
	drift := sumP.Scale(h / mass[0])
	for i := 1; i < n; i++ {
		setVecAt(pos, i, vecAt(pos, i).Add(drift))
	}
}

// whKeplerDrift propagates each non-central body along its own
// two-body Kepler orbit about the central mass for time h. The
// democratic (barycentric) velocity doubles as the canonical momentum
// conjugate to the heliocentric position under the Kepler piece of
// the split Hamiltonian, so it is passed to keplerDrift unmodified.
func whKeplerDrift(pos, vel, mass []float64, n int, mu, h float64, cfg IntegratorConfig) error {
	for i := 1; i < n; i++ {
		r1, v1, err := keplerDrift(vecAt(pos, i), vecAt(vel, i), mu, h, cfg)
		if err != nil {
			return err
		}
		setVecAt(pos, i, r1)
		setVecAt(vel, i, v1)
	}
	return nil
}
