// Package nbody is the numerical core of an N-body gravitational
// integrator: direct-summation Newtonian (optionally 1PN-corrected)
// force evaluation, energy accounting, three production integrators
// (RK4, Gauss-Radau 15, Wisdom-Holman) and the close-encounter /
// collision event channels that interrupt them.
//
// State is stored structure-of-arrays, never as a slice of per-
// particle records, so the force kernel's inner loop walks contiguous
// doubles. Persistence, plotting and CLI wiring are external
// collaborators; this package exposes only a setter/getter, a
// step-to-time call per integrator, and event buffers.
package nbody

import (
	"math"

	kitlog "github.com/go-kit/kit/log"
)

// ParticleKind is descriptive metadata only: never consulted by the
// force kernel or integrators.
type ParticleKind uint8

const (
	KindStar ParticleKind = iota
	KindPlanet
	KindTestParticle
)

// Status is the outcome of an Integrate* call.
type Status uint8

const (
	// StatusOK reports that the integrator reached t_end cleanly.
	StatusOK Status = iota
	// StatusCloseEncounter reports a close encounter was detected
	// during the step; integration has stopped at the step that
	// detected it.
	StatusCloseEncounter
	// StatusCollision reports a collision was detected during the
	// step; integration has stopped at the step that detected it.
	StatusCollision
)

func (s Status) String() string {
	switch s {
	case StatusOK:
		return "ok"
	case StatusCloseEncounter:
		return "close-encounter"
	case StatusCollision:
		return "collision"
	default:
		return "unknown"
	}
}

// State is the N-body particle store: positions, velocities, masses
// and radii in parallel arrays, plus the model clock, constants, the
// event buffers and the per-integrator scratch state needed across
// calls (Gauss-Radau's predicted b coefficients, in particular).
type State struct {
	pos, vel, extAcc []float64 // flat 3N
	mass, radius     []float64 // len N
	names            []string
	kinds            []ParticleKind

	n, nMax int
	t       float64
	g, c    float64

	ceDist float64
	ceBuf  *eventBuffer
	colBuf *eventBuffer

	cfg IntegratorConfig
	gr  *gr15Workspace // retained predictor state between accepted GR15 steps

	logger kitlog.Logger
}

// InitializeCode allocates storage for up to nMax particles and
// maxCE/maxColl buffered events. G is the gravitational constant; C
// is the speed of light (0 disables 1PN corrections); ceDist is the
// initial close-encounter distance (0 disables close-encounter
// reporting).
func InitializeCode(g, c float64, nMax, maxCE, maxColl int, ceDist float64) (*State, error) {
	if nMax < 1 {
		return nil, &DomainError{Msg: "N_MAX must be positive"}
	}
	s := &State{
		pos:     make([]float64, 3*nMax),
		vel:     make([]float64, 3*nMax),
		extAcc:  make([]float64, 3*nMax),
		mass:    make([]float64, nMax),
		radius:  make([]float64, nMax),
		names:   make([]string, nMax),
		kinds:   make([]ParticleKind, nMax),
		nMax:    nMax,
		g:       g,
		c:       c,
		ceDist:  ceDist,
		ceBuf:   newEventBuffer(maxCE),
		colBuf:  newEventBuffer(maxColl),
		cfg:     LoadIntegratorConfig(),
		logger:  NewLogger("nbody"),
	}
	return s, nil
}

// Finalize releases the particle arrays and event buffers. The State
// must not be used afterwards.
func (s *State) Finalize() {
	s.pos, s.vel, s.extAcc = nil, nil, nil
	s.mass, s.radius = nil, nil
	s.names, s.kinds = nil, nil
	s.ceBuf, s.colBuf = nil, nil
	s.gr = nil
}

// SetLogger overrides the default logfmt logger, e.g. with
// kitlog.NewNopLogger() for silent tests.
func (s *State) SetLogger(l kitlog.Logger) { s.logger = l }

// SetState populates the particle arrays from the caller's buffers
// and resets the model clock to zero. pos and vel must each have
// length 3*N; mass and radius must each have length N. Returns
// CapacityError if N > N_MAX, DomainError on NaN, negative mass, or
// non-positive total mass.
func (s *State) SetState(pos, vel, mass, radius []float64, n int, g, c float64) error {
	if n > s.nMax {
		return &CapacityError{Requested: n, Max: s.nMax}
	}
	if len(pos) != 3*n || len(vel) != 3*n || len(mass) != n || len(radius) != n {
		return &DomainError{Msg: "state array length mismatch with N"}
	}
	total := 0.0
	for i := 0; i < n; i++ {
		if mass[i] < 0 || math.IsNaN(mass[i]) {
			return &DomainError{Msg: "mass must be nonnegative and finite"}
		}
		if radius[i] < 0 || math.IsNaN(radius[i]) {
			return &DomainError{Msg: "radius must be nonnegative and finite"}
		}
		total += mass[i]
	}
	if total <= 0 {
		return &DomainError{Msg: "total mass must be positive"}
	}
	for _, v := range pos {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return &DomainError{Msg: "NaN or Inf in position state"}
		}
	}
	for _, v := range vel {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return &DomainError{Msg: "NaN or Inf in velocity state"}
		}
	}
	s.n = n
	s.g, s.c = g, c
	s.t = 0
	copy(s.pos, pos)
	copy(s.vel, vel)
	copy(s.mass, mass)
	copy(s.radius, radius)
	for i := n; i < s.nMax; i++ {
		s.mass[i], s.radius[i] = 0, 0
	}
	for i := range s.extAcc {
		s.extAcc[i] = 0
	}
	s.gr = nil // a fresh state invalidates any retained Radau predictor.
	s.logger.Log("level", "info", "op", "set_state", "n", n, "g", g, "c", c)
	return nil
}

// GetState returns copies of the current position, velocity, mass
// and radius arrays (length 3N, 3N, N, N respectively).
func (s *State) GetState() (pos, vel, mass, radius []float64) {
	pos = append([]float64(nil), s.pos[:3*s.n]...)
	vel = append([]float64(nil), s.vel[:3*s.n]...)
	mass = append([]float64(nil), s.mass[:s.n]...)
	radius = append([]float64(nil), s.radius[:s.n]...)
	return
}

// N returns the current active particle count.
func (s *State) N() int { return s.n }

// ModelTime returns the current model time t.
func (s *State) ModelTime() float64 { return s.t }

// G returns the gravitational constant in effect.
func (s *State) G() float64 { return s.g }

// SpeedOfLight returns C (0 means 1PN corrections are disabled).
func (s *State) SpeedOfLight() float64 { return s.c }

// SetAdditionalForces installs a driver-supplied acceleration vector
// for the *next* force evaluation only; it is consumed and zeroed
// after each evaluation. ext_acc is always flat 3N, never 3×N:
// len(acc) must equal 3*N.
func (s *State) SetAdditionalForces(acc []float64) error {
	if len(acc) != 3*s.n {
		return &DomainError{Msg: "additional forces vector must be flat 3N"}
	}
	copy(s.extAcc, acc)
	return nil
}

// SetCloseEncounterDistance updates the close-encounter threshold;
// a non-positive value disables close-encounter reporting (collision
// detection is always active).
func (s *State) SetCloseEncounterDistance(d float64) { s.ceDist = d }

// CloseEncounterBuffer returns a snapshot of the close-encounter
// event rows (time, i, j, separation).
func (s *State) CloseEncounterBuffer() [][4]float64 { return s.ceBuf.Snapshot() }

// CollisionBuffer returns a snapshot of the collision event rows
// (time, i, j, separation).
func (s *State) CollisionBuffer() [][4]float64 { return s.colBuf.Snapshot() }

// ResetCloseEncounterBuffer clears the close-encounter buffer.
func (s *State) ResetCloseEncounterBuffer() { s.ceBuf.reset() }

// ResetCollisionBuffer clears the collision buffer.
func (s *State) ResetCollisionBuffer() { s.colBuf.reset() }

// CloseEncounterOverflowed reports whether a close-encounter event was
// dropped (overwritten) since the buffer was last reset.
func (s *State) CloseEncounterOverflowed() bool { return s.ceBuf.Overflowed() }

// CollisionOverflowed reports whether a collision event was dropped
// (overwritten) since the buffer was last reset.
func (s *State) CollisionOverflowed() bool { return s.colBuf.Overflowed() }

// CalculateEnergy returns the total energy (kinetic + potential) of
// the current state, computed in the inertial frame regardless of
// the integrator's working frame.
func (s *State) CalculateEnergy() float64 {
	return totalEnergy(s.pos, s.vel, s.mass, s.n, s.g)
}

// Merge removes particle j by absorbing it into particle i,
// conserving total mass and linear momentum; the surviving slot
// keeps the lower index and the array contracts by one (the last
// active slot is shifted down into j's old position). The caller is
// responsible for the detect -> drain -> reset -> warmup -> resume
// ordering: Merge itself only performs the array surgery and
// invalidates the retained Gauss-Radau predictor state, it does not
// drain or reset the event buffers.
func (s *State) Merge(i, j int) error {
	if i < 0 || j < 0 || i >= s.n || j >= s.n || i == j {
		return &DomainError{Msg: "merge indices out of range"}
	}
	if j < i {
		i, j = j, i
	}
	mi, mj := s.mass[i], s.mass[j]
	total := mi + mj
	ri, rj := vecAt(s.pos, i), vecAt(s.pos, j)
	vi, vj := vecAt(s.vel, i), vecAt(s.vel, j)
	// Position is the pair's centre of mass; velocity is the
	// momentum-conserving blend.
	merged := ri.Scale(mi / total).Add(rj.Scale(mj / total))
	vMerged := vi.Scale(mi / total).Add(vj.Scale(mj / total))
	setVecAt(s.pos, i, merged)
	setVecAt(s.vel, i, vMerged)
	s.mass[i] = total
	s.radius[i] = math.Cbrt(math.Pow(s.radius[i], 3) + math.Pow(s.radius[j], 3))

	last := s.n - 1
	if j != last {
		setVecAt(s.pos, j, vecAt(s.pos, last))
		setVecAt(s.vel, j, vecAt(s.vel, last))
		s.mass[j] = s.mass[last]
		s.radius[j] = s.radius[last]
		s.names[j] = s.names[last]
		s.kinds[j] = s.kinds[last]
	}
	s.n--
	s.gr = nil
	s.logger.Log("level", "info", "op", "merge", "survivor", i, "absorbed", j, "n", s.n)
	return nil
}
