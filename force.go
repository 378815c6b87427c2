package nbody

import (
	"math"
	"runtime"
	"sync"
)

// parallelThreshold is the smallest N at which the force kernel's
// outer loop is split across goroutines; below it the fan-out
// overhead dominates the O(N²) work itself.
const parallelThreshold = 64

// accelerations computes the Newtonian (+ optional 1PN, + optional
// external) acceleration of every active particle into acc (length
// 3N, overwritten in place here) from the second-order (positions
// only) form. vel is required only for the 1PN correction; pass nil
// to skip it regardless of C (Ode2 does this; Gauss-Radau passes its
// predicted velocities). Any driver-supplied extra acceleration is
// added once and then zeroed.
func (s *State) accelerations(pos, vel []float64, acc []float64) {
	n := s.n
	for i := range acc[:3*n] {
		acc[i] = 0
	}
	if n >= parallelThreshold {
		s.accelerationsParallel(pos, vel, acc)
	} else {
		accumulatePairwise(pos, vel, s.mass, n, s.g, s.c, acc)
	}
	if hasNonZero(s.extAcc[:3*n]) {
		for i := 0; i < 3*n; i++ {
			acc[i] += s.extAcc[i]
			s.extAcc[i] = 0
		}
	}
}

func hasNonZero(v []float64) bool {
	for _, x := range v {
		if x != 0 {
			return true
		}
	}
	return false
}

// accelerationsParallel splits the outer particle index across
// GOMAXPROCS goroutines, each accumulating into its own partial
// buffer; partials are summed once all workers join. This mirrors
// the fan-out/sync.WaitGroup shape the rest of the corpus uses for
// background work, applied here to the force kernel's embarrassingly
// parallel outer loop. Pair-summation order across
// threads is not stably defined: callers must only rely on
// associativity-level determinism, not bit-for-bit reproducibility
// across thread counts.
func (s *State) accelerationsParallel(pos, vel []float64, acc []float64) {
	n := s.n
	workers := runtime.GOMAXPROCS(0)
	if workers > n {
		workers = n
	}
	partials := make([][]float64, workers)
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		partials[w] = make([]float64, 3*n)
		wg.Add(1)
		go func(w int) {
			defer wg.Done()
			accumulatePairwiseRange(pos, vel, s.mass, n, s.g, s.c, w, workers, partials[w])
		}(w)
	}
	wg.Wait()
	for _, p := range partials {
		for i := 0; i < 3*n; i++ {
			acc[i] += p[i]
		}
	}
}

// accumulatePairwise is the serial O(N²) direct-summation kernel: for
// every unordered pair (i<j) it adds the mutual Newtonian (and,
// when c > 0 and vel is non-nil, 1PN) acceleration into both bodies
// simultaneously, halving the flop count via Newton's third law.
func accumulatePairwise(pos, vel, mass []float64, n int, g, c float64, acc []float64) {
	for i := 0; i < n; i++ {
		ri := vecAt(pos, i)
		for j := i + 1; j < n; j++ {
			rj := vecAt(pos, j)
			aOnI, aOnJ := pairAccel(ri, rj, pairVel(vel, i), pairVel(vel, j), mass[i], mass[j], g, c)
			addVecAt(acc, i, aOnI)
			addVecAt(acc, j, aOnJ)
		}
	}
}

// accumulatePairwiseRange accumulates only the pairs whose outer
// index i satisfies i%workers == worker, into a worker-private
// buffer. Each worker walks the full inner loop over every other
// particle (not just j > i) so that no cross-worker write is ever
// needed: correctness is chosen over halving the flop count here,
// since halving would require synchronizing writes across workers.
func accumulatePairwiseRange(pos, vel, mass []float64, n int, g, c float64, worker, workers int, acc []float64) {
	for i := worker; i < n; i += workers {
		ri := vecAt(pos, i)
		vi := pairVel(vel, i)
		for j := 0; j < n; j++ {
			if j == i {
				continue
			}
			rj := vecAt(pos, j)
			aOnI, _ := pairAccel(ri, rj, vi, pairVel(vel, j), mass[i], mass[j], g, c)
			addVecAt(acc, i, aOnI)
		}
	}
}

// pairVel returns the i-th velocity, or the zero vector when vel is
// nil (1PN skipped).
func pairVel(vel []float64, i int) Vec3 {
	if vel == nil {
		return Vec3{}
	}
	return vecAt(vel, i)
}

// pairAccel returns the acceleration contributed to body i and to
// body j by their mutual interaction: the Newtonian term always, and
// the first-order post-Newtonian (EIH pairwise-truncated) term when
// c > 0 and velocities were supplied.
func pairAccel(ri, rj, vi, vj Vec3, mi, mj, g, c float64) (aOnI, aOnJ Vec3) {
	d := rj.Sub(ri)
	r2 := d.Norm2()
	r := safeSqrt(r2)
	n := d.Scale(1 / r) // unit vector i -> j

	newtonMag := g / (r2 * r)
	aOnI = d.Scale(newtonMag * mj)
	aOnJ = d.Scale(-newtonMag * mi)

	if c > 0 && (vi != Vec3{} || vj != Vec3{}) {
		pn := pairwisePN(n, r, vi, vj, mi, mj, g, c)
		aOnI = aOnI.Add(pn.Scale(mj))
		aOnJ = aOnJ.Sub(pn.Scale(mi))
	}
	return
}

// pairwisePN evaluates the standard EIH pairwise-truncated 1PN
// acceleration contribution (per unit of the partner's mass) felt by
// body i due to body j, following the familiar two-body restriction
// of the Einstein-Infeld-Hoffmann equations of motion (see e.g.
// Soffel & Han, "Applied General Relativity", eq. 5.2, restricted to
// one perturbing body). n is the unit vector from i to j, r their
// separation.
func pairwisePN(n Vec3, r float64, vi, vj Vec3, mi, mj, g, c float64) Vec3 {
	c2 := c * c
	nv := n.Dot(vj)
	vi2 := vi.Dot(vi)
	vj2 := vj.Dot(vj)
	vivj := vi.Dot(vj)

	coeff := g * mj / (c2 * r * r)
	radial := 4*g*mi/r + 5*g*mj/r + vi2 + 2*vj2 - 4*vivj - 1.5*nv*nv
	tangential := 4*n.Dot(vi) - 3*nv

	return n.Scale(coeff * radial).Add(vi.Sub(vj).Scale(coeff * tangential))
}

func safeSqrt(x float64) float64 {
	if x <= 0 {
		return 1e-300
	}
	return math.Sqrt(x)
}

// Ode1 evaluates the first-order form ẋ = (v, a(r,v)) used by RK4:
// x is the flat 6N state (pos then vel), dxdt is filled with (vel,
// acc) of the same length.
func (s *State) Ode1(x []float64, dxdt []float64) {
	n := s.n
	pos := x[:3*n]
	vel := x[3*n : 6*n]
	copy(dxdt[:3*n], vel)
	s.accelerations(pos, vel, dxdt[3*n:6*n])
}

// Ode2 evaluates the second-order form a(r) from positions alone, so
// the 1PN term is skipped. Neither integrator calls it: Gauss-Radau
// evaluates through Ode2WithVel, and the Wisdom-Holman kick uses
// interactionAccel.
func (s *State) Ode2(pos []float64, acc []float64) {
	s.accelerations(pos, nil, acc)
}

// Ode2WithVel is Ode2 but also folds in the 1PN correction using the
// supplied velocities. Gauss-Radau calls it (through accelAt) at the
// start of every trial step and at every substep node, with the
// predicted node velocities.
func (s *State) Ode2WithVel(pos, vel []float64, acc []float64) {
	s.accelerations(pos, vel, acc)
}

// totalEnergy returns kinetic + potential energy in the inertial
// frame: ½ Σ m_i|v_i|² − Σ_{i<j} G m_i m_j / |r_i − r_j|.
func totalEnergy(pos, vel, mass []float64, n int, g float64) float64 {
	var kinetic, potential kahanSum
	for i := 0; i < n; i++ {
		vi := vecAt(vel, i)
		kinetic.Add(0.5 * mass[i] * vi.Norm2())
	}
	for i := 0; i < n; i++ {
		ri := vecAt(pos, i)
		for j := i + 1; j < n; j++ {
			d := ri.Sub(vecAt(pos, j)).Norm()
			potential.Add(-g * mass[i] * mass[j] / d)
		}
	}
	return kinetic.Value() + potential.Value()
}
