package nbody

import "math"

// keplerDrift advances a two-body relative state (r0, v0) under the
// point mass mu by time h using the universal-variable formulation,
// so that a single elliptic/parabolic/hyperbolic code path covers all
// orbit types. Returns the new relative position and
// velocity, or a ConvergenceFailure if neither Newton-Raphson nor the
// bisection fallback can solve for the generalized anomaly.
func keplerDrift(r0, v0 Vec3, mu, h float64, cfg IntegratorConfig) (Vec3, Vec3, error) {
	r0n := r0.Norm()
	if r0n < 1e-300 {
		return r0, v0, &DomainError{Msg: "kepler drift: zero separation"}
	}
	vr0 := r0.Dot(v0) / r0n
	alpha := 2/r0n - v0.Dot(v0)/mu // 1/a, works for all conic types.

	chi, err := solveUniversalAnomaly(r0n, vr0, alpha, mu, h, cfg)
	if err != nil {
		return Vec3{}, Vec3{}, err
	}

	z := alpha * chi * chi
	_, _, c2, c3 := stumpff(z)

	f := 1 - (chi*chi*c2)/r0n
	g := h - (chi*chi*chi*c3)/math.Sqrt(mu)

	r1 := r0.Scale(f).Add(v0.Scale(g))
	r1n := r1.Norm()
	if r1n < 1e-300 {
		return Vec3{}, Vec3{}, &DomainError{Msg: "kepler drift: degenerate resulting separation"}
	}

	fDot := (math.Sqrt(mu) / (r1n * r0n)) * chi * (z*c3 - 1)
	gDot := 1 - (chi*chi*c2)/r1n

	v1 := r0.Scale(fDot).Add(v0.Scale(gDot))
	return r1, v1, nil
}

// solveUniversalAnomaly finds chi such that Kepler's universal-variable
// time equation sqrt(mu)*h = chi^3*c3(z) + vr0/sqrt(mu)*r0*chi^2*c2(z) + r0*chi*c1(z),
// z = alpha*chi^2, holds to within cfg.KeplerTol. Starts with
// Newton-Raphson from the standard initial guess and falls back to
// bisection if it fails to converge within cfg.KeplerMaxIter.
func solveUniversalAnomaly(r0, vr0, alpha, mu, h float64, cfg IntegratorConfig) (float64, error) {
	sqrtMu := math.Sqrt(mu)
	chi := sqrtMu * math.Abs(alpha) * h // standard initial guess, good across conic types

	timeEq := func(x float64) (f, fPrime float64) {
		z := alpha * x * x
		_, _, c2, c3 := stumpff(z)
		f = (r0*vr0/sqrtMu)*x*x*c2 + (1-alpha*r0)*x*x*x*c3 + r0*x - sqrtMu*h
		fPrime = (r0*vr0/sqrtMu)*x*(1-alpha*x*x*c3) + (1-alpha*r0)*x*x*c2 + r0
		return
	}

	for i := 0; i < cfg.KeplerMaxIter; i++ {
		f, fPrime := timeEq(chi)
		if math.Abs(fPrime) < 1e-300 {
			break
		}
		ratio := f / fPrime
		chi -= ratio
		if math.Abs(f)/(math.Abs(chi)*sqrtMu) < cfg.KeplerTol {
			return chi, nil
		}
	}

	// Newton-Raphson failed to converge: bracket and bisect. The
	// bracket widens geometrically from the last Newton iterate since
	// universal chi has no natural fixed bound.
	lo, hi := chi-math.Abs(chi)-1, chi+math.Abs(chi)+1
	flo, _ := timeEq(lo)
	fhi, _ := timeEq(hi)
	for i := 0; i < 20 && flo*fhi > 0; i++ {
		lo -= math.Abs(lo) + 1
		hi += math.Abs(hi) + 1
		flo, _ = timeEq(lo)
		fhi, _ = timeEq(hi)
	}
	if flo*fhi > 0 {
		return 0, &ConvergenceFailure{Where: "kepler-bisect-bracket", Iters: 20, Err: math.Min(math.Abs(flo), math.Abs(fhi))}
	}
	for i := 0; i < cfg.KeplerBisectMax; i++ {
		mid := 0.5 * (lo + hi)
		fmid, _ := timeEq(mid)
		if math.Abs(fmid)/(math.Abs(mid)*sqrtMu+1e-300) < cfg.KeplerTol {
			return mid, nil
		}
		if flo*fmid < 0 {
			hi, fhi = mid, fmid
		} else {
			lo, flo = mid, fmid
		}
	}
	return 0, &ConvergenceFailure{Where: "kepler-bisect", Iters: cfg.KeplerBisectMax, Err: math.Abs(fhi)}
}
