package integrator

// RK4 is the classical four-stage, fixed-step Runge-Kutta method
// applied to a first-order ODE form. It advances from X0 to TEnd in
// ceil((TEnd-X0)/StepSize) steps; the final step is clipped so the
// last x_i lands exactly on TEnd.
type RK4 struct {
	X0       float64 // initial time.
	TEnd     float64 // target end time.
	StepSize float64 // the (maximum) step size.
	Integ    Integrable
}

// NewRK4 returns a configured RK4 integrator.
func NewRK4(x0, tEnd, stepSize float64, integ Integrable) *RK4 {
	if stepSize <= 0 {
		panic("integrator: StepSize must be positive")
	}
	if integ == nil {
		panic("integrator: Integ may not be nil")
	}
	return &RK4{X0: x0, TEnd: tEnd, StepSize: stepSize, Integ: integ}
}

// Solve runs the fixed-step RK4 loop until Integ.Stop reports true or
// the clipped step reaches TEnd. Returns the number of steps taken
// and the final time reached.
func (r *RK4) Solve() (uint64, float64) {
	const (
		half     = 0.5
		oneSixth = 1.0 / 6.0
		oneThird = 1.0 / 3.0
	)

	iter := uint64(0)
	xi := r.X0
	for !r.Integ.Stop(iter, xi) {
		h := r.StepSize
		if r.TEnd > r.X0 && xi+h > r.TEnd {
			h = r.TEnd - xi
		}
		if h <= 0 {
			break
		}
		halfStep := h * half
		state := r.Integ.GetState()
		n := len(state)
		newState := make([]float64, n)
		k1 := make([]float64, n)
		k2 := make([]float64, n)
		k3 := make([]float64, n)
		k4 := make([]float64, n)
		tState := make([]float64, n)

		for i, y := range r.Integ.Func(xi, state) {
			k1[i] = y * h
			tState[i] = state[i] + k1[i]*half
		}
		for i, y := range r.Integ.Func(xi+halfStep, tState) {
			k2[i] = y * h
			tState[i] = state[i] + k2[i]*half
		}
		for i, y := range r.Integ.Func(xi+halfStep, tState) {
			k3[i] = y * h
			tState[i] = state[i] + k3[i]
		}
		for i, y := range r.Integ.Func(xi+h, tState) {
			k4[i] = y * h
			newState[i] = state[i] + oneSixth*(k1[i]+k4[i]) + oneThird*(k2[i]+k3[i])
		}
		xi += h
		r.Integ.SetState(iter, xi, newState)
		iter++
	}

	return iter, xi
}
