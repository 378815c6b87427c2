package nbody

import (
	"github.com/rabotin-labs/nbody/integrator"
)

// rkAdapter wires a *State into the generic integrator.Integrable
// contract: the 6N flat state is (pos, vel); the event detector runs
// once per accepted step, and a detected event or a STOP sentinel
// halts the loop before its next step.
type rkAdapter struct {
	s      *State
	x      []float64
	tEnd   float64
	status Status
}

func (a *rkAdapter) GetState() []float64 { return a.x }

func (a *rkAdapter) SetState(_ uint64, t float64, ns []float64) {
	copy(a.x, ns)
	n := a.s.n
	copy(a.s.pos[:3*n], a.x[:3*n])
	copy(a.s.vel[:3*n], a.x[3*n:6*n])
	a.s.t = t
	if st := detectEvents(a.s.pos[:3*n], a.s.radius[:n], n, a.s.ceDist, t, a.s.ceBuf, a.s.colBuf); st != StatusOK {
		a.status = st
	}
}

func (a *rkAdapter) Stop(_ uint64, t float64) bool {
	if a.status != StatusOK {
		return true
	}
	if stopSentinelPresent() {
		return true
	}
	return t >= a.tEnd
}

func (a *rkAdapter) Func(t float64, x []float64) []float64 {
	dxdt := make([]float64, len(x))
	a.s.Ode1(x, dxdt)
	return dxdt
}

// IntegrateRK advances the state from t to tEnd with the classical
// fixed-step RK4 method. dt is the fixed step size; the final step is
// clipped so t lands exactly on tEnd. Returns the resulting status:
// StatusOK, or the event that interrupted the run.
func (s *State) IntegrateRK(t, tEnd, dt float64) (Status, error) {
	if dt <= 0 {
		return StatusOK, &DomainError{Msg: "dt must be positive"}
	}
	s.t = t
	n := s.n
	x := make([]float64, 6*n)
	copy(x[:3*n], s.pos[:3*n])
	copy(x[3*n:6*n], s.vel[:3*n])

	a := &rkAdapter{s: s, x: x, tEnd: tEnd}
	rk := integrator.NewRK4(t, tEnd, dt, a)
	rk.Solve()
	return a.status, nil
}
