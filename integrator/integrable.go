// Package integrator provides the generic fixed-step RK4 solver used
// by the N-body core's classical integrator. It is deliberately
// decoupled from any particular state representation: callers adapt
// their domain state to the Integrable interface.
package integrator

// Integrable defines something which can be integrated, i.e. has a
// state vector. Implementations must manage their own state based on
// the iteration index; Solve never holds state of its own between
// Func calls beyond the RK4 stage buffers.
type Integrable interface {
	GetState() []float64                   // Get the latest state of this integrable.
	SetState(i uint64, t float64, s []float64) // Set the state s reached at time t on iteration i.
	Stop(i uint64, t float64) bool          // Return whether to stop the integration from iteration i at time t.
	Func(t float64, s []float64) []float64 // ODE function from time t and state s, must return ds/dt.
}
