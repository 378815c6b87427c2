package nbody

import "fmt"

// DomainError reports invalid input: NaN or Inf in the state, negative
// mass or radius, non-positive total mass, mismatched array lengths, a
// non-positive step size, or a zero separation in the Kepler drift. It
// is raised by InitializeCode, the state setters, the Integrate* calls
// and the Kepler drift; the force kernel itself does not check its
// inputs. It is always fatal for the call that raised it.
type DomainError struct {
	Msg string
}

func (e *DomainError) Error() string {
	return fmt.Sprintf("nbody: domain error: %s", e.Msg)
}

// CapacityError reports N exceeding N_MAX at SetState. Event-buffer
// overflow is deliberately *not* a CapacityError: it is non-fatal
// (once full, each new event overwrites the final slot and a counter
// is incremented)
// and is surfaced via Overflowed() on the buffer views
// instead of an error.
type CapacityError struct {
	Requested, Max int
}

func (e *CapacityError) Error() string {
	return fmt.Sprintf("nbody: capacity error: requested N=%d exceeds N_MAX=%d", e.Requested, e.Max)
}

// ConvergenceFailure reports that a Kepler solve (Wisdom-Holman) found
// no root within its Newton-Raphson and bisection caps, or that
// Gauss-Radau step-size control found no acceptable step within its
// retry cap. The Gauss-Radau substep iteration itself stops at
// RadauMaxIter without raising it. The step that raised it is left
// uncommitted.
type ConvergenceFailure struct {
	Where string // "gauss-radau", "kepler-bisect-bracket" or "kepler-bisect"
	Iters int
	Err   float64
}

func (e *ConvergenceFailure) Error() string {
	return fmt.Sprintf("nbody: convergence failure in %s after %d iterations (residual %.3e)", e.Where, e.Iters, e.Err)
}
