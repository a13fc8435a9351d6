package grid

import "fmt"

// AllocationError reports that the field buffers for a resolution could not
// be reserved. It is fatal at startup.
type AllocationError struct {
	N      int
	Reason string
}

func (e *AllocationError) Error() string {
	return fmt.Sprintf("grid: cannot allocate fields for N=%d: %s", e.N, e.Reason)
}

// PreconditionViolation is the panic value raised when a field operation is
// invoked on released, unknown or wrongly shaped buffers. A frame that raises
// one must not be rendered.
type PreconditionViolation struct {
	Op     string
	Detail string
}

func (e *PreconditionViolation) Error() string {
	return fmt.Sprintf("grid: precondition violated in %s: %s", e.Op, e.Detail)
}

// Require panics with a PreconditionViolation when cond is false.
func Require(cond bool, op, format string, args ...any) {
	if cond {
		return
	}
	panic(&PreconditionViolation{Op: op, Detail: fmt.Sprintf(format, args...)})
}
