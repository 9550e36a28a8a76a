package scaffold

import (
	"fmt"
)

// IOError is returned for every filesystem failure during a run: permission
// problems, a path component occupied by a regular file, a missing file to
// chmod, a full disk. The underlying error is available through Unwrap.
type IOError struct {
	Op   string
	Path string
	Err  error
}

func (e *IOError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.Path, e.Err)
}

func (e *IOError) Unwrap() error {
	return e.Err
}

// DependencyError represents a plan step that depends on a step the plan
// does not contain.
type DependencyError struct {
	Step    StepID
	Missing []StepID
}

func (e *DependencyError) Error() string {
	return fmt.Sprintf("dependency error for step %s: missing dependencies %v", e.Step, e.Missing)
}

// OrderError is returned when a step's dependency cannot run before it,
// either because of a cycle or because the dependency belongs to a later
// phase.
type OrderError struct {
	Step   StepID
	Reason string
	Cause  error
}

func (e *OrderError) Error() string {
	subject := "plan"
	if e.Step != "" {
		subject = "step " + string(e.Step)
	}
	if e.Cause != nil {
		return fmt.Sprintf("cannot order %s: %s: %v", subject, e.Reason, e.Cause)
	}
	return fmt.Sprintf("cannot order %s: %s", subject, e.Reason)
}

func (e *OrderError) Unwrap() error {
	return e.Cause
}
