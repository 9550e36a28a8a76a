package scaffold

import "time"

// StepStatus is the outcome of a step.
type StepStatus string

const (
	StatusSuccess StepStatus = "SUCCESS"
	StatusFailure StepStatus = "FAILURE"
)

// StepResult records the outcome of one executed step.
type StepResult struct {
	Step     Step
	Status   StepStatus
	Error    error
	Duration time.Duration
}

// Result is the outcome of executing a plan. Steps holds every step that
// ran, including the failing one; steps after a failure are absent.
type Result struct {
	Success  bool
	Steps    []StepResult
	Duration time.Duration
}

// Count returns the number of successful steps of a kind.
func (r *Result) Count(kind StepKind) int {
	n := 0
	for _, sr := range r.Steps {
		if sr.Step.Kind == kind && sr.Status == StatusSuccess {
			n++
		}
	}
	return n
}

// Paths returns the paths of successful steps of a kind in execution order.
func (r *Result) Paths(kind StepKind) []string {
	var paths []string
	for _, sr := range r.Steps {
		if sr.Step.Kind == kind && sr.Status == StatusSuccess {
			paths = append(paths, sr.Step.Path)
		}
	}
	return paths
}
