package model

import "time"

// PlanOption observes a plan as blueprints are attached and steps execute.
type PlanOption interface {
	// New initialises the plan option.
	New() error
	// PrepareStep runs when a step is registered on the plan, with the steps
	// it depends on.
	PrepareStep(parents []*StepInfo, step *StepInfo) error
	// OnStepDone runs after a step's body finishes successfully.
	OnStepDone(step *StepInfo, elapsed time.Duration) error
	// Finish runs after the whole plan has executed.
	Finish() error
}
