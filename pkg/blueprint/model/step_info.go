package model

// StepKind identifies the role of a step within a blueprint's expansion.
type StepKind string

const (
	// InitialKind evaluates the blueprint's build expression.
	InitialKind StepKind = "initial"
	// RefKind returns the blueprint value itself, for provenance.
	RefKind StepKind = "blueprint"
	// MetaKind loads or creates the blueprint's metadata table.
	MetaKind StepKind = "meta"
	// ChecksKind runs the blueprint's validation checks.
	ChecksKind StepKind = "checks"
	// FinalKind applies the cleanup pipeline to the initial dataset.
	FinalKind StepKind = "final"
)

// StepInfo describes one step of a plan.
type StepInfo struct {
	Kind StepKind
	Name string
	// Blueprint is the name of the blueprint the step was expanded from.
	Blueprint string
}
