package drawer

import (
	"github.com/askiada/go-blueprint/pkg/blueprint/measure"
	"github.com/askiada/go-blueprint/pkg/blueprint/model"
)

// Drawer renders the step graph of a plan.
type Drawer interface {
	// AddStep adds a step to the drawing, coloured by its kind.
	AddStep(stepName string, kind model.StepKind) error
	// AddLink adds a dependency link between parent and child steps.
	AddLink(parentStepName, childStepName string) error
	// AddMeasure decorates the drawing with measured step durations.
	AddMeasure(measure measure.Measure) error
	// Draw creates a file with the plan graph.
	Draw() error
}
