package measure

import (
	"time"

	"github.com/askiada/go-blueprint/pkg/blueprint/model"
)

type planMeasure struct {
	Measure
}

func (pm *planMeasure) New() error {
	return nil
}

func (pm *planMeasure) PrepareStep(parents []*model.StepInfo, step *model.StepInfo) error {
	pm.AddMetric(step.Name)

	return nil
}

func (pm *planMeasure) OnStepDone(step *model.StepInfo, elapsed time.Duration) error {
	mt := pm.GetMetric(step.Name)
	if mt == nil {
		mt = pm.AddMetric(step.Name)
	}
	mt.AddDuration(elapsed)

	return nil
}

func (pm *planMeasure) Finish() error {
	return nil
}

// PlanMeasure wraps a Measure as a plan option that records every step's
// execution time.
func PlanMeasure(measure Measure) model.PlanOption {
	return &planMeasure{measure}
}
