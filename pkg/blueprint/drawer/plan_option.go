package drawer

import (
	"time"

	"github.com/pkg/errors"

	"github.com/askiada/go-blueprint/pkg/blueprint/measure"
	"github.com/askiada/go-blueprint/pkg/blueprint/model"
)

type planDrawer struct {
	Drawer
	m measure.Measure
}

func (pd *planDrawer) New() error {
	return nil
}

func (pd *planDrawer) PrepareStep(parents []*model.StepInfo, step *model.StepInfo) error {
	err := pd.AddStep(step.Name, step.Kind)
	if err != nil {
		return err
	}
	for _, parent := range parents {
		err = pd.AddLink(parent.Name, step.Name)
		if err != nil {
			return err
		}
	}

	return nil
}

func (pd *planDrawer) OnStepDone(step *model.StepInfo, elapsed time.Duration) error {
	return nil
}

func (pd *planDrawer) Finish() error {
	if pd.m != nil {
		err := pd.AddMeasure(pd.m)
		if err != nil {
			return errors.Wrap(err, "unable to add measure")
		}
	}

	err := pd.Draw()
	if err != nil {
		return errors.Wrap(err, "unable to draw plan")
	}

	return nil
}

// PlanDrawer wraps a Drawer as a plan option. When a measure is given, the
// drawing carries the measured step durations.
func PlanDrawer(drawer Drawer, measure measure.Measure) model.PlanOption {
	return &planDrawer{drawer, measure}
}
