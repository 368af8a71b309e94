package blueprint

import (
	"github.com/dominikbraun/graph"
	"github.com/pkg/errors"

	"github.com/askiada/go-blueprint/internal/store"
	"github.com/askiada/go-blueprint/pkg/blueprint/model"
)

// Plan is the declarative node set handed to a task-graph engine: every step
// expanded from the attached blueprints, with dependency edges between them.
// A plan only declares; scheduling belongs to the engine (or to Run, the
// in-process reference engine).
type Plan struct {
	opts  []model.PlanOption
	steps map[string]*Step
	// order preserves insertion order so plan iteration is deterministic.
	order []string
	graph graph.Graph[string, string]
	// locations maps a metadata location to the blueprint that claimed it.
	// Two blueprints sharing one location is a configuration error, not a
	// race to be resolved at run time.
	locations map[string]string
}

// NewPlan creates an empty plan.
func NewPlan(opts ...model.PlanOption) (*Plan, error) {
	plan := &Plan{
		opts:      opts,
		steps:     make(map[string]*Step),
		graph:     graph.NewWithStore(graph.StringHash, store.NewMemoryStore[string, string](), graph.Directed(), graph.PreventCycles()),
		locations: make(map[string]string),
	}

	for _, opt := range opts {
		err := opt.New()
		if err != nil {
			return nil, errors.Wrap(err, "unable to apply plan option")
		}
	}

	return plan, nil
}

// Add expands the blueprint and attaches its five steps to the plan. It fails
// when a derived identifier collides with an existing step or when another
// blueprint already claimed the same metadata location.
func (p *Plan) Add(bp *Blueprint) error {
	if p == nil {
		return errors.New("plan must be set")
	}

	steps, err := Expand(bp)
	if err != nil {
		return err
	}

	if owner, ok := p.locations[bp.metadataLocation]; ok {
		return errors.Wrapf(ErrSharedMetadataLocation, "%s and %s both use %s", owner, bp.name, bp.metadataLocation)
	}

	for _, step := range steps {
		if _, ok := p.steps[step.Info.Name]; ok {
			return errors.Wrap(ErrDuplicateStep, step.Info.Name)
		}
	}

	for _, step := range steps {
		err = p.graph.AddVertex(step.Info.Name)
		if err != nil {
			return errors.Wrapf(err, "unable to add step %s", step.Info.Name)
		}
		p.steps[step.Info.Name] = step
		p.order = append(p.order, step.Info.Name)
	}

	for _, step := range steps {
		parents := make([]*model.StepInfo, 0, len(step.Deps))
		for _, dep := range step.Deps {
			err = p.graph.AddEdge(dep, step.Info.Name)
			if err != nil {
				return errors.Wrapf(err, "unable to add edge from %s to %s", dep, step.Info.Name)
			}
			parents = append(parents, p.steps[dep].Info)
		}

		for _, opt := range p.opts {
			err = opt.PrepareStep(parents, step.Info)
			if err != nil {
				return errors.Wrap(err, "unable to run prepare step function")
			}
		}
	}

	p.locations[bp.metadataLocation] = bp.name

	return nil
}

// Step returns the step with the given identifier.
func (p *Plan) Step(id string) (*Step, bool) {
	step, ok := p.steps[id]

	return step, ok
}

// Steps returns every step of the plan, in insertion order.
func (p *Plan) Steps() []*Step {
	steps := make([]*Step, 0, len(p.order))
	for _, id := range p.order {
		steps = append(steps, p.steps[id])
	}

	return steps
}

func (p *Plan) finishRun() error {
	for _, opt := range p.opts {
		err := opt.Finish()
		if err != nil {
			return errors.Wrap(err, "unable to finish plan option")
		}
	}

	return nil
}
