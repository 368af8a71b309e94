package blueprint

import (
	"context"
	"sync"
	"time"

	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"

	"github.com/askiada/go-blueprint/pkg/blueprint/dataset"
	"github.com/askiada/go-blueprint/pkg/blueprint/metadata"
)

// Results holds the computed value of every step that finished, keyed by step
// identifier. After a failed run it still carries everything computed before
// the failure, so a checks result stays inspectable even when the final step
// never ran.
type Results struct {
	values map[string]any
}

// Value returns the raw result of the step with the given identifier.
func (r *Results) Value(id string) (any, bool) {
	value, ok := r.values[id]

	return value, ok
}

// Dataset returns the result of the step with the given identifier as a
// dataset.
func (r *Results) Dataset(id string) (*dataset.Dataset, error) {
	return Inputs(r.values).Dataset(id)
}

// Metadata returns the result of the step with the given identifier as a
// metadata table.
func (r *Results) Metadata(id string) (metadata.Table, error) {
	return Inputs(r.values).Metadata(id)
}

// Checks returns the result of the step with the given identifier as a
// checks result.
func (r *Results) Checks(id string) (ChecksResult, error) {
	return Inputs(r.values).Checks(id)
}

type runConfig struct {
	concurrent int
}

// RunOption configures a plan run.
type RunOption func(*runConfig)

// RunConcurrency bounds how many step bodies execute at the same time.
func RunConcurrency(concurrent int) RunOption {
	return func(cfg *runConfig) {
		cfg.concurrent = concurrent
	}
}

// Run executes the plan in process, in dependency order, with bounded
// concurrency. It is a reference engine: a step body runs once all its
// dependencies have produced a result, and the first body error cancels the
// run. Recorded check failures are results, not errors, and never cancel
// anything.
func (p *Plan) Run(ctx context.Context, opts ...RunOption) (*Results, error) {
	cfg := &runConfig{concurrent: 1}
	for _, opt := range opts {
		opt(cfg)
	}
	if cfg.concurrent < 1 {
		cfg.concurrent = 1
	}

	results := &Results{values: make(map[string]any, len(p.steps))}
	total := len(p.steps)
	if total == 0 {
		return results, p.finishRun()
	}

	var mu sync.Mutex
	completed := 0
	remaining := make(map[string]int, total)
	dependents := make(map[string][]string, total)
	readyChan := make(chan string, total)
	for id, step := range p.steps {
		remaining[id] = len(step.Deps)
		for _, dep := range step.Deps {
			dependents[dep] = append(dependents[dep], id)
		}
	}
	for _, id := range p.order {
		if remaining[id] == 0 {
			readyChan <- id
		}
	}

	errGrp, dCtx := errgroup.WithContext(ctx)
	errGrp.SetLimit(cfg.concurrent)

	runStep := func(step *Step) func() error {
		return func() error {
			// the group context may already be cancelled by the time a queued
			// step gets a slot
			select {
			case <-dCtx.Done():
				return errors.Wrap(dCtx.Err(), step.Info.Name)
			default:
			}

			in := make(Inputs, len(step.Deps))
			mu.Lock()
			for _, dep := range step.Deps {
				in[dep] = results.values[dep]
			}
			mu.Unlock()

			start := time.Now()
			out, err := step.Body(dCtx, in)
			if err != nil {
				return errors.Wrap(err, step.Info.Name)
			}

			for _, opt := range p.opts {
				err = opt.OnStepDone(step.Info, time.Since(start))
				if err != nil {
					return errors.Wrap(err, "unable to run step done function")
				}
			}

			mu.Lock()
			results.values[step.Info.Name] = out
			completed++
			done := completed == total
			var ready []string
			for _, child := range dependents[step.Info.Name] {
				remaining[child]--
				if remaining[child] == 0 {
					ready = append(ready, child)
				}
			}
			mu.Unlock()

			for _, id := range ready {
				readyChan <- id
			}
			if done {
				close(readyChan)
			}

			return nil
		}
	}

dispatch:
	for {
		select {
		case <-dCtx.Done():
			break dispatch
		case id, ok := <-readyChan:
			if !ok {
				break dispatch
			}
			errGrp.Go(runStep(p.steps[id]))
		}
	}

	err := errGrp.Wait()
	if err != nil {
		return results, err
	}

	return results, p.finishRun()
}
