package blueprint

import (
	"context"

	"github.com/pkg/errors"

	"github.com/askiada/go-blueprint/pkg/blueprint/dataset"
	"github.com/askiada/go-blueprint/pkg/blueprint/metadata"
	"github.com/askiada/go-blueprint/pkg/blueprint/model"
)

// Inputs holds the results of a step's dependencies, keyed by step
// identifier.
type Inputs map[string]any

// Dataset returns the dependency result with the given identifier as a
// dataset.
func (in Inputs) Dataset(id string) (*dataset.Dataset, error) {
	value, ok := in[id]
	if !ok {
		return nil, errors.Wrap(ErrMissingInput, id)
	}
	ds, ok := value.(*dataset.Dataset)
	if !ok {
		return nil, errors.Errorf("input %s is not a dataset", id)
	}

	return ds, nil
}

// Metadata returns the dependency result with the given identifier as a
// metadata table.
func (in Inputs) Metadata(id string) (metadata.Table, error) {
	value, ok := in[id]
	if !ok {
		return metadata.Table{}, errors.Wrap(ErrMissingInput, id)
	}
	tbl, ok := value.(metadata.Table)
	if !ok {
		return metadata.Table{}, errors.Errorf("input %s is not a metadata table", id)
	}

	return tbl, nil
}

// Checks returns the dependency result with the given identifier as a checks
// result.
func (in Inputs) Checks(id string) (ChecksResult, error) {
	value, ok := in[id]
	if !ok {
		return ChecksResult{}, errors.Wrap(ErrMissingInput, id)
	}
	result, ok := value.(ChecksResult)
	if !ok {
		return ChecksResult{}, errors.Errorf("input %s is not a checks result", id)
	}

	return result, nil
}

// Body computes a step's value from the results of its dependencies.
type Body func(ctx context.Context, in Inputs) (any, error)

// Step is one declarative node emitted for the task-graph engine: an
// identifier, the identifiers it depends on, and a body. The engine owns
// scheduling; a step never calls execution primitives itself.
type Step struct {
	Info *model.StepInfo
	Deps []string
	Body Body
}
