package blueprint

import (
	"context"

	"github.com/pkg/errors"

	"github.com/askiada/go-blueprint/pkg/blueprint/dataset"
	"github.com/askiada/go-blueprint/pkg/blueprint/metadata"
	"github.com/askiada/go-blueprint/pkg/blueprint/model"
)

// Expand derives the five steps of a blueprint, wired for the task-graph
// engine:
//
//	<name>_initial    evaluate the build expression
//	<name>_blueprint  return the blueprint value itself
//	<name>_meta       load or create the metadata table
//	<name>_checks     run the validation checks
//	<name>            apply the cleanup pipeline
//
// The final step depends on the checks step even though the cleanup body
// never reads the checks result: the engine must not materialise the final
// dataset before the checks have run, so a failed check is always
// inspectable before the final dataset is trusted.
//
// Expansion is a pure function of the blueprint: two calls yield steps with
// identical identifiers and identical edges.
func Expand(bp *Blueprint) ([]*Step, error) {
	if bp == nil {
		return nil, ErrBlueprintMustBeSet
	}

	initialID, err := InitialName(bp)
	if err != nil {
		return nil, err
	}
	refID, _ := RefName(bp)
	metaID, _ := MetaName(bp)
	checksID, _ := ChecksName(bp)
	finalID, _ := FinalName(bp)

	steps := []*Step{
		{
			Info: &model.StepInfo{Kind: model.InitialKind, Name: initialID, Blueprint: bp.name},
			Body: initialBody(bp),
		},
		{
			Info: &model.StepInfo{Kind: model.RefKind, Name: refID, Blueprint: bp.name},
			Body: func(_ context.Context, _ Inputs) (any, error) {
				return bp, nil
			},
		},
		{
			Info: &model.StepInfo{Kind: model.MetaKind, Name: metaID, Blueprint: bp.name},
			Deps: []string{initialID},
			Body: metaBody(bp, initialID),
		},
		{
			Info: &model.StepInfo{Kind: model.ChecksKind, Name: checksID, Blueprint: bp.name},
			Deps: []string{initialID, metaID},
			Body: checksBody(bp, initialID, metaID),
		},
		{
			Info: &model.StepInfo{Kind: model.FinalKind, Name: finalID, Blueprint: bp.name},
			Deps: []string{initialID, metaID, checksID},
			Body: finalBody(bp, initialID, metaID),
		},
	}

	return steps, nil
}

func initialBody(bp *Blueprint) Body {
	return func(ctx context.Context, _ Inputs) (any, error) {
		ds, err := bp.build(ctx)
		if err != nil {
			return nil, errors.Wrapf(err, "unable to build initial dataset for %s", bp.name)
		}
		if ds == nil {
			return nil, errors.Wrapf(dataset.ErrDatasetMustBeSet, "blueprint %s", bp.name)
		}

		return ds, nil
	}
}

func metaBody(bp *Blueprint, initialID string) Body {
	return func(_ context.Context, in Inputs) (any, error) {
		ds, err := in.Dataset(initialID)
		if err != nil {
			return nil, err
		}

		tbl, err := metadata.LoadOrCreate(bp.store, bp.metadataLocation, ds.Names(), bp.exportMetadata)
		if err != nil {
			return nil, errors.Wrapf(err, "unable to resolve metadata for %s", bp.name)
		}

		return tbl, nil
	}
}

func checksBody(bp *Blueprint, initialID, metaID string) Body {
	return func(ctx context.Context, in Inputs) (any, error) {
		ds, err := in.Dataset(initialID)
		if err != nil {
			return nil, err
		}
		tbl, err := in.Metadata(metaID)
		if err != nil {
			return nil, err
		}

		result, err := runChecks(ctx, ds, tbl, bp.checks)
		if err != nil {
			return nil, errors.Wrapf(err, "unable to run checks for %s", bp.name)
		}

		return result, nil
	}
}

func finalBody(bp *Blueprint, initialID, metaID string) Body {
	return func(_ context.Context, in Inputs) (any, error) {
		ds, err := in.Dataset(initialID)
		if err != nil {
			return nil, err
		}
		tbl, err := in.Metadata(metaID)
		if err != nil {
			return nil, err
		}

		cleaned, _, err := dataset.Clean(ds, tbl, bp.annotate)
		if err != nil {
			return nil, errors.Wrapf(err, "unable to clean dataset for %s", bp.name)
		}

		return cleaned, nil
	}
}
