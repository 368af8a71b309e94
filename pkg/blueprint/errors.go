package blueprint

import (
	"github.com/pkg/errors"
)

var (
	// ErrBlueprintMustBeSet is returned when a nil blueprint is passed.
	ErrBlueprintMustBeSet = errors.New("blueprint must be set")
	// ErrBuilderMustBeSet is returned when a blueprint is created without a
	// build expression.
	ErrBuilderMustBeSet = errors.New("builder must be set")
	// ErrUndefinedName is returned when a name derivation receives nothing
	// that resolves to a blueprint name.
	ErrUndefinedName = errors.New("name is undefined")
	// ErrMalformedCheck is returned for a check definition with no name or no
	// function. This is a configuration error, not a check failure.
	ErrMalformedCheck = errors.New("check definition is malformed")
	// ErrDuplicateStep is returned when a step identifier is already taken on
	// the plan.
	ErrDuplicateStep = errors.New("step already exists in plan")
	// ErrSharedMetadataLocation is returned when two blueprints on one plan
	// claim the same metadata location.
	ErrSharedMetadataLocation = errors.New("metadata location already claimed by another blueprint")
	// ErrMissingInput is returned when a step body asks for a dependency
	// result that was not provided.
	ErrMissingInput = errors.New("step input is missing")
)
