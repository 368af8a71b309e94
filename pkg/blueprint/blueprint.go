package blueprint

import (
	"context"
	"path/filepath"

	"github.com/pkg/errors"

	"github.com/askiada/go-blueprint/pkg/blueprint/dataset"
	"github.com/askiada/go-blueprint/pkg/blueprint/metadata"
)

// Builder is a blueprint's deferred build expression. It is evaluated only
// when the initial step executes, never at blueprint construction.
type Builder func(ctx context.Context) (*dataset.Dataset, error)

// Blueprint is the immutable declaration of one target dataset: how to build
// it, where its metadata lives, and which checks validate it. All derived
// step identifiers and pipeline behaviour are pure functions of its fields.
type Blueprint struct {
	name             string
	build            Builder
	description      string
	annotate         bool
	exportMetadata   bool
	metadataLocation string
	store            metadata.Store
	checks           []Check
	extra            map[string]any
}

var _ Nameable = (*Blueprint)(nil)

// Option configures a blueprint at construction.
type Option func(*Blueprint)

// WithDescription sets the blueprint's description.
func WithDescription(description string) Option {
	return func(bp *Blueprint) {
		bp.description = description
	}
}

// WithAnnotate controls whether the cleanup pipeline annotates and encodes
// columns from the metadata. Defaults to true.
func WithAnnotate(annotate bool) Option {
	return func(bp *Blueprint) {
		bp.annotate = annotate
	}
}

// WithMetadataExport controls whether a synthesized metadata table is
// persisted to the blueprint's metadata location. Defaults to true.
func WithMetadataExport(export bool) Option {
	return func(bp *Blueprint) {
		bp.exportMetadata = export
	}
}

// WithMetadataDir places the blueprint's metadata file under dir, keeping the
// default <name>.csv file name.
func WithMetadataDir(dir string) Option {
	return func(bp *Blueprint) {
		bp.metadataLocation = filepath.Join(dir, bp.name+".csv")
	}
}

// WithMetadataLocation sets the exact location of the blueprint's metadata
// table.
func WithMetadataLocation(location string) Option {
	return func(bp *Blueprint) {
		bp.metadataLocation = location
	}
}

// WithStore sets the metadata store the meta step reads from and writes to.
// Defaults to a CSV store.
func WithStore(store metadata.Store) Option {
	return func(bp *Blueprint) {
		bp.store = store
	}
}

// WithChecks appends validation checks, run in declaration order against the
// freshly computed dataset and its metadata.
func WithChecks(checks ...Check) Option {
	return func(bp *Blueprint) {
		bp.checks = append(bp.checks, checks...)
	}
}

// WithExtra attaches an open extension setting to the blueprint.
func WithExtra(key string, value any) Option {
	return func(bp *Blueprint) {
		if bp.extra == nil {
			bp.extra = make(map[string]any)
		}
		bp.extra[key] = value
	}
}

// New creates an immutable blueprint. By default the cleanup pipeline
// annotates columns, a synthesized metadata table is exported, and metadata
// lives at metadata/<name>.csv in a CSV store.
func New(name string, build Builder, opts ...Option) (*Blueprint, error) {
	if name == "" {
		return nil, ErrUndefinedName
	}
	if build == nil {
		return nil, errors.Wrap(ErrBuilderMustBeSet, name)
	}

	bp := &Blueprint{
		name:             name,
		build:            build,
		annotate:         true,
		exportMetadata:   true,
		metadataLocation: filepath.Join("metadata", name+".csv"),
		store:            metadata.NewCSVStore(),
	}
	for _, opt := range opts {
		opt(bp)
	}

	for _, check := range bp.checks {
		if check.Name == "" || check.Fn == nil {
			return nil, errors.Wrapf(ErrMalformedCheck, "blueprint %s", name)
		}
	}

	return bp, nil
}

// BlueprintName returns the blueprint's bare name.
func (bp *Blueprint) BlueprintName() string {
	return bp.name
}

// Description returns the blueprint's description.
func (bp *Blueprint) Description() string {
	return bp.description
}

// Annotate reports whether the cleanup pipeline annotates columns.
func (bp *Blueprint) Annotate() bool {
	return bp.annotate
}

// ExportMetadata reports whether a synthesized metadata table is persisted.
func (bp *Blueprint) ExportMetadata() bool {
	return bp.exportMetadata
}

// MetadataLocation returns where the blueprint's metadata table lives.
func (bp *Blueprint) MetadataLocation() string {
	return bp.metadataLocation
}

// Store returns the blueprint's metadata store.
func (bp *Blueprint) Store() metadata.Store {
	return bp.store
}

// Checks returns a copy of the blueprint's check definitions, in declaration
// order.
func (bp *Blueprint) Checks() []Check {
	checks := make([]Check, len(bp.checks))
	copy(checks, bp.checks)

	return checks
}

// Extra returns the open extension setting stored under key.
func (bp *Blueprint) Extra(key string) (any, bool) {
	value, ok := bp.extra[key]

	return value, ok
}
