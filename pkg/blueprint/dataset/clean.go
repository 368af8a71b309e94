package dataset

import (
	"fmt"

	"github.com/pkg/errors"

	"github.com/askiada/go-blueprint/pkg/blueprint/metadata"
)

// ErrDatasetMustBeSet is returned when Clean receives a nil dataset.
var ErrDatasetMustBeSet = errors.New("dataset must be set")

// AttrUnmapped is the column attribute under which the labelling stage records
// raw values that matched no code in the variable's coding.
const AttrUnmapped = "unmapped"

// Mismatch records one observed value with no matching code in a variable's
// coding. Mismatches are informational: the value is left unmapped, never
// rejected.
type Mismatch struct {
	Variable string
	Value    any
}

// Clean applies the metadata-driven cleanup pipeline to a dataset and returns
// the cleaned copy. The input dataset is never mutated.
//
// The stages run in a fixed order:
//  1. reorder columns to the metadata's variable order, appending columns
//     unknown to the metadata after, in their original relative order
//  2. drop every column whose descriptor carries the dropped flag
//  3. if annotate is set, attach each descriptor's fields to its column as
//     inspectable attributes
//  4. if annotate is set and the descriptor has a description, label the
//     column with it and, when the descriptor defines a coding, replace raw
//     values with the coding's labels
//
// Cleaning an already-clean dataset is a no-op: column order is stable and
// columns that already carry their coding are not re-encoded.
func Clean(ds *Dataset, tbl metadata.Table, annotate bool) (*Dataset, []Mismatch, error) {
	if ds == nil {
		return nil, nil, ErrDatasetMustBeSet
	}
	err := tbl.Validate()
	if err != nil {
		return nil, nil, errors.Wrap(err, "unable to clean dataset with invalid metadata")
	}

	out := ds.Clone()
	out.Columns = reorderColumns(out.Columns, tbl)
	out.Columns = dropColumns(out.Columns, tbl)

	var mismatches []Mismatch
	if annotate {
		annotateColumns(out.Columns, tbl)
		mismatches = encodeColumns(out.Columns, tbl)
	}

	return out, mismatches, nil
}

// reorderColumns returns the columns matching a descriptor first, in table
// order, followed by the remaining columns in their original relative order.
// Nothing is dropped at this stage.
func reorderColumns(columns []*Column, tbl metadata.Table) []*Column {
	byName := make(map[string]*Column, len(columns))
	for _, col := range columns {
		byName[col.Name] = col
	}

	known := make(map[string]struct{}, len(tbl.Variables))
	out := make([]*Column, 0, len(columns))
	for _, variable := range tbl.Variables {
		col, ok := byName[variable.Name]
		if !ok {
			continue
		}
		out = append(out, col)
		known[variable.Name] = struct{}{}
	}

	for _, col := range columns {
		if _, ok := known[col.Name]; !ok {
			out = append(out, col)
		}
	}

	return out
}

func dropColumns(columns []*Column, tbl metadata.Table) []*Column {
	out := make([]*Column, 0, len(columns))
	for _, col := range columns {
		variable, ok := tbl.Find(col.Name)
		if ok && variable.Dropped {
			continue
		}
		out = append(out, col)
	}

	return out
}

// annotateColumns attaches the descriptor fields to each matching column so
// provenance survives without re-reading the metadata file. Columns without a
// descriptor are left untouched.
func annotateColumns(columns []*Column, tbl metadata.Table) {
	for _, col := range columns {
		variable, ok := tbl.Find(col.Name)
		if !ok {
			continue
		}
		attrs := make(map[string]any)
		if variable.Title != "" {
			attrs["title"] = variable.Title
		}
		if variable.Description != "" {
			attrs["description"] = variable.Description
		}
		if !variable.Coding.Empty() {
			attrs["coding"] = variable.Coding.String()
		}
		for key, value := range variable.Extra {
			attrs[key] = value
		}
		if len(attrs) == 0 {
			continue
		}
		if col.Attrs == nil {
			col.Attrs = make(map[string]any, len(attrs))
		}
		for key, value := range attrs {
			col.Attrs[key] = value
		}
	}
}

// encodeColumns labels every column whose descriptor has a description and
// applies its coding, if any. A raw value with no matching code is recorded
// as a Mismatch and left in place. Columns that already carry their coding
// are skipped, so re-running the pipeline never double-encodes.
func encodeColumns(columns []*Column, tbl metadata.Table) []Mismatch {
	var mismatches []Mismatch
	for _, col := range columns {
		variable, ok := tbl.Find(col.Name)
		if !ok || variable.Description == "" {
			continue
		}
		col.Label = variable.Description
		if variable.Coding.Empty() || col.Coded {
			continue
		}

		var unmapped []any
		for i, value := range col.Values {
			if value == nil {
				continue
			}
			label, ok := variable.Coding.Label(fmt.Sprint(value))
			if !ok {
				mismatches = append(mismatches, Mismatch{Variable: col.Name, Value: value})
				unmapped = append(unmapped, value)

				continue
			}
			col.Values[i] = label
		}

		col.Coding = variable.Coding
		col.Coded = true
		if len(unmapped) > 0 {
			if col.Attrs == nil {
				col.Attrs = make(map[string]any)
			}
			col.Attrs[AttrUnmapped] = unmapped
		}
	}

	return mismatches
}
