package dataset

import (
	"github.com/askiada/go-blueprint/pkg/blueprint/metadata"
)

// Column is one named column of a dataset: an ordered sequence of values plus
// the inspectable attributes attached by the cleanup pipeline.
type Column struct {
	Name   string
	Values []any
	// Attrs carries arbitrary per-column attributes. The annotation stage
	// fills it from the column's variable descriptor.
	Attrs map[string]any
	// Label is the display label attached by the labelling stage.
	Label string
	// Coding is the categorical coding applied to Values, if any.
	Coding *metadata.Coding
	// Coded reports whether Values already carry the coding's labels.
	Coded bool
}

// NewColumn creates a column with the given values.
func NewColumn(name string, values ...any) *Column {
	return &Column{Name: name, Values: values}
}

// Attr returns the named attribute.
func (c *Column) Attr(key string) (any, bool) {
	value, ok := c.Attrs[key]

	return value, ok
}

func (c *Column) clone() *Column {
	out := &Column{
		Name:   c.Name,
		Label:  c.Label,
		Coding: c.Coding,
		Coded:  c.Coded,
	}
	if c.Values != nil {
		out.Values = make([]any, len(c.Values))
		copy(out.Values, c.Values)
	}
	if c.Attrs != nil {
		out.Attrs = make(map[string]any, len(c.Attrs))
		for k, v := range c.Attrs {
			out.Attrs[k] = v
		}
	}

	return out
}

// Dataset is an ordered sequence of named columns.
type Dataset struct {
	Columns []*Column
}

// New creates a dataset from the given columns.
func New(columns ...*Column) *Dataset {
	return &Dataset{Columns: columns}
}

// Names returns the column names in dataset order.
func (d *Dataset) Names() []string {
	names := make([]string, 0, len(d.Columns))
	for _, col := range d.Columns {
		names = append(names, col.Name)
	}

	return names
}

// Column returns the column with the given name.
func (d *Dataset) Column(name string) (*Column, bool) {
	for _, col := range d.Columns {
		if col.Name == name {
			return col, true
		}
	}

	return nil, false
}

// Clone returns a deep copy of the dataset.
func (d *Dataset) Clone() *Dataset {
	out := &Dataset{Columns: make([]*Column, 0, len(d.Columns))}
	for _, col := range d.Columns {
		out.Columns = append(out.Columns, col.clone())
	}

	return out
}
