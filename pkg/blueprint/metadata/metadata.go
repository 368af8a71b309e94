package metadata

import (
	"strings"

	"github.com/pkg/errors"
)

var (
	ErrEmptyVariableName     = errors.New("variable name must not be empty")
	ErrDuplicateVariableName = errors.New("variable name must be unique")
	ErrMalformedCoding       = errors.New("coding literal is malformed")
)

// Level is one categorical level of a coding: the raw code observed in the
// data and the label displayed for it.
type Level struct {
	Code  string
	Label string
}

// Coding is an ordered mapping from raw categorical codes to display labels.
type Coding struct {
	Levels []Level
}

// Label returns the label for the given raw code.
func (c *Coding) Label(code string) (string, bool) {
	if c == nil {
		return "", false
	}
	for _, lvl := range c.Levels {
		if lvl.Code == code {
			return lvl.Label, true
		}
	}

	return "", false
}

// Empty reports whether the coding defines no levels.
func (c *Coding) Empty() bool {
	return c == nil || len(c.Levels) == 0
}

// String renders the coding as a "code=label" list joined with ";".
// It is the inverse of ParseCoding.
func (c *Coding) String() string {
	if c.Empty() {
		return ""
	}
	pairs := make([]string, 0, len(c.Levels))
	for _, lvl := range c.Levels {
		pairs = append(pairs, lvl.Code+"="+lvl.Label)
	}

	return strings.Join(pairs, ";")
}

// ParseCoding parses a "code=label;code=label" literal. An empty literal
// yields a nil coding.
func ParseCoding(literal string) (*Coding, error) {
	if literal == "" {
		return nil, nil
	}

	coding := &Coding{}
	for _, pair := range strings.Split(literal, ";") {
		code, label, found := strings.Cut(pair, "=")
		if !found || code == "" {
			return nil, errors.Wrapf(ErrMalformedCoding, "pair %q", pair)
		}
		coding.Levels = append(coding.Levels, Level{Code: code, Label: label})
	}

	return coding, nil
}

// Variable describes one dataset column: documentation fields plus the
// transformation directives consumed by the cleanup pipeline.
type Variable struct {
	Name        string
	Title       string
	Description string
	Dropped     bool
	Coding      *Coding
	Extra       map[string]string
}

func (v Variable) clone() Variable {
	out := v
	if v.Coding != nil {
		levels := make([]Level, len(v.Coding.Levels))
		copy(levels, v.Coding.Levels)
		out.Coding = &Coding{Levels: levels}
	}
	if v.Extra != nil {
		out.Extra = make(map[string]string, len(v.Extra))
		for k, val := range v.Extra {
			out.Extra[k] = val
		}
	}

	return out
}

// Table is an ordered sequence of variable descriptors. The row order is the
// variable order applied by the cleanup pipeline.
type Table struct {
	Variables []Variable
}

// Find returns the descriptor with the given variable name.
func (t Table) Find(name string) (Variable, bool) {
	for _, v := range t.Variables {
		if v.Name == name {
			return v, true
		}
	}

	return Variable{}, false
}

// Names returns the variable names in table order.
func (t Table) Names() []string {
	names := make([]string, 0, len(t.Variables))
	for _, v := range t.Variables {
		names = append(names, v.Name)
	}

	return names
}

// Validate checks the table invariants: every variable has a non-empty,
// unique name.
func (t Table) Validate() error {
	seen := make(map[string]struct{}, len(t.Variables))
	for _, v := range t.Variables {
		if v.Name == "" {
			return ErrEmptyVariableName
		}
		if _, ok := seen[v.Name]; ok {
			return errors.Wrap(ErrDuplicateVariableName, v.Name)
		}
		seen[v.Name] = struct{}{}
	}

	return nil
}

// Clone returns a deep copy of the table.
func (t Table) Clone() Table {
	out := Table{Variables: make([]Variable, 0, len(t.Variables))}
	for _, v := range t.Variables {
		out.Variables = append(out.Variables, v.clone())
	}

	return out
}

// Synthesize builds a fresh table with one descriptor per column, in column
// order, with every optional field empty.
func Synthesize(columns []string) Table {
	tbl := Table{Variables: make([]Variable, 0, len(columns))}
	for _, name := range columns {
		tbl.Variables = append(tbl.Variables, Variable{Name: name})
	}

	return tbl
}
