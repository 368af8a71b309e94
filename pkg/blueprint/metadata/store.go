package metadata

import (
	"github.com/pkg/errors"
)

// ErrNotFound is returned by Store.Load when no table exists at the location.
var ErrNotFound = errors.New("metadata table not found")

// Store persists metadata tables keyed by location. Implementations must
// round-trip a Table losslessly for name, title, description, dropped, order
// and coding.
type Store interface {
	// Load returns the table stored at location, or ErrNotFound.
	Load(location string) (Table, error)
	// Save stores the table at location, replacing any previous table.
	// The write must be atomic: a reader never observes a partial table.
	Save(location string, table Table) error
	// Exists reports whether a table is stored at location.
	Exists(location string) (bool, error)
}

// LoadOrCreate returns the table stored at location if one exists. The stored
// table is authoritative: it is returned unchanged, never merged with the
// dataset's actual columns. When no table exists, a fresh one is synthesized
// from the given column names and, if export is true, persisted before
// returning so that subsequent calls load instead of regenerating.
//
// The call is idempotent with respect to storage: at most one write ever
// happens per location.
func LoadOrCreate(store Store, location string, columns []string, export bool) (Table, error) {
	tbl, err := store.Load(location)
	if err == nil {
		return tbl, nil
	}
	if !errors.Is(err, ErrNotFound) {
		return Table{}, errors.Wrapf(err, "unable to load metadata table at %s", location)
	}

	tbl = Synthesize(columns)
	if export {
		err = store.Save(location, tbl)
		if err != nil {
			return Table{}, errors.Wrapf(err, "unable to persist synthesized metadata table at %s", location)
		}
	}

	return tbl, nil
}
