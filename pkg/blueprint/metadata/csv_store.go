package metadata

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"sort"
	"strconv"

	"github.com/pkg/errors"
)

// Base columns written by every CSVStore table, in this order. Unknown columns
// found on load round-trip through Variable.Extra.
var csvBaseColumns = []string{"variable_name", "title", "description", "dropped", "coding"}

// CSVStore persists metadata tables as delimited text files, one file per
// location. The row order is the variable order.
type CSVStore struct{}

var _ Store = (*CSVStore)(nil)

// NewCSVStore creates a new CSV-backed store.
func NewCSVStore() *CSVStore {
	return &CSVStore{}
}

// Load reads the table stored at location.
func (s *CSVStore) Load(location string) (Table, error) {
	file, err := os.Open(location)
	if err != nil {
		if os.IsNotExist(err) {
			return Table{}, errors.Wrap(ErrNotFound, location)
		}

		return Table{}, errors.Wrapf(err, "unable to open metadata file %s", location)
	}
	defer file.Close()

	records, err := csv.NewReader(file).ReadAll()
	if err != nil {
		return Table{}, errors.Wrapf(err, "unable to parse metadata file %s", location)
	}
	if len(records) == 0 {
		return Table{}, errors.Errorf("metadata file %s has no header", location)
	}

	header := records[0]
	nameIdx := -1
	for i, col := range header {
		if col == "variable_name" {
			nameIdx = i
		}
	}
	if nameIdx < 0 {
		return Table{}, errors.Errorf("metadata file %s is missing the variable_name column", location)
	}

	tbl := Table{Variables: make([]Variable, 0, len(records)-1)}
	for _, record := range records[1:] {
		variable, err := decodeCSVVariable(header, record)
		if err != nil {
			return Table{}, errors.Wrapf(err, "unable to decode metadata file %s", location)
		}
		tbl.Variables = append(tbl.Variables, variable)
	}

	err = tbl.Validate()
	if err != nil {
		return Table{}, errors.Wrapf(err, "invalid metadata file %s", location)
	}

	return tbl, nil
}

// Save writes the table to location. The file is written to a temporary
// sibling first and renamed into place, so a reader never observes a partial
// table.
func (s *CSVStore) Save(location string, table Table) error {
	err := table.Validate()
	if err != nil {
		return errors.Wrap(err, "unable to save invalid metadata table")
	}

	dir := filepath.Dir(location)
	err = os.MkdirAll(dir, 0o755)
	if err != nil {
		return errors.Wrapf(err, "unable to create metadata directory %s", dir)
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(location)+".tmp*")
	if err != nil {
		return errors.Wrap(err, "unable to create temporary metadata file")
	}
	defer os.Remove(tmp.Name())

	writer := csv.NewWriter(tmp)
	extraCols := extraColumns(table)
	err = writer.Write(append(append([]string{}, csvBaseColumns...), extraCols...))
	if err != nil {
		return errors.Wrap(err, "unable to write metadata header")
	}

	for _, variable := range table.Variables {
		err = writer.Write(encodeCSVVariable(variable, extraCols))
		if err != nil {
			return errors.Wrapf(err, "unable to write metadata row for %s", variable.Name)
		}
	}

	writer.Flush()
	if writer.Error() != nil {
		return errors.Wrap(writer.Error(), "unable to flush metadata file")
	}
	err = tmp.Close()
	if err != nil {
		return errors.Wrap(err, "unable to close temporary metadata file")
	}

	err = os.Rename(tmp.Name(), location)
	if err != nil {
		return errors.Wrapf(err, "unable to move metadata file into place at %s", location)
	}

	return nil
}

// Exists reports whether a metadata file exists at location.
func (s *CSVStore) Exists(location string) (bool, error) {
	_, err := os.Stat(location)
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}

		return false, errors.Wrapf(err, "unable to stat metadata file %s", location)
	}

	return true, nil
}

func extraColumns(table Table) []string {
	seen := make(map[string]struct{})
	for _, variable := range table.Variables {
		for key := range variable.Extra {
			seen[key] = struct{}{}
		}
	}

	cols := make([]string, 0, len(seen))
	for key := range seen {
		cols = append(cols, key)
	}
	sort.Strings(cols)

	return cols
}

func encodeCSVVariable(variable Variable, extraCols []string) []string {
	dropped := ""
	if variable.Dropped {
		dropped = "true"
	}
	record := []string{variable.Name, variable.Title, variable.Description, dropped, variable.Coding.String()}
	for _, key := range extraCols {
		record = append(record, variable.Extra[key])
	}

	return record
}

func decodeCSVVariable(header, record []string) (Variable, error) {
	variable := Variable{}
	for i, col := range header {
		if i >= len(record) {
			break
		}
		value := record[i]
		switch col {
		case "variable_name":
			variable.Name = value
		case "title":
			variable.Title = value
		case "description":
			variable.Description = value
		case "dropped":
			if value != "" {
				dropped, err := strconv.ParseBool(value)
				if err != nil {
					return Variable{}, errors.Wrapf(err, "unable to parse dropped flag %q for %s", value, variable.Name)
				}
				variable.Dropped = dropped
			}
		case "coding":
			coding, err := ParseCoding(value)
			if err != nil {
				return Variable{}, errors.Wrapf(err, "unable to parse coding for %s", variable.Name)
			}
			variable.Coding = coding
		default:
			if value != "" {
				if variable.Extra == nil {
					variable.Extra = make(map[string]string)
				}
				variable.Extra[col] = value
			}
		}
	}

	return variable, nil
}
