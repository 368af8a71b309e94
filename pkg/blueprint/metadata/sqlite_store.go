package metadata

import (
	"database/sql"
	"encoding/json"

	"github.com/pkg/errors"
)

// SQLiteStore persists metadata tables in a SQLite database, one row per
// variable, keyed by location.
//
// It expects an *sql.DB that uses a SQLite driver (for example,
// "modernc.org/sqlite"). The caller is responsible for importing the driver:
//
//	import _ "modernc.org/sqlite"
type SQLiteStore struct {
	db *sql.DB
}

var _ Store = (*SQLiteStore)(nil)

// NewSQLiteStore initialises the required schema in the given database and
// returns a new SQLiteStore.
func NewSQLiteStore(db *sql.DB) (*SQLiteStore, error) {
	s := &SQLiteStore{db: db}
	err := s.initSchema()
	if err != nil {
		return nil, errors.Wrap(err, "unable to initialise metadata schema")
	}

	return s, nil
}

func (s *SQLiteStore) initSchema() error {
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS variables (
			location TEXT NOT NULL,
			position INTEGER NOT NULL,
			variable_name TEXT NOT NULL,
			title TEXT NOT NULL DEFAULT '',
			description TEXT NOT NULL DEFAULT '',
			dropped INTEGER NOT NULL DEFAULT 0,
			coding TEXT NOT NULL DEFAULT '',
			extra BLOB,
			PRIMARY KEY (location, position)
		);`,
	)

	return err
}

// Load reads the table stored at location, in position order.
func (s *SQLiteStore) Load(location string) (Table, error) {
	rows, err := s.db.Query(`
		SELECT variable_name, title, description, dropped, coding, extra
		FROM variables
		WHERE location = ?
		ORDER BY position`,
		location,
	)
	if err != nil {
		return Table{}, errors.Wrapf(err, "unable to query metadata table at %s", location)
	}
	defer rows.Close()

	tbl := Table{}
	for rows.Next() {
		var (
			variable Variable
			dropped  int
			coding   string
			extra    []byte
		)
		err = rows.Scan(&variable.Name, &variable.Title, &variable.Description, &dropped, &coding, &extra)
		if err != nil {
			return Table{}, errors.Wrapf(err, "unable to scan metadata row at %s", location)
		}
		variable.Dropped = dropped != 0
		variable.Coding, err = ParseCoding(coding)
		if err != nil {
			return Table{}, errors.Wrapf(err, "unable to parse coding for %s", variable.Name)
		}
		if len(extra) > 0 {
			err = json.Unmarshal(extra, &variable.Extra)
			if err != nil {
				return Table{}, errors.Wrapf(err, "unable to decode extra fields for %s", variable.Name)
			}
		}
		tbl.Variables = append(tbl.Variables, variable)
	}
	if rows.Err() != nil {
		return Table{}, errors.Wrapf(rows.Err(), "unable to read metadata table at %s", location)
	}
	if len(tbl.Variables) == 0 {
		return Table{}, errors.Wrap(ErrNotFound, location)
	}

	return tbl, nil
}

// Save replaces the table stored at location inside a single transaction.
func (s *SQLiteStore) Save(location string, table Table) error {
	err := table.Validate()
	if err != nil {
		return errors.Wrap(err, "unable to save invalid metadata table")
	}

	tx, err := s.db.Begin()
	if err != nil {
		return errors.Wrap(err, "unable to begin metadata transaction")
	}
	defer tx.Rollback() //nolint:errcheck // rollback after commit is a no-op

	_, err = tx.Exec(`DELETE FROM variables WHERE location = ?`, location)
	if err != nil {
		return errors.Wrapf(err, "unable to clear metadata table at %s", location)
	}

	for position, variable := range table.Variables {
		var extra []byte
		if len(variable.Extra) > 0 {
			extra, err = json.Marshal(variable.Extra)
			if err != nil {
				return errors.Wrapf(err, "unable to encode extra fields for %s", variable.Name)
			}
		}
		dropped := 0
		if variable.Dropped {
			dropped = 1
		}
		_, err = tx.Exec(`
			INSERT INTO variables (location, position, variable_name, title, description, dropped, coding, extra)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
			location, position, variable.Name, variable.Title, variable.Description, dropped, variable.Coding.String(), extra,
		)
		if err != nil {
			return errors.Wrapf(err, "unable to insert metadata row for %s", variable.Name)
		}
	}

	err = tx.Commit()
	if err != nil {
		return errors.Wrapf(err, "unable to commit metadata table at %s", location)
	}

	return nil
}

// Exists reports whether a table is stored at location.
func (s *SQLiteStore) Exists(location string) (bool, error) {
	var count int
	err := s.db.QueryRow(`SELECT COUNT(1) FROM variables WHERE location = ?`, location).Scan(&count)
	if err != nil {
		return false, errors.Wrapf(err, "unable to count metadata rows at %s", location)
	}

	return count > 0, nil
}
