package metadata

import (
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadOrCreateSynthesizes(t *testing.T) {
	store := NewMemoryStore()

	tbl, err := LoadOrCreate(store, "cars", []string{"x", "y"}, true)
	require.NoError(t, err)
	assert.Equal(t, []string{"x", "y"}, tbl.Names())
	for _, variable := range tbl.Variables {
		assert.False(t, variable.Dropped)
	}
	assert.Equal(t, 1, store.Saves("cars"))
}

func TestLoadOrCreateIdempotent(t *testing.T) {
	store := NewMemoryStore()

	first, err := LoadOrCreate(store, "cars", []string{"x", "y"}, true)
	require.NoError(t, err)

	second, err := LoadOrCreate(store, "cars", []string{"x", "y"}, true)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, 1, store.Saves("cars"), "second call must not write")
}

func TestLoadOrCreateNoExport(t *testing.T) {
	store := NewMemoryStore()

	tbl, err := LoadOrCreate(store, "cars", []string{"x"}, false)
	require.NoError(t, err)
	assert.Equal(t, []string{"x"}, tbl.Names())
	assert.Equal(t, 0, store.Saves("cars"))

	exists, err := store.Exists("cars")
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestLoadOrCreateAuthoritative(t *testing.T) {
	store := NewMemoryStore()
	stored := Table{Variables: []Variable{
		{Name: "b", Title: "B"},
		{Name: "a", Dropped: true},
	}}
	require.NoError(t, store.Save("cars", stored))

	// the stored table wins even though the dataset has different columns
	tbl, err := LoadOrCreate(store, "cars", []string{"a", "c"}, true)
	require.NoError(t, err)
	assert.Equal(t, stored, tbl)
	assert.Equal(t, 1, store.Saves("cars"))
}

func TestLoadOrCreatePropagatesStoreFailure(t *testing.T) {
	store := &failingStore{err: errors.New("disk on fire")}

	_, err := LoadOrCreate(store, "cars", []string{"x"}, true)
	assert.ErrorContains(t, err, "disk on fire")
}

type failingStore struct {
	err error
}

func (s *failingStore) Load(string) (Table, error)  { return Table{}, s.err }
func (s *failingStore) Save(string, Table) error    { return s.err }
func (s *failingStore) Exists(string) (bool, error) { return false, s.err }

func TestMemoryStoreLoadNotFound(t *testing.T) {
	store := NewMemoryStore()

	_, err := store.Load("missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMemoryStoreSaveInvalid(t *testing.T) {
	store := NewMemoryStore()

	err := store.Save("cars", Table{Variables: []Variable{{Name: ""}}})
	assert.ErrorIs(t, err, ErrEmptyVariableName)
}

func TestMemoryStoreIsolation(t *testing.T) {
	store := NewMemoryStore()
	tbl := Table{Variables: []Variable{{Name: "a", Extra: map[string]string{"note": "keep"}}}}
	require.NoError(t, store.Save("cars", tbl))

	loaded, err := store.Load("cars")
	require.NoError(t, err)
	loaded.Variables[0].Extra["note"] = "changed"

	again, err := store.Load("cars")
	require.NoError(t, err)
	assert.Equal(t, "keep", again.Variables[0].Extra["note"])
}
