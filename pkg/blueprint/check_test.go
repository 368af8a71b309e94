package blueprint

import (
	"context"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/askiada/go-blueprint/pkg/blueprint/dataset"
	"github.com/askiada/go-blueprint/pkg/blueprint/metadata"
)

func passCheck(name string) Check {
	return Check{Name: name, Fn: func(context.Context, *dataset.Dataset, metadata.Table) error { return nil }}
}

func failCheck(name, message string) Check {
	return Check{Name: name, Fn: func(context.Context, *dataset.Dataset, metadata.Table) error {
		return errors.New(message)
	}}
}

func TestRunChecks(t *testing.T) {
	ds := dataset.New(dataset.NewColumn("x", 1))
	tbl := metadata.Synthesize(ds.Names())

	checks := []Check{
		passCheck("has rows"),
		failCheck("row count", "expected 2 rows, got 1"),
		{Name: "no panic escape", Fn: func(context.Context, *dataset.Dataset, metadata.Table) error {
			panic("index out of range")
		}},
	}

	result, err := runChecks(context.Background(), ds, tbl, checks)
	require.NoError(t, err)
	require.Len(t, result.Checks, 3)

	assert.Equal(t, CheckResult{Name: "has rows", Passed: true}, result.Checks[0])
	assert.Equal(t, CheckResult{Name: "row count", Passed: false, Message: "expected 2 rows, got 1"}, result.Checks[1])
	assert.Equal(t, CheckResult{Name: "no panic escape", Passed: false, Message: "index out of range"}, result.Checks[2])

	assert.False(t, result.Passed())
	failed := result.Failed()
	require.Len(t, failed, 2)
	assert.Equal(t, "row count", failed[0].Name)
	assert.Equal(t, "no panic escape", failed[1].Name)
}

func TestRunChecksAllPass(t *testing.T) {
	ds := dataset.New(dataset.NewColumn("x", 1))
	tbl := metadata.Synthesize(ds.Names())

	result, err := runChecks(context.Background(), ds, tbl, []Check{passCheck("a"), passCheck("b")})
	require.NoError(t, err)
	assert.True(t, result.Passed())
	assert.Empty(t, result.Failed())
}

func TestRunChecksNone(t *testing.T) {
	result, err := runChecks(context.Background(), dataset.New(), metadata.Table{}, nil)
	require.NoError(t, err)
	assert.True(t, result.Passed())
	assert.Empty(t, result.Checks)
}

func TestRunChecksMalformed(t *testing.T) {
	tcs := map[string]struct {
		check Check
	}{
		"missing name":     {check: failCheck("", "boom")},
		"missing function": {check: Check{Name: "rows"}},
	}

	for name, tc := range tcs {
		t.Run(name, func(t *testing.T) {
			_, err := runChecks(context.Background(), dataset.New(), metadata.Table{}, []Check{tc.check})
			assert.ErrorIs(t, err, ErrMalformedCheck)
		})
	}
}
