package blueprint

import (
	"context"
	"fmt"

	"github.com/pkg/errors"

	"github.com/askiada/go-blueprint/pkg/blueprint/dataset"
	"github.com/askiada/go-blueprint/pkg/blueprint/metadata"
)

// CheckFunc validates a computed dataset against its metadata. A nil return
// is a pass; a non-nil return is a failure whose message is recorded. It must
// not mutate the dataset or the metadata.
type CheckFunc func(ctx context.Context, ds *dataset.Dataset, tbl metadata.Table) error

// Check is one user-supplied validation check.
type Check struct {
	Name string
	Fn   CheckFunc
}

// CheckResult is the recorded outcome of one check.
type CheckResult struct {
	Name    string
	Passed  bool
	Message string
}

// ChecksResult holds the outcomes of a blueprint's checks, in declaration
// order. It is informational: recorded failures never halt the pipeline.
type ChecksResult struct {
	Checks []CheckResult
}

// Passed reports whether every check passed.
func (r ChecksResult) Passed() bool {
	for _, check := range r.Checks {
		if !check.Passed {
			return false
		}
	}

	return true
}

// Failed returns the failed checks, in declaration order.
func (r ChecksResult) Failed() []CheckResult {
	var failed []CheckResult
	for _, check := range r.Checks {
		if !check.Passed {
			failed = append(failed, check)
		}
	}

	return failed
}

// runChecks executes every check in declaration order. A failure inside a
// check, including a panic, is recorded as a failed result, never propagated.
// Only a malformed check definition makes runChecks fail as a whole.
func runChecks(ctx context.Context, ds *dataset.Dataset, tbl metadata.Table, checks []Check) (ChecksResult, error) {
	result := ChecksResult{Checks: make([]CheckResult, 0, len(checks))}
	for _, check := range checks {
		if check.Name == "" || check.Fn == nil {
			return ChecksResult{}, errors.Wrapf(ErrMalformedCheck, "check %q", check.Name)
		}
		result.Checks = append(result.Checks, runCheck(ctx, check, ds, tbl))
	}

	return result, nil
}

func runCheck(ctx context.Context, check Check, ds *dataset.Dataset, tbl metadata.Table) (result CheckResult) {
	result = CheckResult{Name: check.Name, Passed: true}
	defer func() {
		if recovered := recover(); recovered != nil {
			result.Passed = false
			result.Message = fmt.Sprint(recovered)
		}
	}()

	err := check.Fn(ctx, ds, tbl)
	if err != nil {
		result.Passed = false
		result.Message = err.Error()
	}

	return result
}
