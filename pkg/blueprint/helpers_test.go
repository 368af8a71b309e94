package blueprint

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/askiada/go-blueprint/pkg/blueprint/dataset"
	"github.com/askiada/go-blueprint/pkg/blueprint/metadata"
)

func mustBlueprint(t *testing.T, name string, opts ...Option) *Blueprint {
	t.Helper()
	bp, err := New(name, func(ctx context.Context) (*dataset.Dataset, error) {
		return dataset.New(dataset.NewColumn("x", 1), dataset.NewColumn("y", 2)), nil
	}, opts...)
	require.NoError(t, err)

	return bp
}

// runSteps executes expanded steps in declaration order, which is a valid
// dependency order for a single blueprint.
func runSteps(t *testing.T, steps []*Step) map[string]any {
	t.Helper()
	results := make(map[string]any, len(steps))
	for _, step := range steps {
		in := make(Inputs, len(step.Deps))
		for _, dep := range step.Deps {
			in[dep] = results[dep]
		}
		out, err := step.Body(context.Background(), in)
		require.NoError(t, err)
		results[step.Info.Name] = out
	}

	return results
}

func memoryStoreOptions(store *metadata.MemoryStore, location string) []Option {
	return []Option{WithStore(store), WithMetadataLocation(location)}
}
