package blueprint

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/askiada/go-blueprint/pkg/blueprint/dataset"
	"github.com/askiada/go-blueprint/pkg/blueprint/metadata"
	"github.com/askiada/go-blueprint/pkg/blueprint/model"
)

type recordingOption struct {
	mu       sync.Mutex
	created  int
	prepared map[string]int
	done     []string
	finished int
}

var _ model.PlanOption = (*recordingOption)(nil)

func newRecordingOption() *recordingOption {
	return &recordingOption{prepared: make(map[string]int)}
}

func (o *recordingOption) New() error {
	o.created++

	return nil
}

func (o *recordingOption) PrepareStep(parents []*model.StepInfo, step *model.StepInfo) error {
	o.prepared[step.Name] = len(parents)

	return nil
}

func (o *recordingOption) OnStepDone(step *model.StepInfo, _ time.Duration) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.done = append(o.done, step.Name)

	return nil
}

func (o *recordingOption) Finish() error {
	o.finished++

	return nil
}

func TestPlanAdd(t *testing.T) {
	plan, err := NewPlan()
	require.NoError(t, err)

	bp := mustBlueprint(t, "cars", memoryStoreOptions(metadata.NewMemoryStore(), "cars.csv")...)
	require.NoError(t, plan.Add(bp))

	steps := plan.Steps()
	require.Len(t, steps, 5)
	names := make([]string, 0, len(steps))
	for _, step := range steps {
		names = append(names, step.Info.Name)
	}
	assert.Equal(t, []string{"cars_initial", "cars_blueprint", "cars_meta", "cars_checks", "cars"}, names)

	step, ok := plan.Step("cars_meta")
	require.True(t, ok)
	assert.Equal(t, model.MetaKind, step.Info.Kind)

	_, ok = plan.Step("missing")
	assert.False(t, ok)
}

func TestPlanAddDuplicateStep(t *testing.T) {
	plan, err := NewPlan()
	require.NoError(t, err)

	store := metadata.NewMemoryStore()
	require.NoError(t, plan.Add(mustBlueprint(t, "cars", memoryStoreOptions(store, "a.csv")...)))

	err = plan.Add(mustBlueprint(t, "cars", memoryStoreOptions(store, "b.csv")...))
	assert.ErrorIs(t, err, ErrDuplicateStep)
	assert.Len(t, plan.Steps(), 5, "failed add must not leave partial steps visible through order")
}

func TestPlanAddSharedMetadataLocation(t *testing.T) {
	plan, err := NewPlan()
	require.NoError(t, err)

	store := metadata.NewMemoryStore()
	require.NoError(t, plan.Add(mustBlueprint(t, "cars", memoryStoreOptions(store, "shared.csv")...)))

	err = plan.Add(mustBlueprint(t, "trucks", memoryStoreOptions(store, "shared.csv")...))
	assert.ErrorIs(t, err, ErrSharedMetadataLocation)
}

func TestPlanOptionHooks(t *testing.T) {
	opt := newRecordingOption()
	plan, err := NewPlan(opt)
	require.NoError(t, err)
	assert.Equal(t, 1, opt.created)

	bp := mustBlueprint(t, "cars", memoryStoreOptions(metadata.NewMemoryStore(), "cars.csv")...)
	require.NoError(t, plan.Add(bp))

	assert.Equal(t, map[string]int{
		"cars_initial":   0,
		"cars_blueprint": 0,
		"cars_meta":      1,
		"cars_checks":    2,
		"cars":           3,
	}, opt.prepared)

	_, err = plan.Run(context.Background())
	require.NoError(t, err)

	assert.Len(t, opt.done, 5)
	assert.Equal(t, 1, opt.finished)
}

func TestPlanRun(t *testing.T) {
	plan, err := NewPlan()
	require.NoError(t, err)

	store := metadata.NewMemoryStore()
	opts := append(memoryStoreOptions(store, "cars.csv"),
		WithChecks(passCheck("has columns")))
	require.NoError(t, plan.Add(mustBlueprint(t, "cars", opts...)))

	results, err := plan.Run(context.Background())
	require.NoError(t, err)

	final, err := results.Dataset("cars")
	require.NoError(t, err)
	assert.Equal(t, []string{"x", "y"}, final.Names())

	checks, err := results.Checks("cars_checks")
	require.NoError(t, err)
	assert.True(t, checks.Passed())

	tbl, err := results.Metadata("cars_meta")
	require.NoError(t, err)
	assert.Equal(t, []string{"x", "y"}, tbl.Names())

	assert.Equal(t, 1, store.Saves("cars.csv"))
}

func TestPlanRunConcurrent(t *testing.T) {
	plan, err := NewPlan()
	require.NoError(t, err)

	store := metadata.NewMemoryStore()
	require.NoError(t, plan.Add(mustBlueprint(t, "cars", memoryStoreOptions(store, "cars.csv")...)))
	require.NoError(t, plan.Add(mustBlueprint(t, "trucks", memoryStoreOptions(store, "trucks.csv")...)))

	results, err := plan.Run(context.Background(), RunConcurrency(4))
	require.NoError(t, err)

	for _, name := range []string{"cars", "trucks"} {
		final, dErr := results.Dataset(name)
		require.NoError(t, dErr)
		assert.Equal(t, []string{"x", "y"}, final.Names())
	}
}

func TestPlanRunBuilderError(t *testing.T) {
	plan, err := NewPlan()
	require.NoError(t, err)

	bp, err := New("cars", func(ctx context.Context) (*dataset.Dataset, error) {
		return nil, errors.New("source unavailable")
	}, WithStore(metadata.NewMemoryStore()))
	require.NoError(t, err)
	require.NoError(t, plan.Add(bp))

	results, err := plan.Run(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "cars_initial")
	assert.Contains(t, err.Error(), "source unavailable")

	require.NotNil(t, results)
	_, ok := results.Value("cars")
	assert.False(t, ok, "final step must not have a result after a failed build")
}

func TestPlanRunEmpty(t *testing.T) {
	opt := newRecordingOption()
	plan, err := NewPlan(opt)
	require.NoError(t, err)

	results, err := plan.Run(context.Background())
	require.NoError(t, err)
	require.NotNil(t, results)
	assert.Equal(t, 1, opt.finished)
}

func TestPlanRunResultsAccessors(t *testing.T) {
	plan, err := NewPlan()
	require.NoError(t, err)
	require.NoError(t, plan.Add(mustBlueprint(t, "cars", memoryStoreOptions(metadata.NewMemoryStore(), "cars.csv")...)))

	results, err := plan.Run(context.Background())
	require.NoError(t, err)

	_, err = results.Dataset("missing")
	assert.ErrorIs(t, err, ErrMissingInput)

	// wrong type for the identifier
	_, err = results.Metadata("cars")
	assert.Error(t, err)
}
