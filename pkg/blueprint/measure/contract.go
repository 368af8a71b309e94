package measure

import "time"

// Measure collects per-step execution metrics for a plan.
type Measure interface {
	// AddMetric registers a metric for the step, replacing nothing if one
	// already exists.
	AddMetric(stepName string) Metric
	// GetMetric returns the metric for the step, or nil.
	GetMetric(stepName string) Metric
	// AllMetrics returns every registered metric keyed by step name.
	AllMetrics() map[string]Metric
}

// Metric records the wall time of one step's body.
type Metric interface {
	// AddDuration records one execution of the step.
	AddDuration(elapsed time.Duration)
	// AVGDuration returns the average execution time across runs.
	AVGDuration() time.Duration
	// TotalDuration returns the accumulated execution time.
	TotalDuration() time.Duration
	// Runs returns how many executions were recorded.
	Runs() int64
}
