package measure

import "sync"

// DefaultMeasure keeps step metrics in a mutex-guarded map.
type DefaultMeasure struct {
	mu    sync.RWMutex
	steps map[string]Metric
}

var _ Measure = (*DefaultMeasure)(nil)

// NewDefaultMeasure creates an empty measure.
func NewDefaultMeasure() *DefaultMeasure {
	return &DefaultMeasure{
		steps: make(map[string]Metric),
	}
}

// AddMetric registers a metric for the step. An existing metric is kept.
func (m *DefaultMeasure) AddMetric(stepName string) Metric {
	m.mu.Lock()
	defer m.mu.Unlock()

	if mt, ok := m.steps[stepName]; ok {
		return mt
	}
	mt := &metric{}
	m.steps[stepName] = mt

	return mt
}

// GetMetric returns the metric for the step, or nil.
func (m *DefaultMeasure) GetMetric(stepName string) Metric {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return m.steps[stepName]
}

// AllMetrics returns a copy of the metric map.
func (m *DefaultMeasure) AllMetrics() map[string]Metric {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make(map[string]Metric, len(m.steps))
	for name, mt := range m.steps {
		out[name] = mt
	}

	return out
}
