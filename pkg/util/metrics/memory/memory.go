// Package memory provides in-memory metrics collectors, mainly for tests
// and for surfacing render statistics in CLI output.
package memory

import (
	"context"
	"sync"
	"time"
)

// RenderMetric collects render metrics in memory.
type RenderMetric struct {
	mu sync.RWMutex

	TotalRenders  int
	TotalDuration time.Duration
	TotalObjects  int
}

// Observe records a render operation's metrics.
func (m *RenderMetric) Observe(_ context.Context, duration time.Duration, objectCount int) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.TotalRenders++
	m.TotalDuration += duration
	m.TotalObjects += objectCount
}

// Summary returns a snapshot of current render metrics.
func (m *RenderMetric) Summary() RenderSummary {
	m.mu.RLock()
	defer m.mu.RUnlock()

	avgDuration := time.Duration(0)
	if m.TotalRenders > 0 {
		avgDuration = m.TotalDuration / time.Duration(m.TotalRenders)
	}

	return RenderSummary{
		TotalRenders:    m.TotalRenders,
		AverageDuration: avgDuration,
		TotalObjects:    m.TotalObjects,
	}
}

// RenderSummary provides a snapshot of render metrics.
type RenderSummary struct {
	TotalRenders    int
	AverageDuration time.Duration
	TotalObjects    int
}

// RendererMetric collects renderer-specific metrics in memory.
type RendererMetric struct {
	mu        sync.RWMutex
	Renderers map[string]*RendererStats
}

// RendererStats holds statistics for a specific renderer type.
type RendererStats struct {
	Executions int
	Duration   time.Duration
	Objects    int
	Errors     int
}

// NewRendererMetric creates a new renderer metrics collector.
func NewRendererMetric() *RendererMetric {
	return &RendererMetric{
		Renderers: make(map[string]*RendererStats),
	}
}

// Observe records a renderer execution's metrics.
func (m *RendererMetric) Observe(
	_ context.Context,
	rendererType string,
	duration time.Duration,
	objectCount int,
	err error,
) {
	m.mu.Lock()
	defer m.mu.Unlock()

	stats, ok := m.Renderers[rendererType]
	if !ok {
		stats = &RendererStats{}
		m.Renderers[rendererType] = stats
	}

	stats.Executions++
	stats.Duration += duration

	if err != nil {
		stats.Errors++
		return
	}

	stats.Objects += objectCount
}

// Stats returns a snapshot of the statistics for a specific renderer type.
func (m *RendererMetric) Stats(rendererType string) (RendererStats, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	stats, ok := m.Renderers[rendererType]
	if !ok {
		return RendererStats{}, false
	}

	return *stats, true
}
