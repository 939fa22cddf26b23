// Package metrics defines observation hooks for render operations.
//
// Metrics flow through the rendering pipeline via context: attach collectors
// with WithMetrics, and the engine and renderers will record into them
// automatically. All fields are optional; missing collectors no-op.
package metrics

import (
	"context"
	"time"
)

// RenderMetric observes engine-level render operations.
//
// This interface is called once per Engine.Render() invocation to record
// aggregate metrics across all renderers, filters, and transformers.
// Implementations must be thread-safe as renders may occur concurrently.
type RenderMetric interface {
	// Observe records the total duration of a render and the number of
	// Kubernetes objects produced after all processing.
	Observe(ctx context.Context, duration time.Duration, objectCount int)
}

// RendererMetric observes individual renderer executions.
//
// This interface is called once per Renderer.Process() invocation.
// Implementations must be thread-safe as renderers may execute concurrently
// when parallel rendering is enabled.
type RendererMetric interface {
	// Observe records a single renderer execution: its type identifier,
	// duration, object count (0 on failure) and error, if any.
	Observe(ctx context.Context, rendererType string, duration time.Duration, objectCount int, err error)
}

// Metrics holds all available metrics collectors.
type Metrics struct {
	// RenderMetric collects engine-level metrics (one observation per Render() call).
	// Optional - may be nil.
	RenderMetric RenderMetric

	// RendererMetric collects renderer-specific metrics (one observation per renderer execution).
	// Optional - may be nil.
	RendererMetric RendererMetric
}

type contextKey struct{}

// WithMetrics returns a context with metrics attached.
func WithMetrics(ctx context.Context, m *Metrics) context.Context {
	return context.WithValue(ctx, contextKey{}, m)
}

// FromContext extracts metrics from context, or returns nil if not present.
func FromContext(ctx context.Context) *Metrics {
	if m, ok := ctx.Value(contextKey{}).(*Metrics); ok {
		return m
	}

	return nil
}

// ObserveRender records engine-level metrics if available in context.
// Safe to call when no metrics are configured.
func ObserveRender(ctx context.Context, duration time.Duration, objectCount int) {
	m := FromContext(ctx)
	if m == nil || m.RenderMetric == nil {
		return
	}

	m.RenderMetric.Observe(ctx, duration, objectCount)
}

// ObserveRenderer records renderer-specific metrics if available in context.
// Safe to call when no metrics are configured.
func ObserveRenderer(ctx context.Context, rendererType string, duration time.Duration, objectCount int, err error) {
	m := FromContext(ctx)
	if m == nil || m.RendererMetric == nil {
		return
	}

	m.RendererMetric.Observe(ctx, rendererType, duration, objectCount, err)
}
