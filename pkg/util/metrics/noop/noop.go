// Package noop provides metrics collectors that discard all observations.
package noop

import (
	"context"
	"time"
)

// RenderMetric is a RenderMetric implementation that discards observations.
type RenderMetric struct{}

// Observe discards the observation.
func (RenderMetric) Observe(_ context.Context, _ time.Duration, _ int) {}

// RendererMetric is a RendererMetric implementation that discards observations.
type RendererMetric struct{}

// Observe discards the observation.
func (RendererMetric) Observe(_ context.Context, _ string, _ time.Duration, _ int, _ error) {}
