package engine

import (
	"context"
	"fmt"

	soadchart "github.com/soad-platform/soad-deploy/chart"
	"github.com/soad-platform/soad-deploy/pkg/renderer/helm"
	"github.com/soad-platform/soad-deploy/pkg/renderer/kustomize"
	"github.com/soad-platform/soad-deploy/pkg/renderer/yaml"
	"github.com/soad-platform/soad-deploy/pkg/values"
)

// Platform creates an Engine configured to render the embedded platform chart
// with the given release name, namespace and values document.
//
// Example:
//
//	e, _ := engine.Platform("soad", "trading", values.Default())
//	objects, _ := e.Render(ctx)
func Platform(releaseName string, namespace string, vals *values.Values, opts ...helm.RendererOption) (*Engine, error) {
	if err := vals.Validate(); err != nil {
		return nil, fmt.Errorf("invalid platform values: %w", err)
	}

	c, err := soadchart.Load()
	if err != nil {
		return nil, err
	}

	renderer, err := helm.New(
		[]helm.Source{
			{
				Chart:       c,
				ReleaseName: releaseName,
				Namespace:   namespace,
				Values: func(_ context.Context) (map[string]any, error) {
					return vals.ToMap()
				},
			},
		},
		opts...,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create platform renderer: %w", err)
	}

	return New(WithRenderer(renderer)), nil
}

// Helm creates an Engine configured with a single Helm renderer.
// This is a convenience function for simple Helm-only rendering scenarios.
//
// Example:
//
//	e, _ := engine.Helm(
//	    helm.Source{
//	        Ref:         "oci://registry/chart:1.0.0",
//	        ReleaseName: "my-release",
//	        Values:      helm.Values(map[string]any{"replicaCount": 3}),
//	    },
//	    helm.WithCache(cache.WithTTL(5*time.Minute)),
//	)
//	objects, _ := e.Render(ctx)
func Helm(source helm.Source, opts ...helm.RendererOption) (*Engine, error) {
	renderer, err := helm.New([]helm.Source{source}, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create helm renderer: %w", err)
	}
	return New(WithRenderer(renderer)), nil
}

// Kustomize creates an Engine configured with a single Kustomize renderer.
// This is a convenience function for simple Kustomize-only rendering scenarios.
//
// Example:
//
//	e, _ := engine.Kustomize(kustomize.Source{
//	    Path: "/path/to/kustomization",
//	})
//	objects, _ := e.Render(ctx)
func Kustomize(source kustomize.Source, opts ...kustomize.RendererOption) (*Engine, error) {
	renderer, err := kustomize.New([]kustomize.Source{source}, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create kustomize renderer: %w", err)
	}
	return New(WithRenderer(renderer)), nil
}

// Yaml creates an Engine configured with a single YAML renderer.
// This is a convenience function for simple YAML-only rendering scenarios.
//
// Example:
//
//	e, _ := engine.Yaml(yaml.Source{
//	    FS:   os.DirFS("/path/to/manifests"),
//	    Path: "*.yaml",
//	})
//	objects, _ := e.Render(ctx)
func Yaml(source yaml.Source, opts ...yaml.RendererOption) (*Engine, error) {
	renderer, err := yaml.New([]yaml.Source{source}, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create yaml renderer: %w", err)
	}
	return New(WithRenderer(renderer)), nil
}
