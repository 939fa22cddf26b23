// Package kustomize renders kustomization directories, used for
// per-environment overlays of the platform manifests.
package kustomize

import (
	"context"
	"fmt"
	"slices"

	"sigs.k8s.io/kustomize/api/krusty"
	"sigs.k8s.io/kustomize/api/resmap"
	kustomizetypes "sigs.k8s.io/kustomize/api/types"
	"sigs.k8s.io/kustomize/kyaml/filesys"

	"k8s.io/apimachinery/pkg/apis/meta/v1/unstructured"
	"k8s.io/apimachinery/pkg/runtime"
	"k8s.io/apimachinery/pkg/util/dump"

	"github.com/soad-platform/soad-deploy/pkg/pipeline"
	"github.com/soad-platform/soad-deploy/pkg/types"
	"github.com/soad-platform/soad-deploy/pkg/util/cache"
)

const rendererType = "kustomize"

// Source represents the input for a Kustomize rendering operation.
type Source struct {
	// Path specifies the directory containing kustomization.yaml.
	// Must be a valid filesystem path to a kustomization root.
	Path string
}

// Renderer is a renderer that uses kustomize to render resources.
// It implements types.Renderer.
type Renderer struct {
	inputs        []Source
	kustomizeOpts krusty.Options
	kustomizer    *krusty.Kustomizer
	filters       []types.Filter
	transformers  []types.Transformer  // for post-processing
	plugins       []resmap.Transformer // for kustomize-native/plugin transformers
	fs            filesys.FileSystem
	cache         cache.Interface[[]unstructured.Unstructured]
}

// New creates a new kustomize renderer.
func New(inputs []Source, opts ...RendererOption) (*Renderer, error) {
	for i, input := range inputs {
		if input.Path == "" {
			return nil, fmt.Errorf("input[%d]: Path is required", i)
		}
	}

	r := &Renderer{
		inputs: slices.Clone(inputs),
		kustomizeOpts: krusty.Options{
			LoadRestrictions: kustomizetypes.LoadRestrictionsRootOnly,
			PluginConfig:     &kustomizetypes.PluginConfig{},
		},
		fs:           filesys.MakeFsOnDisk(),
		filters:      make([]types.Filter, 0),
		transformers: make([]types.Transformer, 0),
		plugins:      make([]resmap.Transformer, 0),
	}

	for _, opt := range opts {
		opt.ApplyTo(r)
	}

	r.kustomizer = krusty.MakeKustomizer(&r.kustomizeOpts)

	return r, nil
}

// Process implements types.Renderer by rendering the kustomize resources and applying filters and transformers.
func (r *Renderer) Process(ctx context.Context) ([]unstructured.Unstructured, error) {
	allObjects := make([]unstructured.Unstructured, 0)

	for i, input := range r.inputs {
		objects, err := r.renderSingle(ctx, input)
		if err != nil {
			return nil, fmt.Errorf("error rendering kustomize[%d] path %s: %w", i, input.Path, err)
		}

		allObjects = append(allObjects, objects...)
	}

	transformed, err := pipeline.Apply(ctx, allObjects, r.filters, r.transformers)
	if err != nil {
		return nil, fmt.Errorf("kustomize renderer: %w", err)
	}

	return transformed, nil
}

// Name returns the renderer type identifier.
func (r *Renderer) Name() string {
	return rendererType
}

// renderSingle performs the rendering for a single kustomize path.
func (r *Renderer) renderSingle(_ context.Context, input Source) ([]unstructured.Unstructured, error) {
	type cacheKeyData struct {
		Path string
	}

	var cacheKey string

	// Check cache (if enabled)
	if r.cache != nil {
		cacheKey = dump.ForHash(cacheKeyData{
			Path: input.Path,
		})

		// ensure objects are evicted
		r.cache.Sync()

		if cached, found := r.cache.Get(cacheKey); found {
			return cached, nil
		}
	}

	resMap, err := r.kustomizer.Run(r.fs, input.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to run kustomize: %w", err)
	}

	// Apply kustomize-native/plugin transformers
	for _, t := range r.plugins {
		if err := t.Transform(resMap); err != nil {
			return nil, fmt.Errorf("failed to apply kustomize plugin transformer: %w", err)
		}
	}

	renderedRes := resMap.Resources()

	result := make([]unstructured.Unstructured, len(renderedRes))

	for i, res := range renderedRes {
		m, err := res.Map()
		if err != nil {
			return nil, fmt.Errorf("failed to convert resource to map: %w", err)
		}

		result[i] = unstructured.Unstructured{}

		if err := runtime.DefaultUnstructuredConverter.FromUnstructured(m, &result[i]); err != nil {
			return nil, fmt.Errorf("failed to convert map to unstructured: %w", err)
		}
	}

	// Cache result (if enabled)
	if r.cache != nil {
		r.cache.Set(cacheKey, result)
	}

	return result, nil
}
