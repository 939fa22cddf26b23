package engine_test

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"

	"k8s.io/apimachinery/pkg/apis/meta/v1/unstructured"

	"github.com/soad-platform/soad-deploy/pkg/engine"
	"github.com/soad-platform/soad-deploy/pkg/filter/meta/gvk"
	"github.com/soad-platform/soad-deploy/pkg/transformer/meta/labels"
	"github.com/soad-platform/soad-deploy/pkg/types"
	"github.com/soad-platform/soad-deploy/pkg/util/metrics"
	"github.com/soad-platform/soad-deploy/pkg/util/metrics/memory"

	appsv1 "k8s.io/api/apps/v1"

	. "github.com/onsi/gomega"
)

type stubRenderer struct {
	name    string
	objects []unstructured.Unstructured
	err     error
	calls   atomic.Int32
}

func (r *stubRenderer) Process(_ context.Context) ([]unstructured.Unstructured, error) {
	r.calls.Add(1)
	return r.objects, r.err
}

func (r *stubRenderer) Name() string {
	return r.name
}

func object(apiVersion string, kind string, name string) unstructured.Unstructured {
	return unstructured.Unstructured{Object: map[string]any{
		"apiVersion": apiVersion,
		"kind":       kind,
		"metadata": map[string]any{
			"name": name,
		},
	}}
}

func TestRender(t *testing.T) {
	t.Run("should aggregate objects from all renderers", func(t *testing.T) {
		g := NewWithT(t)

		e := engine.New(
			engine.WithRenderer(&stubRenderer{
				name:    "helm",
				objects: []unstructured.Unstructured{object("apps/v1", "Deployment", "soad-order-manager")},
			}),
			engine.WithRenderer(&stubRenderer{
				name:    "yaml",
				objects: []unstructured.Unstructured{object("v1", "Service", "soad-api")},
			}),
		)

		objects, err := e.Render(t.Context())
		g.Expect(err).ToNot(HaveOccurred())
		g.Expect(objects).To(HaveLen(2))
	})

	t.Run("should apply engine-level filters", func(t *testing.T) {
		g := NewWithT(t)

		e := engine.New(
			engine.WithRenderer(&stubRenderer{
				name: "helm",
				objects: []unstructured.Unstructured{
					object("apps/v1", "Deployment", "soad-order-manager"),
					object("v1", "Service", "soad-api"),
				},
			}),
			engine.WithFilter(gvk.Filter(appsv1.SchemeGroupVersion.WithKind("Deployment"))),
		)

		objects, err := e.Render(t.Context())
		g.Expect(err).ToNot(HaveOccurred())
		g.Expect(objects).To(HaveLen(1))
		g.Expect(objects[0].GetKind()).To(Equal("Deployment"))
	})

	t.Run("should apply engine-level transformers", func(t *testing.T) {
		g := NewWithT(t)

		e := engine.New(
			engine.WithRenderer(&stubRenderer{
				name:    "helm",
				objects: []unstructured.Unstructured{object("apps/v1", "Deployment", "soad-order-manager")},
			}),
			engine.WithTransformer(labels.Set(map[string]string{"app.kubernetes.io/part-of": "soad"})),
		)

		objects, err := e.Render(t.Context())
		g.Expect(err).ToNot(HaveOccurred())
		g.Expect(objects).To(HaveLen(1))
		g.Expect(objects[0].GetLabels()).To(HaveKeyWithValue("app.kubernetes.io/part-of", "soad"))
	})

	t.Run("should append render-time options to engine-level ones", func(t *testing.T) {
		g := NewWithT(t)

		e := engine.New(
			engine.WithRenderer(&stubRenderer{
				name: "helm",
				objects: []unstructured.Unstructured{
					object("apps/v1", "Deployment", "soad-order-manager"),
					object("v1", "Service", "soad-api"),
				},
			}),
			engine.WithTransformer(labels.Set(map[string]string{"app.kubernetes.io/part-of": "soad"})),
		)

		objects, err := e.Render(
			t.Context(),
			engine.WithRenderFilter(gvk.Filter(appsv1.SchemeGroupVersion.WithKind("Deployment"))),
			engine.WithRenderTransformer(labels.Set(map[string]string{"render": "once"})),
		)
		g.Expect(err).ToNot(HaveOccurred())
		g.Expect(objects).To(HaveLen(1))
		g.Expect(objects[0].GetLabels()).To(HaveKeyWithValue("app.kubernetes.io/part-of", "soad"))
		g.Expect(objects[0].GetLabels()).To(HaveKeyWithValue("render", "once"))
	})

	t.Run("should not leak render-time options across calls", func(t *testing.T) {
		g := NewWithT(t)

		e := engine.New(
			engine.WithRenderer(&stubRenderer{
				name: "helm",
				objects: []unstructured.Unstructured{
					object("apps/v1", "Deployment", "soad-order-manager"),
					object("v1", "Service", "soad-api"),
				},
			}),
		)

		objects, err := e.Render(
			t.Context(),
			engine.WithRenderFilter(gvk.Filter(appsv1.SchemeGroupVersion.WithKind("Deployment"))),
		)
		g.Expect(err).ToNot(HaveOccurred())
		g.Expect(objects).To(HaveLen(1))

		objects, err = e.Render(t.Context())
		g.Expect(err).ToNot(HaveOccurred())
		g.Expect(objects).To(HaveLen(2))
	})

	t.Run("should accept struct-based render options", func(t *testing.T) {
		g := NewWithT(t)

		e := engine.New(
			engine.WithRenderer(&stubRenderer{
				name:    "helm",
				objects: []unstructured.Unstructured{object("apps/v1", "Deployment", "soad-order-manager")},
			}),
		)

		objects, err := e.Render(t.Context(), engine.RenderOptions{
			Transformers: []types.Transformer{
				labels.Set(map[string]string{"from": "struct"}),
			},
		})
		g.Expect(err).ToNot(HaveOccurred())
		g.Expect(objects).To(HaveLen(1))
		g.Expect(objects[0].GetLabels()).To(HaveKeyWithValue("from", "struct"))
	})

	t.Run("should propagate renderer errors", func(t *testing.T) {
		g := NewWithT(t)

		boom := errors.New("render failed")
		e := engine.New(
			engine.WithRenderer(&stubRenderer{name: "helm", err: boom}),
		)

		_, err := e.Render(t.Context())
		g.Expect(err).To(HaveOccurred())
		g.Expect(errors.Is(err, boom)).To(BeTrue())
		g.Expect(err.Error()).To(ContainSubstring("helm"))
	})

	t.Run("should render with no renderers", func(t *testing.T) {
		g := NewWithT(t)

		objects, err := engine.New().Render(t.Context())
		g.Expect(err).ToNot(HaveOccurred())
		g.Expect(objects).To(BeEmpty())
	})
}

func TestRenderParallel(t *testing.T) {
	t.Run("should process all renderers", func(t *testing.T) {
		g := NewWithT(t)

		first := &stubRenderer{
			name:    "helm",
			objects: []unstructured.Unstructured{object("apps/v1", "Deployment", "soad-order-manager")},
		}
		second := &stubRenderer{
			name:    "kustomize",
			objects: []unstructured.Unstructured{object("v1", "ConfigMap", "soad-config")},
		}

		e := engine.New(
			engine.WithRenderer(first),
			engine.WithRenderer(second),
			engine.WithParallel(true),
		)

		objects, err := e.Render(t.Context())
		g.Expect(err).ToNot(HaveOccurred())
		g.Expect(objects).To(HaveLen(2))
		g.Expect(first.calls.Load()).To(Equal(int32(1)))
		g.Expect(second.calls.Load()).To(Equal(int32(1)))
	})

	t.Run("should propagate errors from any renderer", func(t *testing.T) {
		g := NewWithT(t)

		boom := errors.New("render failed")
		e := engine.New(
			engine.WithRenderer(&stubRenderer{
				name:    "helm",
				objects: []unstructured.Unstructured{object("apps/v1", "Deployment", "soad-order-manager")},
			}),
			engine.WithRenderer(&stubRenderer{name: "kustomize", err: boom}),
			engine.WithParallel(true),
		)

		_, err := e.Render(t.Context())
		g.Expect(err).To(HaveOccurred())
		g.Expect(errors.Is(err, boom)).To(BeTrue())
	})
}

func TestRenderMetrics(t *testing.T) {
	t.Run("should record render and renderer metrics from context", func(t *testing.T) {
		g := NewWithT(t)

		render := &memory.RenderMetric{}
		renderer := memory.NewRendererMetric()

		ctx := metrics.WithMetrics(t.Context(), &metrics.Metrics{
			RenderMetric:   render,
			RendererMetric: renderer,
		})

		e := engine.New(
			engine.WithRenderer(&stubRenderer{
				name:    "helm",
				objects: []unstructured.Unstructured{object("apps/v1", "Deployment", "soad-order-manager")},
			}),
		)

		_, err := e.Render(ctx)
		g.Expect(err).ToNot(HaveOccurred())

		g.Expect(render.Summary().TotalRenders).To(Equal(1))
		g.Expect(render.Summary().TotalObjects).To(Equal(1))

		stats, found := renderer.Stats("helm")
		g.Expect(found).To(BeTrue())
		g.Expect(stats.Executions).To(Equal(1))
	})
}
