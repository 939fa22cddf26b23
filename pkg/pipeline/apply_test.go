package pipeline_test

import (
	"context"
	"errors"
	"testing"

	"k8s.io/apimachinery/pkg/apis/meta/v1/unstructured"

	"github.com/soad-platform/soad-deploy/pkg/filter"
	"github.com/soad-platform/soad-deploy/pkg/pipeline"
	"github.com/soad-platform/soad-deploy/pkg/transformer"
	"github.com/soad-platform/soad-deploy/pkg/transformer/meta/labels"
	"github.com/soad-platform/soad-deploy/pkg/types"

	. "github.com/onsi/gomega"
)

func object(kind string, name string) unstructured.Unstructured {
	return unstructured.Unstructured{Object: map[string]any{
		"apiVersion": "v1",
		"kind":       kind,
		"metadata": map[string]any{
			"name": name,
		},
	}}
}

func kindIs(kind string) types.Filter {
	return func(_ context.Context, obj unstructured.Unstructured) (bool, error) {
		return obj.GetKind() == kind, nil
	}
}

func TestApplyFilters(t *testing.T) {
	objects := []unstructured.Unstructured{
		object("Deployment", "soad-order-manager"),
		object("Service", "soad-api"),
		object("ConfigMap", "soad-config"),
	}

	t.Run("should return input unchanged with no filters", func(t *testing.T) {
		g := NewWithT(t)

		result, err := pipeline.ApplyFilters(t.Context(), objects, nil)
		g.Expect(err).ToNot(HaveOccurred())
		g.Expect(result).To(HaveLen(3))
	})

	t.Run("should keep only matching objects", func(t *testing.T) {
		g := NewWithT(t)

		result, err := pipeline.ApplyFilters(t.Context(), objects, []types.Filter{kindIs("Deployment")})
		g.Expect(err).ToNot(HaveOccurred())
		g.Expect(result).To(HaveLen(1))
		g.Expect(result[0].GetName()).To(Equal("soad-order-manager"))
	})

	t.Run("should require all filters to match", func(t *testing.T) {
		g := NewWithT(t)

		result, err := pipeline.ApplyFilters(t.Context(), objects, []types.Filter{
			kindIs("Deployment"),
			kindIs("Service"),
		})
		g.Expect(err).ToNot(HaveOccurred())
		g.Expect(result).To(BeEmpty())
	})

	t.Run("should wrap filter errors with object context", func(t *testing.T) {
		g := NewWithT(t)

		boom := errors.New("boom")
		bad := func(_ context.Context, _ unstructured.Unstructured) (bool, error) {
			return false, boom
		}

		_, err := pipeline.ApplyFilters(t.Context(), objects, []types.Filter{bad})
		g.Expect(err).To(HaveOccurred())

		var filterErr *filter.Error
		g.Expect(errors.As(err, &filterErr)).To(BeTrue())
		g.Expect(errors.Is(err, boom)).To(BeTrue())
	})
}

func TestApplyTransformers(t *testing.T) {
	objects := []unstructured.Unstructured{
		object("Deployment", "soad-order-manager"),
		object("Service", "soad-api"),
	}

	t.Run("should return input unchanged with no transformers", func(t *testing.T) {
		g := NewWithT(t)

		result, err := pipeline.ApplyTransformers(t.Context(), objects, nil)
		g.Expect(err).ToNot(HaveOccurred())
		g.Expect(result).To(HaveLen(2))
	})

	t.Run("should transform every object", func(t *testing.T) {
		g := NewWithT(t)

		result, err := pipeline.ApplyTransformers(t.Context(), objects, []types.Transformer{
			labels.Set(map[string]string{"app.kubernetes.io/part-of": "soad"}),
		})
		g.Expect(err).ToNot(HaveOccurred())
		g.Expect(result).To(HaveLen(2))

		for _, obj := range result {
			g.Expect(obj.GetLabels()).To(HaveKeyWithValue("app.kubernetes.io/part-of", "soad"))
		}
	})

	t.Run("should wrap transformer errors with object context", func(t *testing.T) {
		g := NewWithT(t)

		boom := errors.New("boom")
		bad := func(_ context.Context, _ unstructured.Unstructured) (unstructured.Unstructured, error) {
			return unstructured.Unstructured{}, boom
		}

		_, err := pipeline.ApplyTransformers(t.Context(), objects, []types.Transformer{bad})
		g.Expect(err).To(HaveOccurred())

		var transformerErr *transformer.Error
		g.Expect(errors.As(err, &transformerErr)).To(BeTrue())
		g.Expect(errors.Is(err, boom)).To(BeTrue())
	})
}

func TestApply(t *testing.T) {
	t.Run("should filter then transform", func(t *testing.T) {
		g := NewWithT(t)

		objects := []unstructured.Unstructured{
			object("Deployment", "soad-order-manager"),
			object("Service", "soad-api"),
		}

		result, err := pipeline.Apply(
			t.Context(),
			objects,
			[]types.Filter{kindIs("Deployment")},
			[]types.Transformer{labels.Set(map[string]string{"filtered": "yes"})},
		)
		g.Expect(err).ToNot(HaveOccurred())
		g.Expect(result).To(HaveLen(1))
		g.Expect(result[0].GetKind()).To(Equal("Deployment"))
		g.Expect(result[0].GetLabels()).To(HaveKeyWithValue("filtered", "yes"))
	})
}
