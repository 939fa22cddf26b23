package jq_test

import (
	"errors"
	"testing"

	jqmatcher "github.com/lburgazzoli/gomega-matchers/pkg/matchers/jq"

	"k8s.io/apimachinery/pkg/apis/meta/v1/unstructured"

	"github.com/soad-platform/soad-deploy/pkg/transformer/jq"

	. "github.com/onsi/gomega"
)

func deployment() unstructured.Unstructured {
	return unstructured.Unstructured{Object: map[string]any{
		"apiVersion": "apps/v1",
		"kind":       "Deployment",
		"metadata": map[string]any{
			"name": "soad-order-manager",
		},
		"spec": map[string]any{
			"replicas": int64(1),
		},
	}}
}

func TestTransform(t *testing.T) {
	t.Run("should rewrite fields", func(t *testing.T) {
		g := NewWithT(t)

		transform, err := jq.Transform(`.spec.replicas = 3`)
		g.Expect(err).ToNot(HaveOccurred())

		result, err := transform(t.Context(), deployment())
		g.Expect(err).ToNot(HaveOccurred())
		g.Expect(result.Object).To(jqmatcher.Match(`.spec.replicas == 3`))
		g.Expect(result.GetName()).To(Equal("soad-order-manager"))
	})

	t.Run("should add fields", func(t *testing.T) {
		g := NewWithT(t)

		transform, err := jq.Transform(`.metadata.labels["app.kubernetes.io/component"] = "order-manager"`)
		g.Expect(err).ToNot(HaveOccurred())

		result, err := transform(t.Context(), deployment())
		g.Expect(err).ToNot(HaveOccurred())
		g.Expect(result.GetLabels()).To(HaveKeyWithValue("app.kubernetes.io/component", "order-manager"))
	})

	t.Run("should reject invalid expressions eagerly", func(t *testing.T) {
		g := NewWithT(t)

		_, err := jq.Transform(`.spec.replicas =`)
		g.Expect(err).To(HaveOccurred())
	})

	t.Run("should fail on non-object results", func(t *testing.T) {
		g := NewWithT(t)

		transform, err := jq.Transform(`.metadata.name`)
		g.Expect(err).ToNot(HaveOccurred())

		_, err = transform(t.Context(), deployment())
		g.Expect(err).To(HaveOccurred())
		g.Expect(errors.Is(err, jq.ErrJqMustReturnObject)).To(BeTrue())
	})

	t.Run("should surface execution errors with object context", func(t *testing.T) {
		g := NewWithT(t)

		transform, err := jq.Transform(`.spec + 1`)
		g.Expect(err).ToNot(HaveOccurred())

		_, err = transform(t.Context(), deployment())
		g.Expect(err).To(HaveOccurred())
		g.Expect(err.Error()).To(ContainSubstring("soad-order-manager"))
	})
}
