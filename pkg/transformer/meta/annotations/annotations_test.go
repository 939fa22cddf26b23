package annotations_test

import (
	"testing"

	corev1 "k8s.io/api/core/v1"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/apis/meta/v1/unstructured"
	"k8s.io/apimachinery/pkg/runtime"

	"github.com/soad-platform/soad-deploy/pkg/transformer/meta/annotations"

	. "github.com/onsi/gomega"
)

func toUnstructured(t *testing.T, obj runtime.Object) unstructured.Unstructured {
	t.Helper()

	unstr, err := runtime.DefaultUnstructuredConverter.ToUnstructured(obj)
	NewWithT(t).Expect(err).ShouldNot(HaveOccurred())

	return unstructured.Unstructured{Object: unstr}
}

func TestSet(t *testing.T) {
	t.Run("should add annotations to unannotated objects", func(t *testing.T) {
		g := NewWithT(t)

		transformed, err := annotations.Set(map[string]string{
			"deploy.soad.dev/environment": "dev",
		})(t.Context(), toUnstructured(t, &corev1.ConfigMap{}))

		g.Expect(err).ToNot(HaveOccurred())
		g.Expect(transformed.GetAnnotations()).To(HaveKeyWithValue("deploy.soad.dev/environment", "dev"))
	})

	t.Run("should merge with existing annotations", func(t *testing.T) {
		g := NewWithT(t)

		obj := toUnstructured(t, &corev1.ConfigMap{
			ObjectMeta: metav1.ObjectMeta{
				Annotations: map[string]string{
					"existing": "kept",
					"updated":  "old",
				},
			},
		})

		transformed, err := annotations.Set(map[string]string{
			"updated": "new",
		})(t.Context(), obj)

		g.Expect(err).ToNot(HaveOccurred())
		g.Expect(transformed.GetAnnotations()).To(HaveKeyWithValue("existing", "kept"))
		g.Expect(transformed.GetAnnotations()).To(HaveKeyWithValue("updated", "new"))
	})
}

func TestRemove(t *testing.T) {
	t.Run("should remove specific annotations", func(t *testing.T) {
		g := NewWithT(t)

		obj := toUnstructured(t, &corev1.ConfigMap{
			ObjectMeta: metav1.ObjectMeta{
				Annotations: map[string]string{
					"deploy.soad.dev/source.type": "helm",
					"kept":                        "value",
				},
			},
		})

		transformed, err := annotations.Remove("deploy.soad.dev/source.type")(t.Context(), obj)
		g.Expect(err).ToNot(HaveOccurred())
		g.Expect(transformed.GetAnnotations()).Should(Equal(map[string]string{"kept": "value"}))
	})

	t.Run("should handle objects with no annotations", func(t *testing.T) {
		g := NewWithT(t)

		transformed, err := annotations.Remove("any")(t.Context(), toUnstructured(t, &corev1.ConfigMap{}))
		g.Expect(err).ToNot(HaveOccurred())
		g.Expect(transformed.GetAnnotations()).Should(BeNil())
	})
}
