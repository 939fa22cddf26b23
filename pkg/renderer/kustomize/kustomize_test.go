package kustomize_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"k8s.io/apimachinery/pkg/apis/meta/v1/unstructured"

	"github.com/soad-platform/soad-deploy/pkg/renderer/kustomize"
	"github.com/soad-platform/soad-deploy/pkg/transformer/meta/annotations"

	. "github.com/onsi/gomega"
)

func writeOverlay(t *testing.T) string {
	t.Helper()

	g := NewWithT(t)
	dir := t.TempDir()

	deployment := `
apiVersion: apps/v1
kind: Deployment
metadata:
  name: order-manager
spec:
  replicas: 1
  selector:
    matchLabels:
      app.kubernetes.io/component: order-manager
  template:
    metadata:
      labels:
        app.kubernetes.io/component: order-manager
    spec:
      containers:
        - name: order-manager
          image: soadtrading/soad:latest
`

	kustomization := `
namePrefix: soad-
commonLabels:
  app.kubernetes.io/part-of: soad
resources:
  - deployment.yaml
`

	g.Expect(os.WriteFile(filepath.Join(dir, "deployment.yaml"), []byte(deployment), 0o644)).To(Succeed())
	g.Expect(os.WriteFile(filepath.Join(dir, "kustomization.yaml"), []byte(kustomization), 0o644)).To(Succeed())

	return dir
}

func TestRenderer(t *testing.T) {
	t.Run("should render a kustomization directory", func(t *testing.T) {
		g := NewWithT(t)

		renderer, err := kustomize.New([]kustomize.Source{{Path: writeOverlay(t)}})
		g.Expect(err).ToNot(HaveOccurred())

		objects, err := renderer.Process(t.Context())
		g.Expect(err).ToNot(HaveOccurred())
		g.Expect(objects).To(HaveLen(1))
		g.Expect(objects[0].GetKind()).To(Equal("Deployment"))
		g.Expect(objects[0].GetName()).To(Equal("soad-order-manager"))
		g.Expect(objects[0].GetLabels()).To(HaveKeyWithValue("app.kubernetes.io/part-of", "soad"))
	})

	t.Run("should apply filters and transformers", func(t *testing.T) {
		g := NewWithT(t)

		renderer, err := kustomize.New(
			[]kustomize.Source{{Path: writeOverlay(t)}},
			kustomize.WithFilter(func(_ context.Context, obj unstructured.Unstructured) (bool, error) {
				return obj.GetKind() == "Deployment", nil
			}),
			kustomize.WithTransformer(annotations.Set(map[string]string{
				"deploy.soad.dev/environment": "dev",
			})),
		)
		g.Expect(err).ToNot(HaveOccurred())

		objects, err := renderer.Process(t.Context())
		g.Expect(err).ToNot(HaveOccurred())
		g.Expect(objects).To(HaveLen(1))
		g.Expect(objects[0].GetAnnotations()).To(HaveKeyWithValue("deploy.soad.dev/environment", "dev"))
	})

	t.Run("should fail for missing kustomization", func(t *testing.T) {
		g := NewWithT(t)

		renderer, err := kustomize.New([]kustomize.Source{{Path: t.TempDir()}})
		g.Expect(err).ToNot(HaveOccurred())

		_, err = renderer.Process(t.Context())
		g.Expect(err).To(HaveOccurred())
	})

	t.Run("should cache render results", func(t *testing.T) {
		g := NewWithT(t)

		renderer, err := kustomize.New(
			[]kustomize.Source{{Path: writeOverlay(t)}},
			kustomize.WithCache(),
		)
		g.Expect(err).ToNot(HaveOccurred())

		result1, err := renderer.Process(t.Context())
		g.Expect(err).ToNot(HaveOccurred())

		result2, err := renderer.Process(t.Context())
		g.Expect(err).ToNot(HaveOccurred())
		g.Expect(result2).To(Equal(result1))
	})
}

func TestNew(t *testing.T) {
	t.Run("should reject empty path", func(t *testing.T) {
		g := NewWithT(t)

		_, err := kustomize.New([]kustomize.Source{{}})
		g.Expect(err).To(HaveOccurred())
		g.Expect(err.Error()).To(ContainSubstring("Path is required"))
	})
}
