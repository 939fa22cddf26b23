package engine_test

import (
	"testing"
	"testing/fstest"

	"github.com/soad-platform/soad-deploy/pkg/engine"
	"github.com/soad-platform/soad-deploy/pkg/renderer/yaml"
	"github.com/soad-platform/soad-deploy/pkg/values"

	. "github.com/onsi/gomega"
)

func TestPlatform(t *testing.T) {
	t.Run("should render the embedded chart with default values", func(t *testing.T) {
		g := NewWithT(t)

		e, err := engine.Platform("soad", "trading", values.Default())
		g.Expect(err).ToNot(HaveOccurred())

		objects, err := e.Render(t.Context())
		g.Expect(err).ToNot(HaveOccurred())
		g.Expect(objects).ToNot(BeEmpty())

		names := make([]string, 0, len(objects))
		for _, obj := range objects {
			names = append(names, obj.GetName())
		}
		g.Expect(names).To(ContainElement("soad-order-manager"))
	})

	t.Run("should reject invalid values", func(t *testing.T) {
		g := NewWithT(t)

		vals := values.Default()
		vals.ReplicaCount = -1

		_, err := engine.Platform("soad", "trading", vals)
		g.Expect(err).To(HaveOccurred())
		g.Expect(err).To(MatchError(values.ErrReplicaCountNegative))
	})

	t.Run("should reject invalid release names", func(t *testing.T) {
		g := NewWithT(t)

		_, err := engine.Platform("", "trading", values.Default())
		g.Expect(err).To(HaveOccurred())
	})
}

func TestYamlEngine(t *testing.T) {
	t.Run("should render static manifests", func(t *testing.T) {
		g := NewWithT(t)

		fsys := fstest.MapFS{
			"manifests/configmap.yaml": &fstest.MapFile{
				Data: []byte(`
apiVersion: v1
kind: ConfigMap
metadata:
  name: soad-addons
`),
			},
		}

		e, err := engine.Yaml(yaml.Source{FS: fsys, Path: "manifests/*.yaml"})
		g.Expect(err).ToNot(HaveOccurred())

		objects, err := e.Render(t.Context())
		g.Expect(err).ToNot(HaveOccurred())
		g.Expect(objects).To(HaveLen(1))
		g.Expect(objects[0].GetName()).To(Equal("soad-addons"))
	})

	t.Run("should reject missing filesystem", func(t *testing.T) {
		g := NewWithT(t)

		_, err := engine.Yaml(yaml.Source{Path: "manifests/*.yaml"})
		g.Expect(err).To(MatchError(yaml.ErrFsRequired))
	})
}
