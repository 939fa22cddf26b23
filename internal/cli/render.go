package cli

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	sigsyaml "sigs.k8s.io/yaml"

	"k8s.io/apimachinery/pkg/apis/meta/v1/unstructured"

	"github.com/soad-platform/soad-deploy/pkg/engine"
	"github.com/soad-platform/soad-deploy/pkg/filter/meta/labels"
	"github.com/soad-platform/soad-deploy/pkg/renderer/helm"
	"github.com/soad-platform/soad-deploy/pkg/renderer/kustomize"
	"github.com/soad-platform/soad-deploy/pkg/transformer/meta/namespace"
)

// newRenderCommand creates the "render" subcommand that renders the platform manifests.
func newRenderCommand(opts *Options) *cobra.Command {
	var (
		output    string
		component string
		overlay   string
	)

	cmd := &cobra.Command{
		Use:   "render",
		Short: "Render the platform chart into Kubernetes manifests",
		RunE: func(cmd *cobra.Command, _ []string) error {
			logger := LoggerFromContext(cmd.Context())

			vals, err := loadValues(opts)
			if err != nil {
				return err
			}

			eng, err := engine.Platform(opts.Release, opts.Namespace, vals, helm.WithSourceAnnotations(false))
			if err != nil {
				return err
			}

			renderOpts := engine.RenderOptions{}

			if opts.Namespace != "" {
				renderOpts.Transformers = append(renderOpts.Transformers, namespace.SetIfEmpty(opts.Namespace))
			}

			if component != "" {
				renderOpts.Filters = append(renderOpts.Filters, labels.MatchLabels(map[string]string{
					"app.kubernetes.io/component": component,
				}))
			}

			objects, err := eng.Render(cmd.Context(), renderOpts)
			if err != nil {
				return err
			}

			if overlay != "" {
				overlayEngine, err := engine.Kustomize(kustomize.Source{Path: overlay})
				if err != nil {
					return err
				}

				overlayObjects, err := overlayEngine.Render(cmd.Context(), renderOpts)
				if err != nil {
					return fmt.Errorf("failed to render overlay %s: %w", overlay, err)
				}

				objects = append(objects, overlayObjects...)
			}

			logger.Info("rendered platform manifests", "release", opts.Release, "objects", len(objects))

			if output == "" || output == "-" {
				return writeObjects(cmd.OutOrStdout(), objects)
			}

			return writeObjectsDir(output, objects)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "Output directory (defaults to stdout)")
	cmd.Flags().StringVar(&component, "component", "", "Render only the given platform component (e.g. order-manager)")
	cmd.Flags().StringVar(&overlay, "overlay", "", "Path to a kustomization directory rendered in addition to the chart")

	return cmd
}

// writeObjects encodes objects as a multi-document YAML stream.
func writeObjects(w io.Writer, objects []unstructured.Unstructured) error {
	for i, obj := range objects {
		data, err := sigsyaml.Marshal(obj.Object)
		if err != nil {
			return fmt.Errorf("failed to encode %s/%s: %w", obj.GetKind(), obj.GetName(), err)
		}

		if i > 0 {
			if _, err := io.WriteString(w, "---\n"); err != nil {
				return err
			}
		}

		if _, err := w.Write(data); err != nil {
			return err
		}
	}

	return nil
}

// writeObjectsDir writes each object to <dir>/<kind>-<name>.yaml.
func writeObjectsDir(dir string, objects []unstructured.Unstructured) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create output directory %s: %w", dir, err)
	}

	for _, obj := range objects {
		data, err := sigsyaml.Marshal(obj.Object)
		if err != nil {
			return fmt.Errorf("failed to encode %s/%s: %w", obj.GetKind(), obj.GetName(), err)
		}

		name := fmt.Sprintf("%s-%s.yaml", strings.ToLower(obj.GetKind()), obj.GetName())
		if err := os.WriteFile(filepath.Join(dir, name), data, 0o644); err != nil {
			return fmt.Errorf("failed to write %s: %w", name, err)
		}
	}

	return nil
}
