package helm

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"helm.sh/helm/v3/pkg/action"
	"helm.sh/helm/v3/pkg/chart"
	"helm.sh/helm/v3/pkg/chart/loader"
	"helm.sh/helm/v3/pkg/cli"
	"helm.sh/helm/v3/pkg/registry"

	"k8s.io/apimachinery/pkg/apis/meta/v1/unstructured"

	"github.com/soad-platform/soad-deploy/pkg/types"
	"github.com/soad-platform/soad-deploy/pkg/util/k8s"
)

const (
	// maxReleaseNameLength is the maximum allowed length for a Helm release name.
	// This limit is imposed by Kubernetes label value constraints.
	maxReleaseNameLength = 53
)

var (
	// ErrChartRequired is returned when a source has neither a pre-loaded chart nor a reference.
	ErrChartRequired = errors.New("either a pre-loaded chart or a chart reference is required")

	// ErrReleaseNameEmpty is returned when a release name is empty or whitespace-only.
	ErrReleaseNameEmpty = errors.New("release name cannot be empty or whitespace-only")

	// ErrReleaseNameTooLong is returned when a release name exceeds the maximum length.
	ErrReleaseNameTooLong = errors.New("release name exceeds maximum length")
)

// Source defines a Helm chart source for rendering.
type Source struct {
	// Chart is a pre-loaded Helm chart, such as the embedded platform chart.
	// Takes precedence over Ref when set.
	Chart *chart.Chart

	// Ref specifies the chart to locate when Chart is nil. Supports OCI
	// references (oci://registry/chart:tag), repository chart names (with
	// Repo set) and local filesystem paths.
	Ref string

	// Repo is the repository URL for chart lookup. Optional for local or OCI charts.
	Repo string

	// ReleaseName is the Helm release name used in template rendering metadata.
	// Required for proper .Release.Name substitution in templates.
	ReleaseName string

	// Namespace is the release namespace exposed to templates as .Release.Namespace.
	Namespace string

	// Version constrains the chart version to fetch. Optional; uses latest if empty.
	Version string

	// Values provides template variable overrides during chart rendering.
	// Function is called during rendering to obtain dynamic values.
	// Merged with chart defaults via chartutil.ToRenderValues.
	Values func(context.Context) (map[string]any, error)

	// ProcessDependencies determines whether chart dependencies should be processed.
	// If true, chartutil.ProcessDependencies will be called during rendering.
	// Default is false.
	ProcessDependencies bool
}

// Values returns a Values function that always returns the provided static values.
// This is a convenience helper for the common case of non-dynamic values.
func Values(values map[string]any) func(context.Context) (map[string]any, error) {
	return func(_ context.Context) (map[string]any, error) {
		return values, nil
	}
}

// sourceHolder wraps a Source with internal state for lazy loading and thread-safety.
type sourceHolder struct {
	Source

	// Mutex protects concurrent access to chart field
	mu *sync.RWMutex

	// The loaded Helm chart (protected by mu)
	chart *chart.Chart
}

// Identifier returns a human-readable identifier for the source, for error messages.
func (h *sourceHolder) Identifier() string {
	if h.Source.Chart != nil {
		return h.Source.Chart.Name()
	}

	return h.Ref
}

// Validate checks if the Source configuration is valid.
func (h *sourceHolder) Validate() error {
	if h.Source.Chart == nil && len(strings.TrimSpace(h.Ref)) == 0 {
		return ErrChartRequired
	}

	releaseName := strings.TrimSpace(h.ReleaseName)
	if len(releaseName) == 0 {
		return ErrReleaseNameEmpty
	}
	if len(releaseName) > maxReleaseNameLength {
		return fmt.Errorf(
			"%w: must not exceed %d characters (got %d)",
			ErrReleaseNameTooLong,
			maxReleaseNameLength,
			len(releaseName),
		)
	}

	return nil
}

// LoadChart returns the Helm chart for this source, loading it lazily if needed.
// Pre-loaded charts are returned as-is. Thread-safe for concurrent use.
func (h *sourceHolder) LoadChart(settings *cli.EnvSettings) (*chart.Chart, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.chart != nil {
		return h.chart, nil
	}

	if h.Source.Chart != nil {
		h.chart = h.Source.Chart
		return h.chart, nil
	}

	opt, err := createChartPathOptions(&h.Source)
	if err != nil {
		return nil, err
	}

	path, err := opt.LocateChart(h.Ref, settings)
	if err != nil {
		return nil, fmt.Errorf(
			"unable to locate chart (repo: %s, name: %s, version: %s): %w",
			h.Repo,
			h.Ref,
			h.Version,
			err,
		)
	}

	c, err := loader.Load(path)
	if err != nil {
		return nil, fmt.Errorf(
			"failed to load chart (repo: %s, name: %s, version: %s): %w",
			h.Repo,
			h.Ref,
			h.Version,
			err,
		)
	}

	h.chart = c
	return h.chart, nil
}

// createChartPathOptions creates ChartPathOptions for a Source.
// Creates a fresh registry client and install instance per call.
// This allows each Source to have different credential/authentication requirements.
func createChartPathOptions(source *Source) (action.ChartPathOptions, error) {
	c, err := registry.NewClient()
	if err != nil {
		return action.ChartPathOptions{}, fmt.Errorf("unable to create registry client: %w", err)
	}

	install := action.NewInstall(&action.Configuration{
		RegistryClient: c,
	})

	opt := install.ChartPathOptions
	opt.RepoURL = source.Repo
	opt.Version = source.Version

	return opt, nil
}

// addSourceAnnotations adds source tracking annotations to a slice of unstructured objects.
// Only modifies objects if source annotations are enabled in renderer options.
func (r *Renderer) addSourceAnnotations(objects []unstructured.Unstructured, chartID, fileName string) {
	if !r.opts.SourceAnnotations {
		return
	}

	for i := range objects {
		annotations := objects[i].GetAnnotations()
		if annotations == nil {
			annotations = make(map[string]string)
		}

		annotations[types.AnnotationSourceType] = rendererType
		annotations[types.AnnotationSourcePath] = chartID
		annotations[types.AnnotationSourceFile] = fileName

		objects[i].SetAnnotations(annotations)
	}
}

// processCRDs extracts and processes CRD objects from a Helm chart.
// Returns the decoded unstructured objects with source annotations added if enabled.
func (r *Renderer) processCRDs(helmChart *chart.Chart, holder *sourceHolder) ([]unstructured.Unstructured, error) {
	result := make([]unstructured.Unstructured, 0)

	for _, crd := range helmChart.CRDObjects() {
		objects, err := k8s.DecodeYAML(crd.File.Data)
		if err != nil {
			return nil, fmt.Errorf("failed to decode CRD %s: %w", crd.Name, err)
		}

		r.addSourceAnnotations(objects, holder.Identifier(), crd.Name)
		result = append(result, objects...)
	}

	return result, nil
}

// processRenderedTemplates extracts and processes rendered template files from Helm output.
// Filters for YAML files, decodes them, and adds source annotations if enabled.
func (r *Renderer) processRenderedTemplates(
	files map[string]string,
	holder *sourceHolder,
) ([]unstructured.Unstructured, error) {
	result := make([]unstructured.Unstructured, 0)

	for k, v := range files {
		if !isYAMLFile(k) {
			continue
		}

		objects, err := k8s.DecodeYAML([]byte(v))
		if err != nil {
			return nil, fmt.Errorf("failed to decode %s: %w", k, err)
		}

		r.addSourceAnnotations(objects, holder.Identifier(), k)
		result = append(result, objects...)
	}

	return result, nil
}
