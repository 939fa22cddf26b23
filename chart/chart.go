package chart

import (
	"fmt"
	"io/fs"
	"strings"

	helmchart "helm.sh/helm/v3/pkg/chart"
	"helm.sh/helm/v3/pkg/chart/loader"
)

const chartRoot = "soad"

// Name is the embedded chart name.
const Name = "soad"

// Load parses the embedded platform chart into a helm chart.
func Load() (*helmchart.Chart, error) {
	files := make([]*loader.BufferedFile, 0)

	err := fs.WalkDir(FS, chartRoot, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}

		data, err := fs.ReadFile(FS, path)
		if err != nil {
			return fmt.Errorf("failed to read embedded chart file %s: %w", path, err)
		}

		files = append(files, &loader.BufferedFile{
			Name: strings.TrimPrefix(path, chartRoot+"/"),
			Data: data,
		})

		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to walk embedded chart: %w", err)
	}

	c, err := loader.LoadFiles(files)
	if err != nil {
		return nil, fmt.Errorf("failed to load embedded chart: %w", err)
	}

	return c, nil
}
