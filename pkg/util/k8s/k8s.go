// Package k8s provides helpers for decoding and copying Kubernetes objects.
package k8s

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"

	"k8s.io/apimachinery/pkg/apis/meta/v1/unstructured"
)

// DeepCloneUnstructuredSlice creates a deep copy of a slice of unstructured objects.
// This is necessary because unstructured.Unstructured contains map[string]interface{}
// which needs deep copying to prevent mutations from affecting the original.
func DeepCloneUnstructuredSlice(objects []unstructured.Unstructured) []unstructured.Unstructured {
	if objects == nil {
		return nil
	}

	result := make([]unstructured.Unstructured, len(objects))
	for i, obj := range objects {
		result[i] = *obj.DeepCopy()
	}

	return result
}

// DecodeYAML decodes multi-document YAML content into a slice of unstructured objects.
// Empty documents and documents without a kind are skipped.
func DecodeYAML(content []byte) ([]unstructured.Unstructured, error) {
	results := make([]unstructured.Unstructured, 0)

	yd := yaml.NewDecoder(bytes.NewReader(content))

	docIndex := 0
	for {
		var out map[string]interface{}

		err := yd.Decode(&out)
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}

			return nil, fmt.Errorf("unable to decode YAML document[%d]: %w", docIndex, err)
		}

		docIndex++

		if len(out) == 0 {
			continue
		}

		kind, _ := out["kind"].(string)
		if kind == "" {
			continue
		}

		obj := unstructured.Unstructured{}
		obj.SetUnstructuredContent(normalizeMap(out))

		results = append(results, obj)
	}

	return results, nil
}

// normalizeMap rewrites the decoded YAML tree so every nested value is one of
// the types unstructured.Unstructured expects (map[string]interface{}, []interface{},
// string, int64, float64, bool, nil).
func normalizeMap(in map[string]interface{}) map[string]interface{} {
	out := make(map[string]interface{}, len(in))
	for k, v := range in {
		out[k] = normalizeValue(v)
	}

	return out
}

func normalizeValue(v interface{}) interface{} {
	switch val := v.(type) {
	case map[string]interface{}:
		return normalizeMap(val)
	case []interface{}:
		out := make([]interface{}, len(val))
		for i, item := range val {
			out[i] = normalizeValue(item)
		}
		return out
	case int:
		return int64(val)
	case int32:
		return int64(val)
	default:
		return v
	}
}
