// Package annotations transforms object annotations.
package annotations

import (
	"context"

	"k8s.io/apimachinery/pkg/apis/meta/v1/unstructured"

	"github.com/soad-platform/soad-deploy/pkg/types"
)

// Set returns a transformer that adds or updates annotations on objects.
func Set(annotationsToApply map[string]string) types.Transformer {
	return func(_ context.Context, obj unstructured.Unstructured) (unstructured.Unstructured, error) {
		values := obj.GetAnnotations()
		if values == nil {
			values = make(map[string]string)
		}

		for k, v := range annotationsToApply {
			values[k] = v
		}

		obj.SetAnnotations(values)

		return obj, nil
	}
}

// Remove returns a transformer that removes specific annotations from objects.
func Remove(keys ...string) types.Transformer {
	return func(_ context.Context, obj unstructured.Unstructured) (unstructured.Unstructured, error) {
		values := obj.GetAnnotations()
		if values == nil {
			return obj, nil
		}

		for _, key := range keys {
			delete(values, key)
		}

		obj.SetAnnotations(values)

		return obj, nil
	}
}
