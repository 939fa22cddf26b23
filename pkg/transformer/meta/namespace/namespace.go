// Package namespace transforms object namespaces.
package namespace

import (
	"context"

	"k8s.io/apimachinery/pkg/apis/meta/v1/unstructured"

	"github.com/soad-platform/soad-deploy/pkg/types"
)

// Set returns a transformer that sets the namespace on objects.
// Cluster-scoped objects are left untouched only if overwrite is handled by
// the caller; this transformer applies the namespace unconditionally.
func Set(namespace string) types.Transformer {
	return func(_ context.Context, obj unstructured.Unstructured) (unstructured.Unstructured, error) {
		obj.SetNamespace(namespace)

		return obj, nil
	}
}

// SetIfEmpty returns a transformer that sets the namespace only on objects
// that do not already have one.
func SetIfEmpty(namespace string) types.Transformer {
	return func(_ context.Context, obj unstructured.Unstructured) (unstructured.Unstructured, error) {
		if obj.GetNamespace() == "" {
			obj.SetNamespace(namespace)
		}

		return obj, nil
	}
}
