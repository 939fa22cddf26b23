// Package jq transforms objects using JQ expressions.
package jq

import (
	"context"
	"errors"
	"fmt"

	"k8s.io/apimachinery/pkg/apis/meta/v1/unstructured"
	"k8s.io/apimachinery/pkg/runtime"

	"github.com/soad-platform/soad-deploy/pkg/transformer"
	"github.com/soad-platform/soad-deploy/pkg/types"
	"github.com/soad-platform/soad-deploy/pkg/util/jq"
)

// ErrJqMustReturnObject is returned when a JQ expression doesn't return an object.
var ErrJqMustReturnObject = errors.New("jq expression must return an object")

// Transform creates a new JQ transformer with the given expression and options.
func Transform(expression string, opts ...jq.Option) (types.Transformer, error) {
	engine, err := jq.NewEngine(expression, opts...)
	if err != nil {
		return nil, fmt.Errorf("error creating jq engine: %w", err)
	}

	return func(_ context.Context, obj unstructured.Unstructured) (unstructured.Unstructured, error) {
		v, err := engine.Run(obj.Object)
		if err != nil {
			return unstructured.Unstructured{}, transformer.Wrap(obj, fmt.Errorf("error executing jq expression: %w", err))
		}

		ret := unstructured.Unstructured{}

		switch v := v.(type) {
		case map[string]any:
			data, err := runtime.DefaultUnstructuredConverter.ToUnstructured(&v)
			if err != nil {
				return ret, transformer.Wrap(obj, fmt.Errorf("failed to convert jq result to unstructured: %w", err))
			}

			ret.SetUnstructuredContent(data)

			return ret, nil
		default:
			return ret, transformer.Wrap(obj, fmt.Errorf("%w, got %T", ErrJqMustReturnObject, v))
		}
	}, nil
}
