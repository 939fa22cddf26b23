// Package jq filters objects using JQ expressions.
package jq

import (
	"context"
	"errors"
	"fmt"

	"k8s.io/apimachinery/pkg/apis/meta/v1/unstructured"

	"github.com/soad-platform/soad-deploy/pkg/filter"
	"github.com/soad-platform/soad-deploy/pkg/types"
	"github.com/soad-platform/soad-deploy/pkg/util/jq"
)

// ErrJqMustReturnBoolean is returned when a JQ expression doesn't return a boolean.
var ErrJqMustReturnBoolean = errors.New("jq expression must return a boolean")

// Filter creates a new JQ filter with the given expression and options.
// The expression must evaluate to a boolean, e.g. `.kind == "Deployment"`.
func Filter(expression string, opts ...jq.Option) (types.Filter, error) {
	engine, err := jq.NewEngine(expression, opts...)
	if err != nil {
		return nil, fmt.Errorf("error creating jq engine: %w", err)
	}

	return func(_ context.Context, obj unstructured.Unstructured) (bool, error) {
		v, err := engine.Run(obj.Object)
		if err != nil {
			return false, filter.Wrap(obj, fmt.Errorf("error executing jq expression: %w", err))
		}

		b, ok := v.(bool)
		if !ok {
			return false, filter.Wrap(obj, fmt.Errorf("%w, got %T", ErrJqMustReturnBoolean, v))
		}

		return b, nil
	}, nil
}
