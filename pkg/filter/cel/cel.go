// Package cel filters objects using CEL expressions.
//
// The object under evaluation is exposed to the expression as the `object`
// variable, e.g. `object.kind == "Deployment" && object.spec.replicas >= 1`.
package cel

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/cel-go/cel"

	"k8s.io/apimachinery/pkg/apis/meta/v1/unstructured"

	"github.com/soad-platform/soad-deploy/pkg/filter"
	"github.com/soad-platform/soad-deploy/pkg/types"
)

// ErrCelMustReturnBoolean is returned when a CEL expression doesn't evaluate to a boolean.
var ErrCelMustReturnBoolean = errors.New("cel expression must return a boolean")

// Filter creates a new CEL filter with the given expression.
// The expression is compiled once; compilation errors are reported eagerly.
func Filter(expression string) (types.Filter, error) {
	env, err := cel.NewEnv(
		cel.Variable("object", cel.MapType(cel.StringType, cel.DynType)),
	)
	if err != nil {
		return nil, fmt.Errorf("error creating cel environment: %w", err)
	}

	ast, issues := env.Compile(expression)
	if issues != nil && issues.Err() != nil {
		return nil, fmt.Errorf("error compiling cel expression %q: %w", expression, issues.Err())
	}

	prg, err := env.Program(ast)
	if err != nil {
		return nil, fmt.Errorf("error creating cel program: %w", err)
	}

	return func(_ context.Context, obj unstructured.Unstructured) (bool, error) {
		out, _, err := prg.Eval(map[string]any{
			"object": obj.Object,
		})
		if err != nil {
			return false, filter.Wrap(obj, fmt.Errorf("error evaluating cel expression: %w", err))
		}

		b, ok := out.Value().(bool)
		if !ok {
			return false, filter.Wrap(obj, fmt.Errorf("%w, got %T", ErrCelMustReturnBoolean, out.Value()))
		}

		return b, nil
	}, nil
}
