package catalog

import (
	"fmt"

	"github.com/google/cel-go/cel"

	"github.com/platinummonkey/diplomacy/pkg/plugin"
)

// Selector is a compiled CEL expression over a candidate's descriptor.
// The expression sees id, provider, name, version, description,
// capability, implementation and metadata, and must evaluate to a bool:
//
//	provider == "ProviderABC" && version.startsWith("1.")
type Selector struct {
	expr    string
	program cel.Program
}

var selectorEnv = mustSelectorEnv()

func mustSelectorEnv() *cel.Env {
	env, err := cel.NewEnv(
		cel.Variable("id", cel.StringType),
		cel.Variable("provider", cel.StringType),
		cel.Variable("name", cel.StringType),
		cel.Variable("version", cel.StringType),
		cel.Variable("description", cel.StringType),
		cel.Variable("capability", cel.StringType),
		cel.Variable("implementation", cel.StringType),
		cel.Variable("metadata", cel.MapType(cel.StringType, cel.StringType)),
	)
	if err != nil {
		panic(fmt.Sprintf("catalog: selector environment: %v", err))
	}
	return env
}

// NewSelector compiles expr.
func NewSelector(expr string) (*Selector, error) {
	ast, iss := selectorEnv.Compile(expr)
	if iss.Err() != nil {
		return nil, fmt.Errorf("failed to compile selector %q: %w", expr, iss.Err())
	}
	if !ast.OutputType().IsExactType(cel.BoolType) {
		return nil, fmt.Errorf("selector %q must evaluate to bool, got %s", expr, ast.OutputType())
	}

	prg, err := selectorEnv.Program(ast)
	if err != nil {
		return nil, fmt.Errorf("failed to build selector %q: %w", expr, err)
	}

	return &Selector{expr: expr, program: prg}, nil
}

// String returns the source expression.
func (s *Selector) String() string {
	return s.expr
}

// Match evaluates the selector against d.
func (s *Selector) Match(d plugin.Descriptor) (bool, error) {
	metadata := d.Metadata
	if metadata == nil {
		metadata = map[string]string{}
	}

	out, _, err := s.program.Eval(map[string]any{
		"id":             d.PluginID,
		"provider":       d.Provider,
		"name":           d.Name,
		"version":        d.Version,
		"description":    d.Description,
		"capability":     string(d.Capability),
		"implementation": d.Implementation,
		"metadata":       metadata,
	})
	if err != nil {
		return false, fmt.Errorf("failed to evaluate selector %q: %w", s.expr, err)
	}

	matched, ok := out.Value().(bool)
	if !ok {
		return false, fmt.Errorf("selector %q returned %T", s.expr, out.Value())
	}
	return matched, nil
}
