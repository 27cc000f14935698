package schema

import (
	"fmt"
	"sync"

	"github.com/google/cel-go/cel"
)

// Rule is a compiled per-field validation expression. The expression sees a
// single variable `value` holding the coerced field value and must evaluate
// to a boolean, e.g. `value >= 0.0 && value < 1000000.0` or `value.size() <= 13`.
type Rule struct {
	source  string
	program cel.Program
}

var (
	ruleEnvOnce sync.Once
	ruleEnv     *cel.Env
	ruleEnvErr  error
)

func env() (*cel.Env, error) {
	ruleEnvOnce.Do(func() {
		ruleEnv, ruleEnvErr = cel.NewEnv(
			cel.Variable("value", cel.DynType),
		)
	})
	return ruleEnv, ruleEnvErr
}

// CompileRule compiles a validation expression. Called at field-definition
// time so an operator gets the syntax error immediately, not at first write.
func CompileRule(expr string) (*Rule, error) {
	e, err := env()
	if err != nil {
		return nil, fmt.Errorf("cel environment: %w", err)
	}

	ast, issues := e.Compile(expr)
	if issues != nil && issues.Err() != nil {
		return nil, fmt.Errorf("compile rule: %w", issues.Err())
	}
	if ast.OutputType() != cel.BoolType && ast.OutputType() != cel.DynType {
		return nil, fmt.Errorf("rule must evaluate to a boolean, got %s", ast.OutputType())
	}

	program, err := e.Program(ast)
	if err != nil {
		return nil, fmt.Errorf("build rule program: %w", err)
	}

	return &Rule{source: expr, program: program}, nil
}

// Eval runs the rule against a coerced value.
func (r *Rule) Eval(value any) (bool, error) {
	out, _, err := r.program.Eval(map[string]any{"value": value})
	if err != nil {
		return false, fmt.Errorf("eval rule %q: %w", r.source, err)
	}
	ok, isBool := out.Value().(bool)
	if !isBool {
		return false, fmt.Errorf("rule %q returned non-boolean %T", r.source, out.Value())
	}
	return ok, nil
}

// Source returns the original expression text.
func (r *Rule) Source() string {
	return r.source
}
