//go:build js_eval

package variants

import (
	"fmt"

	"github.com/dop251/goja"
)

type jsEvaluator struct {
	cfg evaluatorConfig
}

// NewJSEvaluator constructs a rule engine backed by goja. JavaScript has no
// declared environment, so result types are only checked at evaluation.
func NewJSEvaluator(opts ...EvaluatorOption) Evaluator {
	return &jsEvaluator{cfg: applyEvaluatorOptions(opts)}
}

func (e *jsEvaluator) Engine() string {
	return EngineJS
}

func (e *jsEvaluator) Compile(expr string) (CompiledRule, error) {
	if expr == "" {
		return nil, ruleError(EngineJS, expr, "", errRuleExpressionVoid)
	}
	if cached, ok := e.cfg.cached(EngineJS, expr); ok {
		if program, ok := cached.(*goja.Program); ok {
			return jsRule{program: program, functions: e.cfg.functions}, nil
		}
	}
	program, err := goja.Compile("option-rule", fmt.Sprintf("(function(){ return (%s); })()", expr), true)
	if err != nil {
		return nil, ruleError(EngineJS, expr, "", err)
	}
	e.cfg.store(EngineJS, expr, program)
	return jsRule{program: program, functions: e.cfg.functions}, nil
}

type jsRule struct {
	program   *goja.Program
	functions *RuleFunctions
}

// Evaluate uses a fresh runtime per call; goja runtimes are not safe for
// concurrent use.
func (r jsRule) Evaluate(binding OptionBinding) (any, error) {
	vm := goja.New()
	for key, value := range binding.vars() {
		if err := vm.Set(key, value); err != nil {
			return nil, fmt.Errorf("bind %q: %w", key, err)
		}
	}
	if fns := r.functions; fns != nil {
		if err := vm.Set("call", fns.callDispatch); err != nil {
			return nil, fmt.Errorf("bind call: %w", err)
		}
		for _, name := range fns.Names() {
				fn := func(params ...any) (any, error) {
				return fns.Call(name, params...)
			}
			if err := vm.Set(name, fn); err != nil {
				return nil, fmt.Errorf("bind %q: %w", name, err)
			}
		}
	}
	value, err := vm.RunProgram(r.program)
	if err != nil {
		return nil, err
	}
	return value.Export(), nil
}
