package variants

import (
	exprlang "github.com/expr-lang/expr"
	exprvm "github.com/expr-lang/expr/vm"
)

type exprEvaluator struct {
	cfg evaluatorConfig
}

// NewExprEvaluator constructs the default rule engine, backed by
// expr-lang/expr. Expressions are type-checked against the OptionBinding
// variables and must be boolean; unknown identifiers fail to compile.
func NewExprEvaluator(opts ...EvaluatorOption) Evaluator {
	return &exprEvaluator{cfg: applyEvaluatorOptions(opts)}
}

func (e *exprEvaluator) Engine() string {
	return EngineExpr
}

func (e *exprEvaluator) Compile(expr string) (CompiledRule, error) {
	if expr == "" {
		return nil, ruleError(EngineExpr, expr, "", errRuleExpressionVoid)
	}
	if cached, ok := e.cfg.cached(EngineExpr, expr); ok {
		if program, ok := cached.(*exprvm.Program); ok {
			return exprRule{program: program}, nil
		}
	}

	options := []exprlang.Option{
		exprlang.Env(OptionBinding{}.vars()),
		exprlang.AsBool(),
	}
	if fns := e.cfg.functions; fns != nil {
		options = append(options, exprlang.Function("call", fns.callDispatch))
		for _, name := range fns.Names() {
			options = append(options, exprlang.Function(name, func(params ...any) (any, error) {
				return fns.Call(name, params...)
			}))
		}
	}
	program, err := exprlang.Compile(expr, options...)
	if err != nil {
		return nil, ruleError(EngineExpr, expr, "", err)
	}
	e.cfg.store(EngineExpr, expr, program)
	return exprRule{program: program}, nil
}

type exprRule struct {
	program *exprvm.Program
}

func (r exprRule) Evaluate(binding OptionBinding) (any, error) {
	return exprlang.Run(r.program, binding.vars())
}
