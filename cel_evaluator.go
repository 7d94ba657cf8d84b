package variants

import (
	"fmt"

	celgo "github.com/google/cel-go/cel"
	"github.com/google/cel-go/common/types"
	"github.com/google/cel-go/common/types/ref"
)

type celEvaluator struct {
	cfg evaluatorConfig
}

// NewCELEvaluator constructs a rule engine backed by cel-go. Variables are
// declared with their OptionBinding types, so rules are checked when
// compiled.
func NewCELEvaluator(opts ...EvaluatorOption) Evaluator {
	return &celEvaluator{cfg: applyEvaluatorOptions(opts)}
}

func (e *celEvaluator) Engine() string {
	return EngineCEL
}

func (e *celEvaluator) Compile(expr string) (CompiledRule, error) {
	if expr == "" {
		return nil, ruleError(EngineCEL, expr, "", errRuleExpressionVoid)
	}
	if cached, ok := e.cfg.cached(EngineCEL, expr); ok {
		if program, ok := cached.(celgo.Program); ok {
			return celRule{program: program}, nil
		}
	}

	env, err := e.environment()
	if err != nil {
		return nil, ruleError(EngineCEL, expr, "", err)
	}
	checked, issues := env.Compile(expr)
	if issues != nil && issues.Err() != nil {
		return nil, ruleError(EngineCEL, expr, "", issues.Err())
	}
	if out := checked.OutputType(); !out.IsExactType(celgo.BoolType) && !out.IsExactType(celgo.DynType) {
		return nil, ruleError(EngineCEL, expr, "", fmt.Errorf("rule returns %s, want bool", out))
	}
	program, err := env.Program(checked)
	if err != nil {
		return nil, ruleError(EngineCEL, expr, "", err)
	}
	e.cfg.store(EngineCEL, expr, program)
	return celRule{program: program}, nil
}

func (e *celEvaluator) environment() (*celgo.Env, error) {
	opts := []celgo.EnvOption{
		celgo.Variable("id", celgo.StringType),
		celgo.Variable("title", celgo.StringType),
		celgo.Variable("position", celgo.IntType),
		celgo.Variable("values", celgo.ListType(celgo.StringType)),
		celgo.Variable("labels", celgo.ListType(celgo.StringType)),
		celgo.Variable("product", celgo.MapType(celgo.StringType, celgo.StringType)),
		celgo.Variable("args", celgo.MapType(celgo.StringType, celgo.DynType)),
		celgo.Variable("now", celgo.TimestampType),
	}
	fns := e.cfg.functions
	if fns == nil {
		return celgo.NewEnv(opts...)
	}

	opts = append(opts, celgo.Function("call",
		celgo.Overload("variants_call_string",
			[]*celgo.Type{celgo.StringType},
			celgo.DynType,
			celgo.UnaryBinding(func(name ref.Val) ref.Val {
				return celInvoke(fns, name)
			}),
		),
		celgo.Overload("variants_call_string_dyn",
			[]*celgo.Type{celgo.StringType, celgo.DynType},
			celgo.DynType,
			celgo.BinaryBinding(func(name, arg ref.Val) ref.Val {
				return celInvoke(fns, name, arg)
			}),
		),
	))
	for _, name := range fns.Names() {
		opts = append(opts, celgo.Function(name,
			celgo.Overload(name+"_dyn",
				[]*celgo.Type{celgo.DynType},
				celgo.DynType,
				celgo.UnaryBinding(func(arg ref.Val) ref.Val {
					return celInvoke(fns, types.String(name), arg)
				}),
			),
			celgo.Overload(name+"_dyn_dyn",
				[]*celgo.Type{celgo.DynType, celgo.DynType},
				celgo.DynType,
				celgo.BinaryBinding(func(first, second ref.Val) ref.Val {
					return celInvoke(fns, types.String(name), first, second)
				}),
			),
		))
	}
	return celgo.NewEnv(opts...)
}

type celRule struct {
	program celgo.Program
}

func (r celRule) Evaluate(binding OptionBinding) (any, error) {
	out, _, err := r.program.Eval(binding.vars())
	if err != nil {
		return nil, err
	}
	return out.Value(), nil
}

// celInvoke dispatches to fns; values[0] carries the function name.
func celInvoke(fns *RuleFunctions, values ...ref.Val) ref.Val {
	name, ok := values[0].Value().(string)
	if !ok {
		return types.NewErr("variants: call name must be a string")
	}
	args := make([]any, 0, len(values)-1)
	for _, value := range values[1:] {
		args = append(args, value.Value())
	}
	result, err := fns.Call(name, args...)
	if err != nil {
		return types.NewErr("%s", err.Error())
	}
	if result == nil {
		return types.NullValue
	}
	return types.DefaultTypeAdapter.NativeToValue(result)
}
