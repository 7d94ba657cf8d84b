package variants

import (
	"fmt"
	"time"
)

// RuleOption configures an OptionRule.
type RuleOption func(*ruleConfig)

type ruleConfig struct {
	evaluator Evaluator
	cache     ProgramCache
	functions *RuleFunctions
	logger    RuleLogger
	args      map[string]any
	now       func() time.Time
	err       error
}

func applyRuleOptions(opts []RuleOption) ruleConfig {
	cfg := ruleConfig{}
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}
	if cfg.logger == nil {
		cfg.logger = noopRuleLogger{}
	}
	if cfg.now == nil {
		cfg.now = time.Now
	}
	return cfg
}

// WithEvaluator selects the engine used to compile the rule. Without one the
// expr engine is built from the rule's program cache and functions; an
// explicit engine brings its own.
func WithEvaluator(e Evaluator) RuleOption {
	return func(cfg *ruleConfig) {
		cfg.evaluator = e
	}
}

// WithProgramCache shares compiled programs between rules.
func WithProgramCache(cache ProgramCache) RuleOption {
	return func(cfg *ruleConfig) {
		cfg.cache = cache
	}
}

// WithRuleArgs exposes static arguments to the expression as args.
func WithRuleArgs(args map[string]any) RuleOption {
	return func(cfg *ruleConfig) {
		cfg.args = copyArgs(args)
	}
}

// WithRuleClock overrides the value bound to now.
func WithRuleClock(now func() time.Time) RuleOption {
	return func(cfg *ruleConfig) {
		cfg.now = now
	}
}

// WithRuleFunctions exposes fns to the default engine.
func WithRuleFunctions(fns *RuleFunctions) RuleOption {
	return func(cfg *ruleConfig) {
		cfg.functions = fns.Clone()
	}
}

// WithRuleFunction registers one helper for the default engine. A rejected
// registration surfaces from CompileOptionRule.
func WithRuleFunction(name string, fn RuleFunction) RuleOption {
	return func(cfg *ruleConfig) {
		if cfg.functions == nil {
			cfg.functions = NewRuleFunctions()
		}
		if err := cfg.functions.Register(name, fn); err != nil && cfg.err == nil {
			cfg.err = err
		}
	}
}

// OptionRule designates the mandatory option through an expression. The
// expression sees id, title, position, values (value IDs), labels, product
// ({id, title, handle}), args and now, and must produce a bool.
type OptionRule struct {
	expr     string
	engine   string
	compiled CompiledRule
	cfg      ruleConfig
}

// CompileOptionRule compiles expr with the configured engine.
func CompileOptionRule(expr string, opts ...RuleOption) (*OptionRule, error) {
	if expr == "" {
		return nil, fmt.Errorf("variants: rule expression must not be empty")
	}
	cfg := applyRuleOptions(opts)
	if cfg.err != nil {
		return nil, cfg.err
	}
	evaluator := cfg.evaluator
	if evaluator == nil {
		evaluator = NewExprEvaluator(
			EvaluatorWithProgramCache(cfg.cache),
			EvaluatorWithFunctions(cfg.functions),
		)
	}
	compiled, err := evaluator.Compile(expr)
	if err != nil {
		return nil, ruleError(evaluator.Engine(), expr, "", err)
	}
	return &OptionRule{
		expr:     expr,
		engine:   evaluator.Engine(),
		compiled: compiled,
		cfg:      cfg,
	}, nil
}

// Expr returns the source expression.
func (r *OptionRule) Expr() string {
	return r.expr
}

// Engine names the engine the rule was compiled with.
func (r *OptionRule) Engine() string {
	return r.engine
}

// Match evaluates the rule for the position-th option of product.
// Non-boolean results are a *RuleError.
func (r *OptionRule) Match(product Product, option Option, position int) (bool, error) {
	binding := NewOptionBinding(product, option, position)
	binding.Args = copyArgs(r.cfg.args)
	binding.Now = r.cfg.now()

	start := time.Now()
	value, err := r.compiled.Evaluate(binding)
	duration := time.Since(start)

	matched, isBool := value.(bool)
	if err == nil && !isBool {
		err = fmt.Errorf("rule returned %T, want bool", value)
	}
	err = ruleError(r.engine, r.expr, option.ID, err)
	if err != nil {
		matched = false
	}
	r.cfg.logger.LogRule(RuleLogEvent{
		Engine:    r.engine,
		Expr:      r.expr,
		ProductID: product.ID,
		OptionID:  option.ID,
		Matched:   matched,
		Result:    value,
		Duration:  duration,
		Err:       err,
	})
	return matched, err
}

// Predicate adapts the rule to an OptionPredicate. Evaluation errors count as
// "not mandatory" and are reported through the rule logger.
func (r *OptionRule) Predicate() OptionPredicate {
	return func(product Product, option Option) bool {
		matched, err := r.Match(product, option, optionPosition(product, option.ID))
		return err == nil && matched
	}
}

func optionPosition(product Product, optionID string) int {
	for i := range product.Options {
		if product.Options[i].ID == optionID {
			return i
		}
	}
	return -1
}

func copyArgs(origin map[string]any) map[string]any {
	if len(origin) == 0 {
		return nil
	}
	out := make(map[string]any, len(origin))
	for key, value := range origin {
		out[key] = value
	}
	return out
}
