package variants

import (
	"errors"
	"time"
)

var (
	ErrNoEvaluator        = errors.New("variants: evaluator not configured")
	ErrEngineUnavailable  = errors.New("variants: rule engine not compiled in")
	errRuleExpressionVoid = errors.New("expression must not be empty")
)

// Rule engine names.
const (
	EngineExpr = "expr"
	EngineCEL  = "cel"
	EngineJS   = "js"
)

// OptionBinding is what an option rule sees: the option under test, its
// position among the product's options, the product and the rule arguments.
type OptionBinding struct {
	ID       string
	Title    string
	Position int
	Values   []string
	Labels   []string
	Product  map[string]string
	Args     map[string]any
	Now      time.Time
}

// NewOptionBinding describes option as the position-th option of product.
func NewOptionBinding(product Product, option Option, position int) OptionBinding {
	binding := OptionBinding{
		ID:       option.ID,
		Title:    option.Title,
		Position: position,
		Values:   make([]string, 0, len(option.Values)),
		Labels:   make([]string, 0, len(option.Values)),
		Product: map[string]string{
			"id":     product.ID,
			"title":  product.Title,
			"handle": product.Handle,
		},
	}
	for _, value := range option.Values {
		binding.Values = append(binding.Values, value.ID)
		binding.Labels = append(binding.Labels, value.Label)
	}
	return binding
}

// vars flattens the binding into expression variables. Every key is always
// present so engines with declared environments can type-check against it.
func (b OptionBinding) vars() map[string]any {
	values, labels := b.Values, b.Labels
	if values == nil {
		values = []string{}
	}
	if labels == nil {
		labels = []string{}
	}
	product := b.Product
	if product == nil {
		product = map[string]string{}
	}
	args := b.Args
	if args == nil {
		args = map[string]any{}
	}
	now := b.Now
	if now.IsZero() {
		now = time.Now()
	}
	return map[string]any{
		"id":       b.ID,
		"title":    b.Title,
		"position": b.Position,
		"values":   values,
		"labels":   labels,
		"product":  product,
		"args":     args,
		"now":      now,
	}
}

// Evaluator compiles option rule expressions for one engine.
type Evaluator interface {
	Engine() string
	Compile(expr string) (CompiledRule, error)
}

// CompiledRule evaluates a compiled expression against one option.
type CompiledRule interface {
	Evaluate(binding OptionBinding) (any, error)
}

// EvaluatorOption configures any of the built-in engines.
type EvaluatorOption func(*evaluatorConfig)

type evaluatorConfig struct {
	cache     ProgramCache
	functions *RuleFunctions
}

// EvaluatorWithProgramCache stores compiled programs in cache, keyed by
// engine and expression.
func EvaluatorWithProgramCache(cache ProgramCache) EvaluatorOption {
	return func(cfg *evaluatorConfig) {
		cfg.cache = cache
	}
}

// EvaluatorWithFunctions exposes fns to expressions, both by name and
// through call("name", args...).
func EvaluatorWithFunctions(fns *RuleFunctions) EvaluatorOption {
	return func(cfg *evaluatorConfig) {
		cfg.functions = fns.Clone()
	}
}

func applyEvaluatorOptions(opts []EvaluatorOption) evaluatorConfig {
	cfg := evaluatorConfig{}
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}
	return cfg
}

func (cfg evaluatorConfig) cached(engine, expr string) (any, bool) {
	if cfg.cache == nil {
		return nil, false
	}
	return cfg.cache.Get(programKey(engine, expr))
}

func (cfg evaluatorConfig) store(engine, expr string, program any) {
	if cfg.cache != nil {
		cfg.cache.Set(programKey(engine, expr), program)
	}
}

func programKey(engine, expr string) string {
	return engine + ":" + expr
}
