//go:build !js_eval

package variants

// NewJSEvaluator returns an engine whose Compile fails with
// ErrEngineUnavailable; build with -tags js_eval for the goja engine.
func NewJSEvaluator(opts ...EvaluatorOption) Evaluator {
	_ = applyEvaluatorOptions(opts)
	return jsUnavailable{}
}

type jsUnavailable struct{}

func (jsUnavailable) Engine() string {
	return EngineJS
}

func (jsUnavailable) Compile(expr string) (CompiledRule, error) {
	return nil, ruleError(EngineJS, expr, "", ErrEngineUnavailable)
}
