package variants

import (
	"errors"
	"strings"
	"testing"
	"time"
)

type fakeEvaluator struct {
	result any
	err    error
	seen   []OptionBinding
}

func (f *fakeEvaluator) Engine() string { return "fake" }

func (f *fakeEvaluator) Compile(string) (CompiledRule, error) { return f, nil }

func (f *fakeEvaluator) Evaluate(binding OptionBinding) (any, error) {
	f.seen = append(f.seen, binding)
	return f.result, f.err
}

func TestOptionRuleExprDesignatesMandatoryOption(t *testing.T) {
	rule, err := CompileOptionRule(`lower(title) == "color"`)
	if err != nil {
		t.Fatalf("compile: %v", err)
	}
	if rule.Engine() != EngineExpr {
		t.Fatalf("expected default expr engine, got %q", rule.Engine())
	}
	option, ok := RequiredOption(shirtProduct(), rule.Predicate())
	if !ok || option.ID != "opt_color" {
		t.Fatalf("expected color option, got %+v ok=%v", option, ok)
	}
}

func TestOptionRuleSeesPositionValuesAndProduct(t *testing.T) {
	product := shirtProduct()
	cases := []struct {
		expr string
		want string
	}{
		{expr: `position == 1`, want: "opt_size"},
		{expr: `"m" in values`, want: "opt_size"},
		{expr: `"Blue" in labels`, want: "opt_color"},
		{expr: `product.handle == "linen-shirt" && id == "opt_color"`, want: "opt_color"},
		{expr: `args.dimension == title`, want: "opt_size"},
	}
	for _, tc := range cases {
		t.Run(tc.expr, func(t *testing.T) {
			rule, err := CompileOptionRule(tc.expr, WithRuleArgs(map[string]any{"dimension": "Size"}))
			if err != nil {
				t.Fatalf("compile: %v", err)
			}
			option, ok := RequiredOption(product, rule.Predicate())
			if !ok || option.ID != tc.want {
				t.Fatalf("expected %s, got %+v ok=%v", tc.want, option, ok)
			}
		})
	}
}

func TestOptionRuleCELEngine(t *testing.T) {
	rule, err := CompileOptionRule(`title == "Size" && size(values) == 2`, WithEvaluator(NewCELEvaluator()))
	if err != nil {
		t.Fatalf("compile: %v", err)
	}
	if rule.Engine() != EngineCEL {
		t.Fatalf("expected cel engine, got %q", rule.Engine())
	}
	product := shirtProduct()
	matched, err := rule.Match(product, product.Options[1], 1)
	if err != nil {
		t.Fatalf("match: %v", err)
	}
	if !matched {
		t.Fatalf("expected size option to match")
	}
	matched, err = rule.Match(product, product.Options[0], 0)
	if err != nil || matched {
		t.Fatalf("expected color option not to match, got %v err=%v", matched, err)
	}
}

func TestCompileRejectsNonBoolAndUnknownIdentifiers(t *testing.T) {
	cases := []struct {
		name      string
		evaluator Evaluator
		expr      string
	}{
		{name: "expr string result", evaluator: NewExprEvaluator(), expr: `title`},
		{name: "expr unknown identifier", evaluator: NewExprEvaluator(), expr: `colour == "red"`},
		{name: "cel int result", evaluator: NewCELEvaluator(), expr: `position + 1`},
		{name: "cel unknown identifier", evaluator: NewCELEvaluator(), expr: `colour == "red"`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := CompileOptionRule(tc.expr, WithEvaluator(tc.evaluator))
			var ruleErr *RuleError
			if !errors.As(err, &ruleErr) {
				t.Fatalf("expected RuleError, got %v", err)
			}
			if ruleErr.Engine != tc.evaluator.Engine() || ruleErr.Expr != tc.expr || ruleErr.OptionID != "" {
				t.Fatalf("unexpected metadata: %+v", ruleErr)
			}
			if !strings.Contains(err.Error(), "(compile)") {
				t.Fatalf("expected compile stage in message, got %q", err.Error())
			}
		})
	}
}

func TestOptionRuleFunctionsAcrossEngines(t *testing.T) {
	mandatory := func(args ...any) (any, error) {
		if len(args) != 1 {
			return nil, errors.New("want one argument")
		}
		title, _ := args[0].(string)
		return title == "Color", nil
	}

	exprRule, err := CompileOptionRule(`is_mandatory(title)`, WithRuleFunction("is_mandatory", mandatory))
	if err != nil {
		t.Fatalf("compile expr: %v", err)
	}
	if option, ok := RequiredOption(shirtProduct(), exprRule.Predicate()); !ok || option.ID != "opt_color" {
		t.Fatalf("expected expr rule to pick color, got %+v", option)
	}

	fns := NewRuleFunctions()
	if err := fns.Register("Is_Mandatory", mandatory); err != nil {
		t.Fatalf("register: %v", err)
	}
	for _, expr := range []string{`call("is_mandatory", title) == true`, `is_mandatory(title) == true`} {
		celRule, err := CompileOptionRule(expr, WithEvaluator(NewCELEvaluator(EvaluatorWithFunctions(fns))))
		if err != nil {
			t.Fatalf("compile cel %s: %v", expr, err)
		}
		if option, ok := RequiredOption(shirtProduct(), celRule.Predicate()); !ok || option.ID != "opt_color" {
			t.Fatalf("expected cel rule %s to pick color, got %+v", expr, option)
		}
	}
}

func TestWithRuleFunctionRejectionSurfaces(t *testing.T) {
	_, err := CompileOptionRule(`true`, WithRuleFunction("title", func(...any) (any, error) { return true, nil }))
	if err == nil || !strings.Contains(err.Error(), "reserved") {
		t.Fatalf("expected reserved name error, got %v", err)
	}
}

func TestOptionRuleNonBoolResultIsRuleErrorAndLogged(t *testing.T) {
	var events []RuleLogEvent
	fake := &fakeEvaluator{result: "Color"}
	rule, err := CompileOptionRule(`title`,
		WithEvaluator(fake),
		WithRuleLogger(RuleLoggerFunc(func(e RuleLogEvent) {
			events = append(events, e)
		})),
	)
	if err != nil {
		t.Fatalf("compile: %v", err)
	}
	product := shirtProduct()
	_, err = rule.Match(product, product.Options[0], 0)
	var ruleErr *RuleError
	if !errors.As(err, &ruleErr) {
		t.Fatalf("expected RuleError, got %v", err)
	}
	if ruleErr.Engine != "fake" || ruleErr.OptionID != "opt_color" {
		t.Fatalf("unexpected metadata: %+v", ruleErr)
	}
	if !strings.Contains(err.Error(), "want bool") {
		t.Fatalf("expected type complaint, got %q", err.Error())
	}
	if len(events) != 1 || events[0].Err == nil || events[0].ProductID != "prod_shirt" || events[0].Matched {
		t.Fatalf("expected one logged failure, got %+v", events)
	}
	if _, ok := RequiredOption(product, rule.Predicate()); ok {
		t.Fatalf("expected failing rule to designate nothing")
	}
}

func TestOptionRuleEvaluationErrorCarriesOption(t *testing.T) {
	boom := errors.New("boom")
	rule, err := CompileOptionRule(`anything`, WithEvaluator(&fakeEvaluator{err: boom}))
	if err != nil {
		t.Fatalf("compile: %v", err)
	}
	product := shirtProduct()
	_, err = rule.Match(product, product.Options[1], 1)
	if !errors.Is(err, boom) {
		t.Fatalf("expected wrapped cause, got %v", err)
	}
	if !strings.Contains(err.Error(), "option opt_size") {
		t.Fatalf("expected option in message, got %q", err.Error())
	}
}

func TestOptionRuleBindsArgsAndClock(t *testing.T) {
	at := time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)
	args := map[string]any{"dimension": "Size"}
	fake := &fakeEvaluator{result: true}
	rule, err := CompileOptionRule(`x`, WithEvaluator(fake), WithRuleArgs(args), WithRuleClock(func() time.Time { return at }))
	if err != nil {
		t.Fatalf("compile: %v", err)
	}
	args["dimension"] = "changed"

	product := shirtProduct()
	if _, ok := RequiredOption(product, rule.Predicate()); !ok {
		t.Fatalf("expected first option to match")
	}
	binding := fake.seen[0]
	if binding.ID != "opt_color" || binding.Position != 0 || binding.Product["handle"] != "linen-shirt" {
		t.Fatalf("unexpected binding: %+v", binding)
	}
	if binding.Args["dimension"] != "Size" || !binding.Now.Equal(at) {
		t.Fatalf("expected copied args and fixed clock, got %+v", binding)
	}
	if len(binding.Values) != 2 || binding.Values[0] != "red" || binding.Labels[1] != "Blue" {
		t.Fatalf("unexpected values %v labels %v", binding.Values, binding.Labels)
	}
}

func TestCompileOptionRuleRejectsBadInput(t *testing.T) {
	if _, err := CompileOptionRule(""); err == nil {
		t.Fatalf("expected error for empty expression")
	}
	if _, err := CompileOptionRule(`title ==`); err == nil {
		t.Fatalf("expected syntax error")
	}
}

func TestOptionRuleSharesProgramCache(t *testing.T) {
	cache := NewMapProgramCache()
	expr := `title == "Color"`
	if _, err := CompileOptionRule(expr, WithProgramCache(cache)); err != nil {
		t.Fatalf("compile: %v", err)
	}
	if _, ok := cache.Get(programKey(EngineExpr, expr)); !ok {
		t.Fatalf("expected program to be cached under the expr engine")
	}
	if _, err := CompileOptionRule(expr, WithEvaluator(NewCELEvaluator(EvaluatorWithProgramCache(cache)))); err != nil {
		t.Fatalf("compile cel: %v", err)
	}
	if _, ok := cache.Get(programKey(EngineCEL, expr)); !ok {
		t.Fatalf("expected cel program cached separately")
	}
	rule, err := CompileOptionRule(expr, WithProgramCache(cache))
	if err != nil {
		t.Fatalf("compile cached: %v", err)
	}
	if rule.Expr() != expr {
		t.Fatalf("unexpected expression %q", rule.Expr())
	}
}
