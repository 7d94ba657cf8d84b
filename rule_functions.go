package variants

import (
	"fmt"
	"regexp"
	"sort"
	"strings"
)

// RuleFunction is a helper callable from option rule expressions.
type RuleFunction func(args ...any) (any, error)

// RuleFunctions is a set of helpers keyed by lowercased name. The zero value
// is empty and ready to use. Sets are copied into evaluators, so registering
// after an evaluator was built does not affect it.
type RuleFunctions struct {
	fns map[string]RuleFunction
}

var ruleFunctionName = regexp.MustCompile(`^[a-z_][a-z0-9_]*$`)

// reservedRuleNames are the binding variables plus call.
var reservedRuleNames = map[string]struct{}{
	"call": {}, "id": {}, "title": {}, "position": {},
	"values": {}, "labels": {}, "product": {}, "args": {}, "now": {},
}

// NewRuleFunctions constructs an empty set.
func NewRuleFunctions() *RuleFunctions {
	return &RuleFunctions{}
}

// Register adds fn under name. Names must be identifiers, unique ignoring
// case, and may not shadow a binding variable or call.
func (f *RuleFunctions) Register(name string, fn RuleFunction) error {
	key := strings.ToLower(strings.TrimSpace(name))
	switch {
	case fn == nil:
		return fmt.Errorf("variants: rule function %q is nil", name)
	case !ruleFunctionName.MatchString(key):
		return fmt.Errorf("variants: rule function name %q is not an identifier", name)
	}
	if _, reserved := reservedRuleNames[key]; reserved {
		return fmt.Errorf("variants: rule function name %q is reserved", name)
	}
	if _, exists := f.fns[key]; exists {
		return fmt.Errorf("variants: rule function %q already registered", name)
	}
	if f.fns == nil {
		f.fns = make(map[string]RuleFunction)
	}
	f.fns[key] = fn
	return nil
}

// Clone copies the set. A nil set clones to nil.
func (f *RuleFunctions) Clone() *RuleFunctions {
	if f == nil {
		return nil
	}
	clone := &RuleFunctions{fns: make(map[string]RuleFunction, len(f.fns))}
	for name, fn := range f.fns {
		clone.fns[name] = fn
	}
	return clone
}

// Call runs the helper registered under name.
func (f *RuleFunctions) Call(name string, args ...any) (any, error) {
	var fn RuleFunction
	if f != nil {
		fn = f.fns[strings.ToLower(name)]
	}
	if fn == nil {
		return nil, fmt.Errorf("variants: rule function %q not registered", name)
	}
	return fn(args...)
}

// Names lists the registered names in order.
func (f *RuleFunctions) Names() []string {
	if f == nil {
		return nil
	}
	names := make([]string, 0, len(f.fns))
	for name := range f.fns {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// callDispatch implements call("name", args...) on top of the set.
func (f *RuleFunctions) callDispatch(params ...any) (any, error) {
	if len(params) == 0 {
		return nil, fmt.Errorf("variants: call requires a function name")
	}
	name, ok := params[0].(string)
	if !ok {
		return nil, fmt.Errorf("variants: call name must be a string, got %T", params[0])
	}
	return f.Call(name, params[1:]...)
}
