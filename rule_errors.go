package variants

import (
	"errors"
	"fmt"
)

// RuleError reports an option rule that failed to compile or evaluate, or
// that produced something other than a bool. OptionID is empty for compile
// failures.
type RuleError struct {
	Engine   string
	Expr     string
	OptionID string
	Err      error
}

func (e *RuleError) Error() string {
	if e == nil {
		return "<nil>"
	}
	stage := "compile"
	if e.OptionID != "" {
		stage = "option " + e.OptionID
	}
	return fmt.Sprintf("variants: %s rule %q (%s): %v", e.Engine, e.Expr, stage, e.Err)
}

func (e *RuleError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// ruleError fills missing fields on an existing RuleError instead of nesting
// a second one.
func ruleError(engine, expr, optionID string, err error) error {
	if err == nil {
		return nil
	}
	var existing *RuleError
	if errors.As(err, &existing) {
		if existing.Engine == "" {
			existing.Engine = engine
		}
		if existing.Expr == "" {
			existing.Expr = expr
		}
		if existing.OptionID == "" {
			existing.OptionID = optionID
		}
		return existing
	}
	return &RuleError{
		Engine:   engine,
		Expr:     expr,
		OptionID: optionID,
		Err:      err,
	}
}
