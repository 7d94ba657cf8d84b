package variants

import "time"

// RuleLogEvent describes one option rule evaluation.
type RuleLogEvent struct {
	Engine    string
	Expr      string
	ProductID string
	OptionID  string
	Matched   bool
	Result    any
	Duration  time.Duration
	Err       error
}

// RuleLogger records rule evaluations.
type RuleLogger interface {
	LogRule(RuleLogEvent)
}

// RuleLoggerFunc adapts a function to RuleLogger.
type RuleLoggerFunc func(RuleLogEvent)

// LogRule implements RuleLogger.
func (f RuleLoggerFunc) LogRule(event RuleLogEvent) {
	if f != nil {
		f(event)
	}
}

type noopRuleLogger struct{}

func (noopRuleLogger) LogRule(RuleLogEvent) {}

// WithRuleLogger attaches a logger to the rule. Nil restores the no-op
// logger.
func WithRuleLogger(logger RuleLogger) RuleOption {
	return func(cfg *ruleConfig) {
		if logger == nil {
			cfg.logger = noopRuleLogger{}
			return
		}
		cfg.logger = logger
	}
}
