package variants

import (
	"strings"

	"github.com/goliatone/go-variants/pkg/activity"
)

// SessionOption configures a Session.
type SessionOption func(*sessionConfig)

type sessionConfig struct {
	sessionID       string
	required        OptionPredicate
	sync            *QuerySync
	cart            CartAdder
	countryCode     string
	logger          SessionLogger
	activityHooks   activity.Hooks
	activityChannel string
	actor           Actor
	schema          SchemaGenerator
}

func applySessionOptions(opts []SessionOption) sessionConfig {
	cfg := sessionConfig{}
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}
	if cfg.logger == nil {
		cfg.logger = noopSessionLogger{}
	}
	return cfg
}

// WithSessionID overrides the generated session identifier.
func WithSessionID(id string) SessionOption {
	return func(cfg *sessionConfig) {
		cfg.sessionID = strings.TrimSpace(id)
	}
}

// WithRequiredOption designates the mandatory option. Without it every
// selection passes the required-selection gate.
func WithRequiredOption(predicate OptionPredicate) SessionOption {
	return func(cfg *sessionConfig) {
		cfg.required = predicate
	}
}

// WithOptionRule designates the mandatory option through a compiled rule.
func WithOptionRule(rule *OptionRule) SessionOption {
	return func(cfg *sessionConfig) {
		if rule == nil {
			cfg.required = nil
			return
		}
		cfg.required = rule.Predicate()
	}
}

// WithQuerySync mirrors the resolved variant into sync after every change.
func WithQuerySync(sync *QuerySync) SessionOption {
	return func(cfg *sessionConfig) {
		cfg.sync = sync
	}
}

// WithCart sets the collaborator used by AddToCart.
func WithCart(cart CartAdder) SessionOption {
	return func(cfg *sessionConfig) {
		cfg.cart = cart
	}
}

// WithCountryCode sets the region forwarded with every line item.
func WithCountryCode(code string) SessionOption {
	return func(cfg *sessionConfig) {
		cfg.countryCode = strings.ToLower(strings.TrimSpace(code))
	}
}

// WithSchemaGenerator replaces the JSON schema returned by Session.Schema.
func WithSchemaGenerator(generator SchemaGenerator) SessionOption {
	return func(cfg *sessionConfig) {
		cfg.schema = generator
	}
}
