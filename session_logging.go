package variants

import "time"

// Session actions reported to SessionLogger.
const (
	SessionActionLoad      = "load"
	SessionActionRefresh   = "refresh"
	SessionActionSelect    = "select"
	SessionActionSync      = "sync"
	SessionActionAddToCart = "add_to_cart"
	SessionActionActivity  = "activity"
)

// SessionLogEvent describes a session state change for logging.
type SessionLogEvent struct {
	SessionID string
	Action    string
	ProductID string
	OptionID  string
	ValueID   string
	VariantID string
	Refusal   Refusal
	Duration  time.Duration
	Err       error
}

// SessionLogger records session events.
type SessionLogger interface {
	LogSession(SessionLogEvent)
}

// SessionLoggerFunc adapts a function to SessionLogger.
type SessionLoggerFunc func(SessionLogEvent)

// LogSession implements SessionLogger.
func (f SessionLoggerFunc) LogSession(event SessionLogEvent) {
	if f != nil {
		f(event)
	}
}

type noopSessionLogger struct{}

func (noopSessionLogger) LogSession(SessionLogEvent) {}

// WithSessionLogger attaches a session logger.
func WithSessionLogger(logger SessionLogger) SessionOption {
	return func(cfg *sessionConfig) {
		if logger == nil {
			cfg.logger = noopSessionLogger{}
			return
		}
		cfg.logger = logger
	}
}
