package variants

import (
	"context"
	"strings"

	"github.com/goliatone/go-variants/pkg/activity"
)

// Actor identifies who drives a session in emitted activity.
type Actor struct {
	ActorID  string
	UserID   string
	TenantID string
}

// WithActor attributes emitted activity to actor.
func WithActor(actor Actor) SessionOption {
	return func(cfg *sessionConfig) {
		cfg.actor = actor
	}
}

// WithActivityHooks attaches activity hooks to the session. Nil entries are
// dropped.
func WithActivityHooks(hooks activity.Hooks) SessionOption {
	compact := hooks.Compact()
	return func(cfg *sessionConfig) {
		cfg.activityHooks = compact
	}
}

// WithActivityChannel overrides the channel stamped on emitted events.
func WithActivityChannel(channel string) SessionOption {
	return func(cfg *sessionConfig) {
		cfg.activityChannel = strings.TrimSpace(channel)
	}
}

// ActivityHooks returns a copy of the configured hooks.
func (s *Session) ActivityHooks() activity.Hooks {
	if s == nil {
		return nil
	}
	return s.cfg.activityHooks.Compact()
}

func newSessionEmitter(cfg sessionConfig) *activity.Emitter {
	return activity.NewEmitter(cfg.activityHooks, activity.Config{
		Enabled:  len(cfg.activityHooks) > 0,
		Channel:  cfg.activityChannel,
		ActorID:  cfg.actor.ActorID,
		UserID:   cfg.actor.UserID,
		TenantID: cfg.actor.TenantID,
	})
}

func (s *Session) eventInput(product, variant string, selection Selection) activity.SelectionEventInput {
	return activity.SelectionEventInput{
		SessionID: s.id,
		ProductID: product,
		VariantID: variant,
		Selection: selection,
	}
}

// emit delivers event to the hooks. Hook failures never affect session state;
// they are reported to the session logger.
func (s *Session) emit(ctx context.Context, event activity.Event) {
	if !s.emitter.Enabled() {
		return
	}
	if err := s.emitter.Emit(ctx, event); err != nil {
		s.cfg.logger.LogSession(SessionLogEvent{
			SessionID: s.id,
			Action:    SessionActionActivity,
			ProductID: event.ProductID,
			Err:       err,
		})
	}
}
