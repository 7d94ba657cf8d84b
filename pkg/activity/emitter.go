package activity

import (
	"context"
	"strings"
)

// DefaultChannel is stamped on events that do not name a channel.
const DefaultChannel = "variants"

// Config holds the defaults an Emitter applies to every event. Actor fields
// only fill in events that leave them empty.
type Config struct {
	Enabled  bool
	Channel  string
	ActorID  string
	UserID   string
	TenantID string
}

// Emitter delivers session events to hooks after applying Config defaults.
type Emitter struct {
	hooks    Hooks
	enabled  bool
	defaults Event
}

// NewEmitter builds an emitter. It stays disabled unless cfg.Enabled is set
// and at least one non-nil hook is supplied.
func NewEmitter(hooks Hooks, cfg Config) *Emitter {
	channel := strings.TrimSpace(cfg.Channel)
	if channel == "" {
		channel = DefaultChannel
	}
	compact := hooks.Compact()
	return &Emitter{
		hooks:   compact,
		enabled: cfg.Enabled && len(compact) > 0,
		defaults: Event{
			Channel:  channel,
			ActorID:  strings.TrimSpace(cfg.ActorID),
			UserID:   strings.TrimSpace(cfg.UserID),
			TenantID: strings.TrimSpace(cfg.TenantID),
		},
	}
}

// Enabled reports whether Emit will reach any hook.
func (e *Emitter) Enabled() bool {
	return e != nil && e.enabled
}

// Emit fills the channel and actor defaults and notifies the hooks.
func (e *Emitter) Emit(ctx context.Context, event Event) error {
	if !e.Enabled() {
		return nil
	}
	fill(&event.Channel, e.defaults.Channel)
	fill(&event.ActorID, e.defaults.ActorID)
	fill(&event.UserID, e.defaults.UserID)
	fill(&event.TenantID, e.defaults.TenantID)
	return e.hooks.Notify(ctx, event)
}

func fill(field *string, fallback string) {
	if strings.TrimSpace(*field) == "" {
		*field = fallback
	}
}
