package activity

import (
	"context"
	"errors"
	"fmt"
)

// ActivityHook receives normalized session events.
type ActivityHook interface {
	Notify(ctx context.Context, event Event) error
}

// HookFunc adapts a function to ActivityHook.
type HookFunc func(ctx context.Context, event Event) error

// Notify implements ActivityHook.
func (fn HookFunc) Notify(ctx context.Context, event Event) error {
	if fn == nil {
		return nil
	}
	return fn(ctx, event)
}

// Hooks delivers one event to every hook in order.
type Hooks []ActivityHook

// Compact returns the non-nil hooks, or nil when there are none.
func (h Hooks) Compact() Hooks {
	var out Hooks
	for _, hook := range h {
		if hook != nil {
			out = append(out, hook)
		}
	}
	return out
}

// Notify normalizes event and hands it to every hook. A failing hook does not
// stop delivery to the rest; failures come back joined, each tagged with the
// hook position.
func (h Hooks) Notify(ctx context.Context, event Event) error {
	if len(h) == 0 || !event.Complete() {
		return nil
	}
	if ctx == nil {
		ctx = context.Background()
	}

	normalized := NormalizeEvent(event)
	var errs []error
	for i, hook := range h {
		if hook == nil {
			continue
		}
		if err := hook.Notify(ctx, normalized); err != nil {
			errs = append(errs, fmt.Errorf("activity: hook %d %s: %w", i, normalized.Verb, err))
		}
	}
	return errors.Join(errs...)
}
