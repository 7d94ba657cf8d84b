package activity

import (
	"context"
	"sync"
)

// CaptureHook records delivered events for assertions in tests and examples.
type CaptureHook struct {
	Events []Event
	Err    error
	mu     sync.Mutex
}

// Notify records the event and returns Err.
func (h *CaptureHook) Notify(_ context.Context, event Event) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.Events = append(h.Events, NormalizeEvent(event))
	return h.Err
}

// Verbs lists the verbs recorded so far, in delivery order.
func (h *CaptureHook) Verbs() []string {
	h.mu.Lock()
	defer h.mu.Unlock()
	verbs := make([]string, 0, len(h.Events))
	for _, event := range h.Events {
		verbs = append(verbs, event.Verb)
	}
	return verbs
}

// Last returns the most recent event with verb.
func (h *CaptureHook) Last(verb string) (Event, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for i := len(h.Events) - 1; i >= 0; i-- {
		if h.Events[i].Verb == verb {
			return h.Events[i], true
		}
	}
	return Event{}, false
}
