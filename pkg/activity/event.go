package activity

import (
	"strings"
	"time"
)

// Object types carried by variant session events.
const (
	ObjectProduct = "product"
	ObjectVariant = "variant"
)

// Event is one variant session occurrence delivered to hooks. Identifiers are
// plain strings; sinks that need UUIDs parse them.
type Event struct {
	Verb           string
	ActorID        string
	UserID         string
	TenantID       string
	SessionID      string
	ProductID      string
	ObjectType     string
	ObjectID       string
	Channel        string
	DefinitionCode string
	Metadata       map[string]any
	OccurredAt     time.Time
}

// Complete reports whether the event names a verb and the object it acts on.
// Incomplete events are never delivered.
func (e Event) Complete() bool {
	return strings.TrimSpace(e.Verb) != "" &&
		strings.TrimSpace(e.ObjectType) != "" &&
		strings.TrimSpace(e.ObjectID) != ""
}

// NormalizeEvent trims identifiers, copies metadata and stamps the time when
// the event has none.
func NormalizeEvent(event Event) Event {
	trim := strings.TrimSpace
	event.Verb = trim(event.Verb)
	event.ActorID = trim(event.ActorID)
	event.UserID = trim(event.UserID)
	event.TenantID = trim(event.TenantID)
	event.SessionID = trim(event.SessionID)
	event.ProductID = trim(event.ProductID)
	event.ObjectType = trim(event.ObjectType)
	event.ObjectID = trim(event.ObjectID)
	event.Channel = trim(event.Channel)
	event.DefinitionCode = trim(event.DefinitionCode)
	event.Metadata = cloneMap(event.Metadata)
	if event.OccurredAt.IsZero() {
		event.OccurredAt = time.Now()
	}
	return event
}

func cloneMap(src map[string]any) map[string]any {
	if len(src) == 0 {
		return nil
	}
	dst := make(map[string]any, len(src))
	for key, value := range src {
		dst[key] = value
	}
	return dst
}
