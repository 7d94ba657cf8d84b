package usersink

import (
	"context"
	"strings"
	"time"

	usertypes "github.com/goliatone/go-users/pkg/types"
	"github.com/goliatone/go-variants/pkg/activity"
	"github.com/google/uuid"
)

// Hook forwards variant session activity to a go-users ActivitySink.
type Hook struct {
	Sink usertypes.ActivitySink
	// Now overrides the clock used when an event carries no timestamp.
	Now func() time.Time
}

// Notify converts the event with Record and logs it. Events missing a verb or
// object are dropped silently.
func (h Hook) Notify(ctx context.Context, event activity.Event) error {
	if h.Sink == nil {
		return nil
	}
	record, ok := h.Record(event)
	if !ok {
		return nil
	}
	if ctx == nil {
		ctx = context.Background()
	}
	return h.Sink.Log(ctx, record)
}

// Record maps an activity event onto an ActivityRecord. Non UUID identifiers
// (anonymous shoppers, storefront tenants keyed by handle) are kept in Data
// under actor_ref, user_ref and tenant_ref.
func (h Hook) Record(event activity.Event) (usertypes.ActivityRecord, bool) {
	if !event.Complete() {
		return usertypes.ActivityRecord{}, false
	}
	normalized := activity.NormalizeEvent(event)

	data := cloneMap(normalized.Metadata)
	put := func(key string, value any) {
		if data == nil {
			data = map[string]any{}
		}
		data[key] = value
	}

	record := usertypes.ActivityRecord{
		Verb:       normalized.Verb,
		ObjectType: normalized.ObjectType,
		ObjectID:   normalized.ObjectID,
		Channel:    normalized.Channel,
		OccurredAt: normalized.OccurredAt,
	}
	var ref string
	if record.ActorID, ref = parseUUID(normalized.ActorID); ref != "" {
		put("actor_ref", ref)
	}
	if record.UserID, ref = parseUUID(normalized.UserID); ref != "" {
		put("user_ref", ref)
	}
	if record.TenantID, ref = parseUUID(normalized.TenantID); ref != "" {
		put("tenant_ref", ref)
	}
	if normalized.DefinitionCode != "" {
		put("definition_code", normalized.DefinitionCode)
	}
	if normalized.SessionID != "" {
		put("session_id", normalized.SessionID)
	}
	if normalized.ProductID != "" {
		put("product_id", normalized.ProductID)
	}
	if event.OccurredAt.IsZero() && h.Now != nil {
		record.OccurredAt = h.Now()
	}
	record.Data = data
	return record, true
}

// parseUUID returns the parsed identifier, or uuid.Nil plus the raw value when
// it is not a UUID.
func parseUUID(input string) (uuid.UUID, string) {
	value := strings.TrimSpace(input)
	if value == "" {
		return uuid.Nil, ""
	}
	id, err := uuid.Parse(value)
	if err != nil {
		return uuid.Nil, value
	}
	return id, ""
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
