package activity

import (
	"sort"
	"strings"
	"time"
)

const (
	VerbSessionLoaded     = "variant.session.loaded"
	VerbSelectionUpdated  = "variant.selection.updated"
	VerbVariantResolved   = "variant.resolved"
	VerbSelectionRejected = "variant.selection.unresolved"
	VerbSlotSynced        = "variant.slot.synced"
	VerbCartAddRequested  = "cart.add.requested"
	VerbCartAddSucceeded  = "cart.add.succeeded"
	VerbCartAddFailed     = "cart.add.failed"
)

// SelectionEventInput describes the common fields of variant session events.
type SelectionEventInput struct {
	ActorID        string
	UserID         string
	TenantID       string
	SessionID      string
	ProductID      string
	VariantID      string
	OptionID       string
	OldValue       string
	NewValue       string
	Selection      map[string]string
	Quantity       int
	Channel        string
	DefinitionCode string
	Metadata       map[string]any
	Err            error
	OccurredAt     time.Time
}

// BuildSessionLoadedEvent records a product being loaded into a session.
func BuildSessionLoadedEvent(input SelectionEventInput) Event {
	return buildSelectionEvent(VerbSessionLoaded, ObjectProduct, input.ProductID, input)
}

// BuildSelectionUpdatedEvent records a single option change.
func BuildSelectionUpdatedEvent(input SelectionEventInput) Event {
	return buildSelectionEvent(VerbSelectionUpdated, ObjectProduct, input.ProductID, input)
}

// BuildResolutionEvent records the outcome of matching the selection: a
// resolved variant, or an unresolvable selection attributed to the product.
func BuildResolutionEvent(input SelectionEventInput) Event {
	if strings.TrimSpace(input.VariantID) == "" {
		return buildSelectionEvent(VerbSelectionRejected, ObjectProduct, input.ProductID, input)
	}
	return buildSelectionEvent(VerbVariantResolved, ObjectVariant, input.VariantID, input)
}

// BuildSlotSyncedEvent records a write to the external variant slot. An empty
// VariantID means the slot was cleared.
func BuildSlotSyncedEvent(input SelectionEventInput) Event {
	return buildSelectionEvent(VerbSlotSynced, ObjectProduct, input.ProductID, input)
}

// BuildCartAddEvent records an add-to-cart attempt. The verb follows the
// outcome: requested when err is nil and done is false, succeeded or failed
// afterwards.
func BuildCartAddEvent(input SelectionEventInput, done bool) Event {
	verb := VerbCartAddRequested
	switch {
	case input.Err != nil:
		verb = VerbCartAddFailed
	case done:
		verb = VerbCartAddSucceeded
	}
	return buildSelectionEvent(verb, ObjectVariant, input.VariantID, input)
}

func buildSelectionEvent(verb, objectType, objectID string, input SelectionEventInput) Event {
	metadata := cloneMap(input.Metadata)
	set := func(key string, value any) {
		metadata = ensureMetadata(metadata)
		metadata[key] = value
	}
	if input.VariantID != "" {
		set("variant_id", input.VariantID)
	}
	if input.OptionID != "" {
		set("option_id", input.OptionID)
		set("old_value", input.OldValue)
		set("new_value", input.NewValue)
	}
	if len(input.Selection) > 0 {
		set("selection", encodeSelection(input.Selection))
	}
	if input.Quantity > 0 {
		set("quantity", input.Quantity)
	}
	if input.Err != nil {
		set("error", input.Err.Error())
	}

	objectID = strings.TrimSpace(objectID)
	if objectID == "" {
		objectID = strings.TrimSpace(input.SessionID)
	}
	if objectID == "" {
		objectID = objectType
	}

	return Event{
		Verb:           verb,
		ActorID:        strings.TrimSpace(input.ActorID),
		UserID:         strings.TrimSpace(input.UserID),
		TenantID:       strings.TrimSpace(input.TenantID),
		SessionID:      strings.TrimSpace(input.SessionID),
		ProductID:      strings.TrimSpace(input.ProductID),
		ObjectType:     objectType,
		ObjectID:       objectID,
		Channel:        strings.TrimSpace(input.Channel),
		DefinitionCode: strings.TrimSpace(input.DefinitionCode),
		Metadata:       metadata,
		OccurredAt:     input.OccurredAt,
	}
}

// encodeSelection renders a selection as sorted "option=value" pairs so the
// metadata is stable across map iteration order.
func encodeSelection(selection map[string]string) string {
	keys := make([]string, 0, len(selection))
	for key := range selection {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, key := range keys {
		parts = append(parts, key+"="+selection[key])
	}
	return strings.Join(parts, ",")
}

func ensureMetadata(meta map[string]any) map[string]any {
	if meta == nil {
		return map[string]any{}
	}
	return meta
}
