package activity

import (
	"context"
	"errors"
	"testing"
)

func TestBuildSelectionUpdatedEventCarriesChange(t *testing.T) {
	meta := map[string]any{"source": "dropdown"}
	input := SelectionEventInput{
		ActorID:   " shopper ",
		SessionID: "sess-1",
		ProductID: "prod_shirt",
		OptionID:  "opt_color",
		OldValue:  "red",
		NewValue:  "blue",
		Selection: map[string]string{"opt_size": "s", "opt_color": "blue"},
		Metadata:  meta,
	}

	event := BuildSelectionUpdatedEvent(input)

	if event.Verb != VerbSelectionUpdated {
		t.Fatalf("expected verb %s got %s", VerbSelectionUpdated, event.Verb)
	}
	if event.ObjectType != ObjectProduct || event.ObjectID != "prod_shirt" {
		t.Fatalf("unexpected object fields: %+v", event)
	}
	if event.SessionID != "sess-1" || event.ProductID != "prod_shirt" {
		t.Fatalf("expected session and product carried, got %+v", event)
	}
	if event.ActorID != "shopper" {
		t.Fatalf("expected trimmed actor, got %q", event.ActorID)
	}
	if event.Metadata["option_id"] != "opt_color" || event.Metadata["old_value"] != "red" || event.Metadata["new_value"] != "blue" {
		t.Fatalf("expected change metadata, got %+v", event.Metadata)
	}
	if event.Metadata["selection"] != "opt_color=blue,opt_size=s" {
		t.Fatalf("expected sorted selection, got %v", event.Metadata["selection"])
	}
	if event.Metadata["source"] != "dropdown" {
		t.Fatalf("expected custom metadata passthrough, got %+v", event.Metadata)
	}
	if _, ok := meta["option_id"]; ok {
		t.Fatalf("expected input metadata untouched")
	}
}

func TestBuildResolutionEventSwitchesOnVariant(t *testing.T) {
	resolved := BuildResolutionEvent(SelectionEventInput{ProductID: "prod_1", VariantID: "var_1"})
	if resolved.Verb != VerbVariantResolved || resolved.ObjectType != ObjectVariant || resolved.ObjectID != "var_1" {
		t.Fatalf("unexpected resolved event: %+v", resolved)
	}

	rejected := BuildResolutionEvent(SelectionEventInput{ProductID: "prod_1"})
	if rejected.Verb != VerbSelectionRejected || rejected.ObjectType != ObjectProduct || rejected.ObjectID != "prod_1" {
		t.Fatalf("unexpected rejected event: %+v", rejected)
	}
}

func TestBuildEventFallsBackToSessionID(t *testing.T) {
	event := BuildSlotSyncedEvent(SelectionEventInput{SessionID: "sess-9"})
	if event.ObjectID != "sess-9" {
		t.Fatalf("expected session fallback, got %q", event.ObjectID)
	}
	event = BuildSlotSyncedEvent(SelectionEventInput{})
	if event.ObjectID != "product" {
		t.Fatalf("expected object type fallback, got %q", event.ObjectID)
	}
}

func TestBuildCartAddEventVerbs(t *testing.T) {
	base := SelectionEventInput{ProductID: "prod_1", VariantID: "var_1", Quantity: 2}

	if got := BuildCartAddEvent(base, false).Verb; got != VerbCartAddRequested {
		t.Fatalf("expected requested, got %s", got)
	}
	if got := BuildCartAddEvent(base, true).Verb; got != VerbCartAddSucceeded {
		t.Fatalf("expected succeeded, got %s", got)
	}
	failed := base
	failed.Err = errors.New("gateway timeout")
	event := BuildCartAddEvent(failed, true)
	if event.Verb != VerbCartAddFailed {
		t.Fatalf("expected failed, got %s", event.Verb)
	}
	if event.Metadata["error"] != "gateway timeout" || event.Metadata["quantity"] != 2 {
		t.Fatalf("unexpected metadata: %+v", event.Metadata)
	}
}

func TestSelectionEventsFlowThroughHooks(t *testing.T) {
	capture := &CaptureHook{}
	emitter := NewEmitter(Hooks{capture}, Config{Enabled: true})

	event := BuildSessionLoadedEvent(SelectionEventInput{ProductID: "prod_1", SessionID: "sess-1"})
	if err := emitter.Emit(context.Background(), event); err != nil {
		t.Fatalf("emit: %v", err)
	}
	if len(capture.Events) != 1 || capture.Events[0].Verb != VerbSessionLoaded {
		t.Fatalf("expected loaded event captured, got %+v", capture.Events)
	}
}
