package variants

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/goliatone/go-variants/pkg/activity"
	"github.com/google/uuid"
)

// Session is the variant resolver for one product view. It owns the shopper's
// selection and quantity; every derived value (resolved variant, validity,
// availability, required gate) is recomputed from the current product and
// selection on each read.
//
// A Session is safe for concurrent use. The cart collaborator and the query
// sync navigator are invoked without holding the session lock.
type Session struct {
	id      string
	cfg     sessionConfig
	emitter *activity.Emitter

	mu          sync.Mutex
	product     Product
	productID   string
	loaded      bool
	selection   Selection
	quantity    Quantity
	initialized bool
	adding      bool

	// syncMu serialises slot writes so the last reflected state is the latest.
	syncMu sync.Mutex
}

// NewSession builds an empty, uninitialized session.
func NewSession(opts ...SessionOption) *Session {
	cfg := applySessionOptions(opts)
	id := cfg.sessionID
	if id == "" {
		id = uuid.NewString()
	}
	return &Session{
		id:        id,
		cfg:       cfg,
		emitter:   newSessionEmitter(cfg),
		selection: Selection{},
		quantity:  MinQuantity,
	}
}

// ID returns the session identifier.
func (s *Session) ID() string {
	return s.id
}

// Load installs product. When its ID differs from the last loaded product (or
// nothing was loaded yet) the selection is initialized:
//
//   - a single variant contributes its full option mapping;
//   - otherwise every option with values contributes its first value;
//   - otherwise the selection stays empty.
//
// Quantity resets to MinQuantity and the session becomes initialized. Loading
// a product with the last seen ID only refreshes the product data and keeps
// the selection. Load reports whether initialization ran.
func (s *Session) Load(ctx context.Context, product Product) bool {
	if ctx == nil {
		ctx = context.Background()
	}
	s.mu.Lock()
	if s.loaded && product.ID == s.productID {
		s.product = product
		variantID := s.resolvedIDLocked()
		s.mu.Unlock()
		s.cfg.logger.LogSession(SessionLogEvent{
			SessionID: s.id,
			Action:    SessionActionRefresh,
			ProductID: product.ID,
			VariantID: variantID,
		})
		s.reflect(ctx)
		return false
	}

	s.product = product
	s.productID = product.ID
	s.loaded = true
	s.selection = initialSelection(product)
	s.quantity = MinQuantity
	s.initialized = true
	selection := s.selection.Clone()
	variantID := s.resolvedIDLocked()
	s.mu.Unlock()

	s.cfg.logger.LogSession(SessionLogEvent{
		SessionID: s.id,
		Action:    SessionActionLoad,
		ProductID: product.ID,
		VariantID: variantID,
	})
	input := s.eventInput(product.ID, variantID, selection)
	s.emit(ctx, activity.BuildSessionLoadedEvent(input))
	s.emit(ctx, activity.BuildResolutionEvent(input))
	s.reflect(ctx)
	return true
}

func initialSelection(product Product) Selection {
	if len(product.Variants) == 1 {
		return product.Variants[0].Options.Clone()
	}
	selection := make(Selection, len(product.Options))
	for _, option := range product.Options {
		if first, ok := option.FirstValue(); ok {
			selection[option.ID] = first.ID
		}
	}
	return selection
}

// SetOptionValue records valueID for optionID, inserting or overwriting. No
// validation happens here; an unknown or empty value simply resolves to no
// variant.
func (s *Session) SetOptionValue(ctx context.Context, optionID, valueID string) {
	if ctx == nil {
		ctx = context.Background()
	}
	s.mu.Lock()
	old, _ := s.selection.Value(optionID)
	s.selection[optionID] = valueID
	productID := s.product.ID
	selection := s.selection.Clone()
	variantID := s.resolvedIDLocked()
	s.mu.Unlock()

	s.cfg.logger.LogSession(SessionLogEvent{
		SessionID: s.id,
		Action:    SessionActionSelect,
		ProductID: productID,
		OptionID:  optionID,
		ValueID:   valueID,
		VariantID: variantID,
	})
	input := s.eventInput(productID, variantID, selection)
	input.OptionID = optionID
	input.OldValue = old
	input.NewValue = valueID
	s.emit(ctx, activity.BuildSelectionUpdatedEvent(input))
	input.OptionID = ""
	s.emit(ctx, activity.BuildResolutionEvent(input))
	s.reflect(ctx)
}

// reflect pushes the current resolution into the query slot.
func (s *Session) reflect(ctx context.Context) {
	if s.cfg.sync == nil {
		return
	}
	s.syncMu.Lock()
	defer s.syncMu.Unlock()

	s.mu.Lock()
	productID := s.product.ID
	variantID := s.resolvedIDLocked()
	s.mu.Unlock()

	if !s.cfg.sync.Reflect(variantID, variantID != "") {
		return
	}
	s.cfg.logger.LogSession(SessionLogEvent{
		SessionID: s.id,
		Action:    SessionActionSync,
		ProductID: productID,
		VariantID: variantID,
	})
	input := s.eventInput(productID, variantID, nil)
	s.emit(ctx, activity.BuildSlotSyncedEvent(input))
}

// Product returns the loaded product.
func (s *Session) Product() Product {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.product
}

// Selection returns a copy of the current selection.
func (s *Session) Selection() Selection {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.selection.Clone()
}

// Quantity returns the requested quantity.
func (s *Session) Quantity() Quantity {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.quantity
}

// IncrementQuantity raises the quantity by one, capped at MaxQuantity.
func (s *Session) IncrementQuantity() Quantity {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.quantity = s.quantity.Increment()
	return s.quantity
}

// DecrementQuantity lowers the quantity by one, floored at MinQuantity.
func (s *Session) DecrementQuantity() Quantity {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.quantity = s.quantity.Decrement()
	return s.quantity
}

// SetQuantity stores n clamped into [MinQuantity, MaxQuantity].
func (s *Session) SetQuantity(n int) Quantity {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.quantity = ClampQuantity(n)
	return s.quantity
}

// ResolvedVariant returns a copy of the variant matching the selection, or nil.
func (s *Session) ResolvedVariant() *Variant {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.resolvedLocked()
}

func (s *Session) resolvedLocked() *Variant {
	found := Resolve(s.product, s.selection)
	if found == nil {
		return nil
	}
	variant := *found
	variant.Options = found.Options.Clone()
	return &variant
}

func (s *Session) resolvedIDLocked() string {
	if found := Resolve(s.product, s.selection); found != nil {
		return found.ID
	}
	return ""
}

// IsValidSelection reports whether the selection resolves to a variant.
func (s *Session) IsValidSelection() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return IsSelectionValid(s.product, s.selection)
}

// Availability evaluates the resolved variant.
func (s *Session) Availability() Availability {
	s.mu.Lock()
	defer s.mu.Unlock()
	return EvaluateAvailability(Resolve(s.product, s.selection))
}

// IsAvailable reports whether the resolved variant can be purchased.
func (s *Session) IsAvailable() bool {
	return s.Availability().Available
}

// RequiredOption returns the mandatory option of the loaded product.
func (s *Session) RequiredOption() (Option, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return RequiredOption(s.product, s.cfg.required)
}

// HasRequiredSelection reports whether the mandatory option, if any, is chosen.
func (s *Session) HasRequiredSelection() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return HasRequiredSelection(s.product, s.selection, s.cfg.required)
}

// IsInitialized reports whether a product has been loaded.
func (s *Session) IsInitialized() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.initialized
}

// IsAdding reports whether an add-to-cart call is in flight.
func (s *Session) IsAdding() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.adding
}

// Gate returns why add-to-cart is closed, or RefusalNone.
func (s *Session) Gate() Refusal {
	s.mu.Lock()
	defer s.mu.Unlock()
	refusal, _ := s.gateLocked()
	return refusal
}

// gateLocked checks, in order: initialization, in-flight add, mandatory
// option, resolution, availability.
func (s *Session) gateLocked() (Refusal, Option) {
	if !s.initialized {
		return RefusalNotInitialized, Option{}
	}
	if s.adding {
		return RefusalAddInFlight, Option{}
	}
	if option, ok := RequiredOption(s.product, s.cfg.required); ok && !s.selection.Chosen(option.ID) {
		return RefusalMissingRequiredSelection, option
	}
	variant := Resolve(s.product, s.selection)
	if variant == nil {
		return RefusalInvalidSelection, Option{}
	}
	if !IsAvailable(variant) {
		return RefusalUnavailable, Option{}
	}
	return RefusalNone, Option{}
}

// State is a point-in-time snapshot of everything a product page renders.
type State struct {
	SessionID            string       `json:"session_id"`
	ProductID            string       `json:"product_id"`
	Selection            Selection    `json:"selection"`
	Variant              *Variant     `json:"variant,omitempty"`
	ValidSelection       bool         `json:"valid_selection"`
	Availability         Availability `json:"availability"`
	RequiredOptionID     string       `json:"required_option_id,omitempty"`
	HasRequiredSelection bool         `json:"has_required_selection"`
	Initialized          bool         `json:"initialized"`
	Adding               bool         `json:"adding"`
	Quantity             Quantity     `json:"quantity"`
	ShowOptionPickers    bool         `json:"show_option_pickers"`
	Slot                 string       `json:"slot,omitempty"`
	Refusal              Refusal      `json:"refusal"`
	ButtonLabel          string       `json:"button_label"`
	Message              string       `json:"message,omitempty"`
}

// State computes a snapshot under a single lock acquisition.
func (s *Session) State() State {
	s.mu.Lock()
	variant := s.resolvedLocked()
	refusal, option := s.gateLocked()
	state := State{
		SessionID:            s.id,
		ProductID:            s.product.ID,
		Selection:            s.selection.Clone(),
		Variant:              variant,
		ValidSelection:       variant != nil,
		Availability:         EvaluateAvailability(variant),
		HasRequiredSelection: HasRequiredSelection(s.product, s.selection, s.cfg.required),
		Initialized:          s.initialized,
		Adding:               s.adding,
		Quantity:             s.quantity,
		ShowOptionPickers:    len(s.product.Variants) > 1,
		Refusal:              refusal,
		ButtonLabel:          refusal.Label(),
	}
	if required, ok := RequiredOption(s.product, s.cfg.required); ok {
		state.RequiredOptionID = required.ID
	}
	s.mu.Unlock()

	if refusal != RefusalNone {
		state.Message = (&RefusalError{Reason: refusal, Option: option}).Message()
	}
	if s.cfg.sync != nil {
		state.Slot, _ = s.cfg.sync.Value()
	}
	return state
}

// Schema describes the loaded product's option pickers, through the
// configured SchemaGenerator when there is one.
func (s *Session) Schema() (SchemaDocument, error) {
	s.mu.Lock()
	product := s.product
	s.mu.Unlock()
	if s.cfg.schema == nil {
		return SelectionSchema(product, s.cfg.required), nil
	}
	return s.cfg.schema.Generate(product, s.cfg.required)
}

// AddToCart hands the resolved variant and quantity to the cart collaborator.
// A closed gate yields a *RefusalError; collaborator failures are wrapped and
// leave selection and quantity untouched. The selection may keep changing
// while the call is in flight, but a second AddToCart is refused until it
// returns.
func (s *Session) AddToCart(ctx context.Context) error {
	if ctx == nil {
		ctx = context.Background()
	}
	s.mu.Lock()
	refusal, option := s.gateLocked()
	productID := s.product.ID
	if refusal != RefusalNone {
		s.mu.Unlock()
		s.cfg.logger.LogSession(SessionLogEvent{
			SessionID: s.id,
			Action:    SessionActionAddToCart,
			ProductID: productID,
			Refusal:   refusal,
		})
		return &RefusalError{Reason: refusal, Option: option}
	}
	if s.cfg.cart == nil {
		s.mu.Unlock()
		return ErrCartNotConfigured
	}
	item := LineItem{
		VariantID:   s.resolvedIDLocked(),
		Quantity:    s.quantity,
		CountryCode: s.cfg.countryCode,
	}
	selection := s.selection.Clone()
	s.adding = true
	s.mu.Unlock()

	input := s.eventInput(productID, item.VariantID, selection)
	input.Quantity = int(item.Quantity)
	s.emit(ctx, activity.BuildCartAddEvent(input, false))

	start := time.Now()
	err := s.cfg.cart.AddToCart(ctx, item)
	duration := time.Since(start)

	s.mu.Lock()
	s.adding = false
	s.mu.Unlock()

	if err != nil {
		err = fmt.Errorf("variants: add variant %s to cart: %w", item.VariantID, err)
	}
	s.cfg.logger.LogSession(SessionLogEvent{
		SessionID: s.id,
		Action:    SessionActionAddToCart,
		ProductID: productID,
		VariantID: item.VariantID,
		Duration:  duration,
		Err:       err,
	})
	input.Err = err
	s.emit(ctx, activity.BuildCartAddEvent(input, true))
	return err
}
