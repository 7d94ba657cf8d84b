// Package hydrate turns loosely typed storefront payloads into typed wire
// structs.
package hydrate

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Stage names the step of Decode that failed.
type Stage string

const (
	StageCopy    Stage = "copy"
	StagePrepare Stage = "prepare"
	StageDecode  Stage = "decode"
	StageCheck   Stage = "check"
)

// Source describes where a payload came from.
type Source struct {
	Name   string
	Handle string
	Region string
}

func (s Source) String() string {
	if s.Handle == "" {
		return "<unknown>"
	}
	return s.Handle
}

// Error wraps a failure with the stage and payload it happened on.
type Error struct {
	Stage  Stage
	Source Source
	Err    error
}

func (e *Error) Error() string {
	return fmt.Sprintf("hydrate: %s %s: %v", e.Stage, e.Source, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// Prepare rewrites the raw payload before decoding. Returning nil keeps the
// payload it was given.
type Prepare func(Source, map[string]any) (map[string]any, error)

// Check validates or completes the decoded value.
type Check[T any] func(Source, *T) error

// Option configures a Decoder.
type Option[T any] func(*Decoder[T])

// Decoder converts payloads into T. It is safe for concurrent use once built.
type Decoder[T any] struct {
	prepare []Prepare
	checks  []Check[T]
	strict  bool
}

// Preparing appends payload rewrites, run in order.
func Preparing[T any](steps ...Prepare) Option[T] {
	return func(d *Decoder[T]) {
		for _, step := range steps {
			if step != nil {
				d.prepare = append(d.prepare, step)
			}
		}
	}
}

// Checking appends checks, run in order after decoding.
func Checking[T any](checks ...Check[T]) Option[T] {
	return func(d *Decoder[T]) {
		for _, check := range checks {
			if check != nil {
				d.checks = append(d.checks, check)
			}
		}
	}
}

// Strict rejects payload keys T does not declare.
func Strict[T any]() Option[T] {
	return func(d *Decoder[T]) {
		d.strict = true
	}
}

func New[T any](opts ...Option[T]) *Decoder[T] {
	d := &Decoder[T]{}
	for _, opt := range opts {
		if opt != nil {
			opt(d)
		}
	}
	return d
}

// Decode converts payload into T. Prepare steps work on a deep copy, so the
// caller's map is never modified.
func (d *Decoder[T]) Decode(src Source, payload map[string]any) (T, error) {
	var out T
	fail := func(stage Stage, err error) (T, error) {
		var zero T
		return zero, &Error{Stage: stage, Source: src, Err: err}
	}

	if payload == nil {
		return fail(StageCopy, fmt.Errorf("payload is nil"))
	}
	raw, err := json.Marshal(payload)
	if err != nil {
		return fail(StageCopy, err)
	}

	if len(d.prepare) > 0 {
		var working map[string]any
		if err := json.Unmarshal(raw, &working); err != nil {
			return fail(StageCopy, err)
		}
		for _, step := range d.prepare {
			next, err := step(src, working)
			if err != nil {
				return fail(StagePrepare, err)
			}
			if next != nil {
				working = next
			}
		}
		if raw, err = json.Marshal(working); err != nil {
			return fail(StagePrepare, err)
		}
	}

	dec := json.NewDecoder(bytes.NewReader(raw))
	if d.strict {
		dec.DisallowUnknownFields()
	}
	if err := dec.Decode(&out); err != nil {
		return fail(StageDecode, err)
	}

	for _, check := range d.checks {
		if err := check(src, &out); err != nil {
			return fail(StageCheck, err)
		}
	}
	return out, nil
}

// Unwrap replaces the payload with payload[key] when that holds an object,
// so {"product": {...}} envelopes decode like bare objects.
func Unwrap(key string) Prepare {
	return func(_ Source, payload map[string]any) (map[string]any, error) {
		if inner, ok := payload[key].(map[string]any); ok {
			return inner, nil
		}
		return nil, nil
	}
}
