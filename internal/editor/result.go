// Package editor derives new segment and audio track lists from old ones.
// Every operation is pure: inputs are never modified and the outcome is
// reported as a Result rather than an error.
package editor

import "fmt"

// Status says whether an edit produced a new value.
type Status int

const (
	Applied Status = iota
	Rejected
)

func (s Status) String() string {
	if s == Applied {
		return "applied"
	}
	return "rejected"
}

// Reason explains why an edit was rejected.
type Reason string

const (
	ReasonNone            Reason = ""
	ReasonNotFound        Reason = "not found"
	ReasonLastSegment     Reason = "last segment"
	ReasonSplitBounds     Reason = "split too close to edge"
	ReasonInvalidDuration Reason = "invalid duration"
	ReasonInvalidOrder    Reason = "invalid order"
	ReasonInvalidValue    Reason = "invalid value"
	ReasonNoChange        Reason = "no change"
)

// Result is the outcome of an edit. Value holds the new list when Status is
// Applied and is nil otherwise. Focus names the item that should become the
// active selection, if the edit created one.
type Result[T any] struct {
	Status Status
	Reason Reason
	Detail string
	Value  T
	Focus  string
}

// OK reports whether the edit was applied.
func (r Result[T]) OK() bool {
	return r.Status == Applied
}

func (r Result[T]) String() string {
	if r.Status == Applied {
		return "applied"
	}
	if r.Detail != "" {
		return fmt.Sprintf("rejected: %s (%s)", r.Reason, r.Detail)
	}
	return fmt.Sprintf("rejected: %s", r.Reason)
}

func applied[T any](v T, focus string) Result[T] {
	return Result[T]{Status: Applied, Value: v, Focus: focus}
}

func rejected[T any](reason Reason, format string, args ...any) Result[T] {
	return Result[T]{Status: Rejected, Reason: reason, Detail: fmt.Sprintf(format, args...)}
}

// Outcome is a Result without its value, for callers that only need to know
// what happened.
type Outcome struct {
	Status Status
	Reason Reason
	Detail string
}

// OK reports whether the edit was applied.
func (o Outcome) OK() bool {
	return o.Status == Applied
}

func (o Outcome) String() string {
	return Result[struct{}]{Status: o.Status, Reason: o.Reason, Detail: o.Detail}.String()
}

// Outcome drops the value from the result.
func (r Result[T]) Outcome() Outcome {
	return Outcome{Status: r.Status, Reason: r.Reason, Detail: r.Detail}
}
