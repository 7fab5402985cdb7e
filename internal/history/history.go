// Package history implements a linear undo/redo stack over immutable values.
package history

// History keeps a present value together with the values that preceded and
// followed it. Values are stored as given; callers must not mutate a value
// after committing it.
type History[T any] struct {
	past    []T
	present T
	future  []T // future[0] is the next value Redo restores
	limit   int
}

// Option configures a History.
type Option func(*options)

type options struct {
	limit int
}

// WithLimit caps the number of undo steps retained. Zero or negative means
// unlimited.
func WithLimit(n int) Option {
	return func(o *options) {
		o.limit = n
	}
}

// New returns a history whose present is initial and whose past and future
// are empty.
func New[T any](initial T, opts ...Option) *History[T] {
	var o options
	for _, opt := range opts {
		opt(&o)
	}
	return &History[T]{present: initial, limit: o.limit}
}

// Present returns the current value.
func (h *History[T]) Present() T {
	return h.present
}

// Commit pushes the present onto the past, makes next the present and
// discards every redo entry.
func (h *History[T]) Commit(next T) {
	h.past = append(h.past, h.present)
	if h.limit > 0 && len(h.past) > h.limit {
		drop := len(h.past) - h.limit
		clear(h.past[:drop])
		h.past = h.past[drop:]
	}
	h.present = next
	h.future = nil
}

// Undo restores the most recent past value. It reports false and changes
// nothing when there is nothing to undo.
func (h *History[T]) Undo() bool {
	if len(h.past) == 0 {
		return false
	}
	last := len(h.past) - 1
	prev := h.past[last]
	var zero T
	h.past[last] = zero
	h.past = h.past[:last]

	h.future = append([]T{h.present}, h.future...)
	h.present = prev
	return true
}

// Redo restores the next future value. It reports false and changes nothing
// when there is nothing to redo.
func (h *History[T]) Redo() bool {
	if len(h.future) == 0 {
		return false
	}
	next := h.future[0]
	h.future = h.future[1:]

	h.past = append(h.past, h.present)
	h.present = next
	return true
}

// CanUndo reports whether Undo would change the present.
func (h *History[T]) CanUndo() bool { return len(h.past) > 0 }

// CanRedo reports whether Redo would change the present.
func (h *History[T]) CanRedo() bool { return len(h.future) > 0 }

// Depth returns the sizes of the past and future stacks.
func (h *History[T]) Depth() (past, future int) {
	return len(h.past), len(h.future)
}

// Reset replaces the present and empties both stacks.
func (h *History[T]) Reset(initial T) {
	h.past = nil
	h.future = nil
	h.present = initial
}
