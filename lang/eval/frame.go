package eval

import (
	"slices"

	"github.com/ardnew/ajscript/lang/runtime"
)

// Frame is the activation record of one invocation of a parse unit. It
// holds one value per slot and the receiver bound to this.
//
// A function's frame links to the frame its closure was created in, so
// variables of enclosing units stay reachable after those units return.
type Frame struct {
	slots []runtime.Value
	this  runtime.Object
	outer *Frame
	names []string
}

// NewFrame returns a frame with size slots set to Undefined.
func NewFrame(size int, this runtime.Object) *Frame {
	f := &Frame{this: this}
	f.Grow(size)

	return f
}

// Grow extends the frame to at least size slots.
func (f *Frame) Grow(size int) {
	if n := size - len(f.slots); n > 0 {
		f.slots = slices.Grow(f.slots, n)
		for range n {
			f.slots = append(f.slots, runtime.Undefined)
		}
	}
}

// Len returns the number of slots.
func (f *Frame) Len() int { return len(f.slots) }

// Get returns the value in slot, or Undefined for a slot never written.
func (f *Frame) Get(slot int) runtime.Value {
	if slot < 0 || slot >= len(f.slots) {
		return runtime.Undefined
	}

	return f.slots[slot]
}

// Set stores value in slot, growing the frame if needed.
func (f *Frame) Set(slot int, value runtime.Value) {
	f.Grow(slot + 1)
	f.slots[slot] = value
}

// This returns the receiver of the invocation, which may be nil.
func (f *Frame) This() runtime.Object { return f.this }

// Up returns the frame depth links out from f, or nil if the chain is
// shorter than that.
func (f *Frame) Up(depth int) *Frame {
	for ; f != nil && depth > 0; depth-- {
		f = f.outer
	}

	return f
}

// lookup finds name among the slot names of f and its enclosing frames,
// newest declaration first.
func (f *Frame) lookup(name string) (runtime.Value, bool) {
	for ; f != nil; f = f.outer {
		for slot, n := range slices.Backward(f.names) {
			if n == name {
				return f.Get(slot), true
			}
		}
	}

	return nil, false
}
