// Package scope implements the compile-time symbol table that assigns
// activation-frame slots to local variable names.
//
// A Scope is flat: slots are assigned in declaration order starting at zero
// and are never reused. Defining a name that already exists allocates a new
// slot, and later lookups resolve to the newest one.
package scope

import "slices"

// NotFound is returned by [Scope.Offset] for names with no slot.
const NotFound = -1

// Scope maps variable names to slots for one parse unit.
type Scope struct {
	names []string
	index map[string]int
}

// New returns a Scope with the given names pre-defined in order.
func New(names ...string) *Scope {
	s := &Scope{index: make(map[string]int, len(names))}

	for _, name := range names {
		s.Define(name)
	}

	return s
}

// Define allocates the next slot for name and returns it.
func (s *Scope) Define(name string) int {
	if s.index == nil {
		s.index = make(map[string]int)
	}

	slot := len(s.names)
	s.names = append(s.names, name)
	s.index[name] = slot

	return slot
}

// Offset returns the slot most recently assigned to name, or [NotFound].
func (s *Scope) Offset(name string) int {
	if s == nil {
		return NotFound
	}

	if slot, ok := s.index[name]; ok {
		return slot
	}

	return NotFound
}

// Len returns the number of allocated slots, which is the frame size
// required to run code parsed against s.
func (s *Scope) Len() int {
	if s == nil {
		return 0
	}

	return len(s.names)
}

// Names returns the name held by each slot, indexed by slot. Shadowed
// names appear once per declaration.
func (s *Scope) Names() []string {
	if s == nil {
		return nil
	}

	return slices.Clone(s.names)
}

// Visible returns the distinct names that currently resolve to a slot.
func (s *Scope) Visible() []string {
	if s == nil {
		return nil
	}

	out := make([]string, 0, len(s.index))

	for i, name := range s.names {
		if s.index[name] == i {
			out = append(out, name)
		}
	}

	return out
}

// Clone returns an independent copy of s.
func (s *Scope) Clone() *Scope {
	if s == nil {
		return New()
	}

	c := &Scope{
		names: slices.Clone(s.names),
		index: make(map[string]int, len(s.index)),
	}

	for k, v := range s.index {
		c.index[k] = v
	}

	return c
}
