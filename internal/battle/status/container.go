// Package status holds per-entity status stacks and the shared vocabulary
// (modifier phases, decay rules) used by status definitions.
package status

import "sort"

// Stack is a single status entry as returned by Container.All.
type Stack struct {
	ID     string
	Stacks int
}

// Container maps a status id to its signed stack count.
// A status exists only while its stack count is positive.
type Container struct {
	stacks map[string]int
}

// NewContainer creates an empty container.
func NewContainer() Container {
	return Container{stacks: make(map[string]int)}
}

// Apply adds delta to the current stacks of id. A zero delta is a no-op;
// a result of zero or less removes the status.
func (c *Container) Apply(id string, delta int) {
	if delta == 0 {
		return
	}
	c.Set(id, c.Stacks(id)+delta)
}

// Set replaces the stacks of id. Values of zero or less remove the status.
func (c *Container) Set(id string, value int) {
	if value <= 0 {
		delete(c.stacks, id)
		return
	}
	if c.stacks == nil {
		c.stacks = make(map[string]int)
	}
	c.stacks[id] = value
}

// Stacks returns the current stacks of id, or 0 when absent.
func (c Container) Stacks(id string) int {
	return c.stacks[id]
}

// Has reports whether id is present.
func (c Container) Has(id string) bool {
	return c.stacks[id] > 0
}

// Remove deletes id regardless of its stack count.
func (c *Container) Remove(id string) {
	delete(c.stacks, id)
}

// Clear removes every status.
func (c *Container) Clear() {
	c.stacks = make(map[string]int)
}

// HasAny reports whether at least one status is present.
func (c Container) HasAny() bool {
	return len(c.stacks) > 0
}

// Len returns the number of distinct statuses.
func (c Container) Len() int {
	return len(c.stacks)
}

// All returns every status sorted by id. Modifier folding iterates this
// order, so it must never depend on insertion or map order.
func (c Container) All() []Stack {
	out := make([]Stack, 0, len(c.stacks))
	for id, n := range c.stacks {
		out = append(out, Stack{ID: id, Stacks: n})
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].ID < out[j].ID
	})
	return out
}

// Clone returns an independent copy.
func (c Container) Clone() Container {
	out := NewContainer()
	for id, n := range c.stacks {
		out.stacks[id] = n
	}
	return out
}
