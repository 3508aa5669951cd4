package nn

import (
	"fmt"

	"github.com/ember-ml/ember/internal/tensor"
)

// Container is the user's model object: an ordered table of named child
// modules. Before warm-up it owns no children from the functional API;
// after warm-up it owns exactly one materialized module per call site
// exercised during the trace.
//
// The container owns its children exclusively. The warm-up registry keeps
// only lookup keys, never module references of its own.
type Container[B tensor.Backend] struct {
	children map[string]Module[B]
	order    []string
	warmed   bool
}

// NewContainer creates an empty container.
func NewContainer[B tensor.Backend]() *Container[B] {
	return &Container[B]{
		children: make(map[string]Module[B]),
	}
}

// Register attaches a child module under the given name.
// Names are unique within a container.
func (c *Container[B]) Register(name string, m Module[B]) error {
	if name == "" {
		return fmt.Errorf("container: empty module name")
	}
	if _, exists := c.children[name]; exists {
		return fmt.Errorf("container: module %q already registered", name)
	}
	c.children[name] = m
	c.order = append(c.order, name)
	return nil
}

// Unregister detaches the child registered under name, if present.
func (c *Container[B]) Unregister(name string) {
	if _, ok := c.children[name]; !ok {
		return
	}
	delete(c.children, name)
	for i, n := range c.order {
		if n == name {
			c.order = append(c.order[:i], c.order[i+1:]...)
			break
		}
	}
}

// Warmed reports whether a warm-up trace has completed on this container.
// Warm-up is a once-per-container operation.
func (c *Container[B]) Warmed() bool {
	return c.warmed
}

// MarkWarmed records the completion of a warm-up trace. Called by the
// warm-up engine after a successful trace; user code should not need it.
func (c *Container[B]) MarkWarmed() {
	c.warmed = true
}

// Child returns the module registered under name, if any.
func (c *Container[B]) Child(name string) (Module[B], bool) {
	m, ok := c.children[name]
	return m, ok
}

// Names returns the registered module names in registration order.
func (c *Container[B]) Names() []string {
	out := make([]string, len(c.order))
	copy(out, c.order)
	return out
}

// Len returns the number of registered children.
func (c *Container[B]) Len() int {
	return len(c.children)
}

// Parameters returns the parameters of all children in registration
// order, with names prefixed by the owning child's name.
func (c *Container[B]) Parameters() []*Parameter[B] {
	var params []*Parameter[B]
	for _, name := range c.order {
		for _, p := range c.children[name].Parameters() {
			params = append(params, &Parameter[B]{
				name:   name + "." + p.Name(),
				tensor: p.Tensor(),
				grad:   p.Grad(),
			})
		}
	}
	return params
}
