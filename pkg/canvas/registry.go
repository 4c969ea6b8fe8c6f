package canvas

import "slices"

// Registry is the ordered list of root graphs on a canvas. It holds IDs
// only; graph lifetime is managed by the Canvas operations that create and
// destroy them.
type Registry struct {
	ids []ID
}

// Add appends id if it is not already registered.
func (r *Registry) Add(id ID) {
	if !r.Contains(id) {
		r.ids = append(r.ids, id)
	}
}

// Remove drops id from the registry. Removing an unknown ID is a no-op.
func (r *Registry) Remove(id ID) {
	r.ids = slices.DeleteFunc(r.ids, func(x ID) bool { return x == id })
}

// Contains reports whether id is registered.
func (r *Registry) Contains(id ID) bool {
	return slices.Contains(r.ids, id)
}

// IDs returns a copy of the registered IDs in registration order.
func (r *Registry) IDs() []ID {
	return slices.Clone(r.ids)
}

// Len returns the number of registered roots.
func (r *Registry) Len() int {
	return len(r.ids)
}

func (r *Registry) reset() {
	r.ids = nil
}
