package models

// Registry holds model entries in a layered stack. Lookups search the
// top-most layer first and, within a layer, entries in registration
// order; the first matching selector wins.
type Registry struct {
	layers [][]Entry
}

// NewRegistry creates a registry whose base layer holds entries.
func NewRegistry(entries ...Entry) *Registry {
	base := append([]Entry(nil), entries...)
	return &Registry{layers: [][]Entry{base}}
}

// Register appends entries to the top-most layer. They match after the
// entries already in that layer.
func (r *Registry) Register(entries ...Entry) {
	top := len(r.layers) - 1
	r.layers[top] = append(r.layers[top], entries...)
}

// Push adds a new, empty layer whose entries take precedence over
// everything registered so far.
func (r *Registry) Push() {
	r.layers = append(r.layers, nil)
}

// Pop removes the top-most layer. The base layer is never removed.
func (r *Registry) Pop() {
	if len(r.layers) > 1 {
		r.layers = r.layers[:len(r.layers)-1]
	}
}

// Lookup finds the model for a call of module:function with args bound
// positionally.
func (r *Registry) Lookup(module, function string, args []Arg) (Model, Entry, bool) {
	for i := len(r.layers) - 1; i >= 0; i-- {
		for _, e := range r.layers[i] {
			if e.Selector.Matches(module, function, len(args)) {
				return e.Bind(args), e, true
			}
		}
	}
	return nil, Entry{}, false
}

// Entries returns every entry in lookup order.
func (r *Registry) Entries() []Entry {
	var out []Entry
	for i := len(r.layers) - 1; i >= 0; i-- {
		out = append(out, r.layers[i]...)
	}
	return out
}

// Len returns the number of entries in all layers.
func (r *Registry) Len() int {
	n := 0
	for _, l := range r.layers {
		n += len(l)
	}
	return n
}
