package sketch

// Normalize enforces the canonical element ordering and repairs minor
// ID-convention drift between producers.
//
// Ordering: shape and text elements first, arrows and lines last, each
// group keeping its relative order. Several external consumers require a
// connector's endpoints to already exist when the connector appears.
//
// ID repair: a connector endpoint that references an ID absent from the
// element set is rewritten to its prefixed form when exactly that
// prefixed ID is present. Producers that emit raw canonical IDs for
// bindings while prefixing the shapes themselves are tolerated this way.
//
// The input slice is not modified.
func Normalize(elements []Element) []Element {
	out := make([]Element, 0, len(elements))
	for _, el := range elements {
		if !el.Type.IsLinear() {
			out = append(out, el)
		}
	}
	shapes := len(out)
	for _, el := range elements {
		if el.Type.IsLinear() {
			out = append(out, el)
		}
	}

	ids := make(map[string]bool, shapes)
	for _, el := range out[:shapes] {
		ids[el.ID] = true
	}

	for i := shapes; i < len(out); i++ {
		out[i].StartBinding = repairBinding(out[i].StartBinding, ids)
		out[i].EndBinding = repairBinding(out[i].EndBinding, ids)
	}
	return out
}

func repairBinding(b *Binding, ids map[string]bool) *Binding {
	if b == nil || ids[b.ElementID] {
		return b
	}
	if pref := IDPrefix + b.ElementID; ids[pref] {
		return &Binding{ElementID: pref}
	}
	return b
}
