package model

// Metadata is an open key/value container attached to reports and actions.
// Unknown keys pass through untouched; Merge never overwrites a key that is
// already present, so values written at creation time are stable.
type Metadata map[string]any

// Merge returns a copy of m extended with the keys of other that m does not
// already have. Neither input is mutated.
func (m Metadata) Merge(other Metadata) Metadata {
	if len(m) == 0 && len(other) == 0 {
		return Metadata{}
	}
	out := make(Metadata, len(m)+len(other))
	for k, v := range m {
		out[k] = v
	}
	for k, v := range other {
		if _, exists := out[k]; !exists {
			out[k] = v
		}
	}
	return out
}

// Clone returns a shallow copy, never nil.
func (m Metadata) Clone() Metadata {
	out := make(Metadata, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}
