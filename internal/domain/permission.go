package domain

// HasAny reports whether the held permission set satisfies the required set.
// The semantics are ANY-of: holding at least one of the required labels is
// enough, matching how the storefront has always gated admin operations.
//
// An empty required set means "no restriction" and always passes. Callers
// must only pass an empty set when that is the intended policy; passing one
// by accident turns a guard into a no-op.
func HasAny(held, required []Permission) bool {
	if len(required) == 0 {
		return true
	}
	for _, want := range required {
		for _, have := range held {
			if have == want {
				return true
			}
		}
	}
	return false
}
