package permissions

// Match returns the first candidate whose vector equals current over every
// catalog key. Candidates with identical vectors are indistinguishable, so
// only the earliest is reported.
func Match[T any](current Vector, candidates []T, vectorOf func(T) Vector) (T, bool) {
	for _, candidate := range candidates {
		if vectorOf(candidate) == current {
			return candidate, true
		}
	}
	var zero T
	return zero, false
}
