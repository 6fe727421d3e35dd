package ranking

// MinBy returns a pointer to the element with the lowest score. When no
// candidate strictly dominates, the first encountered in input order wins,
// so results are deterministic for a stable input ordering. Returns nil
// for an empty slice.
func MinBy[T any](items []T, score func(T) float64) *T {
	if len(items) == 0 {
		return nil
	}
	best := 0
	for i := 1; i < len(items); i++ {
		if score(items[i]) < score(items[best]) {
			best = i
		}
	}
	return &items[best]
}

// MaxBy is MinBy with the comparison inverted.
func MaxBy[T any](items []T, score func(T) float64) *T {
	if len(items) == 0 {
		return nil
	}
	best := 0
	for i := 1; i < len(items); i++ {
		if score(items[i]) > score(items[best]) {
			best = i
		}
	}
	return &items[best]
}

// FirstWhere returns a pointer to the first element satisfying pred, or
// nil when none does.
func FirstWhere[T any](items []T, pred func(T) bool) *T {
	for i := range items {
		if pred(items[i]) {
			return &items[i]
		}
	}
	return nil
}
