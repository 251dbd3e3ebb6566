package core

// Deduplicate returns a new slice keeping only the first occurrence of each
// distinct value. The input is not modified.
func Deduplicate[T comparable](values []T) []T {
	seen := make(map[T]struct{}, len(values))
	out := make([]T, 0, len(values))

	for _, v := range values {
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}

	return out
}

// Contains reports whether v is present in values.
func Contains[T comparable](values []T, v T) bool {
	return IndexOf(values, v) >= 0
}

// IndexOf returns the first position of v in values, or -1.
func IndexOf[T comparable](values []T, v T) int {
	for i, candidate := range values {
		if candidate == v {
			return i
		}
	}
	return -1
}
