package utils

// Deref returns the value p points to, or def if p is nil
func Deref[T any](p *T, def T) T {
	if p == nil {
		return def
	}
	return *p
}
