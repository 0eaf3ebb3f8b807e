package bytecode

// clone returns a copy of src that shares no backing array with it. A nil
// slice stays nil so that omitted JSON fields round trip.
func clone[T any](src []T) []T {
	if src == nil {
		return nil
	}
	dst := make([]T, len(src))
	copy(dst, src)
	return dst
}
