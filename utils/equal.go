package utils

// Equaler is a pointer type that can compare itself by value with another value of the same type.
type Equaler[T any] interface {
	*T
	Equal(*T) bool
}

// CheckSharedEqual reports whether two shared handles are equal: both nil, or both non-nil and equal
// by value. It is neither identity equality nor plain value equality.
func CheckSharedEqual[T any, P Equaler[T]](lhs, rhs P) bool {
	if lhs == nil || rhs == nil {
		return lhs == nil && rhs == nil
	}
	return lhs.Equal(rhs)
}
