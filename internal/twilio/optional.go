package twilio

// Optional holds a value together with whether it was ever set.
type Optional[T any] struct {
	value T
	set   bool
}

// Some returns an Optional carrying v.
func Some[T any](v T) Optional[T] {
	return Optional[T]{value: v, set: true}
}

// Get returns the value and whether it was set.
func (o Optional[T]) Get() (T, bool) {
	return o.value, o.set
}

// IsSet reports whether a value was assigned.
func (o Optional[T]) IsSet() bool {
	return o.set
}

func (o Optional[T]) any() (any, bool) {
	if !o.IsSet() {
		return nil, false
	}
	return o.value, true
}
