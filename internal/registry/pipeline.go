package registry

// stage is a result that either carries a value or the error that stopped
// the chain. A failed stage short-circuits every later one.
type stage[T any] struct {
	val T
	err error
}

func start[T any](val T, err error) stage[T] {
	return stage[T]{val: val, err: err}
}

// then feeds the value of s into next, unless s already failed.
func then[T, U any](s stage[T], next func(T) (U, error)) stage[U] {
	if s.err != nil {
		return stage[U]{err: s.err}
	}
	val, err := next(s.val)
	return stage[U]{val: val, err: err}
}

func (s stage[T]) result() (T, error) {
	return s.val, s.err
}
