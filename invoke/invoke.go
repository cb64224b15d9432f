package invoke

// Invoke runs thunk under s and returns the future's value. When the future
// failed, its error is returned unchanged; the strategy's own error is only
// returned when no future was produced.
func Invoke[T any](s Strategy, thunk func() *Future[T]) (T, error) {
	var f *Future[T]
	err := s.Run(func() Awaitable {
		f = thunk()
		return f
	})
	if f == nil {
		var zero T
		return zero, err
	}
	return f.Result()
}

// InvokeVoid is Invoke for operations without a value.
func InvokeVoid(s Strategy, thunk func() *Future[struct{}]) error {
	_, err := Invoke(s, thunk)
	return err
}
