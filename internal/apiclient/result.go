package apiclient

// Result is the single outcome of a logical call: either OK with Value set,
// or not OK with Error set.
type Result[T any] struct {
	OK    bool       `json:"ok"`
	Value T          `json:"value,omitempty"`
	Error *ErrorInfo `json:"error,omitempty"`
}

func Success[T any](value T) Result[T] {
	return Result[T]{OK: true, Value: value}
}

func Failure[T any](info *ErrorInfo) Result[T] {
	return Result[T]{Error: info}
}

// Err returns the failure as an error, nil when the result is OK.
func (r Result[T]) Err() error {
	if r.OK || r.Error == nil {
		return nil
	}
	return r.Error
}

// Unwrap returns the value and the error, for callers preferring the usual Go shape.
func (r Result[T]) Unwrap() (T, error) {
	return r.Value, r.Err()
}
