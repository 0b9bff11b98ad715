package utils

import "fmt"

// PanicError carries the value a recovered goroutine panicked with.
type PanicError struct {
	Value interface{}
}

func (e *PanicError) Error() string {
	return fmt.Sprintf("got panic: %v", e.Value)
}

// RecoverWithError turns a panic into *err. Use it deferred with a named
// error result.
func RecoverWithError(err *error) {
	if rv := recover(); rv != nil {
		*err = &PanicError{Value: rv}
	}
}
