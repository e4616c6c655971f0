package store

import "fmt"

// OperationError is returned by every failed store operation. Message is the
// text recorded in the store's error state.
type OperationError struct {
	Op      string
	Message string
	Err     error
}

func (e *OperationError) Error() string {
	return fmt.Sprintf("%s: %s: %v", e.Op, e.Message, e.Err)
}

func (e *OperationError) Unwrap() error {
	return e.Err
}
