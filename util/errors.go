// Package util holds the small cross-cutting pieces every other package
// in this module depends on: error kinds and the msgpack helpers btree
// uses for a node's payload after the page header.
package util

import "fmt"

// PetroError is the base wrapper every error kind in this module embeds.
type PetroError struct {
	Message string
	Err     error
}

func (e *PetroError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *PetroError) Unwrap() error {
	return e.Err
}

// IOError wraps a failure from PageStore (open, read, write, extend).
type IOError struct {
	*PetroError
}

func NewIOError(message string, err error) *IOError {
	return &IOError{&PetroError{Message: message, Err: err}}
}

// InvariantViolation is a structural assertion failure: an encoded node
// that does not fit in its page, a reentrant FixPage call, or an Unfix of
// a page that is not the one currently fixed. No page id is treated as
// out of range (FixPage extends the file instead), and node capacity is
// not checked separately. This never propagates as a normal
// error - code that detects one panics with this type, and nothing in
// this module recovers it.
type InvariantViolation struct {
	*PetroError
}

func NewInvariantViolation(message string) *InvariantViolation {
	return &InvariantViolation{&PetroError{Message: message}}
}

// Fatalf panics with an InvariantViolation built from the given message.
func Fatalf(format string, args ...any) {
	panic(NewInvariantViolation(fmt.Sprintf(format, args...)))
}
