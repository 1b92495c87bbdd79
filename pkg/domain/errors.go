package domain

import (
	"errors"
	"fmt"
)

// ErrUnknownAction is reported for toolbar actions outside the vocabulary.
// It is a no-op, not a fault.
var ErrUnknownAction = errors.New("unknown action")

// ErrInvalidDispatch is returned when a disabled or malformed action is dispatched.
var ErrInvalidDispatch = errors.New("invalid dispatch")

// ErrEmptyHistory is returned by models asked to undo or redo with an empty stack.
var ErrEmptyHistory = errors.New("empty history")

// ErrUnknownStyle is returned when a style key is not in the catalog or not in the named group.
var ErrUnknownStyle = errors.New("unknown style")

// ErrUnknownBlock is returned when a selection references a block the document does not have.
var ErrUnknownBlock = errors.New("unknown block")

// ErrInvalidSelection is returned when a selection offset lies outside its block.
var ErrInvalidSelection = errors.New("invalid selection")

// ErrDocumentNotFound is returned when a document ID cannot be found in the store.
var ErrDocumentNotFound = errors.New("document not found")

// DispatchError describes a rejected dispatch.
type DispatchError struct {
	Action string
	Reason string
	Err    error
}

func (e *DispatchError) Error() string {
	return fmt.Sprintf("dispatch %q: %s", e.Action, e.Reason)
}

// Unwrap exposes ErrInvalidDispatch and, when set, the underlying cause.
func (e *DispatchError) Unwrap() []error {
	if e.Err == nil {
		return []error{ErrInvalidDispatch}
	}
	return []error{ErrInvalidDispatch, e.Err}
}
