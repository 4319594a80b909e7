package mesh

import (
	"errors"
	"fmt"
)

// ErrFaceTooSmall is returned when a face has fewer than three vertices.
var ErrFaceTooSmall = errors.New("face has fewer than 3 vertices")

// ErrIndexOutOfRange is returned when a face references a missing vertex.
var ErrIndexOutOfRange = errors.New("vertex index out of range")

// FaceError describes one malformed face.
type FaceError struct {
	Face  int   // position of the face in the mesh
	Index int   // offending vertex index, or -1 for size errors
	Err   error // ErrFaceTooSmall or ErrIndexOutOfRange
}

func (e *FaceError) Error() string {
	if e.Index < 0 {
		return fmt.Sprintf("face %d: %s", e.Face, e.Err)
	}
	return fmt.Sprintf("face %d: %s (index %d)", e.Face, e.Err, e.Index)
}

func (e *FaceError) Unwrap() error {
	return e.Err
}

// AggregateError groups every face error found in one mesh.
type AggregateError struct {
	Errors []error
}

func (e *AggregateError) Error() string {
	if len(e.Errors) == 1 {
		return e.Errors[0].Error()
	}
	msg := fmt.Sprintf("%d malformed faces:\n", len(e.Errors))
	for i, err := range e.Errors {
		msg += fmt.Sprintf("  %d. %s\n", i+1, err.Error())
	}
	return msg
}

// Unwrap exposes the individual errors to errors.Is and errors.As.
func (e *AggregateError) Unwrap() []error {
	return e.Errors
}
