package scene

import (
	"errors"
	"fmt"

	"github.com/aretw0/immense/pkg/domain"
)

// ValidationError is a single problem found in a scene document.
type ValidationError struct {
	Path   string // Location in the document, e.g. rules.tile[1].ref
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Path, e.Reason)
}

// AggregateError collects every ValidationError of a document.
type AggregateError struct {
	Errors []error
}

func (e *AggregateError) Error() string {
	if len(e.Errors) == 1 {
		return e.Errors[0].Error()
	}
	msg := fmt.Sprintf("%d validation errors:\n", len(e.Errors))
	for i, err := range e.Errors {
		msg += fmt.Sprintf("  %d. %s\n", i+1, err.Error())
	}
	return msg
}

func (e *AggregateError) Unwrap() []error {
	return e.Errors
}

// Is lets callers match any validation failure with domain.ErrInvalidScene.
func (e *AggregateError) Is(target error) bool {
	return target == domain.ErrInvalidScene
}

// ValidationErrors returns all validation errors if err wraps an
// AggregateError. Otherwise returns nil.
func ValidationErrors(err error) []error {
	var aggr *AggregateError
	if errors.As(err, &aggr) {
		return aggr.Errors
	}
	return nil
}
