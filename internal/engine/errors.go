package engine

import (
	"errors"
	"fmt"

	"github.com/conn-castle/ladder/internal/messages"
)

var (
	// ErrDirtyWorkingTree is returned before any mutation when the project has uncommitted changes.
	ErrDirtyWorkingTree = errors.New("working tree has uncommitted changes")
	// ErrValidationFailed is returned under the strict policy when a step does not validate.
	ErrValidationFailed = errors.New("validation failed")
)

// PublishError wraps failures that happen after every step was committed
// locally, while pushing or opening the pull request.
type PublishError struct {
	Err error
}

// Error returns the wrapped failure with a publish prefix.
func (e *PublishError) Error() string {
	return fmt.Sprintf(messages.EnginePublishFmt, e.Err)
}

// Unwrap returns the underlying error.
func (e *PublishError) Unwrap() error {
	return e.Err
}
