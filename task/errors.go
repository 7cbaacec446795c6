package task

import (
	"errors"
	"fmt"
)

// ErrInvalidTask is returned when a task cannot be constructed.
var ErrInvalidTask = errors.New("invalid task")

// IndexOutOfRangeError reports a 1-based index outside the list.
type IndexOutOfRangeError struct {
	Index int
	Size  int
}

func (e *IndexOutOfRangeError) Error() string {
	return fmt.Sprintf("task %d does not exist (list has %d)", e.Index, e.Size)
}
