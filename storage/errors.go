package storage

import (
	"errors"
	"fmt"
)

var (
	ErrFieldCount  = errors.New("wrong number of fields")
	ErrDoneFlag    = errors.New("done flag must be true or false")
	ErrUnknownKind = errors.New("unknown task type")
	ErrLineTooLong = errors.New("line too long")
)

// MalformedRecordError describes a save file line that could not be parsed.
type MalformedRecordError struct {
	Line int // 1-based
	Text string
	Err  error
}

func (e *MalformedRecordError) Error() string {
	return fmt.Sprintf("line %d %q: %v", e.Line, e.Text, e.Err)
}

func (e *MalformedRecordError) Unwrap() error { return e.Err }

// PersistenceError wraps an I/O failure on the save file.
type PersistenceError struct {
	Op   string // "read" or "write"
	Path string
	Err  error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.Path, e.Err)
}

func (e *PersistenceError) Unwrap() error { return e.Err }
