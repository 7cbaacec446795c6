package storage

import (
	"time"

	"maki/task"
)

// Store defines the interface for task persistence
// This allows swapping the text file for other backends
type Store interface {
	// Load reads every task, converting timestamps to loc. The result is
	// never nil, even with an error; it then holds what was read first.
	Load(loc *time.Location) (*LoadResult, error)
	// Save replaces the stored tasks with the given ones, in order
	Save(tasks []*task.Task) error
	// Path describes where the tasks live
	Path() string

	// Lifecycle
	Close() error
}

// Status tells whether a save file was found on load.
type Status int

const (
	StatusLoaded Status = iota
	StatusNoSaveFile
)

// LoadResult is the outcome of a load: the tasks that parsed, whether the
// file existed, and a diagnostic for every line that was skipped.
type LoadResult struct {
	Tasks       []*task.Task
	Status      Status
	Diagnostics []*MalformedRecordError
}

// Loaded returns the number of tasks that were loaded.
func (r *LoadResult) Loaded() int {
	return len(r.Tasks)
}
