package storage

import (
	"errors"
	"io/fs"
	"os"
	"time"

	"github.com/rs/zerolog"

	"maki/task"
)

// TextStore implements Store using a pipe-delimited text file.
// The whole file is rewritten on every save.
type TextStore struct {
	path string
	log  zerolog.Logger
}

// NewTextStore creates a store backed by the file at path. The file does
// not need to exist yet.
func NewTextStore(path string, logger zerolog.Logger) *TextStore {
	return &TextStore{
		path: path,
		log:  logger.With().Str("path", path).Logger(),
	}
}

// Path returns the save file path
func (s *TextStore) Path() string {
	return s.path
}

// Load reads the save file. A missing file is the normal first-run state
// and yields StatusNoSaveFile with no error. Any other open or read failure
// is returned as a *PersistenceError alongside the tasks read before it.
func (s *TextStore) Load(loc *time.Location) (*LoadResult, error) {
	result := &LoadResult{Tasks: []*task.Task{}, Status: StatusLoaded}

	f, err := os.Open(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		s.log.Debug().Msg("no save file")
		result.Status = StatusNoSaveFile
		return result, nil
	}
	if err != nil {
		return result, &PersistenceError{Op: "read", Path: s.path, Err: err}
	}
	defer func() { _ = f.Close() }()

	dec := NewDecoder(f, loc)
	for dec.Next() {
		result.Tasks = append(result.Tasks, dec.Task())
	}
	result.Diagnostics = dec.Diagnostics()

	for _, d := range result.Diagnostics {
		s.log.Warn().
			Int("line", d.Line).
			Str("record", d.Text).
			Err(d.Err).
			Msg("skipping malformed record")
	}

	if err := dec.Err(); err != nil {
		return result, &PersistenceError{Op: "read", Path: s.path, Err: err}
	}

	s.log.Debug().
		Int("loaded", result.Loaded()).
		Int("skipped", len(result.Diagnostics)).
		Msg("loaded tasks")

	return result, nil
}

// Save truncates the save file and writes every task to it. A failure
// part way through can leave the file truncated; it is not retried.
func (s *TextStore) Save(tasks []*task.Task) error {
	f, err := os.Create(s.path)
	if err != nil {
		return &PersistenceError{Op: "write", Path: s.path, Err: err}
	}

	if err := Encode(f, tasks); err != nil {
		_ = f.Close()
		return &PersistenceError{Op: "write", Path: s.path, Err: err}
	}

	if err := f.Close(); err != nil {
		return &PersistenceError{Op: "write", Path: s.path, Err: err}
	}

	s.log.Debug().Int("tasks", len(tasks)).Msg("saved tasks")
	return nil
}

// Close closes the store
func (s *TextStore) Close() error {
	// Nothing is held open between calls, but the interface requires it
	return nil
}
