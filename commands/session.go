package commands

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"
	"unicode"

	"github.com/rs/zerolog"

	"maki/llm"
	"maki/logging"
	"maki/storage"
	"maki/task"
)

// Session is the state one user works against: the task list, where it is
// saved, the display timezone, and the chat assistant. Commands run one at
// a time and every mutation is saved before the next command is read.
type Session struct {
	tasks *task.List
	store storage.Store
	loc   *time.Location
	out   io.Writer
	log   zerolog.Logger
	now   func() time.Time

	llmClient   llm.Client
	chatHistory []*llm.Message
	usage       usage
	debug       bool

	levelBeforeDebug zerolog.Level
}

// NewSession creates a session with an empty task list. Call Load to
// rehydrate it from the store.
func NewSession(store storage.Store, loc *time.Location, out io.Writer) *Session {
	if loc == nil {
		loc = time.Local
	}
	return &Session{
		tasks: task.NewList(),
		store: store,
		loc:   loc,
		out:   out,
		log:   logging.Component("commands"),
		now:   time.Now,
	}
}

// SetLLMClient sets the client used by /chat
func (s *Session) SetLLMClient(c llm.Client) {
	s.llmClient = c
}

// Tasks returns the session's task list
func (s *Session) Tasks() *task.List {
	return s.tasks
}

// Location returns the display timezone
func (s *Session) Location() *time.Location {
	return s.loc
}

// Load replaces the task list with the stored tasks and returns the load
// summary. A read failure keeps whatever was read before it; it is
// reported, not fatal.
func (s *Session) Load() string {
	result, err := s.store.Load(s.loc)
	if err != nil {
		s.log.Error().Err(err).Msg("failed to load tasks")
	}
	if result == nil {
		result = &storage.LoadResult{Tasks: []*task.Task{}, Status: storage.StatusLoaded}
	}

	s.tasks = task.NewList(result.Tasks...)

	msg := LoadMessage(result)
	if err != nil {
		msg = ErrorMessage(fmt.Errorf("could not read %s, starting with the %d task(s) read so far", s.store.Path(), result.Loaded())) + "\n" + msg
	}
	return msg
}

// Execute runs a command line. The first word names the command; the rest
// of the line is passed to the handler as typed.
func (s *Session) Execute(input string) (bool, error) {
	input = strings.TrimSpace(input)
	if input == "" {
		return false, fmt.Errorf("empty command")
	}

	cmdName, args := input, ""
	if i := strings.IndexFunc(input, unicode.IsSpace); i >= 0 {
		cmdName, args = input[:i], strings.TrimSpace(input[i:])
	}
	cmdName = strings.ToLower(cmdName)

	cmd, exists := registry[cmdName]
	if !exists {
		return false, fmt.Errorf("unknown command: %s", cmdName)
	}

	s.log.Debug().Str("command", cmd.Name).Str("args", args).Msg("execute")
	return cmd.Handler(s, args), nil
}

// ExecuteWithOutput runs a command and returns its output, which is also
// written to the session's writer
func (s *Session) ExecuteWithOutput(input string) (quit bool, output string, err error) {
	var buf bytes.Buffer
	original := s.out
	s.out = io.MultiWriter(original, &buf)
	defer func() { s.out = original }()

	quit, err = s.Execute(input)
	return quit, strings.TrimSpace(buf.String()), err
}

// capture runs fn with output redirected to a buffer and returns it
func (s *Session) capture(fn func()) string {
	var buf bytes.Buffer
	original := s.out
	s.out = &buf
	defer func() { s.out = original }()

	fn()
	return strings.TrimSpace(buf.String())
}

func (s *Session) println(msg string) {
	_, _ = fmt.Fprintln(s.out, msg)
}

func (s *Session) printError(err error) {
	s.println(ErrorMessage(err))
}

// persist writes the task list to the store and prints the outcome. The
// in-memory list stays authoritative when the write fails.
func (s *Session) persist() {
	err := s.store.Save(s.tasks.All())
	if err != nil {
		var perr *storage.PersistenceError
		if errors.As(err, &perr) {
			s.log.Error().Err(perr.Err).Str("path", perr.Path).Msg("failed to save tasks")
		} else {
			s.log.Error().Err(err).Msg("failed to save tasks")
		}
	}
	s.println(SaveMessage(err))
}
