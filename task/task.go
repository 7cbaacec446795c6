// Package task holds the task model (todos, deadlines and events) and the
// ordered list that owns them.
package task

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Kind identifies a task variant. The set is closed.
type Kind int

const (
	KindTodo Kind = iota
	KindDeadline
	KindEvent
)

// Tag returns the single-character discriminator used in renders and records.
func (k Kind) Tag() string {
	switch k {
	case KindTodo:
		return "T"
	case KindDeadline:
		return "D"
	case KindEvent:
		return "E"
	default:
		return "?"
	}
}

func (k Kind) String() string {
	switch k {
	case KindTodo:
		return "todo"
	case KindDeadline:
		return "deadline"
	case KindEvent:
		return "event"
	default:
		return "Kind(" + strconv.Itoa(int(k)) + ")"
	}
}

// label is the word shown before the timestamp in a render.
func (k Kind) label() string {
	switch k {
	case KindDeadline:
		return "by"
	case KindEvent:
		return "at"
	default:
		return ""
	}
}

// ParseKind maps a tag to its Kind. Only the first character is considered.
func ParseKind(tag string) (Kind, error) {
	if tag == "" {
		return 0, fmt.Errorf("empty task tag")
	}
	switch tag[0] {
	case 'T':
		return KindTodo, nil
	case 'D':
		return KindDeadline, nil
	case 'E':
		return KindEvent, nil
	default:
		return 0, fmt.Errorf("unknown task tag %q", tag)
	}
}

// Task is a single tracked item. Kind and description never change after
// construction; only the done flag is mutable.
type Task struct {
	kind        Kind
	description string
	done        bool
	when        time.Time // zero for todos
}

// NewTodo creates a todo task.
func NewTodo(description string) (*Task, error) {
	if err := checkDescription(description); err != nil {
		return nil, err
	}
	return &Task{kind: KindTodo, description: description}, nil
}

// NewDeadline creates a task that must be finished by the given time.
func NewDeadline(description string, by time.Time) (*Task, error) {
	return newTimed(KindDeadline, description, by)
}

// NewEvent creates a task that happens at the given time.
func NewEvent(description string, at time.Time) (*Task, error) {
	return newTimed(KindEvent, description, at)
}

// New builds a task of the given kind from user-supplied strings. when is
// ignored for todos and parsed with ParseTimestamp otherwise.
func New(kind Kind, description, when string, loc *time.Location) (*Task, error) {
	switch kind {
	case KindTodo:
		return NewTodo(description)
	case KindDeadline, KindEvent:
		if err := checkDescription(description); err != nil {
			return nil, err
		}
		ts, err := ParseTimestamp(when, loc)
		if err != nil {
			return nil, err
		}
		return newTimed(kind, description, ts)
	default:
		return nil, fmt.Errorf("%w: unknown kind %s", ErrInvalidTask, kind)
	}
}

func newTimed(kind Kind, description string, when time.Time) (*Task, error) {
	if err := checkDescription(description); err != nil {
		return nil, err
	}
	if when.IsZero() {
		return nil, fmt.Errorf("%w: %s requires a time", ErrInvalidTask, kind)
	}
	return &Task{kind: kind, description: description, when: when}, nil
}

func checkDescription(description string) error {
	if strings.TrimSpace(description) == "" {
		return fmt.Errorf("%w: the description cannot be empty", ErrInvalidTask)
	}
	return nil
}

func (t *Task) Kind() Kind { return t.kind }
func (t *Task) Description() string { return t.description }
func (t *Task) IsDone() bool { return t.done }
func (t *Task) MarkAsDone() { t.done = true }
func (t *Task) MarkAsUndone() { t.done = false }
func (t *Task) HasTime() bool { return t.kind == KindDeadline || t.kind == KindEvent }

// When returns the deadline or event time, and false for todos.
func (t *Task) When() (time.Time, bool) {
	if !t.HasTime() {
		return time.Time{}, false
	}
	return t.when, true
}

// In converts the task's timestamp to loc, keeping the same instant.
// Todos are unaffected.
func (t *Task) In(loc *time.Location) {
	if t.HasTime() && loc != nil {
		t.when = t.when.In(loc)
	}
}

// Render returns the display form, e.g. "[D][X] submit report (by: Mar 1 2024, 9:00am)".
func (t *Task) Render() string {
	mark := " "
	if t.done {
		mark = "X"
	}

	s := fmt.Sprintf("[%s][%s] %s", t.kind.Tag(), mark, t.description)
	if t.HasTime() {
		s += fmt.Sprintf(" (%s: %s)", t.kind.label(), FormatHuman(t.when))
	}
	return s
}

func (t *Task) String() string {
	return t.Render()
}

// RecordFields returns the persisted fields in order: tag, done flag,
// description and, for timed tasks, the RFC 3339 timestamp.
func (t *Task) RecordFields() []string {
	fields := []string{t.kind.Tag(), strconv.FormatBool(t.done), t.description}
	if t.HasTime() {
		fields = append(fields, FormatISO(t.when))
	}
	return fields
}
