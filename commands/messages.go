package commands

import (
	"errors"
	"fmt"
	"strings"

	"maki/storage"
	"maki/task"
)

const (
	ByeMessage    = "Bye. Hope to see you again soon!"
	EmptyList     = "You have no tasks at the moment!"
	NoTasksToLoad = "No tasks to load."
	SaveSucceeded = "Tasks saved successfully!"
	SaveFailed    = "An error occurred while saving your tasks."
)

// AddedMessage confirms a new task and reports the list size.
func AddedMessage(t *task.Task, size int) string {
	return fmt.Sprintf("Got it. I've added this task:\n\t%s\nNow you have %d tasks in the list.", t.Render(), size)
}

// ListMessage renders every task with its 1-based number.
func ListMessage(tasks []*task.Task) string {
	if len(tasks) == 0 {
		return EmptyList
	}

	var b strings.Builder
	b.WriteString("Here are the tasks in your list:")
	for i, t := range tasks {
		fmt.Fprintf(&b, "\n%d. %s", i+1, t.Render())
	}
	return b.String()
}

func DoneMessage(t *task.Task) string {
	return "Nice! I've marked this task as done:\n\t" + t.Render()
}

func UndoneMessage(t *task.Task) string {
	return "OK, I've marked this task as not done yet:\n\t" + t.Render()
}

func DeletedMessage(t *task.Task, size int) string {
	return fmt.Sprintf("Noted. I've removed this task:\n\t%s\nNow you have %d tasks in the list.", t.Render(), size)
}

// LoadMessage summarises a load. Skipped lines are mentioned so a damaged
// save file does not go unnoticed.
func LoadMessage(result *storage.LoadResult) string {
	var msg string
	if result.Status == storage.StatusNoSaveFile {
		msg = NoTasksToLoad
	} else {
		msg = fmt.Sprintf("%d task(s) successfully loaded!", result.Loaded())
	}

	if n := len(result.Diagnostics); n > 0 {
		msg += fmt.Sprintf("\nSkipped %d line(s) of the save file that could not be read.", n)
	}
	return msg
}

// SaveMessage reports the outcome of a save.
func SaveMessage(err error) string {
	if err != nil {
		return SaveFailed
	}
	return SaveSucceeded
}

// ErrorMessage turns an error into the message shown to the user.
func ErrorMessage(err error) string {
	var rangeErr *task.IndexOutOfRangeError
	switch {
	case errors.As(err, &rangeErr):
		return fmt.Sprintf("☹ OOPS!!! Task %d does not exist. You have %d task(s).", rangeErr.Index, rangeErr.Size)
	case errors.Is(err, task.ErrInvalidTask):
		detail := strings.TrimPrefix(err.Error(), task.ErrInvalidTask.Error()+": ")
		return "☹ OOPS!!! " + upperFirst(detail)
	default:
		return "☹ OOPS!!! " + upperFirst(err.Error())
	}
}

func upperFirst(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
