package commands

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	"maki/task"
)

func init() {
	Register(&Command{
		Name:        "/todo",
		Description: "Add a todo task",
		Params: []Param{
			{Name: "description", Type: ParamTypeString, Description: "What needs to be done", Required: true},
		},
		Handler: func(s *Session, args string) bool {
			if args == "" {
				s.println("Usage: /todo <description>")
				return false
			}
			s.add(task.KindTodo, args, "")
			return false
		},
	})

	Register(&Command{
		Name:        "/deadline",
		Description: "Add a task that must be finished by a date-time",
		Params: []Param{
			{Name: "description", Type: ParamTypeString, Description: "What needs to be done", Required: true},
			{Name: "by", Type: ParamTypeString, Description: "Due date-time as YYYY-MM-DD HH:MM or ISO-8601 with offset", Required: true, Flag: "/by"},
		},
		Handler: func(s *Session, args string) bool {
			desc, when, ok := splitOn(args, "/by")
			if !ok {
				s.println("Usage: /deadline <description> /by <YYYY-MM-DD HH:MM>")
				return false
			}
			s.add(task.KindDeadline, desc, when)
			return false
		},
	})

	Register(&Command{
		Name:        "/event",
		Description: "Add an event that happens at a date-time",
		Params: []Param{
			{Name: "description", Type: ParamTypeString, Description: "What is happening", Required: true},
			{Name: "at", Type: ParamTypeString, Description: "Date-time as YYYY-MM-DD HH:MM or ISO-8601 with offset", Required: true, Flag: "/at"},
		},
		Handler: func(s *Session, args string) bool {
			desc, when, ok := splitOn(args, "/at")
			if !ok {
				s.println("Usage: /event <description> /at <YYYY-MM-DD HH:MM>")
				return false
			}
			s.add(task.KindEvent, desc, when)
			return false
		},
	})

	Register(&Command{
		Name:        "/list",
		Description: "List all tasks with their numbers",
		Handler: func(s *Session, args string) bool {
			s.println(ListMessage(s.tasks.All()))
			return false
		},
	})

	Register(&Command{
		Name:        "/done",
		Description: "Mark a task as done",
		Params: []Param{
			{Name: "number", Type: ParamTypeString, Description: "The task number shown by /list", Required: true},
		},
		Handler: func(s *Session, args string) bool {
			n, ok := s.taskNumber("/done", args)
			if !ok {
				return false
			}

			t, err := s.tasks.MarkDone(n)
			if err != nil {
				s.printError(err)
				return false
			}

			s.println(DoneMessage(t))
			s.persist()
			return false
		},
	})

	Register(&Command{
		Name:        "/undone",
		Description: "Mark a task as not done",
		Params: []Param{
			{Name: "number", Type: ParamTypeString, Description: "The task number shown by /list", Required: true},
		},
		Handler: func(s *Session, args string) bool {
			n, ok := s.taskNumber("/undone", args)
			if !ok {
				return false
			}

			t, err := s.tasks.MarkUndone(n)
			if err != nil {
				s.printError(err)
				return false
			}

			s.println(UndoneMessage(t))
			s.persist()
			return false
		},
	})

	Register(&Command{
		Name:        "/delete",
		Description: "Delete a task",
		Destructive: true,
		Params: []Param{
			{Name: "number", Type: ParamTypeString, Description: "The task number shown by /list", Required: true},
		},
		Handler: func(s *Session, args string) bool {
			n, ok := s.taskNumber("/delete", args)
			if !ok {
				return false
			}

			t, err := s.tasks.Delete(n)
			if err != nil {
				s.printError(err)
				return false
			}

			s.println(DeletedMessage(t, s.tasks.Size()))
			s.persist()
			return false
		},
	})
}

// add builds a task, appends it and saves the list
func (s *Session) add(kind task.Kind, desc, when string) {
	t, err := task.New(kind, desc, when, s.loc)
	if err != nil {
		s.printError(err)
		return
	}
	t.In(s.loc)

	size := s.tasks.Add(t)
	s.println(AddedMessage(t, size))
	s.persist()
}

// taskNumber parses the single 1-based task number argument
func (s *Session) taskNumber(name string, args string) (int, bool) {
	fields := strings.Fields(args)
	if len(fields) == 0 {
		s.println(fmt.Sprintf("Usage: %s <task number>", name))
		return 0, false
	}

	n, err := strconv.Atoi(fields[0])
	if err != nil {
		s.printError(fmt.Errorf("%q is not a task number", fields[0]))
		return 0, false
	}
	return n, true
}

// splitOn splits args around the first standalone flag word, e.g. "/by".
// Text on either side is kept as typed apart from surrounding whitespace,
// and both sides must be non-empty.
func splitOn(args string, flag string) (before, after string, ok bool) {
	for i := 0; i < len(args); {
		r, size := utf8.DecodeRuneInString(args[i:])
		if unicode.IsSpace(r) {
			i += size
			continue
		}

		end := i
		for end < len(args) {
			r, size := utf8.DecodeRuneInString(args[end:])
			if unicode.IsSpace(r) {
				break
			}
			end += size
		}

		if strings.EqualFold(args[i:end], flag) {
			before = strings.TrimSpace(args[:i])
			after = strings.TrimSpace(args[end:])
			return before, after, before != "" && after != ""
		}
		i = end
	}
	return "", "", false
}
