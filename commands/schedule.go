package commands

import (
	"fmt"
	"time"

	"maki/task"
)

func init() {
	Register(&Command{
		Name:        "/today",
		Description: "List unfinished deadlines and events falling today",
		Handler: func(s *Session, args string) bool {
			today := dateOnly(s.now(), s.loc)
			s.listTasksInRange("today", today, today.AddDate(0, 0, 1))
			return false
		},
	})

	Register(&Command{
		Name:        "/week",
		Description: "List unfinished deadlines and events this week (Monday through Sunday)",
		Handler: func(s *Session, args string) bool {
			weekStart := startOfWeek(dateOnly(s.now(), s.loc))
			s.listTasksInRange("this week", weekStart, weekStart.AddDate(0, 0, 7))
			return false
		},
	})

	Register(&Command{
		Name:        "/timezone",
		Description: "Show the timezone used to display dates",
		Handler: func(s *Session, args string) bool {
			now := s.now().In(s.loc)
			s.println(fmt.Sprintf("Dates are shown in %s (now %s).", s.loc, task.FormatHuman(now)))
			return false
		},
	})
}

// dateOnly returns midnight of t's calendar day in loc
func dateOnly(t time.Time, loc *time.Location) time.Time {
	t = t.In(loc)
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, loc)
}

// startOfWeek returns the Monday of the week containing the given time
func startOfWeek(t time.Time) time.Time {
	weekday := int(t.Weekday())
	if weekday == 0 {
		weekday = 7 // Sunday is day 7
	}
	return t.AddDate(0, 0, -(weekday - 1))
}

// listTasksInRange prints unfinished timed tasks in [start, end), keeping
// their list numbers so they can be passed to /done.
func (s *Session) listTasksInRange(label string, start, end time.Time) {
	var lines []string
	for i, t := range s.tasks.All() {
		when, ok := t.When()
		if !ok || t.IsDone() {
			continue
		}
		if when.Before(start) || !when.Before(end) {
			continue
		}
		lines = append(lines, fmt.Sprintf("%d. %s", i+1, t.Render()))
	}

	if len(lines) == 0 {
		s.println(fmt.Sprintf("Nothing due %s.", label))
		return
	}

	s.println(fmt.Sprintf("Here is what is due %s:", label))
	for _, line := range lines {
		s.println(line)
	}
}
