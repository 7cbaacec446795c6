package commands

import "fmt"

func init() {
	Register(&Command{
		Name:        "/help",
		Description: "Show available commands",
		Hidden:      true,
		Handler: func(s *Session, args string) bool {
			s.println("Available commands:")
			for _, cmd := range List() {
				s.println(fmt.Sprintf("  %-15s - %s", cmd.Name, cmd.Description))
			}
			if s.llmClient != nil {
				s.println("Anything not starting with / is sent to the assistant.")
			}
			return false
		},
	})
}
