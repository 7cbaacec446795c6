package commands

func init() {
	for _, name := range []string{"/bye", "/quit", "/exit"} {
		Register(&Command{
			Name:        name,
			Description: "Exit maki",
			Hidden:      true,
			Handler: func(s *Session, args string) bool {
				s.println(ByeMessage)
				return true
			},
		})
	}
}
