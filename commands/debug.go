package commands

import "github.com/rs/zerolog"

func init() {
	Register(&Command{
		Name:        "/debug",
		Description: "Toggle debug logging",
		Hidden:      true,
		Handler: func(s *Session, args string) bool {
			s.debug = !s.debug
			if s.debug {
				s.levelBeforeDebug = zerolog.GlobalLevel()
				zerolog.SetGlobalLevel(zerolog.DebugLevel)
				s.println("Debug mode: ON")
			} else {
				zerolog.SetGlobalLevel(s.levelBeforeDebug)
				s.println("Debug mode: OFF")
			}
			return false
		},
	})
}

// IsDebugMode returns whether debug mode is enabled
func (s *Session) IsDebugMode() bool {
	return s.debug
}
