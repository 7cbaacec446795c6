package commands

import (
	"context"
	"fmt"

	"maki/llm"
	"maki/task"
)

// maxCommandContextEntries limits how many command context entries to keep
const maxCommandContextEntries = 10

// usage accumulates token counts over a session
type usage struct {
	inputTokens  int64
	outputTokens int64
	toolCalls    int
	prompts      int
}

const systemPrompt = `You are maki, a concise assistant that manages the user's task list.
Today is %s and dates are shown in %s.
Use the tools to add, list, complete and reopen tasks. Dates passed to tools must be
written as YYYY-MM-DD HH:MM in the user's timezone.
Task numbers are the 1-based positions shown by the list tool; list first if unsure.
You cannot delete tasks; ask the user to run /delete <number> themselves.
Reply in plain text without markdown.`

// AddCommandContext adds a direct command and its output to the chat history
// so the assistant knows about recent user actions.
func (s *Session) AddCommandContext(command string, output string) {
	if s.llmClient == nil {
		return
	}
	s.chatHistory = append(s.chatHistory, &llm.Message{
		Role:    llm.RoleContext,
		Content: fmt.Sprintf("User ran: %s\nOutput: %s", command, output),
	})
	s.trimCommandContext()
}

// trimCommandContext drops the oldest context entries beyond the limit
func (s *Session) trimCommandContext() {
	var contextCount int
	for _, msg := range s.chatHistory {
		if msg.Role == llm.RoleContext {
			contextCount++
		}
	}
	if contextCount <= maxCommandContextEntries {
		return
	}

	toRemove := contextCount - maxCommandContextEntries
	history := s.chatHistory[:0:0]
	for _, msg := range s.chatHistory {
		if toRemove > 0 && msg.Role == llm.RoleContext {
			toRemove--
			continue
		}
		history = append(history, msg)
	}
	s.chatHistory = history
}

// executeTool runs a tool call as the matching command and returns what it printed
func (s *Session) executeTool(name string, args map[string]any) string {
	cmd := GetByName(name)
	if cmd == nil || cmd.Hidden {
		return fmt.Sprintf("unknown tool: %s", name)
	}
	if cmd.Destructive {
		s.log.Info().Str("tool", name).Msg("refused destructive tool call")
		return fmt.Sprintf("%s is not available to the assistant; the user must run it directly", cmd.Name)
	}

	line := commandLine(cmd, args)
	s.log.Debug().Str("tool", name).Str("line", line).Msg("tool call")

	return s.capture(func() {
		if _, err := s.Execute(line); err != nil {
			s.printError(err)
		}
	})
}

func init() {
	Register(&Command{
		Name:        "/clearchat",
		Description: "Clear the chat conversation history",
		Hidden:      true,
		Handler: func(s *Session, args string) bool {
			s.chatHistory = nil
			s.println("Chat history cleared.")
			return false
		},
	})

	Register(&Command{
		Name:        "/usage",
		Description: "Show session token usage",
		Hidden:      true,
		Handler: func(s *Session, args string) bool {
			if s.usage.prompts == 0 {
				s.println("No chat usage in this session yet.")
				return false
			}

			s.println("Session Usage Statistics:")
			s.println(fmt.Sprintf("  Prompts:       %d", s.usage.prompts))
			s.println(fmt.Sprintf("  Tool calls:    %d", s.usage.toolCalls))
			s.println(fmt.Sprintf("  Input tokens:  %d", s.usage.inputTokens))
			s.println(fmt.Sprintf("  Output tokens: %d", s.usage.outputTokens))
			s.println(fmt.Sprintf("  Total tokens:  %d", s.usage.inputTokens+s.usage.outputTokens))
			return false
		},
	})

	Register(&Command{
		Name:        "/chat",
		Description: "Chat with the assistant",
		Hidden:      true,
		Params: []Param{
			{Name: "message", Type: ParamTypeString, Description: "The message to send to the assistant", Required: true},
		},
		Handler: func(s *Session, args string) bool {
			if args == "" {
				s.println("Usage: /chat <message>")
				return false
			}
			if s.llmClient == nil {
				s.printError(fmt.Errorf("the assistant is not available, set GEMINI_API_KEY to enable it"))
				return false
			}

			message := args
			now := s.now().In(s.loc)
			system := fmt.Sprintf(systemPrompt, task.FormatHuman(now)+" ("+now.Weekday().String()+")", s.loc)

			response, history, err := s.llmClient.ChatWithTools(context.Background(), system, message, s.chatHistory, GenerateToolDefinitions(), s.executeTool)
			if err != nil {
				s.log.Error().Err(err).Msg("chat failed")
				s.printError(err)
				return false
			}

			s.chatHistory = history
			s.println(response.Text)
			s.recordUsage(response)
			return false
		},
	})
}

// recordUsage updates session totals and prints the token counts when known
func (s *Session) recordUsage(response *llm.Response) {
	s.usage.inputTokens += response.InputTokens
	s.usage.outputTokens += response.OutputTokens
	s.usage.toolCalls += response.ToolCalls
	s.usage.prompts++

	if response.InputTokens == 0 && response.OutputTokens == 0 {
		return
	}
	if s.debug {
		s.println(fmt.Sprintf("[Tokens: %d in / %d out, %d tool call(s)]", response.InputTokens, response.OutputTokens, response.ToolCalls))
	}
}
