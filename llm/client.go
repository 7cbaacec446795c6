package llm

import (
	"context"
	"errors"
)

var (
	ErrMissingAPIKey    = errors.New("GEMINI_API_KEY environment variable not set")
	ErrEmptyPrompt      = errors.New("prompt cannot be empty")
	ErrNoResponse       = errors.New("no response from model")
	ErrTooManyToolCalls = errors.New("model kept calling tools without answering")
)

// ToolExecutor is called when the LLM wants to execute a tool.
// It receives the function name and arguments, and returns the result string.
type ToolExecutor func(name string, args map[string]any) string

type Client interface {
	// ChatWithTools sends message with the given history, running tool calls
	// through executor until the model answers in text. It returns the
	// answer and the history extended with this exchange.
	ChatWithTools(ctx context.Context, system, message string, history []*Message, tools []*Tool, executor ToolExecutor) (*Response, []*Message, error)
	Close() error
}
