package commands

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"maki/llm"
)

type toolCall struct {
	name string
	args map[string]any
}

// fakeClient runs the scripted tool calls and records their results
type fakeClient struct {
	calls   []toolCall
	results []string
	system  string
	history []*llm.Message
	err     error
}

func (f *fakeClient) ChatWithTools(ctx context.Context, system, message string, history []*llm.Message, tools []*llm.Tool, executor llm.ToolExecutor) (*llm.Response, []*llm.Message, error) {
	if f.err != nil {
		return nil, history, f.err
	}
	f.system = system
	f.history = history

	for _, c := range f.calls {
		f.results = append(f.results, executor(c.name, c.args))
	}

	newHistory := append(append([]*llm.Message{}, history...),
		&llm.Message{Role: llm.RoleUser, Content: message},
		&llm.Message{Role: llm.RoleAssistant, Content: "done"},
	)
	return &llm.Response{Text: "done", InputTokens: 12, OutputTokens: 3, ToolCalls: len(f.calls)}, newHistory, nil
}

func (f *fakeClient) Close() error { return nil }

func TestChatRunsTools(t *testing.T) {
	s, out, path := setupTestSession(t)
	client := &fakeClient{calls: []toolCall{
		{name: "todo", args: map[string]any{"description": "buy milk"}},
		{name: "deadline", args: map[string]any{"description": "pay rent", "by": "2024-03-05 12:00"}},
		{name: "list", args: map[string]any{}},
	}}
	s.SetLLMClient(client)

	output := run(t, s, out, "/chat add milk and rent")
	assert.Equal(t, "done", output)

	require.Len(t, client.results, 3)
	assert.Contains(t, client.results[0], "[T][ ] buy milk")
	assert.Contains(t, client.results[1], "[D][ ] pay rent (by: Mar 5 2024, 12:00pm)")
	assert.Contains(t, client.results[2], "2. [D][ ] pay rent")

	assert.Contains(t, client.system, "Mar 1 2024, 8:00am (Friday)")
	assert.Contains(t, client.system, "GMT+08:00")
	assert.Equal(t, "T | false | buy milk\nD | false | pay rent | 2024-03-05T12:00:00+08:00\n", readFile(t, path))
	assert.Len(t, s.chatHistory, 2)
}

func TestChatRefusesDestructiveAndHiddenTools(t *testing.T) {
	s, out, _ := setupTestSession(t)
	run(t, s, out, "/todo keep me")

	client := &fakeClient{calls: []toolCall{
		{name: "delete", args: map[string]any{"number": "1"}},
		{name: "quit", args: map[string]any{}},
		{name: "chat", args: map[string]any{"message": "loop"}},
	}}
	s.SetLLMClient(client)

	run(t, s, out, "/chat delete everything")

	require.Len(t, client.results, 3)
	assert.Contains(t, client.results[0], "not available to the assistant")
	assert.Equal(t, "unknown tool: quit", client.results[1])
	assert.Equal(t, "unknown tool: chat", client.results[2])
	assert.Equal(t, 1, s.Tasks().Size())
}

func TestChatErrors(t *testing.T) {
	s, out, _ := setupTestSession(t)

	assert.Equal(t, "Usage: /chat <message>", run(t, s, out, "/chat"))
	assert.Contains(t, run(t, s, out, "/chat hello"), "GEMINI_API_KEY")

	s.SetLLMClient(&fakeClient{err: errors.New("quota exceeded")})
	assert.Equal(t, "☹ OOPS!!! Quota exceeded", run(t, s, out, "/chat hello"))
	assert.Empty(t, s.chatHistory)
}

func TestUsageAndClearChat(t *testing.T) {
	s, out, _ := setupTestSession(t)
	assert.Equal(t, "No chat usage in this session yet.", run(t, s, out, "/usage"))

	s.SetLLMClient(&fakeClient{})
	run(t, s, out, "/chat hi")
	run(t, s, out, "/chat again")

	usage := run(t, s, out, "/usage")
	assert.Contains(t, usage, "Prompts:       2")
	assert.Contains(t, usage, "Total tokens:  30")

	assert.Equal(t, "Chat history cleared.", run(t, s, out, "/clearchat"))
	assert.Empty(t, s.chatHistory)
}

func TestAddCommandContext(t *testing.T) {
	s, _, _ := setupTestSession(t)

	s.AddCommandContext("/list", "ignored without a client")
	assert.Empty(t, s.chatHistory)

	s.SetLLMClient(&fakeClient{})
	s.chatHistory = []*llm.Message{{Role: llm.RoleUser, Content: "hi"}}
	for i := 0; i < maxCommandContextEntries+3; i++ {
		s.AddCommandContext("/list", "output")
	}

	require.Len(t, s.chatHistory, maxCommandContextEntries+1)
	assert.Equal(t, llm.RoleUser, s.chatHistory[0].Role)
	assert.Equal(t, "User ran: /list\nOutput: output", s.chatHistory[1].Content)
}
