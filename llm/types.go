package llm

// Response is the final answer of a chat exchange.
type Response struct {
	Text         string
	FinishReason string
	TokensUsed   int64
	InputTokens  int64
	OutputTokens int64
	ToolCalls    int
}

type Config struct {
	Model       string
	MaxTokens   int32
	Temperature float32
}

func DefaultConfig() *Config {
	return &Config{
		Model:       "gemini-2.5-flash",
		MaxTokens:   8192,
		Temperature: 0.7,
	}
}

// Roles used in Message.Role.
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
	RoleTool      = "tool"
	RoleContext   = "context"
)

// Message is one entry of a provider-neutral conversation history.
// Assistant messages may carry tool calls; tool messages carry the result
// of the call named by Name.
type Message struct {
	Role      string
	Content   string
	Name      string
	ToolCalls []ToolCall
}

// ToolCall is a function call requested by the model.
type ToolCall struct {
	Name      string
	Arguments map[string]any
}

// Tool describes a function the model may call.
type Tool struct {
	Name        string
	Description string
	Parameters  *ToolParameters
}

type ToolParameters struct {
	Type       string
	Properties map[string]*ToolProperty
	Required   []string
}

type ToolProperty struct {
	Type        string
	Description string
}
