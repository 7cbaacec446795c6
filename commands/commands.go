package commands

import (
	"fmt"
	"sort"
	"strings"

	"maki/llm"
)

// ParamType defines the type of a command parameter
type ParamType string

const (
	ParamTypeString ParamType = "string"
)

// Param defines a parameter for a command
type Param struct {
	Name        string
	Type        ParamType
	Description string
	Required    bool
	Flag        string // marker written before the value, e.g. "/by"
}

// Command represents a CLI command
type Command struct {
	Name        string
	Description string
	Handler     func(s *Session, args string) bool // returns true to quit
	Params      []Param                            // parameter definitions for tool generation
	Hidden      bool                               // if true, exclude from tool generation
	Destructive bool                               // if true, refused when called via tool
}

var registry = make(map[string]*Command)

// Register adds a command to the registry
func Register(cmd *Command) {
	registry[strings.ToLower(cmd.Name)] = cmd
}

// List returns all registered commands sorted by name
func List() []*Command {
	cmds := make([]*Command, 0, len(registry))
	for _, cmd := range registry {
		cmds = append(cmds, cmd)
	}
	sort.Slice(cmds, func(i, j int) bool {
		return cmds[i].Name < cmds[j].Name
	})
	return cmds
}

// GetByName returns a command by name (with or without leading /)
func GetByName(name string) *Command {
	if !strings.HasPrefix(name, "/") {
		name = "/" + name
	}
	return registry[strings.ToLower(name)]
}

// GenerateToolDefinitions creates Tool definitions from registered commands
func GenerateToolDefinitions() []*llm.Tool {
	var tools []*llm.Tool

	for _, cmd := range List() {
		if cmd.Hidden {
			continue
		}

		// Build properties and required arrays from Params
		properties := make(map[string]*llm.ToolProperty)
		var required []string

		for _, p := range cmd.Params {
			properties[p.Name] = &llm.ToolProperty{
				Type:        string(p.Type),
				Description: p.Description,
			}
			if p.Required {
				required = append(required, p.Name)
			}
		}

		tool := &llm.Tool{
			Name:        strings.TrimPrefix(cmd.Name, "/"),
			Description: cmd.Description,
		}

		// Only add Parameters if there are any
		if len(properties) > 0 {
			tool.Parameters = &llm.ToolParameters{
				Type:       "object",
				Properties: properties,
				Required:   required,
			}
		}

		tools = append(tools, tool)
	}

	return tools
}

// commandLine rebuilds the input line for a tool call, placing each
// argument in parameter order behind its flag.
func commandLine(cmd *Command, args map[string]any) string {
	parts := []string{cmd.Name}
	for _, p := range cmd.Params {
		val, ok := args[p.Name]
		if !ok {
			continue
		}
		s := strings.TrimSpace(fmt.Sprintf("%v", val))
		if s == "" {
			continue
		}
		if p.Flag != "" {
			parts = append(parts, p.Flag)
		}
		parts = append(parts, s)
	}
	return strings.Join(parts, " ")
}
