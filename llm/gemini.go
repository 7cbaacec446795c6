package llm

import (
	"context"
	"os"
	"strings"

	"google.golang.org/genai"
)

// maxToolRounds bounds the tool calling loop of a single message.
const maxToolRounds = 8

type GeminiClient struct {
	client *genai.Client
	config *Config
}

func NewGeminiClient(ctx context.Context, config *Config) (*GeminiClient, error) {
	apiKey := os.Getenv("GEMINI_API_KEY")
	if apiKey == "" {
		return nil, ErrMissingAPIKey
	}

	if config == nil {
		config = DefaultConfig()
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, err
	}

	return &GeminiClient{client: client, config: config}, nil
}

func (g *GeminiClient) ChatWithTools(ctx context.Context, system, message string, history []*Message, tools []*Tool, executor ToolExecutor) (*Response, []*Message, error) {
	if strings.TrimSpace(message) == "" {
		return nil, history, ErrEmptyPrompt
	}

	genConfig := &genai.GenerateContentConfig{
		MaxOutputTokens: g.config.MaxTokens,
		Temperature:     genai.Ptr(g.config.Temperature),
		Tools: []*genai.Tool{
			{FunctionDeclarations: toFunctionDeclarations(tools)},
		},
	}
	if system != "" {
		genConfig.SystemInstruction = &genai.Content{
			Parts: []*genai.Part{{Text: system}},
		}
	}

	messages := make([]*Message, len(history), len(history)+4)
	copy(messages, history)
	messages = append(messages, &Message{Role: RoleUser, Content: message})

	resp := &Response{}

	// Tool calling loop
	for round := 0; round < maxToolRounds; round++ {
		result, err := g.client.Models.GenerateContent(ctx, g.config.Model, toContents(messages), genConfig)
		if err != nil {
			return nil, history, err
		}

		if result.UsageMetadata != nil {
			resp.InputTokens += int64(result.UsageMetadata.PromptTokenCount)
			resp.OutputTokens += int64(result.UsageMetadata.CandidatesTokenCount)
			resp.TokensUsed += int64(result.UsageMetadata.TotalTokenCount)
		}

		if len(result.Candidates) == 0 || result.Candidates[0].Content == nil || len(result.Candidates[0].Content.Parts) == 0 {
			return nil, history, ErrNoResponse
		}

		candidate := result.Candidates[0]

		reply := &Message{Role: RoleAssistant}
		var textParts []string
		for _, part := range candidate.Content.Parts {
			if part.FunctionCall != nil {
				reply.ToolCalls = append(reply.ToolCalls, ToolCall{
					Name:      part.FunctionCall.Name,
					Arguments: part.FunctionCall.Args,
				})
			}
			if part.Text != "" {
				textParts = append(textParts, part.Text)
			}
		}
		reply.Content = strings.Join(textParts, "")
		messages = append(messages, reply)

		// If no function calls, return the text response
		if len(reply.ToolCalls) == 0 {
			resp.Text = reply.Content
			resp.FinishReason = string(candidate.FinishReason)
			return resp, messages, nil
		}

		for _, call := range reply.ToolCalls {
			resp.ToolCalls++
			messages = append(messages, &Message{
				Role:    RoleTool,
				Name:    call.Name,
				Content: executor(call.Name, call.Arguments),
			})
		}
	}

	return nil, messages, ErrTooManyToolCalls
}

func (g *GeminiClient) Close() error {
	// The genai client doesn't have a Close method, but we implement it
	// for the interface to support potential future cleanup needs
	return nil
}

// toContents converts the neutral history into Gemini contents. Context
// messages become user text since Gemini only accepts user and model turns.
func toContents(messages []*Message) []*genai.Content {
	contents := make([]*genai.Content, 0, len(messages))
	for _, msg := range messages {
		switch msg.Role {
		case RoleAssistant:
			content := &genai.Content{Role: string(genai.RoleModel)}
			if msg.Content != "" {
				content.Parts = append(content.Parts, &genai.Part{Text: msg.Content})
			}
			for _, call := range msg.ToolCalls {
				content.Parts = append(content.Parts, &genai.Part{
					FunctionCall: &genai.FunctionCall{Name: call.Name, Args: call.Arguments},
				})
			}
			contents = append(contents, content)
		case RoleTool:
			contents = append(contents, &genai.Content{
				Role: string(genai.RoleUser),
				Parts: []*genai.Part{{
					FunctionResponse: &genai.FunctionResponse{
						Name:     msg.Name,
						Response: map[string]any{"result": msg.Content},
					},
				}},
			})
		case RoleContext:
			contents = append(contents, genai.NewContentFromText("[context] "+msg.Content, genai.RoleUser))
		default:
			contents = append(contents, genai.NewContentFromText(msg.Content, genai.RoleUser))
		}
	}
	return contents
}

func toFunctionDeclarations(tools []*Tool) []*genai.FunctionDeclaration {
	decls := make([]*genai.FunctionDeclaration, 0, len(tools))
	for _, t := range tools {
		decl := &genai.FunctionDeclaration{
			Name:        t.Name,
			Description: t.Description,
		}

		if t.Parameters != nil && len(t.Parameters.Properties) > 0 {
			props := make(map[string]*genai.Schema, len(t.Parameters.Properties))
			for name, p := range t.Parameters.Properties {
				props[name] = &genai.Schema{
					Type:        genai.TypeString,
					Description: p.Description,
				}
			}
			decl.Parameters = &genai.Schema{
				Type:       genai.TypeObject,
				Properties: props,
				Required:   t.Parameters.Required,
			}
		}

		decls = append(decls, decl)
	}
	return decls
}
