package ai

import (
	"context"
	"fmt"

	openai "github.com/sashabaranov/go-openai"
)

const chatSourceLimit = 2000

// Message is one turn of an ongoing chat.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// ChatRequest is a follow-up question about an event.
type ChatRequest struct {
	Message          string
	Context          string
	PreviousMessages []Message
	SourceContent    string
}

func chatSystemPrompt(context, source string) string {
	if context == "" {
		context = "No specific context provided."
	}
	sourceBlock := "No source content available."
	if source != "" {
		sourceBlock = "Content from the source article (use this to inform your answers):\n" +
			truncate(source, chatSourceLimit)
	}
	return fmt.Sprintf(`You are an expert geopolitical analyst specializing in providing insights and analysis on global events. 
You analyze news and events to extract meaningful patterns, connections, and implications.

Context about the current event being discussed:
%s

%s

Provide thoughtful, balanced, and informative responses to questions about this event. If asked about something outside your knowledge or not related to the event, politely redirect the conversation back to the event analysis. Use bullet points and structured formatting when appropriate.`, context, sourceBlock)
}

// Chat answers a follow-up question, replaying the earlier turns.
func (c *Client) Chat(ctx context.Context, key string, req ChatRequest) (string, error) {
	messages := make([]openai.ChatCompletionMessage, 0, len(req.PreviousMessages)+2)
	messages = append(messages, openai.ChatCompletionMessage{
		Role:    openai.ChatMessageRoleSystem,
		Content: chatSystemPrompt(req.Context, req.SourceContent),
	})
	for _, m := range req.PreviousMessages {
		role := openai.ChatMessageRoleUser
		if m.Role == openai.ChatMessageRoleAssistant {
			role = openai.ChatMessageRoleAssistant
		}
		messages = append(messages, openai.ChatCompletionMessage{Role: role, Content: m.Content})
	}
	messages = append(messages, openai.ChatCompletionMessage{
		Role:    openai.ChatMessageRoleUser,
		Content: req.Message,
	})

	return c.complete(ctx, key, openai.ChatCompletionRequest{
		Model:       c.cfg.ChatModel,
		Messages:    messages,
		Temperature: 0.7,
		MaxTokens:   1000,
	})
}
