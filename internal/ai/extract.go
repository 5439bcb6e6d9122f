package ai

import (
	"context"
	"errors"

	openai "github.com/sashabaranov/go-openai"
)

const extractSystemPrompt = "You are a webscraper helper that extracts data from HTML or text. You will be given a piece of text or HTML content as input and also the prompt with the data you have to extract. The response should always be only the extracted data as a JSON array or object, without any additional words or explanations. Analyze the input carefully and extract data precisely based on the prompt. If no data is found, return an empty JSON array. Work only with the provided content and ensure the output is always a valid JSON array without any surrounding text"

// Extraction input errors.
var (
	ErrMissingPrompt  = errors.New("prompt is required")
	ErrMissingContent = errors.New("content is required")
)

// Extract asks the model to pull the data described by prompt out of content
// and returns its raw JSON answer.
func (c *Client) Extract(ctx context.Context, key, prompt, content string) (string, error) {
	if prompt == "" {
		return "", ErrMissingPrompt
	}
	if content == "" {
		return "", ErrMissingContent
	}
	return c.complete(ctx, key, openai.ChatCompletionRequest{
		Model: c.cfg.ExtractModel,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: extractSystemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: content},
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
		Temperature: 1,
	})
}
