package ai

import (
	"context"
	"strconv"
	"strings"

	openai "github.com/sashabaranov/go-openai"

	"geowatch/internal/event"
)

const insightsSourceLimit = 3000

const insightsSystemPrompt = `You are an expert geopolitical analyst providing insights on global events through a conversational interface. 
Your analysis should be:
- Factually grounded and balanced
- Structured with clear sections using markdown formatting
- Accessible yet sophisticated
- Concise but comprehensive
- Free from political bias or advocacy positions

Present your analysis in a way that invites further questions and exploration.`

const insightsInstructions = `Provide a concise yet comprehensive analysis of this event. Your response should be formatted for readability in a chat interface with clear sections using markdown. Include:

1. A brief executive summary (2-3 sentences)
2. Key geopolitical context and significance
3. Likely implications for regional stability
4. Main stakeholders and their interests
5. Historical precedents or relevant background
6. Potential future developments
7. Recommendations for monitoring

Format your analysis with clear headings, bullet points where appropriate, and concise paragraphs. Make your insights accessible while demonstrating expert analysis.

Remember: This initial analysis will start a conversation where the user can ask follow-up questions about specific aspects.
`

// InsightsRequest is one event to analyse.
type InsightsRequest struct {
	Event         event.Event
	SourceContent string
	// CountryLabel replaces the bare country code when set, e.g. "US (United States)".
	CountryLabel string
}

// InsightsPrompt renders the analyst prompt for one event.
func InsightsPrompt(req InsightsRequest) string {
	e := req.Event
	country := req.CountryLabel
	if country == "" {
		country = e.CountryCode
	}

	var b strings.Builder
	b.WriteString("\nAnalyze the following global event as an expert geopolitical analyst:\n\n")
	b.WriteString("EVENT TYPE: " + e.QuadClass.Name() + "\n")
	b.WriteString("LOCATION: " + e.FullName + "\n")
	b.WriteString("COUNTRY: " + country + "\n")
	// Absent actor fields leave their line blank.
	if ac := e.ActorCountry(); ac != "" {
		b.WriteString("ACTOR COUNTRY: " + ac)
	}
	b.WriteString("\n")
	if at := e.ActorType(); at != "" {
		b.WriteString("ACTOR TYPE: " + at)
	}
	b.WriteString("\n")
	b.WriteString("GOLDSTEIN SCORE: " + strconv.FormatFloat(e.GoldsteinScore, 'f', 1, 64) + "\n")
	b.WriteString("REPORTED: " + e.TimeAgo + "\n")
	b.WriteString("SOURCE URL: " + e.Source + "\n\n")
	b.WriteString("SOURCE CONTENT:\n")
	if req.SourceContent != "" {
		b.WriteString(truncate(req.SourceContent, insightsSourceLimit))
	} else {
		b.WriteString("No content available from source")
	}
	b.WriteString("\n\n")
	b.WriteString(insightsInstructions)
	return b.String()
}

// Insights produces the structured first analysis of an event.
func (c *Client) Insights(ctx context.Context, key string, req InsightsRequest) (string, error) {
	return c.complete(ctx, key, openai.ChatCompletionRequest{
		Model: c.cfg.InsightsModel,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: insightsSystemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: InsightsPrompt(req)},
		},
		Temperature: 0.5,
		MaxTokens:   1500,
	})
}
