package openai

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	openai "github.com/sashabaranov/go-openai"
)

type ChatClient struct {
	client     *openai.Client
	model      string
	configured bool
}

func NewChatClient(apiKey, baseURL, model string) *ChatClient {
	cfg := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		cfg.BaseURL = baseURL
	}
	return &ChatClient{
		client:     openai.NewClientWithConfig(cfg),
		model:      model,
		configured: apiKey != "",
	}
}

// leading list markers like "1.", "1)", "-", "*", "Step 3:"
var stepMarker = regexp.MustCompile(`(?i)^(?:step\s+\d+\s*[:.)-]?|\d+\s*[:.)]|[-*•])\s*`)

// GenerateSteps asks the model to turn a transcript plus the uploader's
// description into an ordered list of short tutorial steps.
func (c *ChatClient) GenerateSteps(ctx context.Context, transcript, description string) ([]string, error) {
	if !c.configured {
		return nil, fmt.Errorf("%w: OPENAI_API_KEY is empty", ErrNotConfigured)
	}

	systemPrompt := `You turn video transcripts into tutorial steps.

Instructions:
1. Produce a numbered list of short, actionable steps a viewer can follow
2. Base the steps only on the transcript and the description provided
3. One step per line, no extra commentary before or after the list`

	userPrompt := fmt.Sprintf(`Video description:
%s

Transcript:
%s

Tutorial steps:`, description, transcript)

	resp, err := c.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: c.model,
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleSystem,
				Content: systemPrompt,
			},
			{
				Role:    openai.ChatMessageRoleUser,
				Content: userPrompt,
			},
		},
		Temperature: 0.3,
		MaxTokens:   700,
	})
	if err != nil {
		return nil, classifyError(err)
	}

	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("no response from model")
	}

	steps := ParseSteps(resp.Choices[0].Message.Content)
	if len(steps) == 0 {
		return nil, fmt.Errorf("model returned no parseable steps")
	}

	return steps, nil
}

// ParseSteps splits free text into an ordered list of step strings, stripping
// list markers. Input line order is preserved.
func ParseSteps(text string) []string {
	var steps []string
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		line = strings.TrimSpace(stepMarker.ReplaceAllString(line, ""))
		if line != "" {
			steps = append(steps, line)
		}
	}
	return steps
}
