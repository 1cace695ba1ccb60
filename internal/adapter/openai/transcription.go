package openai

import (
	"context"
	"fmt"

	openai "github.com/sashabaranov/go-openai"
)

type TranscriptionClient struct {
	client     *openai.Client
	model      string
	configured bool
}

// NewTranscriptionClient creates a speech-to-text client backed by whisper.
// An empty apiKey produces a client whose calls return ErrNotConfigured.
func NewTranscriptionClient(apiKey, baseURL, model string) *TranscriptionClient {
	cfg := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		cfg.BaseURL = baseURL
	}
	return &TranscriptionClient{
		client:     openai.NewClientWithConfig(cfg),
		model:      model,
		configured: apiKey != "",
	}
}

// TranscribeFile sends one audio file and returns its plain-text transcript
func (c *TranscriptionClient) TranscribeFile(ctx context.Context, audioPath string) (string, error) {
	if !c.configured {
		return "", fmt.Errorf("%w: OPENAI_API_KEY is empty", ErrNotConfigured)
	}

	resp, err := c.client.CreateTranscription(ctx, openai.AudioRequest{
		Model:    c.model,
		FilePath: audioPath,
	})
	if err != nil {
		return "", classifyError(err)
	}

	return resp.Text, nil
}
