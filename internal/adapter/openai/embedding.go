package openai

import (
	"context"
	"fmt"
	"math"

	openai "github.com/sashabaranov/go-openai"
)

type EmbeddingClient struct {
	client     *openai.Client
	model      string
	configured bool
}

// NewEmbeddingClient creates a new embedding client
func NewEmbeddingClient(apiKey, baseURL, model string) *EmbeddingClient {
	cfg := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		cfg.BaseURL = baseURL
	}
	return &EmbeddingClient{
		client:     openai.NewClientWithConfig(cfg),
		model:      model,
		configured: apiKey != "",
	}
}

// GenerateEmbedding embeds a single text. The vector length is whatever the
// configured model produces; callers must not assume a fixed dimensionality.
func (c *EmbeddingClient) GenerateEmbedding(ctx context.Context, text string) ([]float32, error) {
	if !c.configured {
		return nil, fmt.Errorf("%w: OPENAI_API_KEY is empty", ErrNotConfigured)
	}

	resp, err := c.client.CreateEmbeddings(ctx, openai.EmbeddingRequest{
		Input: []string{text},
		Model: openai.EmbeddingModel(c.model),
	})
	if err != nil {
		return nil, classifyError(err)
	}

	if len(resp.Data) == 0 {
		return nil, fmt.Errorf("no embedding returned")
	}

	vector := resp.Data[0].Embedding
	if err := ValidateVector(vector); err != nil {
		return nil, err
	}

	return vector, nil
}

// ValidateVector rejects vectors that would be unusable in the vector store:
// empty, or containing NaN/Inf components.
func ValidateVector(vector []float32) error {
	if len(vector) == 0 {
		return fmt.Errorf("embedding vector is empty")
	}
	for i, v := range vector {
		f := float64(v)
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return fmt.Errorf("embedding component %d is not a finite number", i)
		}
	}
	return nil
}
