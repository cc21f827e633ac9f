package memory

import (
	"context"

	openai "github.com/sashabaranov/go-openai"
)

// EmbeddingProvider turns text into a vector for similarity ranking.
// Kept as a seam so tests can supply a deterministic fake instead of
// calling out to a real embeddings API.
type EmbeddingProvider interface {
	Embed(ctx context.Context, text string) ([]float32, error)
}

// OpenAIEmbeddings is the default EmbeddingProvider, built on the same
// sashabaranov/go-openai dependency internal/llm already uses for
// chat completions (Open Question resolution recorded in DESIGN.md).
type OpenAIEmbeddings struct {
	client *openai.Client
	model  openai.EmbeddingModel
}

// NewOpenAIEmbeddings builds an OpenAIEmbeddings client against
// baseURL (empty uses the public OpenAI API).
func NewOpenAIEmbeddings(apiKey, baseURL string) *OpenAIEmbeddings {
	cfg := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		cfg.BaseURL = baseURL
	}
	return &OpenAIEmbeddings{
		client: openai.NewClientWithConfig(cfg),
		model:  openai.SmallEmbedding3,
	}
}

// Embed requests a single embedding vector for text.
func (e *OpenAIEmbeddings) Embed(ctx context.Context, text string) ([]float32, error) {
	resp, err := e.client.CreateEmbeddings(ctx, openai.EmbeddingRequestStrings{
		Input: []string{text},
		Model: e.model,
	})
	if err != nil {
		return nil, err
	}
	if len(resp.Data) == 0 {
		return nil, nil
	}
	return resp.Data[0].Embedding, nil
}
