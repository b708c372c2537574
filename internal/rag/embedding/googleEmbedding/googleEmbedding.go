package googleEmbedding

import (
	"context"
	"fmt"

	"google.golang.org/genai"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"legisc-rag/pkg/logger_i"
)

type Client struct {
	genAi  *genai.Client
	model  string
	logger *logger_i.Logger
}

// NewClient builds a Gemini embedding client for the given model. Corpus
// chunks embed with the RETRIEVAL_DOCUMENT task type, user queries with
// RETRIEVAL_QUERY, so the two sides of the search share the vector space
// they were trained for.
func NewClient(ctx context.Context, modelName string, apikey string) (*Client, error) {
	c, err := genai.NewClient(ctx, &genai.ClientConfig{APIKey: apikey})
	if err != nil {
		return nil, fmt.Errorf("creating Google embedding client: %w", err)
	}
	logger := logger_i.NewLogger("google_embedding")
	logger.Debug("Google Embedding model name: " + modelName)
	return &Client{genAi: c, model: modelName, logger: logger}, nil
}

func (c *Client) EmbedQuery(ctx context.Context, query string) ([]float32, error) {
	result, err := c.genAi.Models.EmbedContent(ctx, c.model, genai.Text(query),
		&genai.EmbedContentConfig{TaskType: "RETRIEVAL_QUERY"})
	if err != nil {
		c.logRateLimit(err)
		return nil, fmt.Errorf("embedding query: %w", err)
	}
	if len(result.Embeddings) == 0 {
		return nil, fmt.Errorf("embedding query: empty response")
	}
	return result.Embeddings[0].Values, nil
}

func (c *Client) EmbedBatch(ctx context.Context, chunks []string) ([][]float32, error) {
	result, err := c.genAi.Models.EmbedContent(ctx, c.model, getContent(chunks),
		&genai.EmbedContentConfig{TaskType: "RETRIEVAL_DOCUMENT"})
	if err != nil {
		c.logRateLimit(err)
		return nil, fmt.Errorf("embedding batch of %d: %w", len(chunks), err)
	}
	if len(result.Embeddings) != len(chunks) {
		return nil, fmt.Errorf("embedding batch: got %d vectors for %d chunks", len(result.Embeddings), len(chunks))
	}
	vectors := make([][]float32, 0, len(result.Embeddings))
	for _, r := range result.Embeddings {
		vectors = append(vectors, r.Values)
	}
	return vectors, nil
}

func (c *Client) logRateLimit(err error) {
	if s, ok := status.FromError(err); ok {
		if s.Code() == codes.ResourceExhausted {
			c.logger.Error("Rate limit hit! ", "error", err)
		}
	}
}

func getContent(chunks []string) []*genai.Content {
	contentsToSend := make([]*genai.Content, 0, len(chunks))
	for _, chunk := range chunks {
		contentsToSend = append(contentsToSend, &genai.Content{
			Parts: []*genai.Part{{Text: chunk}},
		})
	}
	return contentsToSend
}
