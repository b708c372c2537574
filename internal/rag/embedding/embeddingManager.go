package embedding

import "context"

type Embedder interface {
	EmbedQuery(ctx context.Context, query string) ([]float32, error)
	EmbedBatch(ctx context.Context, chunks []string) ([][]float32, error)
}
