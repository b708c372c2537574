package vectorDB

import "context"

type Searcher interface {
	// Search returns the rows of the k nearest vectors and their squared
	// L2 distances, closest first.
	Search(ctx context.Context, vector []float32, k int) ([]int, []float32, error)
	Size() int
}
