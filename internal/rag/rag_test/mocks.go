package rag_test

import (
	"context"
	"iter"
	"strings"
	"sync/atomic"
)

// MockSearcher implements vectorDB.Searcher
type MockSearcher struct {
	OnSearch func(ctx context.Context, vector []float32, k int) ([]int, []float32, error)
	size     int
	Invoked  atomic.Bool
}

func (m *MockSearcher) Search(ctx context.Context, vector []float32, k int) ([]int, []float32, error) {
	m.Invoked.Store(true)
	if m.OnSearch != nil {
		return m.OnSearch(ctx, vector, k)
	}
	return []int{0}, []float32{0.1}, nil
}

func (m *MockSearcher) Size() int {
	return m.size
}

type MockEmbedder struct {
	OnEmbedQuery func(ctx context.Context, text string) ([]float32, error)
	// last query handed to EmbedQuery, for asserting rewrites/prefixes
	LastQuery string
}

func (m *MockEmbedder) EmbedQuery(ctx context.Context, query string) ([]float32, error) {
	m.LastQuery = query
	if m.OnEmbedQuery != nil {
		return m.OnEmbedQuery(ctx, query)
	}
	return []float32{0.1, 0.2}, nil
}

func (m *MockEmbedder) EmbedBatch(ctx context.Context, chunks []string) ([][]float32, error) {
	return make([][]float32, len(chunks)), nil
}

// MockLLM implements llm.Provider, routing each call by the prompt it
// receives: intent classification, id extraction, query rewriting or
// final generation.
type MockLLM struct {
	OnClassify func(ctx context.Context, prompt string) (string, error)
	OnExtract  func(ctx context.Context, prompt string) (string, error)
	OnRewrite  func(ctx context.Context, prompt string) (string, error)
	OnStream   func(ctx context.Context, system, prompt string, temp float32) iter.Seq2[string, error]
}

func (m *MockLLM) Generate(ctx context.Context, system, prompt string, temp float32) (string, error) {
	switch {
	case strings.Contains(prompt, "CLASSIFIQUE"):
		if m.OnClassify != nil {
			return m.OnClassify(ctx, prompt)
		}
		return "JURIDICA", nil
	case strings.Contains(prompt, "ANALISE a seguinte pergunta"):
		if m.OnExtract != nil {
			return m.OnExtract(ctx, prompt)
		}
		return "NULO", nil
	case strings.Contains(prompt, "FRASE REESCRITA"):
		if m.OnRewrite != nil {
			return m.OnRewrite(ctx, prompt)
		}
		return "", nil
	}
	return "mocked llm response", nil
}

func (m *MockLLM) GenerateStream(ctx context.Context, system, prompt string, temp float32) iter.Seq2[string, error] {
	if m.OnStream != nil {
		return m.OnStream(ctx, system, prompt, temp)
	}
	return fragments("resposta ", "gerada")
}

func fragments(parts ...string) iter.Seq2[string, error] {
	return func(yield func(string, error) bool) {
		for _, part := range parts {
			if !yield(part, nil) {
				return
			}
		}
	}
}

func failingStream(err error, partsBefore ...string) iter.Seq2[string, error] {
	return func(yield func(string, error) bool) {
		for _, part := range partsBefore {
			if !yield(part, nil) {
				return
			}
		}
		yield("", err)
	}
}
