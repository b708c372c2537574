package llm

import (
	"context"
	"iter"
)

type Provider interface {
	Generate(ctx context.Context, systemInstruction, prompt string, temperature float32) (string, error)
	// GenerateStream yields answer fragments as the model produces them.
	// A non-nil error ends the sequence.
	GenerateStream(ctx context.Context, systemInstruction, prompt string, temperature float32) iter.Seq2[string, error]
}
