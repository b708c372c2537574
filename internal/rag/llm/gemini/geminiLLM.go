package gemini

import (
	"context"
	"fmt"
	"iter"

	"google.golang.org/genai"

	"legisc-rag/pkg/logger_i"
)

type Client struct {
	client    *genai.Client
	modelName string
	logger    *logger_i.Logger
}

func NewClient(ctx context.Context, modelName string, apikey string) (*Client, error) {
	c, err := genai.NewClient(ctx, &genai.ClientConfig{APIKey: apikey})
	if err != nil {
		return nil, fmt.Errorf("creating Gemini client: %w", err)
	}
	logger := logger_i.NewLogger("llm_gemini")
	logger.Debug("Gemini client created", "model", modelName)
	return &Client{client: c, modelName: modelName, logger: logger}, nil
}

func contentConfig(systemInstruction string, temperature float32) *genai.GenerateContentConfig {
	cfg := &genai.GenerateContentConfig{
		Temperature: genai.Ptr(temperature),
	}
	if systemInstruction != "" {
		cfg.SystemInstruction = &genai.Content{
			Parts: []*genai.Part{
				{Text: systemInstruction},
			},
		}
	}
	return cfg
}

func (c *Client) Generate(ctx context.Context, systemInstruction, prompt string, temperature float32) (string, error) {
	result, err := c.client.Models.GenerateContent(
		ctx,
		c.modelName,
		genai.Text(prompt),
		contentConfig(systemInstruction, temperature),
	)
	if err != nil {
		return "", fmt.Errorf("gemini generate: %w", err)
	}
	return result.Text(), nil
}

func (c *Client) GenerateStream(ctx context.Context, systemInstruction, prompt string, temperature float32) iter.Seq2[string, error] {
	return func(yield func(string, error) bool) {
		stream := c.client.Models.GenerateContentStream(
			ctx,
			c.modelName,
			genai.Text(prompt),
			contentConfig(systemInstruction, temperature),
		)
		for resp, err := range stream {
			if err != nil {
				yield("", fmt.Errorf("gemini stream: %w", err))
				return
			}
			if !yield(resp.Text(), nil) {
				return
			}
		}
	}
}
