package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"legisc-rag/internal/config"
	"legisc-rag/internal/ingest"
	"legisc-rag/internal/rag/embedding/googleEmbedding"
	"legisc-rag/pkg/logger_i"
)

// One-shot corpus rebuild: walks the law pages, chunks and embeds them,
// and writes the vector index plus document map the API serves from.
func main() {

	logger_i.Init()
	var logger = logger_i.NewLogger("ingest")

	var corpusDir, dataDir string
	flag.StringVar(&corpusDir, "corpus", config.CorpusDir(), "directory tree of .html law pages")
	flag.StringVar(&dataDir, "data", config.DataDir(), "output directory for the retrieval artifacts")
	flag.Parse()

	apiKey, err := config.GeminiAPIKey()
	if err != nil {
		logger.Error("Missing configuration", "error", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	embedder, err := googleEmbedding.NewClient(ctx, config.GoogleEmbeddingModel, apiKey)
	if err != nil {
		logger.Error("Embedding client failed to initialize", "error", err)
		os.Exit(1)
	}

	pipeline := ingest.NewPipeline(embedder, dataDir)
	if err := pipeline.Run(ctx, corpusDir); err != nil {
		logger.Error("Ingestion failed, no index written", "error", err)
		os.Exit(1)
	}
	logger.Info("Ingestion finished", "dataDir", dataDir)
}
