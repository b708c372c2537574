package ingest

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"legisc-rag/internal/adapter/utils"
	"legisc-rag/internal/config"
	"legisc-rag/internal/data/corpus"
	"legisc-rag/internal/domain/lawModel"
	"legisc-rag/internal/rag/embedding"
	"legisc-rag/internal/rag/vectorDB/flatIndex"
	"legisc-rag/pkg/logger_i"
)

// Pipeline rebuilds the retrieval artifacts from a corpus of law pages.
// A rebuild is wholesale: prior artifacts are removed first and the index
// is only written after every batch embedded, so a failed run never
// leaves a partial index behind.
type Pipeline struct {
	embedder embedding.Embedder
	dataDir  string
	limiter  *rate.Limiter
	logger   *logger_i.Logger

	retryAttempts       int
	retryBase, retryMax time.Duration
}

func NewPipeline(embedder embedding.Embedder, dataDir string) *Pipeline {
	return &Pipeline{
		embedder:      embedder,
		dataDir:       dataDir,
		limiter:       rate.NewLimiter(rate.Every(time.Second), 1),
		logger:        logger_i.NewLogger("ingest_pipeline"),
		retryAttempts: config.EmbedRetryAttempts,
		retryBase:     config.EmbedRetryBaseWait,
		retryMax:      config.EmbedRetryMaxWait,
	}
}

func (p *Pipeline) Run(ctx context.Context, corpusDir string) error {
	if err := p.removeArtifacts(); err != nil {
		return err
	}

	chunks, err := p.collectChunks(corpusDir)
	if err != nil {
		return err
	}
	if len(chunks) == 0 {
		return fmt.Errorf("no chunks produced from corpus %s", corpusDir)
	}
	p.logger.Info("corpus chunked", "chunks", len(chunks))

	if err := os.MkdirAll(p.dataDir, 0o755); err != nil {
		return fmt.Errorf("creating data dir: %w", err)
	}
	if err := corpus.SaveChunks(filepath.Join(p.dataDir, config.ChunksCheckpointName), chunks); err != nil {
		return err
	}

	vectors, err := p.embedAll(ctx, chunks)
	if err != nil {
		return err
	}

	index := flatIndex.New(len(vectors[0]))
	if err := index.Add(vectors...); err != nil {
		return err
	}
	if err := index.Save(filepath.Join(p.dataDir, config.IndexFileName)); err != nil {
		return err
	}

	docMap, err := corpus.New(chunks)
	if err != nil {
		return err
	}
	if err := docMap.Save(filepath.Join(p.dataDir, config.DocumentsMapName)); err != nil {
		return err
	}

	p.logger.Info("ingestion complete", "chunks", len(chunks), "dim", len(vectors[0]))
	return nil
}

func (p *Pipeline) removeArtifacts() error {
	for _, name := range []string{config.IndexFileName, config.DocumentsMapName, config.ChunksCheckpointName} {
		path := filepath.Join(p.dataDir, name)
		if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("removing stale artifact %s: %w", path, err)
		}
	}
	return nil
}

// collectChunks walks the corpus tree and turns every .html file into
// headered chunks with law and article identifiers. Chunk ids are
// sequential across the whole corpus; Row is the vector row the chunk
// will occupy.
func (p *Pipeline) collectChunks(corpusDir string) ([]lawModel.Chunk, error) {
	var chunks []lawModel.Chunk
	docCounter := 0

	err := filepath.WalkDir(corpusDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !strings.EqualFold(filepath.Ext(path), ".html") {
			return nil
		}

		filename := d.Name()
		text := ExtractFile(path)
		if text == "" {
			p.logger.Warn("no text extracted, skipping", "file", filename)
			return nil
		}

		lawID, year := lawModel.NormalizeLawID(filename)
		baseID := lawID.String()

		for i, chunkText := range ChunkText(text, filename, year, config.MaxChunkSize) {
			docCounter++
			chunks = append(chunks, lawModel.Chunk{
				ID:   fmt.Sprintf("doc_%d", docCounter),
				Row:  len(chunks),
				Text: chunkText,
				Metadata: lawModel.ChunkMetadata{
					Fonte:         filename,
					AnoPublicacao: year,
					ChunkIndex:    i,
					IDUnico:       lawModel.ExtractArticleID(chunkText, baseID),
				},
			})
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walking corpus %s: %w", corpusDir, err)
	}
	return chunks, nil
}

// embedAll embeds the chunks in fixed-size batches, pacing batches with
// the limiter and retrying each batch before giving up. One failed batch
// aborts the whole run.
func (p *Pipeline) embedAll(ctx context.Context, chunks []lawModel.Chunk) ([][]float32, error) {
	vectors := make([][]float32, 0, len(chunks))

	for start := 0; start < len(chunks); start += config.EmbeddingBatchSize {
		end := start + config.EmbeddingBatchSize
		if end > len(chunks) {
			end = len(chunks)
		}
		texts := make([]string, 0, end-start)
		for _, chunk := range chunks[start:end] {
			texts = append(texts, chunk.Text)
		}

		if err := p.limiter.Wait(ctx); err != nil {
			return nil, err
		}

		var batch [][]float32
		err := utils.Retry(ctx, p.retryAttempts, p.retryBase, p.retryMax, func() error {
			var callErr error
			batch, callErr = p.embedder.EmbedBatch(ctx, texts)
			return callErr
		})
		if err != nil {
			return nil, fmt.Errorf("embedding batch starting at chunk %d: %w", start, err)
		}
		vectors = append(vectors, batch...)
		p.logger.Debug("batch embedded", "from", start, "to", end)
	}

	return vectors, nil
}
