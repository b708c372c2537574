package rag

import (
	"context"
	"fmt"
	"iter"
	"strings"
	"time"

	"legisc-rag/internal/config"
	"legisc-rag/internal/data/corpus"
	"legisc-rag/internal/domain/lawModel"
	"legisc-rag/internal/metrics"
	"legisc-rag/internal/rag/embedding"
	"legisc-rag/internal/rag/llm"
	"legisc-rag/internal/rag/vectorDB"
	"legisc-rag/pkg/logger_i"
)

// Service is the worker's whole view of the retrieval subsystem: resolve
// grounding context for a query, or produce a full response from it.
type Service interface {
	GetContext(ctx context.Context, query string, history []lawModel.Turn, k int) (Context, error)
	Respond(ctx context.Context, query string, history []lawModel.Turn) Response
}

type service struct {
	docMap      *corpus.DocumentMap
	index       vectorDB.Searcher
	llmProvider llm.Provider
	embedder    embedding.Embedder
	logger      *logger_i.Logger
}

// NewService constructor
func NewService(docMap *corpus.DocumentMap, index vectorDB.Searcher, llm llm.Provider, em embedding.Embedder) Service {
	return &service{
		docMap:      docMap,
		index:       index,
		llmProvider: llm,
		embedder:    em,
		logger:      logger_i.NewLogger("RAG Service :"),
	}
}

type ResponseKind int

const (
	// ResponseAnswer carries a fragment stream plus sources.
	ResponseAnswer ResponseKind = iota
	// ResponseRefusal is the fixed out-of-scope message for non-legal
	// questions.
	ResponseRefusal
	// ResponseRetrievalError is the fixed message when no context could
	// be retrieved.
	ResponseRetrievalError
)

// Response is the tagged outcome of one query. Text is set for the fixed
// message kinds; Stream and Sources only for answers.
type Response struct {
	Kind    ResponseKind
	Text    string
	Stream  iter.Seq2[string, error]
	Sources []string
}

// Collect drains an answer stream into the final text. A mid-stream
// failure yields the partial text, the fixed error message appended, and
// the error itself.
func (r Response) Collect() (string, error) {
	if r.Kind != ResponseAnswer {
		return r.Text, nil
	}
	var b strings.Builder
	for fragment, err := range r.Stream {
		if err != nil {
			b.WriteString(generationErrorMessage(err))
			return b.String(), err
		}
		b.WriteString(fragment)
	}
	return b.String(), nil
}

// Respond runs the full answer flow: intent filter, hybrid retrieval,
// then streamed grounded generation. history includes the current user
// turn as its last element.
func (s *service) Respond(ctx context.Context, query string, history []lawModel.Turn) Response {
	log := s.logger.With("traceId", ctx.Value(config.TRACE_ID_KEY))

	if s.classifyIntent(ctx, query, history) == intentNonLegal {
		log.Info("query classified as non-legal, refusing")
		return Response{Kind: ResponseRefusal, Text: RefusalMessage}
	}

	retrieved, err := s.GetContext(ctx, query, history, config.DefaultTopK)
	if err != nil || retrieved.Empty() {
		if err != nil {
			log.Error("context retrieval failed", "error", err)
		} else {
			log.Warn("no context retrieved for query")
		}
		return Response{Kind: ResponseRetrievalError, Text: RetrievalErrorMessage}
	}

	start := time.Now()
	defer func() { metrics.CaptureExecutionMetrics("llm_generation", time.Since(start)) }()

	stream := s.llmProvider.GenerateStream(ctx, SystemInstruction,
		ragPrompt(retrieved.Text, query), config.AnswerTemperature)
	return Response{Kind: ResponseAnswer, Stream: stream, Sources: retrieved.Sources}
}

const (
	intentLegal    = "JURIDICA"
	intentNonLegal = "NAO_JURIDICA"
)

// classifyIntent labels the query JURIDICA or NAO_JURIDICA. Follow-ups
// are contextualized with the previous user question so "e o artigo 5º?"
// inherits the legal intent of its thread. Anything other than a clean
// NAO_JURIDICA, including model failure, counts as legal: refusing a
// legitimate question is worse than retrieving for a frivolous one.
func (s *service) classifyIntent(ctx context.Context, query string, history []lawModel.Turn) string {
	contextualized := query
	if len(history) > 1 {
		for i := len(history) - 1; i >= 0; i-- {
			turn := history[i]
			if turn.Role == lawModel.RoleUser && turn.Content != query {
				contextualized = fmt.Sprintf("Com base na pergunta anterior ('%s'), a nova pergunta é: '%s'", turn.Content, query)
				break
			}
		}
	}

	answer, err := s.llmProvider.Generate(ctx, "", classificationPrompt(contextualized), config.ToolTemperature)
	if err != nil {
		s.logger.Warn("intent classification failed, assuming legal", "error", err)
		return intentLegal
	}
	label := strings.ToUpper(strings.TrimSpace(answer))
	if label == intentNonLegal {
		return intentNonLegal
	}
	return intentLegal
}
