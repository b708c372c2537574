package config

import (
	"errors"
	"log/slog"
	"os"
	"time"
)

const (
	IS_PROD        = false
	LOG_LEVEL_PROD = slog.LevelInfo
	TRACE_ID_KEY   = "traceId"

	RATE_LIMIT_PER_SECOND       = 2
	BURST_RATE_LIMIT_PER_SECOND = 5

	//llm + embedding models (Gemini)
	GeminiModelName      = "gemini-2.5-flash"
	GoogleEmbeddingModel = "text-embedding-004"

	//generation temperatures: tool calls (classification, extraction,
	//rewriting) run deterministic, answers allow a little variation
	ToolTemperature   float32 = 0.0
	AnswerTemperature float32 = 0.3

	//chunking
	MaxChunkSize        = 1500
	MinChunkContentSize = 256

	//ingestion embedding batches
	EmbeddingBatchSize = 100
	EmbedRetryAttempts = 5
	EmbedRetryBaseWait = 2 * time.Second
	EmbedRetryMaxWait  = 30 * time.Second

	//query-time search retries
	SearchRetryAttempts = 3
	SearchRetryBaseWait = 2 * time.Second
	SearchRetryMaxWait  = 60 * time.Second

	//retrieval
	DefaultTopK         = 10
	RewriteHistoryTurns = 4

	//persisted artifacts, relative to the data directory
	IndexFileName        = "vector_index.bin"
	DocumentsMapName     = "documents_map.json"
	ChunksCheckpointName = "chunks_processados.json"

	//seed turn every chat history starts from
	Greeting = "Olá! Sou seu assistente jurídico especializado em Leis de Santa Catarina. Como posso ajudar na sua consulta legal hoje?"

	//serverTimeouts
	ReadTimeout            = 5 * time.Second
	WriteTimeout           = 10 * time.Second
	IdleTimeout            = 120 * time.Second
	ShutdownContextTimeout = 10 * time.Second

	//a query runs intent check, retrieval and generation inside this window
	QueryProcessTimeout = 120 * time.Second

	//server listening port
	ServerListenAddr = ":3000"

	//job requests buffer limit
	BufferLimit = 100

	//redis
	redisHost = "127.0.0.1"
	redisPort = "6379"
	RedisAddr = redisHost + ":" + redisPort

	RedisPassword = ""

	//redis has 16 DB we can use
	RedisJobStore     = 0
	RedisMessageStore = 1

	//redis timeouts
	RedisJobStoreTTL     = 24 * time.Hour
	RedisMessageStoreTTL = 24 * time.Hour
)

// GeminiAPIKey reads the Gemini credential from the environment. A missing
// key is a configuration error and fatal at startup.
func GeminiAPIKey() (string, error) {
	key := os.Getenv("GEMINI_API_KEY")
	if key == "" {
		return "", errors.New("GEMINI_API_KEY not set in the environment")
	}
	return key, nil
}

// DataDir is where ingestion writes and the API reads the persisted
// index, document map and chunk checkpoint.
func DataDir() string {
	if dir := os.Getenv("DATA_DIR"); dir != "" {
		return dir
	}
	return "data"
}

// CorpusDir is the default tree of law pages the ingestion walks.
func CorpusDir() string {
	if dir := os.Getenv("CORPUS_DIR"); dir != "" {
		return dir
	}
	return "leis"
}

// AuthToken is the bearer token the API expects. An empty token disables
// auth, which is only meant for local development.
func AuthToken() string {
	return os.Getenv("API_AUTH_TOKEN")
}
