package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"path/filepath"
	"sync"
	"syscall"

	"legisc-rag/internal/config"
	"legisc-rag/internal/data/corpus"
	"legisc-rag/internal/data/store"
	jobmodel "legisc-rag/internal/domain/jobModel"
	"legisc-rag/internal/handlers"
	"legisc-rag/internal/job"
	"legisc-rag/internal/rag"
	"legisc-rag/internal/rag/embedding/googleEmbedding"
	"legisc-rag/internal/rag/llm/gemini"
	"legisc-rag/internal/rag/vectorDB/flatIndex"
	"legisc-rag/internal/server"
	"legisc-rag/internal/worker"
	"legisc-rag/pkg/logger_i"
)

var (
	listenAddr        string
	dataDir           string
	stopWorkerChannel chan bool
	workerWaitGroup   sync.WaitGroup
)

func main() {

	logger_i.Init()
	var logger = logger_i.NewLogger("main")

	//config
	flag.StringVar(&listenAddr, "listen-addr", config.ServerListenAddr, "server listen address")
	flag.StringVar(&dataDir, "data", config.DataDir(), "directory holding the index and document map")
	flag.Parse()

	apiKey, err := config.GeminiAPIKey()
	if err != nil {
		logger.Error("Missing configuration. Shutting down.", "error", err)
		os.Exit(1)
	}

	//retrieval artifacts are required to serve anything
	index, err := flatIndex.Load(filepath.Join(dataDir, config.IndexFileName))
	if err != nil {
		logger.Error("Cannot load vector index. Run the ingestion binary first.", "error", err)
		os.Exit(1)
	}
	docMap, err := corpus.Load(filepath.Join(dataDir, config.DocumentsMapName))
	if err != nil {
		logger.Error("Cannot load document map. Run the ingestion binary first.", "error", err)
		os.Exit(1)
	}
	if index.Size() != docMap.Len() {
		logger.Error("Index and document map disagree. Re-run ingestion.",
			"indexSize", index.Size(), "mapSize", docMap.Len())
		os.Exit(1)
	}
	logger.Info("Retrieval artifacts loaded", "chunks", docMap.Len(), "dim", index.Dim())

	//init buffered job channel
	jobChannel := make(chan jobmodel.Job, config.BufferLimit)
	stopWorkerChannel = make(chan bool, 1)

	serviceContext, closeExternalServices := context.WithCancel(context.Background())
	defer closeExternalServices()

	//init job service and stores, falling back to memory when redis is offline
	var jobStore jobmodel.JobStore
	var messageStore jobmodel.MessageStore
	if rs := store.GetRedisJobStore(serviceContext); rs != nil {
		jobStore = rs
	} else {
		logger.Error("Redis job store is offline, using in-memory store")
		jobStore = store.InitInMemoryJobStore()
	}
	if ms := store.GetRedisMessageStore(serviceContext); ms != nil {
		messageStore = ms
	} else {
		logger.Error("Redis message store is offline, using in-memory store")
		messageStore = store.InitMessageStore()
	}

	logger.Info("Starting job service")
	service := job.InitJobService(job.ServiceConfig{
		JobChannel:   jobChannel,
		JobStore:     jobStore,
		MessageStore: messageStore,
	})

	embeddingService, err := googleEmbedding.NewClient(serviceContext, config.GoogleEmbeddingModel, apiKey)
	if err != nil {
		logger.Error("Embedding client failed to initialize. Shutting down.", "error", err)
		os.Exit(1)
	}
	llmProvider, err := gemini.NewClient(serviceContext, config.GeminiModelName, apiKey)
	if err != nil {
		logger.Error("Gemini client failed to initialize. Shutting down.", "error", err)
		os.Exit(1)
	}

	ragService := rag.NewService(docMap, index, llmProvider, embeddingService)

	handlers.InitJobHandler(service)

	//single worker: queries run one at a time
	queryWorker := worker.NewWorker(service, ragService)
	queryWorker.Start(stopWorkerChannel, &workerWaitGroup)

	//server handling
	gracefulShutdown := make(chan os.Signal, 1)
	signal.Notify(gracefulShutdown, syscall.SIGINT, syscall.SIGTERM)
	stopExecution := make(chan bool, 1)

	shutdownParams := server.ShutdownParams{
		GracefulShutdown: gracefulShutdown,
		StopExecution:    stopExecution,
		WorkerStop:       stopWorkerChannel,
		Group:            &workerWaitGroup,
		CloseServices:    closeExternalServices,
	}
	go server.ShutDownHandler(shutdownParams)
	go server.CreateServer(listenAddr)

	<-stopExecution
	logger.Info("Server stopped")
}
