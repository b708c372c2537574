package worker

import (
	"sync"

	"legisc-rag/internal/job"
	"legisc-rag/internal/metrics"
	"legisc-rag/internal/rag"
	"legisc-rag/pkg/logger_i"
)

// Worker is the single consumer of the job queue. One worker means one
// query is processed to completion before the next starts, which keeps
// generation calls serialized against the shared model quota.
type Worker struct {
	jobService *job.Service
	ragService rag.Service
	logger     *logger_i.Logger
}

func NewWorker(jobService *job.Service, ragService rag.Service) *Worker {
	return &Worker{
		jobService: jobService,
		ragService: ragService,
		logger:     logger_i.NewLogger("Worker"),
	}
}

func (w *Worker) Start(stop chan bool, wg *sync.WaitGroup) {
	wg.Add(1)
	metrics.IncrementActiveWorkerCount()
	go w.run(stop, wg)
	w.logger.Info("Worker started")
}

func (w *Worker) run(stop chan bool, wg *sync.WaitGroup) {
	defer func() {
		metrics.DecrementActiveWorkerCount()
		wg.Done()
	}()
	for {
		select {
		case currentJob := <-w.jobService.JobChannel:
			w.executeJob(currentJob)
			metrics.DecrementJobsInQueue()

		case <-stop:
			w.logger.Info("Stop worker signal received")
			return
		}
	}
}
