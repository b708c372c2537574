package worker

import (
	"context"
	"net/http"
	"time"

	"legisc-rag/internal/config"
	jobmodel "legisc-rag/internal/domain/jobModel"
	"legisc-rag/internal/domain/lawModel"
	"legisc-rag/internal/metrics"
	"legisc-rag/internal/rag"
)

func (w *Worker) executeJob(job jobmodel.Job) {
	start := time.Now()
	defer func() {
		// Record total time at the end
		metrics.CaptureJobMetrics(string(job.Status), time.Since(start))
	}()
	ctxTrace := context.WithValue(context.Background(), config.TRACE_ID_KEY, job.TraceId)
	ctx, cancel := context.WithTimeout(ctxTrace, config.QueryProcessTimeout)
	defer cancel()
	log := w.logger.With("traceId", job.TraceId, "jobId", job.Id)
	log.Debug("Processing job")

	job.CurrentStep = jobmodel.UserQueryInit
	w.saveJobState(ctx, job, jobmodel.JobStatusRunning)

	job = w.processQuery(ctx, job)

	job.EndTime = time.Now()
	if job.Status != jobmodel.JobStatusError {
		w.saveJobState(ctx, job, jobmodel.JobStatusComplete)
	} else {
		w.saveJobState(ctx, job, jobmodel.JobStatusError)
	}
}

func (w *Worker) processQuery(ctx context.Context, job jobmodel.Job) jobmodel.Job {
	log := w.logger.With("traceId", job.TraceId, "jobId", job.Id)

	job.CurrentStep = jobmodel.RedisCall
	history, err := w.jobService.MessageStore.GetHistory(ctx, job.ChatId)
	if err != nil {
		log.Error("Failed to get message history", "err", err)
		return w.jobError(job, "HISTORY_FAILURE")
	}

	userTurn := lawModel.Turn{Role: lawModel.RoleUser, Content: job.JobPayload.Question}
	if err := w.jobService.MessageStore.AppendTurn(ctx, job.ChatId, userTurn); err != nil {
		log.Error("Failed to save user turn", "err", err)
		return w.jobError(job, "HISTORY_FAILURE")
	}
	history = append(history, userTurn)

	job.CurrentStep = jobmodel.IntentCall
	response := w.ragService.Respond(ctx, job.JobPayload.Question, history)

	switch response.Kind {
	case rag.ResponseRefusal, rag.ResponseRetrievalError:
		job.JobPayload.Answer = response.Text
	case rag.ResponseAnswer:
		job.CurrentStep = jobmodel.LLMCall
		job.JobPayload.Sources = response.Sources
		answer, streamErr := response.Collect()
		if streamErr != nil {
			log.Error("Answer stream failed mid-generation", "err", streamErr)
		}
		job.JobPayload.Answer = answer
	}

	if err := w.jobService.MessageStore.AppendTurn(ctx, job.ChatId,
		lawModel.Turn{Role: lawModel.RoleAssistant, Content: job.JobPayload.Answer}); err != nil {
		log.Error("Failed to save assistant turn", "err", err)
	}

	job.CurrentStep = jobmodel.Complete
	return job
}

func (w *Worker) saveJobState(ctx context.Context, job jobmodel.Job, status jobmodel.JobStatus) {
	job.Status = status
	if err := w.jobService.JobStore.SaveJob(ctx, job); err != nil {
		w.logger.Error("Failed to save job state", "jobId", job.Id, "err", err)
	}
}

func (w *Worker) jobError(job jobmodel.Job, message string) jobmodel.Job {
	job.Error = jobmodel.JobError{
		Code:    http.StatusInternalServerError,
		Message: message,
		Retry:   true,
	}
	job.Status = jobmodel.JobStatusError
	job.CurrentStep = jobmodel.Error
	return job
}
