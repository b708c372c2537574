package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"legisc-rag/internal/adapter"
	"legisc-rag/internal/adapter/utils"
	"legisc-rag/internal/api"
	"legisc-rag/internal/config"
	"legisc-rag/internal/domain/jobModel"
)

func writeJsonResponse(w http.ResponseWriter, statusCode int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		// Log the error but can't send a clean status code now
		logRH.Error("Error encoding response: %v", err)
	}
}

func validateId(id string, traceId string) (result jobModel.Job, isFound bool) {
	if id == "" {
		logRH.Warn("Empty Job ID")
		return jobModel.Job{}, false
	}
	return GetJobStatus(id, traceId)
}

func validateContext(ctx context.Context) bool {
	logRH.With("traceId:", ctx.Value(config.TRACE_ID_KEY).(string))
	if ctx.Err() != nil {
		logRH.Warn("context error", ctx.Err())
		return false
	}

	select {
	case <-ctx.Done():
		logRH.Warn("context cancelled")
		return false
	default:
		return true

	}
}

func WriteErrorResponse(w http.ResponseWriter, httpCode int, id string, error string) {
	writeJsonResponse(w, httpCode, adapter.BadRequest(id, error, httpCode))
}

func processNewJobData(request *http.Request, w http.ResponseWriter, requestData api.ChatRequest) {
	chatID := requestData.ChatID
	isNewChat := false
	if chatID == "" {
		chatID = utils.GetNewUUID()
		logRH.Debug(" New Chat request : ", "chatID:", chatID)
		isNewChat = true
	}

	newJob := newJobData{
		id:        utils.GetNewUUID(),
		chatId:    chatID,
		message:   requestData.Message,
		isNewChat: isNewChat,
		traceId:   request.Context().Value(config.TRACE_ID_KEY).(string),
	}
	CreateNewJob(newJob)
	res := adapter.ToInitJobResponse(newJob.id, newJob.chatId)
	writeJsonResponse(w, http.StatusAccepted, res)
}
