package handlers

import (
	"encoding/json"
	"io"
	"net/http"

	"legisc-rag/internal/adapter"
	"legisc-rag/internal/adapter/utils"
	"legisc-rag/internal/api"
	"legisc-rag/internal/config"
	"legisc-rag/pkg/logger_i"
)

var logRH *logger_i.Logger

type newJobData struct {
	id        string
	chatId    string
	message   string
	isNewChat bool
	traceId   string
}

func GetHandler(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
}

// ChatHandler accepts a question, queues a background query job and
// returns the job id to poll. An absent chatID starts a new conversation
// seeded with the assistant greeting.
func ChatHandler(w http.ResponseWriter, request *http.Request) {

	if validateContext(request.Context()) {

		var requestData api.ChatRequest
		defer func(Body io.ReadCloser) {
			err := Body.Close()
			if err != nil {
				logRH.Error("Couldn't close the Chat handler reader :", err)
			}
		}(request.Body)
		if err := json.NewDecoder(request.Body).Decode(&requestData); err != nil || !ValidateChatRequest(requestData) {
			logRH.Warn("Bad Chat Request: ", "error:", err, "request data:", requestData)
			WriteErrorResponse(w, http.StatusBadRequest, requestData.ChatID, "Bad Request")
			return
		}
		processNewJobData(request, w, requestData)
		return
	}
	logRH.Warn("Invalid Context by request ", request.RemoteAddr)
}

// GetStatusHandler retrieves the current status of a job by id, carrying
// the answer and sources once complete.
func GetStatusHandler(w http.ResponseWriter, r *http.Request) {
	if validateContext(r.Context()) {
		//use chi get the url id
		idString := utils.GetChiURLParam(r, "id")
		result, isFound := validateId(idString, r.Context().Value(config.TRACE_ID_KEY).(string))

		logRH.Debug("Get Status Request:", "URL path", r.URL.Path)
		if !isFound {
			WriteErrorResponse(w, http.StatusNotFound, idString, "Job not found")
			return
		}

		writeJsonResponse(w, http.StatusOK, adapter.ToAPIResponse(result))
	}
}

// ResetChatHandler drops a conversation back to its seed greeting.
func ResetChatHandler(w http.ResponseWriter, r *http.Request) {
	if validateContext(r.Context()) {
		var requestData api.ResetChatRequest
		defer func(Body io.ReadCloser) {
			if err := Body.Close(); err != nil {
				logRH.Error("Couldn't close the Reset handler reader :", err)
			}
		}(r.Body)

		if err := json.NewDecoder(r.Body).Decode(&requestData); err != nil || requestData.ChatID == "" {
			logRH.Warn("Bad Reset Request: ", "error:", err)
			WriteErrorResponse(w, http.StatusBadRequest, requestData.ChatID, "Bad Request")
			return
		}

		traceId := r.Context().Value(config.TRACE_ID_KEY).(string)
		if !ResetChat(requestData.ChatID, traceId) {
			WriteErrorResponse(w, http.StatusNotFound, requestData.ChatID, "Chat not found")
			return
		}
		writeJsonResponse(w, http.StatusOK, adapter.ToResetChatResponse(requestData.ChatID))
		return
	}
	logRH.Warn("Invalid Context by request ", r.RemoteAddr)
}
