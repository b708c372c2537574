package jobModel

import (
	"context"
	"time"

	"legisc-rag/internal/domain/lawModel"
)

type JobStatus string
type InternalStatus string

const (
	JobStatusQueued   JobStatus = "QUEUED"
	JobStatusRunning  JobStatus = "RUNNING"
	JobStatusComplete JobStatus = "COMPLETE"
	JobStatusError    JobStatus = "Error"

	UserQueryInit InternalStatus = "Init"
	IntentCall    InternalStatus = "IntentFilter"
	RetrievalCall InternalStatus = "Retrieval"
	LLMCall       InternalStatus = "LLM"
	RedisCall     InternalStatus = "Redis"
	Error         InternalStatus = "Error"

	Complete InternalStatus = "Complete"
)

type Job struct {
	Id          string         `json:"id"`
	ChatId      string         `json:"chat_id"`
	TraceId     string         `json:"trace_id"`
	JobPayload  JobPayload     `json:"job_payload"`
	Error       JobError       `json:"error,omitempty"`
	CreatedTime time.Time      `json:"created_time"`
	EndTime     time.Time      `json:"end_time,omitempty"`
	Status      JobStatus      `json:"status"`
	CurrentStep InternalStatus `json:"current_step"`
}

type JobError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Retry   bool   `json:"retry"`
}

type JobPayload struct {
	Question string   `json:"question,omitempty"`
	Answer   string   `json:"answer,omitempty"`
	Sources  []string `json:"sources,omitempty"`
}

type JobStore interface {
	GetJob(ctx context.Context, jobId string) (Job, bool)
	SaveJob(ctx context.Context, job Job) error
	DeleteJob(ctx context.Context, jobID string)
}

// MessageStore keeps the conversation turns per chat. A chat exists once
// initialized and always starts from the seed assistant greeting;
// resetting drops everything back to that single turn.
type MessageStore interface {
	ValidateChatId(ctx context.Context, id string) bool
	AppendTurn(ctx context.Context, id string, turn lawModel.Turn) error
	InitNewChat(ctx context.Context, id string) error
	GetHistory(ctx context.Context, chatId string) ([]lawModel.Turn, error)
}
