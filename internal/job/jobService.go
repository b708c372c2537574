package job

import (
	"legisc-rag/internal/domain/jobModel"
)

type Service struct {
	JobChannel   chan jobModel.Job
	JobStore     jobModel.JobStore
	MessageStore jobModel.MessageStore
}

type ServiceConfig struct {
	JobChannel   chan jobModel.Job
	JobStore     jobModel.JobStore
	MessageStore jobModel.MessageStore
}

func InitJobService(cfg ServiceConfig) *Service {
	return &Service{
		JobChannel:   cfg.JobChannel,
		JobStore:     cfg.JobStore,
		MessageStore: cfg.MessageStore,
	}
}
