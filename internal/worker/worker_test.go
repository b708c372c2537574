package worker

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"legisc-rag/internal/data/store"
	jobmodel "legisc-rag/internal/domain/jobModel"
	"legisc-rag/internal/domain/lawModel"
	"legisc-rag/internal/job"
	"legisc-rag/internal/rag"
	"legisc-rag/pkg/logger_i"
)

type mockRagService struct {
	onRespond   func(ctx context.Context, query string, history []lawModel.Turn) rag.Response
	lastHistory []lawModel.Turn
}

func (m *mockRagService) GetContext(ctx context.Context, query string, history []lawModel.Turn, k int) (rag.Context, error) {
	return rag.Context{}, nil
}

func (m *mockRagService) Respond(ctx context.Context, query string, history []lawModel.Turn) rag.Response {
	m.lastHistory = history
	return m.onRespond(ctx, query, history)
}

func answerResponse(sources []string, fragments ...string) rag.Response {
	return rag.Response{
		Kind: rag.ResponseAnswer,
		Stream: func(yield func(string, error) bool) {
			for _, fragment := range fragments {
				if !yield(fragment, nil) {
					return
				}
			}
		},
		Sources: sources,
	}
}

type failingMessageStore struct{}

func (failingMessageStore) ValidateChatId(ctx context.Context, id string) bool { return true }
func (failingMessageStore) AppendTurn(ctx context.Context, id string, turn lawModel.Turn) error {
	return errors.New("store offline")
}
func (failingMessageStore) InitNewChat(ctx context.Context, id string) error { return nil }
func (failingMessageStore) GetHistory(ctx context.Context, chatId string) ([]lawModel.Turn, error) {
	return nil, errors.New("store offline")
}

func newTestWorker(t *testing.T, ragService rag.Service, messageStore jobmodel.MessageStore) (*Worker, *job.Service) {
	t.Helper()
	logger_i.Init()
	service := job.InitJobService(job.ServiceConfig{
		JobChannel:   make(chan jobmodel.Job, 1),
		JobStore:     store.InitInMemoryJobStore(),
		MessageStore: messageStore,
	})
	return NewWorker(service, ragService), service
}

func newChatJob(t *testing.T, service *job.Service, question string) jobmodel.Job {
	t.Helper()
	if err := service.MessageStore.InitNewChat(context.Background(), "chat-1"); err != nil {
		t.Fatalf("initializing chat: %v", err)
	}
	return jobmodel.Job{
		Id:          "job-1",
		ChatId:      "chat-1",
		TraceId:     "trace-1",
		JobPayload:  jobmodel.JobPayload{Question: question},
		CreatedTime: time.Now(),
		Status:      jobmodel.JobStatusQueued,
	}
}

func TestExecuteJobAnswer(t *testing.T) {
	ragService := &mockRagService{
		onRespond: func(ctx context.Context, query string, history []lawModel.Turn) rag.Response {
			return answerResponse([]string{"LEI COMPLEMENTAR Nº 715, de 2018.html"}, "A LC 715 ", "dispõe sobre saneamento.")
		},
	}
	w, service := newTestWorker(t, ragService, store.InitMessageStore())
	testJob := newChatJob(t, service, "Quais os objetivos da LC 715 de 2018?")

	w.executeJob(testJob)

	saved, found := service.JobStore.GetJob(context.Background(), "job-1")
	if !found {
		t.Fatal("job was not saved")
	}
	if saved.Status != jobmodel.JobStatusComplete {
		t.Errorf("expected status %s, got %s", jobmodel.JobStatusComplete, saved.Status)
	}
	if saved.CurrentStep != jobmodel.Complete {
		t.Errorf("expected step %s, got %s", jobmodel.Complete, saved.CurrentStep)
	}
	if saved.JobPayload.Answer != "A LC 715 dispõe sobre saneamento." {
		t.Errorf("unexpected answer: %q", saved.JobPayload.Answer)
	}
	if len(saved.JobPayload.Sources) != 1 {
		t.Errorf("unexpected sources: %v", saved.JobPayload.Sources)
	}
	if saved.EndTime.IsZero() {
		t.Error("end time was not set")
	}

	// greeting, the user question, the collected answer
	history, err := service.MessageStore.GetHistory(context.Background(), "chat-1")
	if err != nil {
		t.Fatalf("GetHistory: %v", err)
	}
	if len(history) != 3 {
		t.Fatalf("expected 3 turns, got %d", len(history))
	}
	if history[1].Role != lawModel.RoleUser || history[1].Content != testJob.JobPayload.Question {
		t.Errorf("user turn not recorded: %+v", history[1])
	}
	if history[2].Role != lawModel.RoleAssistant || history[2].Content != saved.JobPayload.Answer {
		t.Errorf("assistant turn not recorded: %+v", history[2])
	}

	// the responder must see the user question as the last history turn
	if n := len(ragService.lastHistory); n == 0 || ragService.lastHistory[n-1].Content != testJob.JobPayload.Question {
		t.Errorf("responder history missing the current question: %+v", ragService.lastHistory)
	}
}

func TestExecuteJobRefusal(t *testing.T) {
	ragService := &mockRagService{
		onRespond: func(ctx context.Context, query string, history []lawModel.Turn) rag.Response {
			return rag.Response{Kind: rag.ResponseRefusal, Text: rag.RefusalMessage}
		},
	}
	w, service := newTestWorker(t, ragService, store.InitMessageStore())
	testJob := newChatJob(t, service, "Qual a previsão do tempo?")

	w.executeJob(testJob)

	saved, found := service.JobStore.GetJob(context.Background(), "job-1")
	if !found {
		t.Fatal("job was not saved")
	}
	if saved.Status != jobmodel.JobStatusComplete {
		t.Errorf("a refusal still completes the job, got status %s", saved.Status)
	}
	if saved.JobPayload.Answer != rag.RefusalMessage {
		t.Errorf("unexpected answer: %q", saved.JobPayload.Answer)
	}
	if len(saved.JobPayload.Sources) != 0 {
		t.Errorf("refusal must not carry sources: %v", saved.JobPayload.Sources)
	}
}

func TestExecuteJobHistoryFailure(t *testing.T) {
	ragService := &mockRagService{
		onRespond: func(ctx context.Context, query string, history []lawModel.Turn) rag.Response {
			t.Error("Respond must not run when history is unavailable")
			return rag.Response{}
		},
	}
	w, service := newTestWorker(t, ragService, failingMessageStore{})
	testJob := jobmodel.Job{
		Id:         "job-1",
		ChatId:     "chat-1",
		TraceId:    "trace-1",
		JobPayload: jobmodel.JobPayload{Question: "Quais os objetivos da LC 715?"},
		Status:     jobmodel.JobStatusQueued,
	}

	w.executeJob(testJob)

	saved, found := service.JobStore.GetJob(context.Background(), "job-1")
	if !found {
		t.Fatal("job was not saved")
	}
	if saved.Status != jobmodel.JobStatusError {
		t.Errorf("expected status %s, got %s", jobmodel.JobStatusError, saved.Status)
	}
	if saved.Error.Message != "HISTORY_FAILURE" {
		t.Errorf("unexpected error: %+v", saved.Error)
	}
	if saved.CurrentStep != jobmodel.Error {
		t.Errorf("expected step %s, got %s", jobmodel.Error, saved.CurrentStep)
	}
}

func TestWorkerStartStop(t *testing.T) {
	ragService := &mockRagService{
		onRespond: func(ctx context.Context, query string, history []lawModel.Turn) rag.Response {
			return answerResponse(nil, "resposta")
		},
	}
	w, service := newTestWorker(t, ragService, store.InitMessageStore())
	testJob := newChatJob(t, service, "Quais os objetivos da LC 715 de 2018?")

	stop := make(chan bool, 1)
	var wg sync.WaitGroup
	w.Start(stop, &wg)

	service.JobChannel <- testJob

	deadline := time.After(2 * time.Second)
	for {
		if saved, found := service.JobStore.GetJob(context.Background(), "job-1"); found && saved.Status == jobmodel.JobStatusComplete {
			break
		}
		select {
		case <-deadline:
			t.Fatal("job was not processed before the deadline")
		case <-time.After(10 * time.Millisecond):
		}
	}

	stop <- true
	wg.Wait()
}
