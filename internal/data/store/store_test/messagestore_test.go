package store_test

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"

	"legisc-rag/internal/config"
	"legisc-rag/internal/data/redisStore"
	"legisc-rag/internal/data/store"
	"legisc-rag/internal/domain/jobModel"
	"legisc-rag/internal/domain/lawModel"
)

func newRedisMessageStore(t *testing.T) jobModel.MessageStore {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	return store.TestMessageStore(redisStore.NewTestStore(client))
}

func messageStores(t *testing.T) map[string]jobModel.MessageStore {
	return map[string]jobModel.MessageStore{
		"redis":    newRedisMessageStore(t),
		"inMemory": store.InitMessageStore(),
	}
}

func TestMessageStore_InitSeedsGreeting(t *testing.T) {
	ctx := context.WithValue(context.Background(), config.TRACE_ID_KEY, "test-trace")

	for name, ms := range messageStores(t) {
		t.Run(name, func(t *testing.T) {
			chatID := "chat-1"
			if ms.ValidateChatId(ctx, chatID) {
				t.Fatal("chat should not exist before init")
			}
			if err := ms.InitNewChat(ctx, chatID); err != nil {
				t.Fatalf("InitNewChat: %v", err)
			}
			if !ms.ValidateChatId(ctx, chatID) {
				t.Fatal("chat not found after init")
			}

			history, err := ms.GetHistory(ctx, chatID)
			if err != nil {
				t.Fatalf("GetHistory: %v", err)
			}
			if len(history) != 1 {
				t.Fatalf("got %d turns, want the greeting only", len(history))
			}
			if history[0].Role != lawModel.RoleAssistant || history[0].Content != config.Greeting {
				t.Errorf("seed turn = %+v", history[0])
			}
		})
	}
}

func TestMessageStore_AppendPreservesOrder(t *testing.T) {
	ctx := context.WithValue(context.Background(), config.TRACE_ID_KEY, "test-trace")

	for name, ms := range messageStores(t) {
		t.Run(name, func(t *testing.T) {
			chatID := "chat-2"
			if err := ms.InitNewChat(ctx, chatID); err != nil {
				t.Fatalf("InitNewChat: %v", err)
			}

			turns := []lawModel.Turn{
				{Role: lawModel.RoleUser, Content: "Quais os objetivos da LC 715?"},
				{Role: lawModel.RoleAssistant, Content: "Os objetivos são..."},
				{Role: lawModel.RoleUser, Content: "E o artigo 5º?"},
			}
			for _, turn := range turns {
				if err := ms.AppendTurn(ctx, chatID, turn); err != nil {
					t.Fatalf("AppendTurn: %v", err)
				}
			}

			history, err := ms.GetHistory(ctx, chatID)
			if err != nil {
				t.Fatalf("GetHistory: %v", err)
			}
			if len(history) != len(turns)+1 {
				t.Fatalf("got %d turns, want %d", len(history), len(turns)+1)
			}
			for i, want := range turns {
				got := history[i+1]
				if got.Role != want.Role || got.Content != want.Content {
					t.Errorf("turn %d = %+v, want %+v", i+1, got, want)
				}
			}
		})
	}
}

func TestMessageStore_ResetDropsHistory(t *testing.T) {
	ctx := context.WithValue(context.Background(), config.TRACE_ID_KEY, "test-trace")

	for name, ms := range messageStores(t) {
		t.Run(name, func(t *testing.T) {
			chatID := "chat-3"
			if err := ms.InitNewChat(ctx, chatID); err != nil {
				t.Fatalf("InitNewChat: %v", err)
			}
			if err := ms.AppendTurn(ctx, chatID, lawModel.Turn{Role: lawModel.RoleUser, Content: "pergunta"}); err != nil {
				t.Fatalf("AppendTurn: %v", err)
			}

			// re-init is the reset path
			if err := ms.InitNewChat(ctx, chatID); err != nil {
				t.Fatalf("InitNewChat (reset): %v", err)
			}
			history, err := ms.GetHistory(ctx, chatID)
			if err != nil {
				t.Fatalf("GetHistory: %v", err)
			}
			if len(history) != 1 || history[0].Content != config.Greeting {
				t.Errorf("history after reset = %+v, want greeting only", history)
			}
		})
	}
}

func TestMessageStore_AppendToUnknownChatFails(t *testing.T) {
	ctx := context.WithValue(context.Background(), config.TRACE_ID_KEY, "test-trace")

	for name, ms := range messageStores(t) {
		t.Run(name, func(t *testing.T) {
			err := ms.AppendTurn(ctx, "ghost-chat", lawModel.Turn{Role: lawModel.RoleUser, Content: "oi"})
			if err == nil {
				t.Error("expected error appending to unknown chat")
			}
		})
	}
}
