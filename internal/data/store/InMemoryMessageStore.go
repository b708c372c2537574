package store

import (
	"context"
	"errors"
	"sync"

	"legisc-rag/internal/config"
	"legisc-rag/internal/domain/lawModel"
)

type InMemoryMessageStore struct {
	chatLock *sync.RWMutex
	chatMap  map[string][]lawModel.Turn
}

func InitMessageStore() *InMemoryMessageStore {
	return &InMemoryMessageStore{
		chatLock: new(sync.RWMutex),
		chatMap:  make(map[string][]lawModel.Turn),
	}
}

func (store *InMemoryMessageStore) ValidateChatId(ctx context.Context, chatId string) bool {
	store.chatLock.RLock()
	defer store.chatLock.RUnlock()
	_, ok := store.chatMap[chatId]
	return ok
}

func (store *InMemoryMessageStore) AppendTurn(ctx context.Context, id string, turn lawModel.Turn) error {
	if !store.ValidateChatId(ctx, id) {
		return errors.New("invalid chat id")
	}
	store.chatLock.Lock()
	defer store.chatLock.Unlock()
	store.chatMap[id] = append(store.chatMap[id], turn)
	return nil
}

// InitNewChat drops any prior history and reseeds the chat with the
// assistant greeting.
func (store *InMemoryMessageStore) InitNewChat(ctx context.Context, id string) error {
	store.chatLock.Lock()
	defer store.chatLock.Unlock()
	store.chatMap[id] = []lawModel.Turn{{Role: lawModel.RoleAssistant, Content: config.Greeting}}
	return nil
}

func (store *InMemoryMessageStore) GetHistory(ctx context.Context, chatId string) ([]lawModel.Turn, error) {
	store.chatLock.RLock()
	defer store.chatLock.RUnlock()
	turns, ok := store.chatMap[chatId]
	if !ok {
		return nil, errors.New("invalid chat id")
	}
	out := make([]lawModel.Turn, len(turns))
	copy(out, turns)
	return out, nil
}
