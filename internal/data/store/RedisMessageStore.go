package store

import (
	"context"
	"encoding/json"
	"errors"

	"legisc-rag/internal/config"
	"legisc-rag/internal/data/redisStore"
	"legisc-rag/internal/domain/lawModel"
	"legisc-rag/pkg/logger_i"
)

type RedisMessageStore struct {
	store  *redisStore.Store
	logger *logger_i.Logger
}

func GetRedisMessageStore(ctx context.Context) *RedisMessageStore {
	inner := redisStore.GetRedisStore(ctx, config.RedisMessageStore)
	if inner == nil {
		return nil
	}
	return &RedisMessageStore{
		store:  inner,
		logger: logger_i.NewLogger("MessageStore"),
	}
}

func (s *RedisMessageStore) ValidateChatId(ctx context.Context, chatId string) bool {
	log := s.logger.With("traceId", ctx.Value(config.TRACE_ID_KEY), "chat Id", chatId)
	log.Debug("validating chatId")
	isFound, err := s.store.Exists(ctx, chatId)
	if err != nil {
		log.Error("Failed to check if chatId exists", "err", err)
		return false
	}
	return isFound
}

func (s *RedisMessageStore) AppendTurn(ctx context.Context, id string, turn lawModel.Turn) error {
	log := s.logger.With("traceId", ctx.Value(config.TRACE_ID_KEY), "chat Id", id)
	if !s.ValidateChatId(ctx, id) {
		err := errors.New("invalid chat id")
		log.Error("Failed Validation before saving", "err", err)
		return err
	}
	return s.pushTurn(ctx, id, turn)
}

func (s *RedisMessageStore) pushTurn(ctx context.Context, id string, turn lawModel.Turn) error {
	log := s.logger.With("traceId", ctx.Value(config.TRACE_ID_KEY), "chat Id", id)
	data, err := json.Marshal(turn)
	if err != nil {
		log.Error("Error marshalling turn", "error:", err)
		return err
	}
	if err := s.store.ListPush(ctx, id, data); err != nil {
		log.Error("error saving chat", "error:", err)
		return err
	}
	if err := s.store.Expire(ctx, id, config.RedisMessageStoreTTL); err != nil {
		log.Warn("error refreshing chat ttl", "error:", err)
	}
	log.Debug("Saved turn successfully")
	return nil
}

// InitNewChat drops any prior history and reseeds the chat with the
// assistant greeting.
func (s *RedisMessageStore) InitNewChat(ctx context.Context, id string) error {
	log := s.logger.With("traceId", ctx.Value(config.TRACE_ID_KEY), "chat Id", id)
	log.Debug("Initializing new chat")
	if err := s.store.Del(ctx, id); err != nil {
		log.Error("Error initializing chat", "error:", err)
		return err
	}
	return s.pushTurn(ctx, id, lawModel.Turn{Role: lawModel.RoleAssistant, Content: config.Greeting})
}

func (s *RedisMessageStore) GetHistory(ctx context.Context, chatId string) ([]lawModel.Turn, error) {
	log := s.logger.With("traceId", ctx.Value(config.TRACE_ID_KEY), "chat Id", chatId)
	log.Debug("Getting message history")

	raw, err := s.store.ListGetAll(ctx, chatId)
	if err != nil {
		log.Error("Error getting history", "error:", err)
		return nil, err
	}

	turns := make([]lawModel.Turn, 0, len(raw))
	for _, item := range raw {
		var turn lawModel.Turn
		if err := json.Unmarshal([]byte(item), &turn); err != nil {
			log.Error("Error unmarshalling turn", "error:", err)
			return nil, err
		}
		turns = append(turns, turn)
	}
	return turns, nil
}

func TestMessageStore(store *redisStore.Store) *RedisMessageStore {
	return &RedisMessageStore{
		store:  store,
		logger: logger_i.NewLogger("test redis"),
	}
}
