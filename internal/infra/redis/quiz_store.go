package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"quiz-api-service/internal/domain"
)

// QuizStore keeps quizzes in Redis so several instances share one registry.
// Each quiz is stored as JSON under quiz:def:{quizID}; every record type has
// its own prefix so no quiz id can address an answer or result list.
type QuizStore struct {
	client *redis.Client
	ttl    time.Duration
}

// NewQuizStore builds a store; a ttl of zero keeps keys until evicted.
func NewQuizStore(client *redis.Client, ttl time.Duration) *QuizStore {
	return &QuizStore{client: client, ttl: ttl}
}

func (s *QuizStore) Insert(ctx context.Context, quiz domain.Quiz) error {
	data, err := json.Marshal(quiz)
	if err != nil {
		return fmt.Errorf("marshal quiz: %w", err)
	}
	return s.client.Set(ctx, quizKey(quiz.ID), data, s.ttl).Err()
}

func (s *QuizStore) FindByID(ctx context.Context, quizID string) (domain.Quiz, bool, error) {
	raw, err := s.client.Get(ctx, quizKey(quizID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return domain.Quiz{}, false, nil
	}
	if err != nil {
		return domain.Quiz{}, false, err
	}
	var quiz domain.Quiz
	if err := json.Unmarshal(raw, &quiz); err != nil {
		return domain.Quiz{}, false, fmt.Errorf("unmarshal quiz: %w", err)
	}
	return quiz, true, nil
}

func quizKey(quizID string) string {
	return "quiz:def:" + quizID
}
