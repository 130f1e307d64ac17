package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"quiz-api-service/internal/domain"
)

// AnswerStore appends answers to a Redis list per (quiz, user):
// RPUSH quiz:answers:{quizID}:{userID} {answer JSON}
type AnswerStore struct {
	client *redis.Client
	ttl    time.Duration
}

func NewAnswerStore(client *redis.Client, ttl time.Duration) *AnswerStore {
	return &AnswerStore{client: client, ttl: ttl}
}

func (s *AnswerStore) Insert(ctx context.Context, answer domain.Answer) error {
	data, err := json.Marshal(answer)
	if err != nil {
		return fmt.Errorf("marshal answer: %w", err)
	}
	return appendJSON(ctx, s.client, answersKey(answer.QuizID, answer.UserID), data, s.ttl)
}

func (s *AnswerStore) Filter(ctx context.Context, quizID, userID string) ([]domain.Answer, error) {
	raw, err := s.client.LRange(ctx, answersKey(quizID, userID), 0, -1).Result()
	if err != nil {
		return nil, err
	}
	answers := make([]domain.Answer, 0, len(raw))
	for _, item := range raw {
		var answer domain.Answer
		if err := json.Unmarshal([]byte(item), &answer); err != nil {
			return nil, fmt.Errorf("unmarshal answer: %w", err)
		}
		answers = append(answers, answer)
	}
	return answers, nil
}

func answersKey(quizID, userID string) string {
	return "quiz:answers:" + quizID + ":" + userID
}

func appendJSON(ctx context.Context, client *redis.Client, key string, data []byte, ttl time.Duration) error {
	pipe := client.TxPipeline()
	pipe.RPush(ctx, key, data)
	if ttl > 0 {
		pipe.Expire(ctx, key, ttl)
	}
	_, err := pipe.Exec(ctx)
	return err
}
