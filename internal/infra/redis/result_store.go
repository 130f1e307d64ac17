package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"quiz-api-service/internal/domain"
)

// ResultStore appends every computed result snapshot to
// quiz:results:{quizID}:{userID}.
type ResultStore struct {
	client *redis.Client
	ttl    time.Duration
}

func NewResultStore(client *redis.Client, ttl time.Duration) *ResultStore {
	return &ResultStore{client: client, ttl: ttl}
}

func (s *ResultStore) Insert(ctx context.Context, result domain.Result) error {
	data, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("marshal result: %w", err)
	}
	return appendJSON(ctx, s.client, resultsKey(result.QuizID, result.UserID), data, s.ttl)
}

func resultsKey(quizID, userID string) string {
	return "quiz:results:" + quizID + ":" + userID
}
