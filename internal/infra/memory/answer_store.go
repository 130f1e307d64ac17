package memory

import (
	"context"
	"sync"

	"quiz-api-service/internal/domain"
)

// AnswerStore is an in-memory implementation of app.AnswerRepository.
type AnswerStore struct {
	mu      sync.RWMutex
	answers []domain.Answer
}

func NewAnswerStore() *AnswerStore {
	return &AnswerStore{}
}

func (s *AnswerStore) Insert(_ context.Context, answer domain.Answer) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.answers = append(s.answers, answer)
	return nil
}

// Filter returns every answer recorded for the (quiz, user) pair in submission order.
func (s *AnswerStore) Filter(_ context.Context, quizID, userID string) ([]domain.Answer, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	matched := make([]domain.Answer, 0)
	for _, answer := range s.answers {
		if answer.QuizID == quizID && answer.UserID == userID {
			matched = append(matched, answer)
		}
	}
	return matched, nil
}

func (s *AnswerStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.answers)
}
