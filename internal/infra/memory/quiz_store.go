package memory

import (
	"context"
	"sync"

	"quiz-api-service/internal/domain"
)

// QuizStore is an in-memory implementation of app.QuizRepository.
// Quizzes are copied on the way in and out.
type QuizStore struct {
	mu      sync.RWMutex
	quizzes []domain.Quiz
}

func NewQuizStore() *QuizStore {
	return &QuizStore{}
}

func (s *QuizStore) Insert(_ context.Context, quiz domain.Quiz) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.quizzes = append(s.quizzes, quiz.Clone())
	return nil
}

// FindByID returns the first stored quiz with a matching id.
func (s *QuizStore) FindByID(_ context.Context, quizID string) (domain.Quiz, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, quiz := range s.quizzes {
		if quiz.ID == quizID {
			return quiz.Clone(), true, nil
		}
	}
	return domain.Quiz{}, false, nil
}

func (s *QuizStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.quizzes)
}
