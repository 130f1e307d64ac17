package app

import (
	"sync"

	"quiz-api-service/internal/domain"
)

// AnswerFeed fans out submitted answers to live subscribers of a quiz.
type AnswerFeed struct {
	mu          sync.Mutex
	subscribers map[string]map[chan domain.Answer]struct{}
}

func NewAnswerFeed() *AnswerFeed {
	return &AnswerFeed{
		subscribers: make(map[string]map[chan domain.Answer]struct{}),
	}
}

// Subscribe registers a listener for answers on quizID.
// The caller must invoke the returned cancel function to avoid leaks.
func (f *AnswerFeed) Subscribe(quizID string) (<-chan domain.Answer, func()) {
	ch := make(chan domain.Answer, 8)

	f.mu.Lock()
	subs, ok := f.subscribers[quizID]
	if !ok {
		subs = make(map[chan domain.Answer]struct{})
		f.subscribers[quizID] = subs
	}
	subs[ch] = struct{}{}
	f.mu.Unlock()

	cancel := func() {
		f.mu.Lock()
		defer f.mu.Unlock()
		subs, ok := f.subscribers[quizID]
		if !ok {
			return
		}
		if _, ok := subs[ch]; ok {
			delete(subs, ch)
			close(ch)
		}
		if len(subs) == 0 {
			delete(f.subscribers, quizID)
		}
	}
	return ch, cancel
}

// Publish delivers answer to every subscriber of its quiz without blocking.
func (f *AnswerFeed) Publish(answer domain.Answer) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for ch := range f.subscribers[answer.QuizID] {
		select {
		case ch <- answer:
		default:
			// subscriber is behind: drop its oldest event to make room
			select {
			case <-ch:
			default:
			}
			ch <- answer
		}
	}
}

// Subscribers reports how many listeners are attached to quizID.
func (f *AnswerFeed) Subscribers(quizID string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.subscribers[quizID])
}
