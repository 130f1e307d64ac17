package memory

import (
	"context"
	"math/rand"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"
	"quiz-api-service/internal/domain"
)

// QuizBackend is the shared quiz registry behind the cache (e.g., Redis).
type QuizBackend interface {
	Insert(ctx context.Context, quiz domain.Quiz) error
	FindByID(ctx context.Context, quizID string) (domain.Quiz, bool, error)
}

// CachedQuizRepository caches quizzes with TTL to avoid repeated backend hits.
// Quizzes never change after creation, so only misses reach the backend.
type CachedQuizRepository struct {
	backend QuizBackend
	ttl     time.Duration
	clock   func() time.Time
	sf      singleflight.Group
	rnd     *rand.Rand
	rndMu   sync.Mutex

	mu    sync.RWMutex
	cache map[string]cachedQuiz
}

type cachedQuiz struct {
	quiz      domain.Quiz
	expiresAt time.Time
}

type lookup struct {
	quiz  domain.Quiz
	found bool
}

func NewCachedQuizRepository(backend QuizBackend, ttl time.Duration) *CachedQuizRepository {
	return &CachedQuizRepository{
		backend: backend,
		ttl:     ttl,
		clock:   time.Now,
		rnd:     rand.New(rand.NewSource(time.Now().UnixNano())),
		cache:   make(map[string]cachedQuiz),
	}
}

// Insert writes through to the backend and primes the cache.
func (r *CachedQuizRepository) Insert(ctx context.Context, quiz domain.Quiz) error {
	if err := r.backend.Insert(ctx, quiz); err != nil {
		return err
	}
	r.store(quiz, r.clock())
	return nil
}

func (r *CachedQuizRepository) FindByID(ctx context.Context, quizID string) (domain.Quiz, bool, error) {
	if quiz, ok := r.cached(quizID, r.clock()); ok {
		return quiz, true, nil
	}

	result, err, _ := r.sf.Do(quizID, func() (interface{}, error) {
		now := r.clock()
		if quiz, ok := r.cached(quizID, now); ok {
			return lookup{quiz: quiz, found: true}, nil
		}

		quiz, found, err := r.backend.FindByID(ctx, quizID)
		if err != nil {
			return lookup{}, err
		}
		// misses are not cached: the quiz may be created by another instance
		if found {
			r.store(quiz, now)
		}
		return lookup{quiz: quiz, found: found}, nil
	})
	if err != nil {
		return domain.Quiz{}, false, err
	}
	l := result.(lookup)
	return l.quiz, l.found, nil
}

func (r *CachedQuizRepository) cached(quizID string, now time.Time) (domain.Quiz, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if entry, ok := r.cache[quizID]; ok && entry.expiresAt.After(now) {
		return entry.quiz.Clone(), true
	}
	return domain.Quiz{}, false
}

func (r *CachedQuizRepository) store(quiz domain.Quiz, now time.Time) {
	expiresAt := now.Add(r.ttlWithJitter())
	r.mu.Lock()
	r.cache[quiz.ID] = cachedQuiz{quiz: quiz.Clone(), expiresAt: expiresAt}
	r.mu.Unlock()
}

func (r *CachedQuizRepository) ttlWithJitter() time.Duration {
	if r.ttl <= 0 {
		return 0
	}
	// add up to 10% jitter to spread expirations
	jitterMax := int64(r.ttl) / 10
	r.rndMu.Lock()
	defer r.rndMu.Unlock()
	return r.ttl + time.Duration(r.rnd.Int63n(jitterMax+1))
}
