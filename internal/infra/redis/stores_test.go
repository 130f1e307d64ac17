package redis

import (
	"context"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"quiz-api-service/internal/domain"
)

func TestQuizStoreRoundTrip(t *testing.T) {
	mr := startMiniredis(t)
	store := NewQuizStore(newClient(mr), 0)
	ctx := context.Background()

	if _, found, err := store.FindByID(ctx, "quiz-1"); err != nil || found {
		t.Fatalf("expected miss, found=%v err=%v", found, err)
	}
	if err := store.Insert(ctx, sampleQuiz()); err != nil {
		t.Fatalf("insert: %v", err)
	}
	if !mr.Exists("quiz:def:quiz-1") {
		t.Fatalf("expected redis key to be set")
	}

	quiz, found, err := store.FindByID(ctx, "quiz-1")
	if err != nil || !found {
		t.Fatalf("find: found=%v err=%v", found, err)
	}
	if quiz.Title != "Arithmetic" || quiz.Questions[0].CorrectOption != 1 {
		t.Fatalf("unexpected quiz %+v", quiz)
	}
}

func TestQuizStoreAppliesTTL(t *testing.T) {
	mr := startMiniredis(t)
	store := NewQuizStore(newClient(mr), time.Minute)

	if err := store.Insert(context.Background(), sampleQuiz()); err != nil {
		t.Fatalf("insert: %v", err)
	}
	if ttl := mr.TTL("quiz:def:quiz-1"); ttl != time.Minute {
		t.Fatalf("expected 1m ttl, got %v", ttl)
	}

	mr.FastForward(2 * time.Minute)
	if _, found, _ := store.FindByID(context.Background(), "quiz-1"); found {
		t.Fatalf("expected quiz to expire")
	}
}

func TestAnswerStoreFiltersPerUser(t *testing.T) {
	mr := startMiniredis(t)
	store := NewAnswerStore(newClient(mr), time.Minute)
	ctx := context.Background()

	for _, a := range []domain.Answer{
		{QuizID: "quiz-1", UserID: "1", QuestionID: "q1", SelectedOption: 1, IsCorrect: true},
		{QuizID: "quiz-1", UserID: "2", QuestionID: "q1", SelectedOption: 0},
		{QuizID: "quiz-1", UserID: "1", QuestionID: "q1", SelectedOption: 0},
	} {
		if err := store.Insert(ctx, a); err != nil {
			t.Fatalf("insert: %v", err)
		}
	}

	got, err := store.Filter(ctx, "quiz-1", "1")
	if err != nil {
		t.Fatalf("filter: %v", err)
	}
	if len(got) != 2 || !got[0].IsCorrect || got[1].SelectedOption != 0 {
		t.Fatalf("unexpected answers %+v", got)
	}
	if mr.TTL("quiz:answers:quiz-1:1") != time.Minute {
		t.Fatalf("expected ttl on answers list")
	}

	none, err := store.Filter(ctx, "quiz-1", "3")
	if err != nil || len(none) != 0 {
		t.Fatalf("expected no answers, got %+v err=%v", none, err)
	}
}

func TestResultStoreAppendsSnapshots(t *testing.T) {
	mr := startMiniredis(t)
	store := NewResultStore(newClient(mr), 0)
	result := domain.Result{QuizID: "quiz-1", UserID: "1", Score: 1}

	_ = store.Insert(context.Background(), result)
	_ = store.Insert(context.Background(), result)

	items, err := mr.List("quiz:results:quiz-1:1")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(items) != 2 {
		t.Fatalf("expected 2 snapshots, got %d", len(items))
	}
}

func TestQuizLookupNeverHitsAnswerOrResultLists(t *testing.T) {
	mr := startMiniredis(t)
	client := newClient(mr)
	ctx := context.Background()
	quizzes := NewQuizStore(client, 0)
	answers := NewAnswerStore(client, 0)
	results := NewResultStore(client, 0)

	if err := quizzes.Insert(ctx, sampleQuiz()); err != nil {
		t.Fatalf("insert quiz: %v", err)
	}
	if err := answers.Insert(ctx, domain.Answer{QuizID: "quiz-1", UserID: "1", QuestionID: "q1"}); err != nil {
		t.Fatalf("insert answer: %v", err)
	}
	if err := results.Insert(ctx, domain.Result{QuizID: "quiz-1", UserID: "1"}); err != nil {
		t.Fatalf("insert result: %v", err)
	}

	for _, id := range []string{"quiz-1:answers:1", "quiz-1:results:1", "answers:quiz-1:1", "results:quiz-1:1", "../quiz-1"} {
		if _, found, err := quizzes.FindByID(ctx, id); err != nil || found {
			t.Fatalf("lookup %q: expected clean miss, found=%v err=%v", id, found, err)
		}
	}
}

func TestStoreSurfacesRedisErrors(t *testing.T) {
	mr := startMiniredis(t)
	store := NewQuizStore(newClient(mr), 0)
	mr.SetError("READONLY")

	if _, _, err := store.FindByID(context.Background(), "quiz-1"); err == nil {
		t.Fatalf("expected redis error")
	}
}

func startMiniredis(t *testing.T) *miniredis.Miniredis {
	t.Helper()
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("run miniredis: %v", err)
	}
	t.Cleanup(mr.Close)
	return mr
}

func newClient(mr *miniredis.Miniredis) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr: mr.Addr(),
	})
}

func sampleQuiz() domain.Quiz {
	return domain.Quiz{
		ID:    "quiz-1",
		Title: "Arithmetic",
		Questions: []domain.Question{
			{
				ID:            "q1",
				Text:          "What is 2 + 2?",
				Options:       []string{"3", "4"},
				CorrectOption: 1,
			},
		},
	}
}
