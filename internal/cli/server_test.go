package cli

import (
	"context"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"quiz-api-service/internal/app"
	"quiz-api-service/internal/config"
	"quiz-api-service/internal/domain"
)

func TestBuildServiceInMemory(t *testing.T) {
	service, health, err := buildService(context.Background(), config.Default(), nil)
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	if health != nil {
		t.Fatalf("expected no health check without redis")
	}
	exerciseService(t, service)
}

func TestBuildServiceWithRedis(t *testing.T) {
	mr := startRedis(t)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	service, health, err := buildService(ctx, redisConfig(mr), newRedisClient(t, mr))
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	if health == nil || health(ctx) != nil {
		t.Fatalf("expected healthy redis check")
	}
	quizID := exerciseService(t, service)
	if !mr.Exists("quiz:def:" + quizID) {
		t.Fatalf("expected quiz stored in redis")
	}
	if !mr.Exists("quiz:results:" + quizID + ":1") {
		t.Fatalf("expected result stored in redis")
	}
}

func TestLiveFeedSpansInstances(t *testing.T) {
	mr := startRedis(t)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	cfg := redisConfig(mr)

	first, _, err := buildService(ctx, cfg, newRedisClient(t, mr))
	if err != nil {
		t.Fatalf("build first: %v", err)
	}
	second, _, err := buildService(ctx, cfg, newRedisClient(t, mr))
	if err != nil {
		t.Fatalf("build second: %v", err)
	}

	quiz, err := first.CreateQuiz(ctx, "T", []domain.NewQuestion{
		{Text: "Q1", Options: []string{"a", "b"}, CorrectOption: 1},
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	events, unsubscribe, err := second.Subscribe(ctx, quiz.ID)
	if err != nil {
		t.Fatalf("subscribe on second instance: %v", err)
	}
	defer unsubscribe()

	selected := 1
	if _, err := first.SubmitAnswer(ctx, app.SubmitAnswerInput{
		QuizID:         quiz.ID,
		QuestionID:     quiz.Questions[0].ID,
		UserID:         "4",
		SelectedOption: &selected,
	}); err != nil {
		t.Fatalf("submit on first instance: %v", err)
	}

	select {
	case answer := <-events:
		if answer.UserID != "4" || !answer.IsCorrect {
			t.Fatalf("unexpected event %+v", answer)
		}
	case <-time.After(2 * time.Second):
		t.Fatalf("second instance never saw the answer")
	}
	select {
	case answer := <-events:
		t.Fatalf("answer delivered twice: %+v", answer)
	case <-time.After(100 * time.Millisecond):
	}
}

func startRedis(t *testing.T) *miniredis.Miniredis {
	t.Helper()
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("run miniredis: %v", err)
	}
	t.Cleanup(mr.Close)
	return mr
}

func newRedisClient(t *testing.T, mr *miniredis.Miniredis) *redis.Client {
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return client
}

func redisConfig(mr *miniredis.Miniredis) config.Config {
	cfg := config.Default()
	cfg.Redis.Addr = mr.Addr()
	return cfg
}

func exerciseService(t *testing.T, service *app.QuizService) string {
	t.Helper()
	ctx := context.Background()
	quiz, err := service.CreateQuiz(ctx, "T", []domain.NewQuestion{
		{Text: "Q1", Options: []string{"a", "b"}, CorrectOption: 0},
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := service.GetQuiz(ctx, quiz.ID); err != nil {
		t.Fatalf("get: %v", err)
	}

	selected := 0
	if _, err := service.SubmitAnswer(ctx, app.SubmitAnswerInput{
		QuizID:         quiz.ID,
		QuestionID:     quiz.Questions[0].ID,
		UserID:         "1",
		SelectedOption: &selected,
	}); err != nil {
		t.Fatalf("submit: %v", err)
	}
	result, err := service.GetResults(ctx, quiz.ID, "1")
	if err != nil {
		t.Fatalf("results: %v", err)
	}
	if result.Score != 1 || result.Summary.Questions != 1 {
		t.Fatalf("unexpected result %+v", result)
	}
	return quiz.ID
}
