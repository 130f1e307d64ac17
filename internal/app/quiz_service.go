package app

import (
	"context"
	"fmt"
	"log"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"quiz-api-service/internal/domain"
)

// QuizRepository stores quizzes (in-memory, Redis, etc).
type QuizRepository interface {
	Insert(ctx context.Context, quiz domain.Quiz) error
	FindByID(ctx context.Context, quizID string) (domain.Quiz, bool, error)
}

// AnswerRepository stores submitted answers.
type AnswerRepository interface {
	Insert(ctx context.Context, answer domain.Answer) error
	Filter(ctx context.Context, quizID, userID string) ([]domain.Answer, error)
}

// ResultRepository records computed results. Entries are append-only.
type ResultRepository interface {
	Insert(ctx context.Context, result domain.Result) error
}

// AnswerRelay carries submitted answers to every instance sharing the stores.
// The relay is expected to deliver back into this instance's feed as well.
type AnswerRelay interface {
	Publish(ctx context.Context, answer domain.Answer) error
}

// SubmitAnswerInput carries one answer submission. A nil SelectedOption means
// the field was absent; zero is a valid selection.
type SubmitAnswerInput struct {
	QuizID         string
	QuestionID     string
	UserID         string
	SelectedOption *int
}

// QuizService contains the core quiz use cases.
type QuizService struct {
	quizzes QuizRepository
	answers AnswerRepository
	results ResultRepository
	feed    *AnswerFeed
	relay   AnswerRelay
	newID   func() string
}

func NewQuizService(quizzes QuizRepository, answers AnswerRepository, results ResultRepository, feed *AnswerFeed) *QuizService {
	if feed == nil {
		feed = NewAnswerFeed()
	}
	return &QuizService{
		quizzes: quizzes,
		answers: answers,
		results: results,
		feed:    feed,
		newID:   uuid.NewString,
	}
}

// NewQuizServiceWithIDs is test-only for deterministic identifiers.
func NewQuizServiceWithIDs(quizzes QuizRepository, answers AnswerRepository, results ResultRepository, feed *AnswerFeed, newID func() string) *QuizService {
	s := NewQuizService(quizzes, answers, results, feed)
	s.newID = newID
	return s
}

// WithRelay routes live answer events through relay instead of the local feed.
func (s *QuizService) WithRelay(relay AnswerRelay) *QuizService {
	s.relay = relay
	return s
}

// CreateQuiz assigns fresh ids to the quiz and its questions and stores it.
// The returned quiz includes correct options.
func (s *QuizService) CreateQuiz(ctx context.Context, title string, questions []domain.NewQuestion) (domain.Quiz, error) {
	var quizID string
	for {
		quizID = s.newID()
		_, exists, err := s.quizzes.FindByID(ctx, quizID)
		if err != nil {
			return domain.Quiz{}, fmt.Errorf("generate quiz id: %w", err)
		}
		if !exists {
			break
		}
	}

	// question ids only need to be unique within this quiz
	assigned := make(map[string]struct{}, len(questions))
	built := make([]domain.Question, 0, len(questions))
	for _, q := range questions {
		questionID := s.newID()
		for {
			if _, taken := assigned[questionID]; !taken {
				break
			}
			questionID = s.newID()
		}
		assigned[questionID] = struct{}{}

		options := make([]string, len(q.Options))
		copy(options, q.Options)
		built = append(built, domain.Question{
			ID:            questionID,
			Text:          q.Text,
			Options:       options,
			CorrectOption: q.CorrectOption,
		})
	}

	quiz := domain.Quiz{ID: quizID, Title: title, Questions: built}
	if err := s.quizzes.Insert(ctx, quiz); err != nil {
		return domain.Quiz{}, fmt.Errorf("unable to save the quiz: %w", err)
	}
	return quiz.Clone(), nil
}

// GetQuiz returns the redacted view of a stored quiz.
func (s *QuizService) GetQuiz(ctx context.Context, quizID string) (domain.PublicQuiz, error) {
	if isBlank(quizID) {
		return domain.PublicQuiz{}, invalid("quiz id")
	}
	quiz, err := s.lookupQuiz(ctx, quizID)
	if err != nil {
		return domain.PublicQuiz{}, err
	}
	return quiz.Redact(), nil
}

// SubmitAnswer records one answer and reports whether it was correct.
// Repeated submissions for the same question are all kept.
func (s *QuizService) SubmitAnswer(ctx context.Context, in SubmitAnswerInput) (domain.AnswerReceipt, error) {
	if isBlank(in.QuizID) {
		return domain.AnswerReceipt{}, invalid("quiz id")
	}
	if in.SelectedOption == nil {
		return domain.AnswerReceipt{}, invalid("selected option")
	}
	if !isPositiveInt(in.UserID) {
		return domain.AnswerReceipt{}, invalid("user id")
	}
	if isBlank(in.QuestionID) {
		return domain.AnswerReceipt{}, invalid("question id")
	}

	quiz, err := s.lookupQuiz(ctx, in.QuizID)
	if err != nil {
		return domain.AnswerReceipt{}, err
	}
	question, ok := quiz.FindQuestion(in.QuestionID)
	if !ok {
		return domain.AnswerReceipt{}, fmt.Errorf("%w in quiz %s", domain.ErrQuestionNotFound, quiz.ID)
	}

	answer := domain.Answer{
		UserID:         in.UserID,
		QuestionID:     question.ID,
		QuizID:         quiz.ID,
		SelectedOption: *in.SelectedOption,
		IsCorrect:      *in.SelectedOption == question.CorrectOption,
	}
	if err := s.answers.Insert(ctx, answer); err != nil {
		return domain.AnswerReceipt{}, fmt.Errorf("save answer: %w", err)
	}
	s.publish(ctx, answer)

	return domain.AnswerReceipt{Answer: answer, CorrectOption: question.CorrectOption}, nil
}

// GetResults scores every answer the user has submitted for the quiz and
// records the computed result.
func (s *QuizService) GetResults(ctx context.Context, quizID, userID string) (domain.Result, error) {
	if isBlank(quizID) {
		return domain.Result{}, invalid("quiz id")
	}
	if isBlank(userID) {
		return domain.Result{}, invalid("user id")
	}

	answers, err := s.answers.Filter(ctx, quizID, userID)
	if err != nil {
		return domain.Result{}, fmt.Errorf("load answers: %w", err)
	}
	if len(answers) == 0 {
		return domain.Result{}, fmt.Errorf("%w for the user with id: %s on quiz with id: %s", domain.ErrAnswersNotFound, userID, quizID)
	}

	correct := 0
	for _, a := range answers {
		if a.IsCorrect {
			correct++
		}
	}

	// a missing quiz degrades the total to zero rather than failing
	total := 0
	quiz, found, err := s.quizzes.FindByID(ctx, quizID)
	if err != nil {
		return domain.Result{}, fmt.Errorf("load quiz: %w", err)
	}
	if found {
		total = len(quiz.Questions)
	}

	result := domain.Result{
		QuizID:  quizID,
		UserID:  userID,
		Score:   correct,
		Answers: answers,
		Summary: domain.Summary{
			Questions:          total,
			AttemptedQuestions: len(answers),
			CorrectAnswers:     correct,
			WrongAnswers:       len(answers) - correct,
		},
	}
	if err := s.results.Insert(ctx, result); err != nil {
		return domain.Result{}, fmt.Errorf("save result: %w", err)
	}
	return result, nil
}

// Subscribe returns a channel of answers submitted to quizID.
// The caller must invoke the returned cancel function to avoid leaks.
func (s *QuizService) Subscribe(ctx context.Context, quizID string) (<-chan domain.Answer, func(), error) {
	if isBlank(quizID) {
		return nil, nil, invalid("quiz id")
	}
	if _, err := s.lookupQuiz(ctx, quizID); err != nil {
		return nil, nil, err
	}
	ch, cancel := s.feed.Subscribe(quizID)
	return ch, cancel, nil
}

func (s *QuizService) publish(ctx context.Context, answer domain.Answer) {
	if s.relay != nil {
		err := s.relay.Publish(ctx, answer)
		if err == nil {
			return
		}
		log.Printf("relay answer for quiz %s: %v; delivering locally", answer.QuizID, err)
	}
	s.feed.Publish(answer)
}

func (s *QuizService) lookupQuiz(ctx context.Context, quizID string) (domain.Quiz, error) {
	quiz, found, err := s.quizzes.FindByID(ctx, quizID)
	if err != nil {
		return domain.Quiz{}, fmt.Errorf("load quiz: %w", err)
	}
	if !found {
		return domain.Quiz{}, fmt.Errorf("unable to fetch the quiz with id %s: %w", quizID, domain.ErrQuizNotFound)
	}
	return quiz, nil
}

func invalid(field string) error {
	return fmt.Errorf("%w: please provide a valid %s", domain.ErrInvalidInput, field)
}

func isBlank(s string) bool {
	return strings.TrimSpace(s) == ""
}

func isPositiveInt(s string) bool {
	n, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	return err == nil && n > 0
}
