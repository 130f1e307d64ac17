package http

import (
	"context"
	"errors"
	"log"
	"math"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"quiz-api-service/internal/app"
	"quiz-api-service/internal/domain"
)

// Options tunes how the REST handler reports outcomes.
type Options struct {
	// StrictNotFound maps unknown quizzes and questions to 404. When false they
	// surface as 500, which is what existing clients expect.
	StrictNotFound bool
	// HealthCheck, when set, is called by GET /health-check.
	HealthCheck func(ctx context.Context) error
}

// Handler serves the quiz REST API and the live answer feed.
type Handler struct {
	service  *app.QuizService
	validate *validator.Validate
	opts     Options
	ws       *WSHandler
}

func NewHandler(service *app.QuizService, opts Options) *Handler {
	return &Handler{
		service:  service,
		validate: newValidator(),
		opts:     opts,
		ws:       NewWSHandler(service),
	}
}

// Routes builds the router with CORS and access logging applied.
func (h *Handler) Routes() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /{$}", h.root)
	mux.HandleFunc("GET /health-check", h.healthCheck)

	mux.HandleFunc("POST /api/v1/quizzes", h.createQuiz)
	mux.HandleFunc("GET /api/v1/quizzes/{id}", h.getQuiz)
	mux.HandleFunc("POST /api/v1/quizzes/{id}/answers", h.submitAnswer)
	mux.HandleFunc("GET /api/v1/quizzes/{id}/results/{userId}", h.getResults)
	mux.HandleFunc("GET /api/v1/quizzes/{id}/live", h.ws.ServeWS)

	return withLogging(withCORS(mux))
}

func (h *Handler) root(w http.ResponseWriter, _ *http.Request) {
	writeSuccess(w, http.StatusOK, "Quiz service is up and running.")
}

func (h *Handler) healthCheck(w http.ResponseWriter, r *http.Request) {
	if h.opts.HealthCheck != nil {
		if err := h.opts.HealthCheck(r.Context()); err != nil {
			log.Printf("health check failed: %v", err)
			writeError(w, http.StatusServiceUnavailable, "degraded: "+err.Error())
			return
		}
	}
	writeSuccess(w, http.StatusOK, "Service is healthy.")
}

func (h *Handler) createQuiz(w http.ResponseWriter, r *http.Request) {
	var req createQuizRequest
	if err := decodeAndValidate(h.validate, r, &req); err != nil {
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	quiz, err := h.service.CreateQuiz(r.Context(), req.Title, req.newQuestions())
	if err != nil {
		h.fail(w, err)
		return
	}
	writeSuccess(w, http.StatusCreated, "Quiz created successfully.", quiz)
}

func (h *Handler) getQuiz(w http.ResponseWriter, r *http.Request) {
	quiz, err := h.service.GetQuiz(r.Context(), r.PathValue("id"))
	if err != nil {
		h.fail(w, err)
		return
	}
	writeSuccess(w, http.StatusOK, "Quiz fetched successfully.", quiz)
}

func (h *Handler) submitAnswer(w http.ResponseWriter, r *http.Request) {
	var req submitAnswerRequest
	if err := decodeAndValidate(h.validate, r, &req); err != nil {
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	// user ids travel as strings past this point
	receipt, err := h.service.SubmitAnswer(r.Context(), app.SubmitAnswerInput{
		QuizID:         r.PathValue("id"),
		QuestionID:     req.QuestionID,
		UserID:         strconv.FormatInt(*req.UserID, 10),
		SelectedOption: req.SelectedOption,
	})
	if err != nil {
		h.fail(w, err)
		return
	}
	writeSuccess(w, http.StatusOK, "Answers Saved Successfully", receipt)
}

func (h *Handler) getResults(w http.ResponseWriter, r *http.Request) {
	result, err := h.service.GetResults(r.Context(), r.PathValue("id"), canonicalUserID(r.PathValue("userId")))
	if err != nil {
		h.fail(w, err)
		return
	}
	writeSuccess(w, http.StatusOK, "Results fetched successfully", result)
}

// canonicalUserID rewrites numeric path ids ("01", "1.0", " 1") to the integer
// form answers are stored under. Anything else passes through unchanged.
func canonicalUserID(raw string) string {
	trimmed := strings.TrimSpace(raw)
	if n, err := strconv.ParseInt(trimmed, 10, 64); err == nil {
		return strconv.FormatInt(n, 10)
	}
	if f, err := strconv.ParseFloat(trimmed, 64); err == nil && f == math.Trunc(f) && math.Abs(f) <= 1<<53 {
		return strconv.FormatInt(int64(f), 10)
	}
	return raw
}

func (h *Handler) fail(w http.ResponseWriter, err error) {
	code := h.statusFor(err)
	if code == http.StatusInternalServerError {
		log.Printf("request failed: %v", err)
	}
	writeError(w, code, err.Error())
}

func (h *Handler) statusFor(err error) int {
	switch {
	case errors.Is(err, domain.ErrInvalidInput):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrAnswersNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrQuizNotFound), errors.Is(err, domain.ErrQuestionNotFound):
		if h.opts.StrictNotFound {
			return http.StatusNotFound
		}
		return http.StatusInternalServerError
	default:
		return http.StatusInternalServerError
	}
}
