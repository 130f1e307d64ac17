package domain

// Question models an MCQ question; CorrectOption indexes into Options.
type Question struct {
	ID            string   `json:"id"`
	Text          string   `json:"text"`
	Options       []string `json:"options"`
	CorrectOption int      `json:"correct_option"`
}

// Quiz is a titled, ordered collection of questions.
type Quiz struct {
	ID        string     `json:"id"`
	Title     string     `json:"title"`
	Questions []Question `json:"questions"`
}

// NewQuestion is the caller-supplied content of a question before ids are assigned.
type NewQuestion struct {
	Text          string
	Options       []string
	CorrectOption int
}

// PublicQuestion is a question with the correct option removed.
type PublicQuestion struct {
	ID      string   `json:"id"`
	Text    string   `json:"text"`
	Options []string `json:"options"`
}

// PublicQuiz is the redacted view of a quiz handed to quiz takers.
type PublicQuiz struct {
	ID        string           `json:"id"`
	Title     string           `json:"title"`
	Questions []PublicQuestion `json:"questions"`
}

// Redact projects the quiz into its public view. The receiver is not modified
// and the returned value shares no slices with it.
func (q Quiz) Redact() PublicQuiz {
	questions := make([]PublicQuestion, 0, len(q.Questions))
	for _, question := range q.Questions {
		options := make([]string, len(question.Options))
		copy(options, question.Options)
		questions = append(questions, PublicQuestion{
			ID:      question.ID,
			Text:    question.Text,
			Options: options,
		})
	}
	return PublicQuiz{ID: q.ID, Title: q.Title, Questions: questions}
}

// Clone returns a deep copy so callers cannot reach into a stored quiz.
func (q Quiz) Clone() Quiz {
	if q.Questions == nil {
		return q
	}
	questions := make([]Question, len(q.Questions))
	for i, question := range q.Questions {
		question.Options = append([]string(nil), question.Options...)
		questions[i] = question
	}
	q.Questions = questions
	return q
}

// FindQuestion returns the question with the given id, if present.
func (q Quiz) FindQuestion(questionID string) (Question, bool) {
	for _, question := range q.Questions {
		if question.ID == questionID {
			return question, true
		}
	}
	return Question{}, false
}

// Answer is one user's recorded selection for one question.
type Answer struct {
	UserID         string `json:"user_id"`
	QuestionID     string `json:"question_id"`
	QuizID         string `json:"quiz_id"`
	SelectedOption int    `json:"selected_option"`
	IsCorrect      bool   `json:"is_correct"`
}

// AnswerReceipt is the stored answer returned to the submitter together with the right option.
type AnswerReceipt struct {
	Answer
	CorrectOption int `json:"correct_option"`
}

// Summary aggregates counts describing one attempt.
type Summary struct {
	Questions          int `json:"questions"`
	AttemptedQuestions int `json:"attempted_questions"`
	CorrectAnswers     int `json:"correct_answers"`
	WrongAnswers       int `json:"wrong_answers"`
}

// Result is a computed score snapshot for a (quiz, user) pair.
type Result struct {
	QuizID  string   `json:"quiz_id"`
	UserID  string   `json:"user_id"`
	Score   int      `json:"score"`
	Answers []Answer `json:"answers"`
	Summary Summary  `json:"summary"`
}
