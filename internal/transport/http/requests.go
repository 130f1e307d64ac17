package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"quiz-api-service/internal/domain"
)

type questionRequest struct {
	// ID is accepted but always replaced by a generated one.
	ID            string   `json:"id"`
	Text          string   `json:"text" validate:"required"`
	Options       []string `json:"options" validate:"required"`
	CorrectOption *int     `json:"correct_option" validate:"required"`
}

type createQuizRequest struct {
	Title     string            `json:"title" validate:"required"`
	Questions []questionRequest `json:"questions" validate:"omitempty,dive"`
}

func (r createQuizRequest) newQuestions() []domain.NewQuestion {
	questions := make([]domain.NewQuestion, 0, len(r.Questions))
	for _, q := range r.Questions {
		questions = append(questions, domain.NewQuestion{
			Text:          q.Text,
			Options:       q.Options,
			CorrectOption: *q.CorrectOption,
		})
	}
	return questions
}

type submitAnswerRequest struct {
	SelectedOption *int   `json:"selectedOption" validate:"required"`
	UserID         *int64 `json:"userId" validate:"required"`
	QuestionID     string `json:"questionId" validate:"required"`
}

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// decodeAndValidate strictly decodes the JSON body into dst and checks its shape.
// The returned error message is safe to hand back to the client.
func decodeAndValidate(v *validator.Validate, r *http.Request, dst any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			return errors.New("request body is required")
		}
		return err
	}
	if err := v.Struct(dst); err != nil {
		return errors.New(validationMessage(err))
	}
	return nil
}

func validationMessage(err error) string {
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) || len(fieldErrs) == 0 {
		return err.Error()
	}
	fe := fieldErrs[0]
	path := fe.Namespace()
	if i := strings.Index(path, "."); i >= 0 {
		path = path[i+1:]
	}
	if fe.Tag() == "required" {
		return fmt.Sprintf("%q is required", path)
	}
	return fmt.Sprintf("%q failed the %q rule", path, fe.Tag())
}
