package forms

import (
	"github.com/go-playground/validator/v10"
)

const (
	QUESTION_CHOICE       = "choice"
	QUESTION_MULTIPLE     = "multiple"
	QUESTION_TRUE_FALSE   = "true_false"
	QUESTION_SHORT_ANSWER = "short_answer"
	QUESTION_ESSAY        = "essay"
)

type QuestionForm struct {
	ID            string   `json:"_id,omitempty"`
	Type          string   `json:"type" binding:"required,questionType" example:"choice" enums:"choice,multiple,true_false,short_answer,essay"`
	Question      string   `json:"question" binding:"required,min=1,max=2000" example:"2 + 2 = ?"`
	Options       []string `json:"options,omitempty" binding:"omitempty,max=20,dive,required,max=300"`
	Correct       []int    `json:"correct,omitempty" binding:"omitempty,max=20,dive,min=0"`
	Accepted      []string `json:"accepted,omitempty" binding:"omitempty,max=20,dive,required,max=300"`
	CaseSensitive bool     `json:"case_sensitive"`
	Points        float64  `json:"points" binding:"required,gt=0,lte=1000" example:"2"`
}

type ExamForm struct {
	Course      string         `json:"course" binding:"required" example:"637d5de216f58bc8ec7f7f51"`
	Title       string         `json:"title" binding:"required,min=3,max=100" example:"Midterm"`
	Description string         `json:"description" binding:"max=1000"`
	Questions   []QuestionForm `json:"questions" binding:"required,min=1,max=200,dive"`
}

type UpdateExamForm struct {
	Title       string         `json:"title" binding:"required,min=3,max=100"`
	Description string         `json:"description" binding:"max=1000"`
	Questions   []QuestionForm `json:"questions" binding:"required,min=1,max=200,dive"`
}

func IsQuestionType(t string) bool {
	switch t {
	case QUESTION_CHOICE,
		QUESTION_MULTIPLE,
		QUESTION_TRUE_FALSE,
		QUESTION_SHORT_ANSWER,
		QUESTION_ESSAY:
		return true
	}
	return false
}

var QuestionType validator.Func = func(fl validator.FieldLevel) bool {
	return IsQuestionType(fl.Field().String())
}
