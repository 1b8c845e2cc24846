package services

import (
	"testing"

	"github.com/CPU-commits/Intranet_BXams/forms"
	"github.com/CPU-commits/Intranet_BXams/models"
	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestValidateQuestion(t *testing.T) {
	tests := []struct {
		name     string
		question models.Question
		valid    bool
	}{
		{
			name:     "choice",
			question: models.Question{Type: forms.QUESTION_CHOICE, Question: "q", Options: []string{"a", "b"}, Correct: []int{1}, Points: 1},
			valid:    true,
		},
		{
			name:     "choice one option",
			question: models.Question{Type: forms.QUESTION_CHOICE, Question: "q", Options: []string{"a"}, Correct: []int{0}, Points: 1},
		},
		{
			name:     "choice two correct",
			question: models.Question{Type: forms.QUESTION_CHOICE, Question: "q", Options: []string{"a", "b"}, Correct: []int{0, 1}, Points: 1},
		},
		{
			name:     "choice out of range",
			question: models.Question{Type: forms.QUESTION_CHOICE, Question: "q", Options: []string{"a", "b"}, Correct: []int{2}, Points: 1},
		},
		{
			name:     "multiple",
			question: models.Question{Type: forms.QUESTION_MULTIPLE, Question: "q", Options: []string{"a", "b", "c"}, Correct: []int{0, 2}, Points: 2},
			valid:    true,
		},
		{
			name:     "multiple repeated",
			question: models.Question{Type: forms.QUESTION_MULTIPLE, Question: "q", Options: []string{"a", "b", "c"}, Correct: []int{0, 0}, Points: 2},
		},
		{
			name:     "multiple without correct",
			question: models.Question{Type: forms.QUESTION_MULTIPLE, Question: "q", Options: []string{"a", "b"}, Points: 2},
		},
		{
			name:     "true false",
			question: models.Question{Type: forms.QUESTION_TRUE_FALSE, Question: "q", Options: models.TrueFalseOptions, Correct: []int{1}, Points: 1},
			valid:    true,
		},
		{
			name:     "true false out of range",
			question: models.Question{Type: forms.QUESTION_TRUE_FALSE, Question: "q", Options: models.TrueFalseOptions, Correct: []int{2}, Points: 1},
		},
		{
			name:     "short answer",
			question: models.Question{Type: forms.QUESTION_SHORT_ANSWER, Question: "q", Accepted: []string{"x"}, Points: 1},
			valid:    true,
		},
		{
			name:     "short answer blank accepted",
			question: models.Question{Type: forms.QUESTION_SHORT_ANSWER, Question: "q", Accepted: []string{"  "}, Points: 1},
		},
		{
			name:     "essay",
			question: models.Question{Type: forms.QUESTION_ESSAY, Question: "q", Points: 10},
			valid:    true,
		},
		{
			name:     "zero points",
			question: models.Question{Type: forms.QUESTION_ESSAY, Question: "q"},
		},
		{
			name:     "unknown type",
			question: models.Question{Type: "written", Question: "q", Points: 1},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateQuestion(&tt.question)
			if tt.valid {
				assert.NoError(t, err)
			} else {
				assert.Error(t, err)
			}
		})
	}
}

func TestValidateQuestions(t *testing.T) {
	assert.Error(t, ValidateQuestions(nil))

	id := primitive.NewObjectID()
	essay := models.Question{ID: id, Type: forms.QUESTION_ESSAY, Question: "q", Points: 1}
	assert.NoError(t, ValidateQuestions([]models.Question{essay}))
	assert.Error(t, ValidateQuestions([]models.Question{essay, essay}))
}

func TestNewExamFromFormForcesTrueFalseOptions(t *testing.T) {
	exam := models.NewModelExam(&forms.ExamForm{
		Title: "Quiz",
		Questions: []forms.QuestionForm{
			{Type: forms.QUESTION_TRUE_FALSE, Question: "Sky is blue", Correct: []int{0}, Points: 1},
		},
	}, primitive.NewObjectID(), primitive.NewObjectID())

	assert.NoError(t, ValidateQuestions(exam.Questions))
	assert.Equal(t, models.TrueFalseOptions, exam.Questions[0].Options)
	assert.Equal(t, 1.0, exam.MaxScore())
}
