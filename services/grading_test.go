package services

import (
	"testing"
	"time"

	"github.com/CPU-commits/Intranet_BXams/forms"
	"github.com/CPU-commits/Intranet_BXams/models"
	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func ptr(f float64) *float64 {
	return &f
}

func TestNormalizeAnswer(t *testing.T) {
	tests := []struct {
		in            string
		caseSensitive bool
		want          string
	}{
		{"  New   York ", false, "new york"},
		{"New\tYork\n", true, "New York"},
		{"", false, ""},
		{"PARIS", false, "paris"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, NormalizeAnswer(tt.in, tt.caseSensitive))
	}
}

func TestGradeAnswer(t *testing.T) {
	choice := &models.Question{Type: forms.QUESTION_CHOICE, Options: []string{"a", "b", "c"}, Correct: []int{1}, Points: 2}
	trueFalse := &models.Question{Type: forms.QUESTION_TRUE_FALSE, Options: models.TrueFalseOptions, Correct: []int{0}, Points: 1}
	multiple := &models.Question{Type: forms.QUESTION_MULTIPLE, Options: []string{"a", "b", "c", "d"}, Correct: []int{0, 2, 3}, Points: 3}
	short := &models.Question{Type: forms.QUESTION_SHORT_ANSWER, Accepted: []string{"Buenos Aires", "BA"}, Points: 1}
	shortCase := &models.Question{Type: forms.QUESTION_SHORT_ANSWER, Accepted: []string{"NaCl"}, CaseSensitive: true, Points: 1}
	essay := &models.Question{Type: forms.QUESTION_ESSAY, Points: 5}

	tests := []struct {
		name     string
		question *models.Question
		answer   models.Answer
		points   float64
		auto     bool
	}{
		{"choice correct", choice, models.Answer{Choices: []int{1}}, 2, true},
		{"choice wrong", choice, models.Answer{Choices: []int{0}}, 0, true},
		{"choice two picks", choice, models.Answer{Choices: []int{1, 0}}, 0, true},
		{"true false correct", trueFalse, models.Answer{Choices: []int{0}}, 1, true},
		{"true false wrong", trueFalse, models.Answer{Choices: []int{1}}, 0, true},
		{"multiple all", multiple, models.Answer{Choices: []int{0, 2, 3}}, 3, true},
		{"multiple partial", multiple, models.Answer{Choices: []int{0, 2}}, 2, true},
		{"multiple one miss", multiple, models.Answer{Choices: []int{0, 2, 1}}, 1, true},
		{"multiple net negative", multiple, models.Answer{Choices: []int{1, 0}}, 0, true},
		{"multiple duplicates ignored", multiple, models.Answer{Choices: []int{0, 0, 0}}, 1, true},
		{"short normalized", short, models.Answer{Text: "  buenos   AIRES "}, 1, true},
		{"short alternative", short, models.Answer{Text: "ba"}, 1, true},
		{"short wrong", short, models.Answer{Text: "Cordoba"}, 0, true},
		{"short empty", short, models.Answer{Text: "   "}, 0, true},
		{"short case sensitive", shortCase, models.Answer{Text: "nacl"}, 0, true},
		{"short case sensitive match", shortCase, models.Answer{Text: " NaCl"}, 1, true},
		{"essay manual", essay, models.Answer{Text: "essay"}, 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			points, auto := GradeAnswer(tt.question, &tt.answer)
			assert.Equal(t, tt.points, points)
			assert.Equal(t, tt.auto, auto)
		})
	}
}

func TestGradeMultipleRounding(t *testing.T) {
	q := &models.Question{Type: forms.QUESTION_MULTIPLE, Correct: []int{0, 1, 2}, Points: 1}
	points, _ := GradeAnswer(q, &models.Answer{Choices: []int{0}})
	assert.Equal(t, 0.33, points)
}

func TestTransformPointsToGrade(t *testing.T) {
	assert.Equal(t, 1.0, TransformPointsToGrade(0.3, 1, 0))
	assert.Equal(t, 7.0, TransformPointsToGrade(0.3, 1, 20))
	assert.Equal(t, 4.3, TransformPointsToGrade(0.3, 1, 11))
}

func TestComputeScore(t *testing.T) {
	answers := []models.Answer{
		{Points: ptr(2)},
		{Points: ptr(1.5)},
		{Points: nil},
	}
	score := ComputeScore(answers, 5, 0, 100)
	assert.Equal(t, 3.5, score.Score)
	assert.Equal(t, 5.0, score.MaxScore)
	assert.Equal(t, 70.0, score.Percentage)
	assert.Equal(t, 70.0, score.Grade)

	empty := ComputeScore(nil, 0, 1, 7)
	assert.Equal(t, 0.0, empty.Percentage)
	assert.Equal(t, 1.0, empty.Grade)

	thirds := ComputeScore([]models.Answer{{Points: ptr(1)}}, 3, 0, 100)
	assert.Equal(t, 33.33, thirds.Percentage)
	assert.Equal(t, 33.3, thirds.Grade)
}

func TestAutoGrade(t *testing.T) {
	choice := models.Question{ID: primitive.NewObjectID(), Type: forms.QUESTION_CHOICE, Options: []string{"a", "b"}, Correct: []int{0}, Points: 1}
	essay := models.Question{ID: primitive.NewObjectID(), Type: forms.QUESTION_ESSAY, Points: 4}
	short := models.Question{ID: primitive.NewObjectID(), Type: forms.QUESTION_SHORT_ANSWER, Accepted: []string{"x"}, Points: 2}
	exam := &models.Exam{Questions: []models.Question{choice, essay, short}}

	removed := primitive.NewObjectID()
	attempt := &models.ExamAttempt{
		Answers: []models.Answer{
			{Question: choice.ID, Choices: []int{0}},
			{Question: essay.ID, Text: "long answer"},
			{Question: removed, Choices: []int{1}},
		},
	}
	AutoGrade(exam, attempt, time.Now())

	assert.Len(t, attempt.Answers, 3)
	assert.Equal(t, 1.0, *attempt.GetAnswer(choice.ID).Points)
	assert.True(t, attempt.GetAnswer(choice.ID).Auto)
	assert.Nil(t, attempt.GetAnswer(essay.ID).Points)
	assert.Equal(t, 0.0, *attempt.GetAnswer(short.ID).Points)
	assert.Nil(t, attempt.GetAnswer(removed))
	assert.False(t, IsFullyGraded(attempt.Answers))
	assert.Equal(t, models.ATTEMPT_SUBMITTED, attemptStatusAfterGrading(attempt))
}

func TestAutoGradeUnansweredEssay(t *testing.T) {
	essay := models.Question{ID: primitive.NewObjectID(), Type: forms.QUESTION_ESSAY, Points: 4}
	exam := &models.Exam{Questions: []models.Question{essay}}
	attempt := &models.ExamAttempt{Answers: []models.Answer{}}

	AutoGrade(exam, attempt, time.Now())
	assert.True(t, IsFullyGraded(attempt.Answers))
	assert.Equal(t, models.ATTEMPT_GRADED, attemptStatusAfterGrading(attempt))
}

func TestAutoGradeKeepsManualGrades(t *testing.T) {
	short := models.Question{ID: primitive.NewObjectID(), Type: forms.QUESTION_SHORT_ANSWER, Accepted: []string{"x"}, Points: 2}
	grader := primitive.NewObjectID()
	exam := &models.Exam{Questions: []models.Question{short}}
	attempt := &models.ExamAttempt{Answers: []models.Answer{
		{Question: short.ID, Text: "y", Points: ptr(1), GradedBy: &grader},
	}}
	AutoGrade(exam, attempt, time.Now())
	assert.Equal(t, 1.0, *attempt.Answers[0].Points)
}
