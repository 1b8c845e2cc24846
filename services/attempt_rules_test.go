package services

import (
	"math/rand"
	"testing"
	"time"

	"github.com/CPU-commits/Intranet_BXams/forms"
	"github.com/CPU-commits/Intranet_BXams/models"
	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestComputeDeadline(t *testing.T) {
	now := time.Date(2023, 5, 2, 14, 0, 0, 0, time.UTC)
	tests := []struct {
		name     string
		end      time.Time
		duration int
		want     time.Time
	}{
		{"duration fits", now.Add(2 * time.Hour), 90, now.Add(90 * time.Minute)},
		{"capped by end", now.Add(30 * time.Minute), 90, now.Add(30 * time.Minute)},
		{"exactly end", now.Add(time.Hour), 60, now.Add(time.Hour)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ComputeDeadline(now, tt.end, tt.duration))
		})
	}
}

func TestCheckAccessCode(t *testing.T) {
	assert.True(t, CheckAccessCode("", ""))
	assert.True(t, CheckAccessCode("", "anything"))
	assert.True(t, CheckAccessCode("blue-owl", "blue-owl"))
	assert.False(t, CheckAccessCode("blue-owl", "Blue-owl"))
	assert.False(t, CheckAccessCode("blue-owl", ""))
	assert.False(t, CheckAccessCode("blue-owl", "blue-owl "))
}

func TestCanAnswerAndSubmit(t *testing.T) {
	deadline := time.Date(2023, 5, 2, 15, 0, 0, 0, time.UTC)
	attempt := &models.ExamAttempt{
		Status:   models.ATTEMPT_IN_PROGRESS,
		Deadline: primitive.NewDateTimeFromTime(deadline),
	}

	assert.True(t, CanAnswer(attempt, deadline.Add(-time.Second)))
	assert.False(t, CanAnswer(attempt, deadline))
	assert.True(t, CanSubmit(attempt, deadline.Add(SUBMIT_GRACE)))
	assert.False(t, CanSubmit(attempt, deadline.Add(SUBMIT_GRACE+time.Second)))

	attempt.Status = models.ATTEMPT_SUBMITTED
	assert.False(t, CanAnswer(attempt, deadline.Add(-time.Hour)))
	assert.False(t, CanSubmit(attempt, deadline.Add(-time.Hour)))
}

func TestBuildOrder(t *testing.T) {
	questions := make([]models.Question, 10)
	for i := range questions {
		questions[i].ID = primitive.NewObjectID()
	}
	plain := BuildOrder(questions, false, nil)
	for i := range questions {
		assert.Equal(t, questions[i].ID, plain[i])
	}

	shuffled := BuildOrder(questions, true, rand.New(rand.NewSource(7)))
	assert.ElementsMatch(t, plain, shuffled)
	assert.NotEqual(t, plain, shuffled)
}

func TestOrderedStudentQuestions(t *testing.T) {
	a := models.Question{ID: primitive.NewObjectID(), Question: "a", Correct: []int{0}}
	b := models.Question{ID: primitive.NewObjectID(), Question: "b", Accepted: []string{"x"}}
	c := models.Question{ID: primitive.NewObjectID(), Question: "c"}
	exam := &models.Exam{Questions: []models.Question{a, b, c}}

	removed := primitive.NewObjectID()
	questions := OrderedStudentQuestions(exam, []primitive.ObjectID{b.ID, removed, a.ID})

	assert.Len(t, questions, 3)
	assert.Equal(t, "b", questions[0].Question)
	assert.Equal(t, "a", questions[1].Question)
	assert.Equal(t, "c", questions[2].Question)
}

func TestValidateAnswer(t *testing.T) {
	text := "answer"
	choice := &models.Question{Type: forms.QUESTION_CHOICE, Options: []string{"a", "b", "c"}}
	multiple := &models.Question{Type: forms.QUESTION_MULTIPLE, Options: []string{"a", "b", "c"}}
	trueFalse := &models.Question{Type: forms.QUESTION_TRUE_FALSE, Options: models.TrueFalseOptions}
	short := &models.Question{Type: forms.QUESTION_SHORT_ANSWER}
	essay := &models.Question{Type: forms.QUESTION_ESSAY}

	tests := []struct {
		name     string
		question *models.Question
		answer   forms.AnswerForm
		valid    bool
	}{
		{"empty clears", choice, forms.AnswerForm{}, true},
		{"choice single", choice, forms.AnswerForm{Choices: []int{2}}, true},
		{"choice two", choice, forms.AnswerForm{Choices: []int{0, 1}}, false},
		{"choice out of range", choice, forms.AnswerForm{Choices: []int{3}}, false},
		{"choice with text", choice, forms.AnswerForm{Text: &text}, false},
		{"multiple many", multiple, forms.AnswerForm{Choices: []int{0, 2}}, true},
		{"multiple repeated", multiple, forms.AnswerForm{Choices: []int{0, 0}}, false},
		{"true false", trueFalse, forms.AnswerForm{Choices: []int{1}}, true},
		{"true false out of range", trueFalse, forms.AnswerForm{Choices: []int{2}}, false},
		{"short text", short, forms.AnswerForm{Text: &text}, true},
		{"short with choices", short, forms.AnswerForm{Choices: []int{0}}, false},
		{"essay text", essay, forms.AnswerForm{Text: &text}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateAnswer(tt.question, &tt.answer)
			if tt.valid {
				assert.NoError(t, err)
			} else {
				assert.Error(t, err)
			}
		})
	}
}

func TestApplyAnswer(t *testing.T) {
	now := time.Now()
	q1 := primitive.NewObjectID()
	q2 := primitive.NewObjectID()
	text := "x"

	answers := applyAnswer(nil, q1, &forms.AnswerForm{Choices: []int{1}}, now)
	answers = applyAnswer(answers, q2, &forms.AnswerForm{Text: &text}, now)
	assert.Len(t, answers, 2)

	answers = applyAnswer(answers, q1, &forms.AnswerForm{Choices: []int{0}}, now)
	assert.Len(t, answers, 2)
	assert.Equal(t, []int{0}, answers[1].Choices)

	answers = applyAnswer(answers, q2, &forms.AnswerForm{}, now)
	assert.Len(t, answers, 1)
	assert.Equal(t, q1, answers[0].Question)
}
