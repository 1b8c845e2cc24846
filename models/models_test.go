package models

import (
	"testing"
	"time"

	"github.com/CPU-commits/Intranet_BXams/forms"
	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestNewQuestionNormalizesByType(t *testing.T) {
	tests := []struct {
		name         string
		form         forms.QuestionForm
		wantOptions  []string
		wantCorrect  []int
		wantAccepted []string
	}{
		{
			name: "true false forces options",
			form: forms.QuestionForm{
				Type:     forms.QUESTION_TRUE_FALSE,
				Options:  []string{"Yes", "No", "Maybe"},
				Correct:  []int{1},
				Accepted: []string{"x"},
			},
			wantOptions: TrueFalseOptions,
			wantCorrect: []int{1},
		},
		{
			name: "short answer drops options",
			form: forms.QuestionForm{
				Type:     forms.QUESTION_SHORT_ANSWER,
				Options:  []string{"a"},
				Correct:  []int{0},
				Accepted: []string{"Paris"},
			},
			wantAccepted: []string{"Paris"},
		},
		{
			name: "essay keeps no key",
			form: forms.QuestionForm{
				Type:     forms.QUESTION_ESSAY,
				Options:  []string{"a"},
				Correct:  []int{0},
				Accepted: []string{"b"},
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q := NewQuestion(&tt.form)
			assert.Equal(t, tt.wantOptions, q.Options)
			assert.Equal(t, tt.wantCorrect, q.Correct)
			assert.Equal(t, tt.wantAccepted, q.Accepted)
			assert.False(t, q.ID.IsZero())
		})
	}
}

func TestNewQuestionKeepsClientID(t *testing.T) {
	id := primitive.NewObjectID()
	q := NewQuestion(&forms.QuestionForm{ID: id.Hex(), Type: forms.QUESTION_ESSAY})
	assert.Equal(t, id, q.ID)
}

func TestForStudentStripsKey(t *testing.T) {
	q := Question{
		ID:       primitive.NewObjectID(),
		Type:     forms.QUESTION_CHOICE,
		Question: "2 + 2",
		Options:  []string{"3", "4"},
		Correct:  []int{1},
		Points:   1,
	}
	s := q.ForStudent()
	assert.Equal(t, q.ID, s.ID)
	assert.Equal(t, q.Options, s.Options)
	assert.Equal(t, q.Points, s.Points)
}

func TestScheduleWindow(t *testing.T) {
	start := time.Date(2023, 5, 2, 14, 0, 0, 0, time.UTC)
	schedule := ExamSchedule{
		Start: primitive.NewDateTimeFromTime(start),
		End:   primitive.NewDateTimeFromTime(start.Add(2 * time.Hour)),
	}
	assert.False(t, schedule.IsOpen(start.Add(-time.Second)))
	assert.True(t, schedule.IsOpen(start))
	assert.True(t, schedule.IsOpen(start.Add(time.Hour)))
	assert.False(t, schedule.IsOpen(start.Add(2*time.Hour)))
	assert.True(t, schedule.HasEnded(start.Add(3*time.Hour)))
}

func TestScheduleForStudentHidesCode(t *testing.T) {
	schedule := ExamSchedule{ID: primitive.NewObjectID(), AccessCode: "secret"}
	view := schedule.ForStudent(nil)
	assert.True(t, view.HasAccessCode)
	assert.Equal(t, ATTEMPT_PENDING, view.AttemptStatus)

	attempt := &ExamAttempt{ID: primitive.NewObjectID(), Status: ATTEMPT_SUBMITTED}
	view = schedule.ForStudent(attempt)
	assert.Equal(t, ATTEMPT_SUBMITTED, view.AttemptStatus)
	assert.Equal(t, attempt.ID, view.Attempt)
}

func TestAttemptHideResults(t *testing.T) {
	points := 2.0
	grader := primitive.NewObjectID()
	attempt := ExamAttempt{
		Score:      2,
		Percentage: 100,
		Grade:      100,
		Answers: []Answer{
			{Points: &points, Feedback: "ok", GradedBy: &grader, Text: "answer"},
		},
	}
	attempt.HideResults()
	assert.Zero(t, attempt.Score)
	assert.Zero(t, attempt.Grade)
	assert.Nil(t, attempt.Answers[0].Points)
	assert.Empty(t, attempt.Answers[0].Feedback)
	assert.Equal(t, "answer", attempt.Answers[0].Text)
}

func TestAttemptIsExpired(t *testing.T) {
	deadline := time.Date(2023, 5, 2, 15, 0, 0, 0, time.UTC)
	attempt := ExamAttempt{
		Status:   ATTEMPT_IN_PROGRESS,
		Deadline: primitive.NewDateTimeFromTime(deadline),
	}
	assert.False(t, attempt.IsExpired(deadline.Add(-time.Minute)))
	// Still inside the submit grace
	assert.False(t, attempt.IsExpired(deadline.Add(time.Minute)))
	assert.False(t, attempt.IsExpired(deadline.Add(SUBMIT_GRACE)))
	assert.True(t, attempt.IsExpired(deadline.Add(SUBMIT_GRACE+time.Second)))
	assert.True(t, deadline.Add(SUBMIT_GRACE).Equal(attempt.ClosesAt()))

	attempt.Status = ATTEMPT_SUBMITTED
	assert.False(t, attempt.IsExpired(deadline.Add(time.Hour)))
}
