package services

import (
	"testing"
	"time"

	"github.com/CPU-commits/Intranet_BXams/forms"
	"github.com/CPU-commits/Intranet_BXams/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestSubmitWindow(t *testing.T) {
	deadline := time.Date(2023, 5, 2, 15, 0, 0, 0, time.UTC)
	tests := []struct {
		name      string
		offset    time.Duration
		canAnswer bool
		canSubmit bool
	}{
		{"before deadline", -time.Minute, true, true},
		{"at deadline", 0, false, true},
		{"inside grace", time.Minute, false, true},
		{"grace end", SUBMIT_GRACE, false, true},
		{"after grace", SUBMIT_GRACE + time.Second, false, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			attempt := &models.ExamAttempt{
				Status:   models.ATTEMPT_IN_PROGRESS,
				Deadline: primitive.NewDateTimeFromTime(deadline),
			}
			now := deadline.Add(tt.offset)
			assert.Equal(t, tt.canAnswer, CanAnswer(attempt, now))
			assert.Equal(t, tt.canSubmit, CanSubmit(attempt, now))
			// A submit the student may still send is never closed under them
			assert.Equal(t, !tt.canSubmit, attempt.IsExpired(now))
		})
	}
}

func TestOpenAttemptFilter(t *testing.T) {
	idAttempt := primitive.NewObjectID()
	now := time.Date(2023, 5, 2, 15, 0, 0, 0, time.UTC)

	assert.Equal(t, bson.D{
		{Key: "_id", Value: idAttempt},
		{Key: "status", Value: models.ATTEMPT_IN_PROGRESS},
		{Key: "deadline", Value: bson.M{"$gt": primitive.NewDateTimeFromTime(now)}},
	}, openAttemptFilter(idAttempt, now))
}

func TestExpiredAttemptsFilter(t *testing.T) {
	idSchedule := primitive.NewObjectID()
	now := time.Date(2023, 5, 2, 15, 0, 0, 0, time.UTC)

	filter := expiredAttemptsFilter(idSchedule, now)
	require.Len(t, filter, 3)
	assert.Equal(t, bson.E{Key: "schedule", Value: idSchedule}, filter[0])
	assert.Equal(t, bson.E{Key: "status", Value: models.ATTEMPT_IN_PROGRESS}, filter[1])
	// Attempts still inside the submit grace stay open
	assert.Equal(t, bson.E{Key: "deadline", Value: bson.M{
		"$lt": primitive.NewDateTimeFromTime(now.Add(-SUBMIT_GRACE)),
	}}, filter[2])
}

func TestCloseAttempt(t *testing.T) {
	deadline := time.Date(2023, 5, 2, 15, 0, 0, 0, time.UTC)
	choice := models.Question{ID: primitive.NewObjectID(), Type: forms.QUESTION_CHOICE, Options: []string{"a", "b"}, Correct: []int{1}, Points: 2}
	essay := models.Question{ID: primitive.NewObjectID(), Type: forms.QUESTION_ESSAY, Points: 4}

	tests := []struct {
		name      string
		questions []models.Question
		answers   []models.Answer
		now       time.Time
		status    string
		score     float64
		submitted time.Time
	}{
		{
			name:      "objective only",
			questions: []models.Question{choice},
			answers:   []models.Answer{{Question: choice.ID, Choices: []int{1}}},
			now:       deadline.Add(-time.Minute),
			status:    models.ATTEMPT_GRADED,
			score:     2,
			submitted: deadline.Add(-time.Minute),
		},
		{
			name:      "essay waits for a grader",
			questions: []models.Question{choice, essay},
			answers: []models.Answer{
				{Question: choice.ID, Choices: []int{0}},
				{Question: essay.ID, Text: "an answer"},
			},
			now:       deadline.Add(-time.Minute),
			status:    models.ATTEMPT_SUBMITTED,
			score:     0,
			submitted: deadline.Add(-time.Minute),
		},
		{
			name:      "late submit dated at deadline",
			questions: []models.Question{choice},
			answers:   []models.Answer{},
			now:       deadline.Add(2 * time.Minute),
			status:    models.ATTEMPT_GRADED,
			score:     0,
			submitted: deadline,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			exam := &models.Exam{Questions: tt.questions}
			attempt := &models.ExamAttempt{
				Status:   models.ATTEMPT_IN_PROGRESS,
				Deadline: primitive.NewDateTimeFromTime(deadline),
				Answers:  tt.answers,
				MaxScore: exam.MaxScore(),
			}
			closeAttempt(attempt, exam, tt.now)

			assert.Equal(t, tt.status, attempt.Status)
			assert.Equal(t, tt.score, attempt.Score)
			assert.True(t, tt.submitted.Equal(attempt.SubmittedAt.Time()))
			assert.Len(t, attempt.Answers, len(tt.questions))
		})
	}
}

func TestGradeWrites(t *testing.T) {
	question := primitive.NewObjectID()
	grader := primitive.NewObjectID()
	now := time.Date(2023, 5, 3, 10, 0, 0, 0, time.UTC)

	fields := gradeFields("answers.$.", 3.5, "good", grader, now)
	assert.Equal(t, bson.M{
		"answers.$.points":    3.5,
		"answers.$.feedback":  "good",
		"answers.$.auto":      false,
		"answers.$.graded_by": grader,
		"answers.$.date":      primitive.NewDateTimeFromTime(now),
	}, fields)

	answer := newGradedAnswer(question, 3.5, "good", grader, now)
	assert.Equal(t, question, answer.Question)
	require.NotNil(t, answer.Points)
	assert.Equal(t, 3.5, *answer.Points)
	assert.False(t, answer.Auto)
	assert.Equal(t, grader, *answer.GradedBy)
	assert.True(t, answer.IsGraded())
}
