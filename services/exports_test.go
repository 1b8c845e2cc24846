package services

import (
	"bytes"
	"testing"
	"time"

	"github.com/CPU-commits/Intranet_BXams/forms"
	"github.com/CPU-commits/Intranet_BXams/models"
	"github.com/klauspost/compress/zip"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func exportFixture() (*models.ExamSchedule, *models.Exam, []models.AttemptWStudent) {
	q1 := models.Question{
		ID:       primitive.NewObjectID(),
		Type:     forms.QUESTION_CHOICE,
		Question: "2 + 2 = ?",
		Options:  []string{"3", "4"},
		Correct:  []int{1},
		Points:   2,
	}
	q2 := models.Question{
		ID:       primitive.NewObjectID(),
		Type:     forms.QUESTION_ESSAY,
		Question: "Explain the café's opening hours",
		Points:   3,
	}
	exam := &models.Exam{
		ID:        primitive.NewObjectID(),
		Title:     "Midterm",
		Questions: []models.Question{q1, q2},
	}
	schedule := &models.ExamSchedule{
		ID:    primitive.NewObjectID(),
		Exam:  exam.ID,
		Title: "Midterm - Section A",
	}
	started := primitive.NewDateTimeFromTime(time.Date(2023, 5, 2, 14, 0, 0, 0, time.UTC))
	attempts := []models.AttemptWStudent{
		{
			ID:        primitive.NewObjectID(),
			Student:   models.SimpleUser{FirstName: "Ana", LastName: "Perez", Username: "ana"},
			Status:    models.ATTEMPT_SUBMITTED,
			StartedAt: started,
			Answers: []models.Answer{
				{Question: q1.ID, Choices: []int{1}, Points: ptr(2)},
				{Question: q2.ID, Text: "From 8 to 18"},
			},
			Score:    2,
			MaxScore: 5,
		},
		{
			ID:        primitive.NewObjectID(),
			Student:   models.SimpleUser{FirstName: "Luis", LastName: "Soto", Username: "luis"},
			Status:    models.ATTEMPT_GRADED,
			StartedAt: started,
			Answers: []models.Answer{
				{Question: q1.ID, Choices: []int{0}, Points: ptr(0)},
				{Question: q2.ID, Text: "Always", Points: ptr(1.5), Feedback: "Incomplete"},
			},
			Score:      1.5,
			MaxScore:   5,
			Percentage: 30,
			Grade:      30,
		},
	}
	return schedule, exam, attempts
}

func TestBuildResultsWorkbook(t *testing.T) {
	_, exam, attempts := exportFixture()

	file, err := BuildResultsWorkbook(exam, attempts)
	require.NoError(t, err)

	cell := func(axis string) string {
		value, err := file.GetCellValue(RESULTS_SHEET, axis)
		require.NoError(t, err)
		return value
	}
	assert.Equal(t, "Student", cell("A1"))
	assert.Equal(t, "Q1 (2)", cell("H1"))
	assert.Equal(t, "Q2 (3)", cell("I1"))
	assert.Equal(t, "Ana Perez", cell("A2"))
	assert.Equal(t, "submitted", cell("C2"))
	assert.Equal(t, "2", cell("H2"))
	assert.Equal(t, "", cell("I2"))
	assert.Equal(t, "Luis Soto", cell("A3"))
	assert.Equal(t, "1.5", cell("I3"))
}

func TestWriteAttemptPDF(t *testing.T) {
	schedule, exam, attempts := exportFixture()

	var buf bytes.Buffer
	require.NoError(t, WriteAttemptPDF(&buf, schedule, exam, &attempts[1], true))
	assert.True(t, bytes.HasPrefix(buf.Bytes(), []byte("%PDF-")))
}

func TestWriteReportsZip(t *testing.T) {
	schedule, exam, attempts := exportFixture()

	var buf bytes.Buffer
	require.NoError(t, WriteReportsZip(&buf, schedule, exam, attempts))

	reader, err := zip.NewReader(bytes.NewReader(buf.Bytes()), int64(buf.Len()))
	require.NoError(t, err)
	require.Len(t, reader.File, 2)
	assert.Equal(t, "ana.pdf", reader.File[0].Name)
	assert.Equal(t, "luis.pdf", reader.File[1].Name)
}

func TestAnswerText(t *testing.T) {
	_, exam, attempts := exportFixture()

	assert.Equal(t, "4", answerText(&exam.Questions[0], attempts[0].GetAnswer(exam.Questions[0].ID)))
	assert.Equal(t, "From 8 to 18", answerText(&exam.Questions[1], attempts[0].GetAnswer(exam.Questions[1].ID)))
	assert.Equal(t, "(no answer)", answerText(&exam.Questions[0], nil))
}
