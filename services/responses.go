package services

import (
	"github.com/CPU-commits/Intranet_BXams/models"
)

// AttemptView is an attempt with its questions in presentation order. The
// full exam, answer key included, only goes to the course owner.
type AttemptView struct {
	Attempt   *models.ExamAttempt      `json:"attempt"`
	Questions []models.StudentQuestion `json:"questions"`
	Exam      *models.Exam             `json:"exam,omitempty" extensions:"x-omitempty"`
}
