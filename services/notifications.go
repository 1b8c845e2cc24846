package services

import (
	"time"

	"github.com/CPU-commits/Intranet_BXams/logger"
	"github.com/CPU-commits/Intranet_BXams/models"
	"github.com/CPU-commits/Intranet_BXams/res"
	"go.uber.org/zap"
)

const (
	ATTEMPT_SUBJECT = "xams.attempt"
	NOTIFY_SUBJECT  = "xams.notify"
)

func countAnswered(attempt *models.ExamAttempt) int {
	answered := 0
	for _, answer := range attempt.Answers {
		if len(answer.Choices) > 0 || answer.Text != "" {
			answered++
		}
	}
	return answered
}

// publishAttemptEvent feeds the live monitor. A broker failure never fails
// the request.
func publishAttemptEvent(eventType string, attempt *models.ExamAttempt, question string) {
	event := res.AttemptEvent{
		Type:     eventType,
		Schedule: attempt.Schedule.Hex(),
		Attempt:  attempt.ID.Hex(),
		Student:  attempt.Student.Hex(),
		Question: question,
		Answered: countAnswered(attempt),
		Date:     time.Now(),
	}
	if err := nats.PublishEncode(ATTEMPT_SUBJECT, event); err != nil {
		logger.ReportError(
			err,
			zap.String("subject", ATTEMPT_SUBJECT),
			zap.String("attempt", event.Attempt),
		)
	}
}

func publishResultsNotification(schedule *models.ExamSchedule, students []string) {
	data, err := formatRequestToNestjsNats(&res.NotifyResults{
		Title:    schedule.Title,
		Link:     settingsData.CLIENT_URL + "/exams/" + schedule.ID.Hex(),
		Course:   schedule.Course.Hex(),
		Students: students,
	})
	if err == nil {
		err = nats.Publish(NOTIFY_SUBJECT, data)
	}
	if err != nil {
		logger.ReportError(
			err,
			zap.String("subject", NOTIFY_SUBJECT),
			zap.String("schedule", schedule.ID.Hex()),
		)
	}
}
