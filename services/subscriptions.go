package services

import (
	"fmt"

	"github.com/CPU-commits/Intranet_BXams/logger"
	natsPackage "github.com/nats-io/nats.go"
	"go.uber.org/zap"
)

const (
	CLOSE_ATTEMPT_SUBJECT = "close_exam_attempt"
	SUBSCRIPTIONS_QUEUE   = "xams_feed"
)

func closeExamAttempt(m *natsPackage.Msg) {
	payload, err := nats.DecodeDataNest(m.Data)
	if err != nil {
		logger.ReportError(err, zap.String("subject", m.Subject))
		return
	}
	idAttempt, ok := payload["attempt"].(string)
	if !ok {
		logger.ReportError(
			fmt.Errorf("payload without attempt"),
			zap.String("subject", m.Subject),
		)
		return
	}
	if err := NewAttemptsService().CloseExpiredAttempt(idAttempt); err != nil {
		logger.ReportError(
			err,
			zap.String("subject", m.Subject),
			zap.String("attempt", idAttempt),
		)
	}
}

// InitSubscriptions listens to the messages sent by other services. Feed
// replicas share a queue group so each message is handled once.
func InitSubscriptions() error {
	_, err := nats.QueueSubscribe(CLOSE_ATTEMPT_SUBJECT, SUBSCRIPTIONS_QUEUE, closeExamAttempt)
	return err
}
