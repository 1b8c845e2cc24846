package mail

import (
	"github.com/CPU-commits/Intranet_BXams/logger"
	"go.uber.org/zap"
)

type consoleMailer struct{}

func NewConsoleMailer() *consoleMailer {
	return &consoleMailer{}
}

func (c *consoleMailer) Send(messages ...*Message) {
	for _, msg := range messages {
		if !msg.HasRecipients() {
			continue
		}
		to := make([]string, 0, len(msg.To))
		for _, addr := range msg.To {
			to = append(to, addr.String())
		}
		logger.Get().Info(
			"email",
			zap.Strings("to", to),
			zap.String("subject", msg.Subject),
			zap.String("text", msg.Text),
		)
	}
}
