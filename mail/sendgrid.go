package mail

import (
	"fmt"
	"net/http"
	"net/mail"

	"github.com/CPU-commits/Intranet_BXams/logger"
	"github.com/CPU-commits/Intranet_BXams/res"
	"github.com/CPU-commits/Intranet_BXams/utils"
	"github.com/sendgrid/sendgrid-go"
	sgmail "github.com/sendgrid/sendgrid-go/helpers/mail"
	"go.uber.org/zap"
)

var (
	host     = "https://api.sendgrid.com"
	endpoint = "/v3/mail/send"
)

// MAX_SENDS_IN_FLIGHT caps the concurrent requests to sendgrid
const MAX_SENDS_IN_FLIGHT = 5

type sendgridMailer struct {
	key        string
	from       *sgmail.Email
	subjPrefix string
	deliver    func(msg *Message)
}

func NewSendgridMailer() *sendgridMailer {
	s := &sendgridMailer{
		key:        settingsData.SENDGRID_API_KEY,
		from:       sgmail.NewEmail(settingsData.APP_NAME, settingsData.MAIL_FROM),
		subjPrefix: "[" + settingsData.APP_NAME + "] ",
	}
	s.deliver = s.send
	return s
}

// Send returns at once. Delivery runs in the background.
func (s *sendgridMailer) Send(messages ...*Message) {
	go s.sendAll(messages)
}

func (s *sendgridMailer) sendAll(messages []*Message) {
	pending := make([]*Message, 0, len(messages))
	for _, msg := range messages {
		if msg != nil && msg.HasRecipients() && msg.HasContent() {
			pending = append(pending, msg)
		}
	}
	utils.Concurrency(MAX_SENDS_IN_FLIGHT, len(pending), func(index int, _ func(*res.ErrorRes)) {
		s.deliver(pending[index])
	})
}

func (s *sendgridMailer) prepare(msg *Message) *sgmail.SGMailV3 {
	p := sgmail.NewPersonalization()
	p.Subject = s.subjPrefix + msg.Subject
	for _, to := range msg.To {
		p.AddTos(s.getSGEmail(to))
	}

	m := sgmail.NewV3Mail()
	m.SetFrom(s.from)
	m.AddPersonalizations(p)
	if msg.Text != "" {
		m.AddContent(sgmail.NewContent("text/plain", msg.Text))
	}
	if msg.HTML != "" {
		m.AddContent(sgmail.NewContent("text/html", msg.HTML))
	}
	return m
}

func (s *sendgridMailer) getSGEmail(addr mail.Address) *sgmail.Email {
	return sgmail.NewEmail(addr.Name, addr.Address)
}

func (s *sendgridMailer) send(msg *Message) {
	req := sendgrid.GetRequest(s.key, endpoint, host)
	req.Method = http.MethodPost
	req.Body = sgmail.GetRequestBody(s.prepare(msg))

	response, err := sendgrid.API(req)
	if err != nil {
		logger.ReportError(fmt.Errorf("sending email: %w", err))
	} else if response.StatusCode >= http.StatusBadRequest {
		logger.ReportError(
			fmt.Errorf("sending email: status %d", response.StatusCode),
			zap.String("body", response.Body),
		)
	}
}
