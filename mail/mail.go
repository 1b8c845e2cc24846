package mail

import (
	"net/mail"
	"strings"

	"github.com/CPU-commits/Intranet_BXams/settings"
)

var settingsData = settings.GetSettings()

type Message struct {
	To      []mail.Address
	Subject string
	Text    string
	HTML    string
}

func (m *Message) HasRecipients() bool {
	return len(m.To) > 0
}

func (m *Message) HasContent() bool {
	return strings.TrimSpace(m.Text) != "" || strings.TrimSpace(m.HTML) != ""
}

type Mailer interface {
	Send(messages ...*Message)
}

// NewMailer picks sendgrid when an API key is configured, the console
// mailer otherwise.
func NewMailer() Mailer {
	if settingsData.SENDGRID_API_KEY != "" {
		return NewSendgridMailer()
	}
	return NewConsoleMailer()
}
