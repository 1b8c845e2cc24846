package mail

import (
	"fmt"
	"net/mail"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestMessageChecks(t *testing.T) {
	tests := []struct {
		name          string
		msg           Message
		hasRecipients bool
		hasContent    bool
	}{
		{name: "empty", msg: Message{}},
		{
			name:          "text only",
			msg:           Message{To: []mail.Address{{Address: "a@b.c"}}, Text: "hi"},
			hasRecipients: true,
			hasContent:    true,
		},
		{
			name:          "blank body",
			msg:           Message{To: []mail.Address{{Address: "a@b.c"}}, Text: "   "},
			hasRecipients: true,
		},
		{
			name:       "html without recipients",
			msg:        Message{HTML: "<p>hi</p>"},
			hasContent: true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.hasRecipients, tt.msg.HasRecipients())
			assert.Equal(t, tt.hasContent, tt.msg.HasContent())
		})
	}
}

func TestSendgridPrepare(t *testing.T) {
	s := NewSendgridMailer()
	m := s.prepare(&Message{
		To:      []mail.Address{{Name: "Ana", Address: "ana@xams.local"}},
		Subject: "Results",
		Text:    "Your results are ready",
	})

	assert.Len(t, m.Personalizations, 1)
	assert.Equal(t, "["+settingsData.APP_NAME+"] Results", m.Personalizations[0].Subject)
	assert.Equal(t, "ana@xams.local", m.Personalizations[0].To[0].Address)
	assert.Len(t, m.Content, 1)
	assert.Equal(t, "text/plain", m.Content[0].Type)
}

func TestSendgridBoundsInFlight(t *testing.T) {
	var inFlight, maxInFlight, delivered int32
	var mu sync.Mutex
	s := NewSendgridMailer()
	s.deliver = func(msg *Message) {
		current := atomic.AddInt32(&inFlight, 1)
		mu.Lock()
		if current > maxInFlight {
			maxInFlight = current
		}
		mu.Unlock()
		time.Sleep(5 * time.Millisecond)
		atomic.AddInt32(&inFlight, -1)
		atomic.AddInt32(&delivered, 1)
	}

	messages := make([]*Message, 0, 42)
	for i := 0; i < 40; i++ {
		messages = append(messages, &Message{
			To:   []mail.Address{{Address: fmt.Sprintf("student%d@xams.local", i)}},
			Text: "Your results are ready",
		})
	}
	// Skipped before delivery
	messages = append(messages, nil, &Message{Text: "nobody"})

	s.sendAll(messages)
	assert.Equal(t, int32(40), delivered)
	assert.LessOrEqual(t, maxInFlight, int32(MAX_SENDS_IN_FLIGHT))
	assert.Greater(t, maxInFlight, int32(0))
}
