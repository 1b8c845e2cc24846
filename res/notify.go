package res

import "time"

const (
	ATTEMPT_STARTED   = "started"
	ATTEMPT_ANSWERED  = "answered"
	ATTEMPT_SUBMITTED = "submitted"
	ATTEMPT_GRADED    = "graded"
)

// AttemptEvent travels on the xams.attempt subject
type AttemptEvent struct {
	Type     string    `json:"type"`
	Schedule string    `json:"schedule"`
	Attempt  string    `json:"attempt"`
	Student  string    `json:"student"`
	Question string    `json:"question,omitempty"`
	Answered int       `json:"answered"`
	Date     time.Time `json:"date"`
}

type NotifyResults struct {
	Title    string   `json:"title"`
	Link     string   `json:"link"`
	Course   string   `json:"course"`
	Students []string `json:"students"`
}
