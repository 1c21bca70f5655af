package mailer

import "strings"

// EmailJob is the queue payload. A job is either templated (Template and
// Data) or pre-rendered (Subject plus Text or HTML).
type EmailJob struct {
	To       string         `json:"to"`
	Subject  string         `json:"subject,omitempty"`
	Text     string         `json:"text,omitempty"`
	HTML     string         `json:"html,omitempty"`
	Template string         `json:"template,omitempty"`
	Data     map[string]any `json:"data,omitempty"`
}

func (j *EmailJob) Templated() bool { return j.Template != "" }

// normalize trims the recipient and reports whether the job is sendable as-is.
func (j *EmailJob) normalize() error {
	j.To = strings.TrimSpace(j.To)
	if j.To == "" {
		return ErrBadJob
	}
	if !j.Templated() && (j.Subject == "" || (j.Text == "" && j.HTML == "")) {
		return ErrBadJob
	}
	return nil
}
